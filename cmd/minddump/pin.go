package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin [id]",
	Short: "Toggle the pinned flag of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		n, err := store.TogglePinned(commandContext(cmd), mustResolveID(store, args[0]))
		if err != nil {
			fatal("Error pinning note", err)
		}
		if n.Pinned {
			fmt.Printf("Note pinned: %s\n", n.ID)
			return
		}
		fmt.Printf("Note unpinned: %s\n", n.ID)
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
}
