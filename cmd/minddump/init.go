package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the notes storage",
	Long:  `Init creates the data directory (or SQLite file) and, unless --nover is set, a Git repository for the notes document.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openStore(true)
		if err != nil {
			fatal("Error initializing notes", err)
		}
		path, _ := resolveData()
		fmt.Printf("Notes ready at %s (%d notes)\n", path, store.Len())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
