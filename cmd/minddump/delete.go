package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteAllYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note and its drawing, if any.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		id := mustResolveID(store, args[0])
		if err := store.DeleteNote(commandContext(cmd), id); err != nil {
			fatal("Error deleting note", err)
		}
		fmt.Printf("Note deleted: %s\n", id)
	},
}

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !deleteAllYes {
			color.Red("Refusing to delete all notes without --yes")
			return
		}
		store := mustOpenStore()
		count := store.Len()
		if err := store.DeleteAllNotes(commandContext(cmd)); err != nil {
			fatal("Error deleting notes", err)
		}
		fmt.Printf("Deleted %d notes\n", count)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deleteAllCmd)
	deleteAllCmd.Flags().BoolVar(&deleteAllYes, "yes", false, "Confirm deleting every note")
}
