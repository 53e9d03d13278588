package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/minddump/pkg/core"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find notes whose title or body contains text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		notes := store.Search(args[0])
		core.SortByLastEdited(notes)
		printNotes(notes, searchJSON)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
