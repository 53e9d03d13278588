package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		for _, tag := range store.AllTags() {
			fmt.Printf("%s (%d)\n", tag, len(store.NotesByTag(tag)))
		}
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add [tag] [id]",
	Short: "Add a tag to a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		id := mustResolveID(store, args[1])
		if err := store.AddTag(commandContext(cmd), args[0], id); err != nil {
			fatal("Error tagging note", err)
		}
		fmt.Printf("Tagged %s\n", id)
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove [tag] [id]",
	Short: "Remove a tag from a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		id := mustResolveID(store, args[1])
		if err := store.RemoveTag(commandContext(cmd), args[0], id); err != nil {
			fatal("Error untagging note", err)
		}
		fmt.Printf("Untagged %s\n", id)
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a tag on every note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		count, err := store.RenameTag(commandContext(cmd), args[0], args[1])
		if err != nil {
			fatal("Error renaming tag", err)
		}
		fmt.Printf("Renamed tag on %d notes\n", count)
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete [tag]",
	Short: "Remove a tag from every note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		count, err := store.DeleteTag(commandContext(cmd), args[0])
		if err != nil {
			fatal("Error deleting tag", err)
		}
		fmt.Printf("Removed tag from %d notes\n", count)
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagListCmd, tagAddCmd, tagRemoveCmd, tagRenameCmd, tagDeleteCmd)
}
