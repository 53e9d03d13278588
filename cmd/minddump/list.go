package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/minddump/pkg/core"
	"github.com/aretw0/minddump/pkg/render"
)

var (
	listJSON   bool
	listTag    string
	listMatch  string
	listPinned bool
	listSort   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long:  `List prints notes, pinned first, most recently edited first unless --sort says otherwise.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := core.ParseSortKey(listSort)
		if err != nil {
			fatal("Error", err)
		}

		store := mustOpenStore()

		var notes []core.Note
		switch {
		case listMatch != "":
			notes, err = store.NotesMatchingTag(listMatch)
			if err != nil {
				fatal("Error", err)
			}
		case listTag != "":
			notes = store.NotesByTag(listTag)
		case listPinned:
			notes = store.PinnedNotes()
		default:
			notes = store.Notes()
		}

		core.Sort(notes, key)
		core.PinnedFirst(notes)
		printNotes(notes, listJSON)
	},
}

func printNotes(notes []core.Note, asJSON bool) {
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(core.ToRecords(notes)); err != nil {
			fatal("Error encoding JSON", err)
		}
		return
	}

	if len(notes) == 0 {
		fmt.Println("No notes.")
		return
	}

	idColor := color.New(color.FgCyan)
	pinColor := color.New(color.FgYellow, color.Bold)
	tagColor := color.New(color.FgGreen)
	for _, n := range notes {
		pin := " "
		if n.Pinned {
			pin = pinColor.Sprint("*")
		}
		title := n.Title
		if title == "" {
			title = render.Preview(n, 60)
		}
		line := fmt.Sprintf("%s %s [%s] %s", pin, idColor.Sprint(shortID(n.ID)), n.Type, title)
		if len(n.Tags) > 0 {
			line += " " + tagColor.Sprint("#"+strings.Join(n.Tags, " #"))
		}
		fmt.Println(line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter notes by tag")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Filter notes by tag glob (e.g. 'work/**')")
	listCmd.Flags().BoolVar(&listPinned, "pinned", false, "Only pinned notes")
	listCmd.Flags().StringVar(&listSort, "sort", string(core.SortLastEdited), "Sort by edited, created or title")
}
