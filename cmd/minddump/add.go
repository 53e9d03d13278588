package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/minddump/pkg/core"
)

var (
	addType    string
	addColor   string
	addTitle   string
	addContent string
	addTags    []string
	addPin     bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new note",
	Long: `Add creates a note. The body comes from --content or, when omitted, from stdin.
For bullet notes each line is one bullet. Sketch notes read the drawing payload from stdin.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		noteType, err := core.ParseNoteType(addType)
		if err != nil {
			fatal("Error", err)
		}
		color, err := core.ParseColor(addColor)
		if err != nil {
			fatal("Error", err)
		}

		store := mustOpenStore()
		n := store.CreateNewNote(noteType)
		n.Title = addTitle
		n.Color = color
		n.Tags = addTags
		n.Pinned = addPin

		body := addContent
		if !cmd.Flags().Changed("content") && stdinPiped() {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Error reading stdin", err)
			}
			if noteType == core.TypeSketch {
				n.SketchPayload = data
			} else {
				body = string(data)
			}
		}
		n.Content = body

		if n.IsBlank() {
			fatal("Error", fmt.Errorf("note is empty"))
		}

		saved, err := store.AddNote(commandContext(cmd), n)
		if err != nil {
			fatal("Error adding note", err)
		}
		fmt.Printf("Note added: %s\n", saved.ID)
	},
}

func stdinPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addType, "type", "t", string(core.TypeBasic), "Note type: basic, bullets, markdown or sketch")
	addCmd.Flags().StringVar(&addColor, "color", string(core.DefaultColor), "Note color")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note body")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "Tag (repeatable)")
	addCmd.Flags().BoolVar(&addPin, "pin", false, "Pin the note")
}
