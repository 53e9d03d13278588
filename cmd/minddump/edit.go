package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/minddump"
	"github.com/aretw0/minddump/pkg/autosave"
	"github.com/aretw0/minddump/pkg/core"
)

var (
	editType  string
	editTitle string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a note line by line from stdin with autosave",
	Long: `Edit opens an editing session. Every line read from stdin is appended to the
note body and the session saves once typing pauses for the autosave window.
Without an id a new draft is started; an empty draft is never saved.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		window, err := cfg.AutosaveWindow()
		if err != nil {
			fatal("Error", err)
		}

		store := mustOpenStore()

		var n core.Note
		if len(args) == 1 {
			n, err = store.Get(mustResolveID(store, args[0]))
			if err != nil {
				fatal("Error reading note", err)
			}
		} else {
			noteType, err := core.ParseNoteType(editType)
			if err != nil {
				fatal("Error", err)
			}
			n = store.CreateNewNote(noteType)
		}

		opts := []autosave.Option{
			autosave.WithLogger(slog.Default()),
			autosave.WithErrorHandler(func(err error) {
				slog.Warn("autosave failed, will retry on next edit", "error", err)
			}),
		}
		if window > 0 {
			opts = append(opts, autosave.WithWindow(window))
		}
		session := minddump.Edit(store, n, opts...)

		if editTitle != "" {
			if err := session.SetTitle(editTitle); err != nil {
				fatal("Error", err)
			}
		}

		var body strings.Builder
		body.WriteString(n.Content)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if body.Len() > 0 {
				body.WriteByte('\n')
			}
			body.WriteString(scanner.Text())
			if err := session.SetContent(body.String()); err != nil {
				fatal("Error", err)
			}
		}
		if err := scanner.Err(); err != nil {
			fatal("Error reading stdin", err)
		}

		if err := session.Close(commandContext(cmd)); err != nil {
			fatal("Error saving note", err)
		}

		saved := session.Note()
		if saved.ID == "" {
			fmt.Println("Nothing to save.")
			return
		}
		fmt.Printf("Note saved: %s\n", saved.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editType, "type", "t", string(core.TypeBasic), "Type of a new note")
	editCmd.Flags().StringVar(&editTitle, "title", "", "Set the note title")
}
