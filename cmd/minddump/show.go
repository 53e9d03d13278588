package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/minddump/pkg/render"
)

var showHTML bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		n, err := store.Get(mustResolveID(store, args[0]))
		if err != nil {
			fatal("Error reading note", err)
		}

		if showHTML {
			html, err := render.HTML(n)
			if err != nil {
				fatal("Error rendering note", err)
			}
			fmt.Print(html)
			return
		}

		header := color.New(color.FgCyan, color.Bold)
		if n.Title != "" {
			header.Println(n.Title)
		}
		fmt.Printf("id: %s  type: %s  color: %s  pinned: %t\n", n.ID, n.Type, n.Color, n.Pinned)
		if len(n.Tags) > 0 {
			fmt.Printf("tags: %s\n", strings.Join(n.Tags, ", "))
		}
		fmt.Printf("created: %s  edited: %s\n\n", n.CreatedAt.Local().Format("2006-01-02 15:04"), n.LastEditedAt.Local().Format("2006-01-02 15:04"))
		fmt.Println(render.Text(n))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Render the note as HTML")
}
