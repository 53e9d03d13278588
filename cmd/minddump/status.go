package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/minddump/pkg/adapters/fs"
)

var statusHistory int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the store and its storage",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()

		out := map[string]any{
			store.ComponentType(): store.State(),
		}
		repo := store.Repository()
		if c, ok := repo.(interface {
			introspection.Introspectable
			introspection.Component
		}); ok {
			out[c.ComponentType()] = c.State()
		}
		if fsRepo, ok := repo.(*fs.Repository); ok && statusHistory > 0 {
			history, err := fsRepo.History(statusHistory)
			if err != nil {
				fatal("Error reading history", err)
			}
			out["history"] = history
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding status: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusHistory, "history", 5, "Number of document versions to show (fs adapter with Git)")
}
