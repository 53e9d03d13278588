package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/minddump/pkg/adapters/fs"
	mdlifecycle "github.com/aretw0/minddump/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print note changes as they happen",
	Long: `Watch follows the notes document. When another process rewrites it the
collection is reloaded, and every committed change is printed until interrupted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		repo, ok := store.Repository().(*fs.Repository)
		if !ok {
			fatal("Error", fmt.Errorf("watch requires the fs adapter"))
		}
		reloads, err := repo.Watch(ctx)
		if err != nil {
			fatal("Error starting watcher", err)
		}

		source := mdlifecycle.NewSource(store)
		if err := source.Start(ctx); err != nil {
			fatal("Error subscribing to changes", err)
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", repo.DocumentPath())
		eventColor := color.New(color.FgCyan)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-reloads:
				if !ok {
					return
				}
				if _, err := store.Reload(ctx); err != nil {
					slog.Warn("reload failed", "error", err)
				}
			case e, ok := <-source.Events():
				if !ok {
					return
				}
				fmt.Println(eventColor.Sprint(e.String()))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
