package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/minddump"
	"github.com/aretw0/minddump/internal/config"
	"github.com/aretw0/minddump/pkg/core"
)

var (
	verbose    bool
	configPath string
	dataPath   string
	adapter    string
	format     string
	nover      bool
	message    string

	cfg = &config.Config{}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minddump",
	Short: "Capture notes, bullet lists and sketches from the terminal",
	Long: `MindDump keeps quick notes in a single local document (JSON or YAML,
optionally versioned with Git) or in SQLite. Notes are tagged, pinned,
searched and backed up as a portable JSON file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		slog.SetDefault(newLogger())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: minddump.yaml or minddump.toml in the working directory)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Data directory (or SQLite file)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs or sqlite")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Document format for the fs adapter: json or yaml")
	rootCmd.PersistentFlags().BoolVar(&nover, "nover", false, "Disable Git versioning of the notes document")
	rootCmd.PersistentFlags().StringVarP(&message, "message", "m", "", "Change reason recorded with versioned writes")
}

func loadConfig() error {
	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		path = config.Discover(wd)
	}
	if path == "" {
		return nil
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil || cfg.Log.Level == "" {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// commandContext carries the --message change reason, if any.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if message == "" {
		return ctx
	}
	reason := minddump.FormatChangeReason(minddump.CommitTypeDocs, "notes", message, "")
	return context.WithValue(ctx, core.ChangeReasonKey, reason)
}
