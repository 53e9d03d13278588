package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/minddump/pkg/backup"
)

var (
	exportDir string
	exportS3  bool
	importS3  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every note to a backup file",
	Long: `Export writes mind_dump_notes_YYYY-MM-DD.json to --dir (default: backup.dir
from the config, or the working directory). With --s3 the document is uploaded
to the configured bucket instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		ctx := commandContext(cmd)
		now := time.Now()

		if exportS3 {
			sink := mustS3Sink(ctx)
			data, err := backup.Export(ctx, store, now)
			if err != nil {
				fatal("Error exporting notes", err)
			}
			name := backup.DefaultFilename(now)
			if err := sink.Upload(ctx, name, data); err != nil {
				fatal("Error uploading backup", err)
			}
			fmt.Printf("Exported %d notes to s3://%s/%s\n", store.Len(), cfg.Backup.S3.Bucket, name)
			return
		}

		path, err := backup.WriteFile(ctx, store, backupDir(), now)
		if err != nil {
			fatal("Error exporting notes", err)
		}
		fmt.Printf("Exported %d notes to %s\n", store.Len(), path)
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import notes from a backup file",
	Long: `Import adds the notes of a backup document with fresh ids. Nothing is
imported when the document is malformed. With --s3 the argument is an object
name in the configured bucket.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		ctx := commandContext(cmd)

		if importS3 {
			data, err := mustS3Sink(ctx).Download(ctx, args[0])
			if err != nil {
				fatal("Error downloading backup", err)
			}
			added, err := backup.Import(ctx, store, data)
			if err != nil {
				fatal("Error importing notes", err)
			}
			fmt.Printf("Imported %d notes\n", len(added))
			return
		}

		added, err := backup.ReadFile(ctx, store, args[0])
		if err != nil {
			fatal("Error importing notes", err)
		}
		fmt.Printf("Imported %d notes\n", len(added))
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backup files, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		files, err := backup.List(backupDir())
		if err != nil {
			fatal("Error listing backups", err)
		}
		for _, path := range files {
			fmt.Println(path)
		}
	},
}

func backupDir() string {
	switch {
	case exportDir != "":
		return exportDir
	case cfg.Backup.Dir != "":
		return cfg.Backup.Dir
	default:
		return "."
	}
}

func mustS3Sink(ctx context.Context) *backup.S3Sink {
	s3 := cfg.Backup.S3
	sink, err := backup.NewS3Sink(ctx, backup.S3Config{
		Endpoint:  s3.Endpoint,
		Region:    s3.Region,
		Bucket:    s3.Bucket,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		Prefix:    s3.Prefix,
	})
	if err != nil {
		fatal("Error configuring S3", err)
	}
	return sink
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd, backupsCmd)
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Backup directory")
	exportCmd.Flags().BoolVar(&exportS3, "s3", false, "Upload to the configured S3 bucket")
	importCmd.Flags().BoolVar(&importS3, "s3", false, "Download from the configured S3 bucket")
	backupsCmd.Flags().StringVar(&exportDir, "dir", "", "Backup directory")
}
