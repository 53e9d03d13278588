package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/minddump/pkg/adapters/fs"
	"github.com/aretw0/minddump/pkg/core"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	filePrefix = "mind_dump_notes_"
	fileSuffix = ".json"
)

// DefaultFilename returns the conventional backup file name for a day,
// e.g. mind_dump_notes_2024-03-01.json.
func DefaultFilename(t time.Time) string {
	return filePrefix + t.Format(time.DateOnly) + fileSuffix
}

// WriteFile exports src into dir under the default name for now and returns
// the written path. An existing backup of the same day is replaced.
func WriteFile(ctx context.Context, src Source, dir string, now time.Time) (string, error) {
	data, err := Export(ctx, src, now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}
	path := filepath.Join(dir, DefaultFilename(now))
	if err := fs.WriteFileAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// ReadFile imports the backup at path into dst.
func ReadFile(ctx context.Context, dst Target, path string) ([]core.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.ImportError{Reason: "cannot read file", Err: err}
	}
	return Import(ctx, dst, data)
}

// List returns the backups found in dir, newest first.
func List(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), filePrefix+"*"+fileSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	// Names embed an ISO date, so lexical order is chronological.
	slices.SortFunc(matches, func(a, b string) int { return strings.Compare(b, a) })

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, m)
	}
	return out, nil
}
