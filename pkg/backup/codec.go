// Package backup exports the note collection to a portable JSON document and
// imports such documents back.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/minddump/pkg/core"
)

// Version is the schema version written to every backup.
const Version = 1

// Document is the top-level backup object.
type Document struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Notes      []core.Record `json:"notes"`
}

// Source provides the collection to export. *core.Store satisfies it.
type Source interface {
	Notes() []core.Note
}

// Target receives imported notes. *core.Store satisfies it.
type Target interface {
	ImportNotes(ctx context.Context, notes []core.Note) ([]core.Note, error)
}

// Export serializes every note of src.
func Export(ctx context.Context, src Source, now time.Time) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := Document{
		Version:    Version,
		ExportedAt: now.UTC(),
		Notes:      core.ToRecords(src.Notes()),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a backup document without importing it.
// Any failure is reported as *core.ImportError.
func Decode(data []byte) ([]core.Note, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &core.ImportError{Reason: "empty document"}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc struct {
		Version    *int           `json:"version"`
		ExportedAt time.Time      `json:"exportedAt"`
		Notes      *[]core.Record `json:"notes"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, &core.ImportError{Reason: "malformed document", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &core.ImportError{Reason: "trailing data after document"}
	}
	// Documents without a version are read as the current one.
	if doc.Version != nil && *doc.Version != Version {
		return nil, &core.ImportError{Reason: fmt.Sprintf("unsupported version %d", *doc.Version)}
	}
	if doc.Notes == nil {
		return nil, &core.ImportError{Reason: "missing notes"}
	}

	notes, err := core.FromRecords(*doc.Notes)
	if err != nil {
		return nil, &core.ImportError{Reason: "invalid note", Err: err}
	}
	return notes, nil
}

// Import decodes data and appends its notes to dst in a single write.
// Imported notes always get fresh IDs. On any failure no note is added.
func Import(ctx context.Context, dst Target, data []byte) ([]core.Note, error) {
	notes, err := Decode(data)
	if err != nil {
		return nil, err
	}
	imported, err := dst.ImportNotes(ctx, notes)
	if err != nil {
		return nil, &core.ImportError{Reason: "store rejected notes", Err: err}
	}
	return imported, nil
}
