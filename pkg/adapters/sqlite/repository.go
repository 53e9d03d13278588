// Package sqlite stores the note collection in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/minddump/pkg/core"

	_ "modernc.org/sqlite"
)

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path     string // database file, or ":memory:"
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository on a single "notes" table.
// Every Save rewrites the table inside one transaction.
type Repository struct {
	db     *sql.DB
	config Config
	logger *slog.Logger
}

// NewRepository opens (or creates) the database at cfg.Path.
func NewRepository(cfg Config) (*Repository, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sqlite")

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.Path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	return &Repository{db: db, config: cfg, logger: logger}, nil
}

// Initialize creates the schema if it doesn't exist.
func (r *Repository) Initialize(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			color TEXT NOT NULL,
			type TEXT NOT NULL,
			is_pinned INTEGER NOT NULL DEFAULT 0,
			tags TEXT NOT NULL DEFAULT '[]',
			sketch_payload BLOB,
			created_date TEXT NOT NULL,
			last_edited_date TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_notes_position ON notes(position);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	r.logger.Debug("sqlite schema ready", "path", r.config.Path)
	return nil
}

// Load returns every note in stored order.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, color, type, is_pinned, tags, sketch_payload, created_date, last_edited_date
		FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		var (
			rec             core.Record
			pinned          int
			tags            string
			payload         []byte
			created, edited string
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Content, &rec.Color, &rec.Type, &pinned, &tags, &payload, &created, &edited); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		rec.IsPinned = pinned != 0
		if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
			return nil, fmt.Errorf("note %s: decoding tags: %w", rec.ID, err)
		}
		if rec.CreatedDate, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("note %s: parsing created date: %w", rec.ID, err)
		}
		if rec.LastEditedDate, err = time.Parse(time.RFC3339Nano, edited); err != nil {
			return nil, fmt.Errorf("note %s: parsing edited date: %w", rec.ID, err)
		}

		n, err := rec.Note()
		if err != nil {
			return nil, fmt.Errorf("note %s: %w", rec.ID, err)
		}
		if payload != nil {
			n.SketchPayload = payload
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

// Save replaces the table content in a single transaction.
func (r *Repository) Save(ctx context.Context, notes []core.Note) (err error) {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("clearing notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notes (id, position, title, content, color, type, is_pinned, tags, sketch_payload, created_date, last_edited_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		encoded, jerr := json.Marshal(tags)
		if jerr != nil {
			err = jerr
			return fmt.Errorf("encoding tags of %s: %w", n.ID, err)
		}
		pinned := 0
		if n.Pinned {
			pinned = 1
		}
		if _, err = stmt.ExecContext(ctx,
			n.ID, i, n.Title, n.Content, string(n.Color), string(n.Type), pinned, string(encoded), n.SketchPayload,
			n.CreatedAt.UTC().Format(time.RFC3339Nano), n.LastEditedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("inserting note %s: %w", n.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	Open     int    `json:"open_connections"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	return RepositoryState{
		Path:     r.config.Path,
		ReadOnly: r.config.ReadOnly,
		Open:     r.db.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite-repository"
}

var (
	_ core.Repository              = (*Repository)(nil)
	_ core.Closer                  = (*Repository)(nil)
	_ introspection.Introspectable = (*Repository)(nil)
	_ introspection.Component      = (*Repository)(nil)
)
