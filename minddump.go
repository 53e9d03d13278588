package minddump

import (
	"log/slog"
	"time"

	"github.com/aretw0/minddump/internal/platform"
	"github.com/aretw0/minddump/pkg/autosave"
	"github.com/aretw0/minddump/pkg/core"
)

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// Store is a public alias for the note store.
type Store = core.Store

// --- Configuration ---

// Option defines a functional option for configuring a store.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the data directory.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git versioning of the fs document.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithFormat selects the fs document format ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the store and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the hidden directory name (default ".minddump").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the per-subscriber buffer of Store.Watch.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithClock replaces the store time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithReadOnly makes every mutation fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler receives errors of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the storage at path and returns a loaded store.
func New(path string, opts ...Option) (*core.Store, error) {
	return platform.New(path, opts...)
}

// Open opens existing storage at path. It fails if nothing is there yet.
func Open(path string, opts ...Option) (*core.Store, error) {
	return platform.New(path, append(opts, platform.WithMustExist(true))...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// Edit opens an autosave session for n on store. Pass a note without ID to
// start a draft.
func Edit(store *core.Store, n core.Note, opts ...autosave.Option) *autosave.Coordinator {
	opts = append([]autosave.Option{autosave.WithSketches(store.Sketches())}, opts...)
	return autosave.New(store, n, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the directory actually used, applying dev safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a notes data directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// --- Change Reasons ---

const (
	CommitTypeFeat     = platform.CommitTypeFeat
	CommitTypeFix      = platform.CommitTypeFix
	CommitTypeDocs     = platform.CommitTypeDocs
	CommitTypeRefactor = platform.CommitTypeRefactor
	CommitTypeChore    = platform.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message for versioned storage.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}
