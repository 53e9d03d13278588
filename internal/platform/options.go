package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/minddump/pkg/core"
)

// options holds the internal configuration for a notes store.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	config     map[string]interface{}
	storeOpts  []core.StoreOption
}

// Option defines a functional option for configuring a notes store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

func parseOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAutoInit enables automatic initialization of the data directory
// (creates it and, when versioned, runs git init).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables git versioning of the fs document.
// When not set, versioning is on only if the data directory already is a git repository.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithFormat selects the fs document format: "json" (default) or "yaml".
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the store and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom storage adapter (e.g. a mock).
// If provided, the adapter selected by name is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default) or "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory name used by the fs adapter.
// Defaults to ".minddump".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithEventBuffer sets the per-subscriber buffer of Store.Watch.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, core.WithEventBuffer(size))
	}
}

// WithClock replaces the store time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, core.WithClock(now))
	}
}

// WithWatcherErrorHandler registers a callback for errors raised by the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Every mutation returns core.ErrReadOnly.
// 2. Initialization (mkdir, git init) is skipped.
// 3. Dev safety (go run temp dir) is bypassed, so the real data is read.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true) a temporary directory is used to prevent accidental data loss.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
