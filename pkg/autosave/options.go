package autosave

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/minddump/pkg/core"
)

// DefaultWindow is the quiet period after the last edit before a commit.
const DefaultWindow = 1500 * time.Millisecond

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc satisfies it.
type Scheduler func(d time.Duration, f func()) Timer

func realScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option defines a functional option for configuring a Coordinator.
type Option func(*Coordinator)

// WithWindow sets the debounce window. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithScheduler replaces the timer source (useful for testing).
func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) {
		if s != nil {
			c.schedule = s
		}
	}
}

// WithLogger sets the logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSketches stages draft drawings in the given store instead of on the note.
// It should be the same SketchStore the committing Store promotes from.
func WithSketches(s *core.SketchStore) Option {
	return func(c *Coordinator) {
		c.sketches = s
	}
}

// WithErrorHandler receives errors of background commits.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.onError = fn
		}
	}
}

func defaultCoordinator() *Coordinator {
	return &Coordinator{
		window:   DefaultWindow,
		schedule: realScheduler,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		onError:  func(error) {},
	}
}
