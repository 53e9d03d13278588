package core

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// StoreOption defines a functional option for configuring a Store.
type StoreOption func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the time source (useful for testing).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the note ID generator (useful for testing).
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithSketches shares a SketchStore with editing sessions.
func WithSketches(sketches *SketchStore) StoreOption {
	return func(s *Store) {
		if sketches != nil {
			s.sketches = sketches
		}
	}
}

// WithEventBuffer sets the per-subscriber buffer of Watch channels.
// Zero means default (100).
func WithEventBuffer(size int) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.broker.buffer = size
		}
	}
}

// WithReadOnly makes every mutation return ErrReadOnly.
func WithReadOnly(enabled bool) StoreOption {
	return func(s *Store) {
		s.readOnly = enabled
	}
}

func defaultStore(repo Repository) *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Store{
		repo:     repo,
		byID:     make(map[string]int),
		index:    newTagIndex(),
		sketches: NewSketchStore(),
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		broker:   newBroker(100, logger),
	}
}
