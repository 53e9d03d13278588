package core

import "context"

// Repository defines the contract for persisting the note collection.
// The whole collection is read at startup and rewritten on every mutation,
// so implementations only need to store one document.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g., create directories, schema).
	Initialize(ctx context.Context) error

	// Load returns the persisted collection in stored order.
	// An uninitialized or empty storage yields an empty collection.
	Load(ctx context.Context) ([]Note, error)

	// Save replaces the persisted collection. It must be atomic: on error the
	// previous document stays intact.
	Save(ctx context.Context, notes []Note) error
}

// Closer is implemented by repositories holding resources (e.g., a database handle).
type Closer interface {
	Close() error
}
