package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventReload EventType = "RELOAD" // The collection was re-read from storage.
)

// Event represents a committed change in the store.
type Event struct {
	Type      EventType
	ID        string // Empty for EventReload and bulk deletes.
	Timestamp time.Time
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// ChangeReasonKey is the context key for passing a change reason (commit
// message) down to versioned repositories.
type contextKey string

const ChangeReasonKey contextKey = "change_reason"
