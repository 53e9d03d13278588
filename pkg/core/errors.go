package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound    = errors.New("note not found")
	ErrDuplicateID = errors.New("note id already exists")
	ErrReadOnly    = errors.New("store is in read-only mode")
)

// ValidationError reports invalid user input. It is raised before any
// state changes.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// PersistenceError reports a failed durable write or read.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ImportError reports a backup document that could not be imported.
// No notes are added when it is returned.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
	}
	return "import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
