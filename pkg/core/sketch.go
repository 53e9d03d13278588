package core

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
)

// NewDraftID returns a locally generated identifier for an editing session
// whose note has not been saved yet.
func NewDraftID() string {
	return "draft-" + uuid.NewString()
}

// SketchStore holds drawing payloads produced by the drawing-input component.
//
// Payloads of saved notes live on the Note record. Payloads of drafts are
// staged per draft session until the note gets its permanent ID, so two
// drafts never overwrite each other.
type SketchStore struct {
	mu     sync.Mutex
	staged map[string][]byte // draft ID -> payload
}

// NewSketchStore creates an empty sketch store.
func NewSketchStore() *SketchStore {
	return &SketchStore{staged: make(map[string][]byte)}
}

// Stage stores the payload for a draft session, replacing any previous one.
// An empty payload clears the slot.
func (s *SketchStore) Stage(draftID string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(payload) == 0 {
		delete(s.staged, draftID)
		return
	}
	s.staged[draftID] = bytes.Clone(payload)
}

// Staged returns a copy of the payload staged for a draft session.
func (s *SketchStore) Staged(draftID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.staged[draftID]
	if !ok {
		return nil, false
	}
	return bytes.Clone(p), true
}

// Promote takes the staged payload out of its slot.
func (s *SketchStore) Promote(draftID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.staged[draftID]
	if ok {
		delete(s.staged, draftID)
	}
	return p, ok
}

// Discard drops the payload staged for a draft session, if any.
func (s *SketchStore) Discard(draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, draftID)
}

// ReleaseAll drops every staged payload and returns how many were released.
func (s *SketchStore) ReleaseAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.staged)
	s.staged = make(map[string][]byte)
	return n
}

// Len returns the number of staged payloads.
func (s *SketchStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

// Attach sets the payload directly on a note record.
func (s *SketchStore) Attach(n *Note, payload []byte) error {
	if n.Type != TypeSketch {
		return &ValidationError{Field: "sketchPayload", Reason: "only sketch notes carry a drawing"}
	}
	if len(payload) == 0 {
		n.SketchPayload = nil
		return nil
	}
	n.SketchPayload = bytes.Clone(payload)
	return nil
}

// Detach releases the payload held by a note record.
func (s *SketchStore) Detach(n *Note) {
	n.SketchPayload = nil
}
