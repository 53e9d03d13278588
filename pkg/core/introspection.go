package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes           int    `json:"notes"`
	Tags            int    `json:"tags"`
	Pinned          int    `json:"pinned"`
	StagedSketches  int    `json:"staged_sketches"`
	Subscribers     int    `json:"subscribers"`
	EventBufferSize int    `json:"event_buffer_size"`
	ReadOnly        bool   `json:"read_only"`
	RepositoryType  string `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	pinned := 0
	for _, n := range s.notes {
		if n.Pinned {
			pinned++
		}
	}

	return StoreState{
		Notes:           len(s.notes),
		Tags:            len(s.index.tags),
		Pinned:          pinned,
		StagedSketches:  s.sketches.Len(),
		Subscribers:     s.broker.len(),
		EventBufferSize: s.broker.buffer,
		ReadOnly:        s.readOnly,
		RepositoryType:  repoType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

// SketchState exposes the staged drawing payloads.
type SketchState struct {
	Staged     int `json:"staged"`
	StagedSize int `json:"staged_bytes"`
}

// State implements introspection.Introspectable.
func (s *SketchStore) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := 0
	for _, p := range s.staged {
		size += len(p)
	}
	return SketchState{Staged: len(s.staged), StagedSize: size}
}

// ComponentType implements introspection.Component.
func (s *SketchStore) ComponentType() string {
	return "sketch-store"
}

var _ introspection.Introspectable = (*SketchStore)(nil)
