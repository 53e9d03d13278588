package core

import (
	"maps"
	"slices"
)

// tagIndex is an inverted index from tag to the IDs of the notes carrying it.
// It is updated incrementally from the change set of each committed mutation.
type tagIndex struct {
	tags map[string]map[string]struct{}
}

func newTagIndex() *tagIndex {
	return &tagIndex{tags: make(map[string]map[string]struct{})}
}

func (ix *tagIndex) add(n Note) {
	for _, tag := range n.Tags {
		ids, ok := ix.tags[tag]
		if !ok {
			ids = make(map[string]struct{})
			ix.tags[tag] = ids
		}
		ids[n.ID] = struct{}{}
	}
}

func (ix *tagIndex) remove(n Note) {
	for _, tag := range n.Tags {
		ids, ok := ix.tags[tag]
		if !ok {
			continue
		}
		delete(ids, n.ID)
		if len(ids) == 0 {
			delete(ix.tags, tag)
		}
	}
}

// apply folds a change set into the index.
func (ix *tagIndex) apply(changes []change) {
	for _, c := range changes {
		if c.before != nil {
			ix.remove(*c.before)
		}
		if c.after != nil {
			ix.add(*c.after)
		}
	}
}

func (ix *tagIndex) reset(notes []Note) {
	ix.tags = make(map[string]map[string]struct{})
	for _, n := range notes {
		ix.add(n)
	}
}

func (ix *tagIndex) all() []string {
	return slices.Sorted(maps.Keys(ix.tags))
}

func (ix *tagIndex) ids(tag string) map[string]struct{} {
	return ix.tags[tag]
}

// change describes one note before and after a mutation.
// before is nil for creations, after is nil for deletions.
type change struct {
	before *Note
	after  *Note
}

func (c change) event() EventType {
	switch {
	case c.before == nil:
		return EventCreate
	case c.after == nil:
		return EventDelete
	default:
		return EventModify
	}
}

func (c change) id() string {
	if c.after != nil {
		return c.after.ID
	}
	return c.before.ID
}
