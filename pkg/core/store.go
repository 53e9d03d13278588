package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Store is the single in-memory source of truth for the note collection.
//
// Every mutation builds the next collection, persists it through the
// Repository and only then swaps it in, so a failed write leaves the store
// untouched. Reads return copies; callers never share the backing slice.
type Store struct {
	mu        sync.RWMutex
	repo      Repository
	notes     []Note
	byID      map[string]int // ID -> position in notes
	index     *tagIndex
	sketches  *SketchStore
	broker    *broker
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	readOnly  bool
	lastStamp time.Time
}

// NewStore creates a Store backed by repo. Call Load before use to read
// the persisted collection.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := defaultStore(repo)
	for _, opt := range opts {
		opt(s)
	}
	s.broker.logger = s.logger
	return s
}

// Repository returns the storage adapter backing the store.
func (s *Store) Repository() Repository {
	return s.repo
}

// Sketches returns the sketch store shared with editing sessions.
func (s *Store) Sketches() *SketchStore {
	return s.sketches
}

// Load reads the persisted collection, replacing the in-memory one.
func (s *Store) Load(ctx context.Context) error {
	notes, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap(notes)
	s.logger.Debug("store loaded", "notes", len(notes))
	return nil
}

// Reload re-reads the persisted collection and reports whether it differed
// from the in-memory one. Watchers receive EventReload on change.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	notes, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if equalCollections(s.notes, notes) {
		return false, nil
	}
	s.swap(notes)
	s.logger.Info("store reloaded from storage", "notes", len(notes))
	s.broker.publish(Event{Type: EventReload, Timestamp: s.now()})
	return true, nil
}

func (s *Store) read(ctx context.Context) ([]Note, error) {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	notes := make([]Note, 0, len(loaded))
	seen := make(map[string]struct{}, len(loaded))
	for _, n := range loaded {
		if n.ID == "" {
			return nil, &PersistenceError{Op: "load", Err: fmt.Errorf("stored note has no id")}
		}
		if _, dup := seen[n.ID]; dup {
			return nil, &PersistenceError{Op: "load", Err: fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)}
		}
		seen[n.ID] = struct{}{}

		normalized, err := normalize(n)
		if err != nil {
			return nil, &PersistenceError{Op: "load", Err: fmt.Errorf("note %s: %w", n.ID, err)}
		}
		notes = append(notes, normalized)
	}
	return notes, nil
}

// swap installs a whole new collection. Caller holds s.mu.
func (s *Store) swap(notes []Note) {
	s.notes = notes
	s.reposition()
	s.index.reset(notes)
	for _, n := range notes {
		if n.LastEditedAt.After(s.lastStamp) {
			s.lastStamp = n.LastEditedAt
		}
	}
}

func (s *Store) reposition() {
	s.byID = make(map[string]int, len(s.notes))
	for i, n := range s.notes {
		s.byID[n.ID] = i
	}
}

// stamp returns a timestamp never earlier than floor nor than any previous stamp.
func (s *Store) stamp(floor time.Time) time.Time {
	t := s.now().UTC()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	if t.Before(floor) {
		t = floor
	}
	s.lastStamp = t
	return t
}

// commit persists next and installs it. Caller holds s.mu.
func (s *Store) commit(ctx context.Context, op string, next []Note, changes []change) error {
	if len(changes) == 0 {
		return nil
	}
	if _, ok := ctx.Value(ChangeReasonKey).(string); !ok {
		ctx = context.WithValue(ctx, ChangeReasonKey, changeReason(op, changes))
	}
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("failed to persist notes", "op", op, "error", err)
		return &PersistenceError{Op: op, Err: err}
	}

	s.notes = next
	s.reposition()
	s.index.apply(changes)

	now := s.now()
	events := make([]Event, 0, len(changes))
	for _, c := range changes {
		events = append(events, Event{Type: c.event(), ID: c.id(), Timestamp: now})
	}
	s.broker.publish(events...)
	s.logger.Debug("notes persisted", "op", op, "changes", len(changes), "notes", len(next))
	return nil
}

// changeReason builds the default commit message of a mutation,
// e.g. "add 3f2a..." or "delete-all (12 notes)".
func changeReason(op string, changes []change) string {
	if len(changes) == 1 {
		return op + " " + changes[0].id()
	}
	return fmt.Sprintf("%s (%d notes)", op, len(changes))
}

func (s *Store) writable() error {
	if s.readOnly {
		return ErrReadOnly
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// CreateNewNote returns a transient draft with default values.
// It is not persisted until AddNote (or AddDraft) is called.
func (s *Store) CreateNewNote(t NoteType) Note {
	if t == "" {
		t = TypeBasic
	}
	return Note{
		Type:  t,
		Color: DefaultColor,
	}
}

// AddNote appends a note, assigning an ID if it has none, and persists the
// collection. The stored note is returned.
func (s *Store) AddNote(ctx context.Context, n Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.prepareNew(n)
	if err != nil {
		return Note{}, err
	}
	if _, exists := s.byID[added.ID]; exists {
		return Note{}, fmt.Errorf("%w: %s", ErrDuplicateID, added.ID)
	}

	next := append(slices.Clone(s.notes), added)
	if err := s.commit(ctx, "add", next, []change{{after: &added}}); err != nil {
		return Note{}, err
	}
	s.logger.Info("note added", "id", added.ID, "type", added.Type)
	return added.Clone(), nil
}

// prepareNew validates a new note and fills in its ID and timestamps.
// Caller holds s.mu.
func (s *Store) prepareNew(n Note) (Note, error) {
	if err := s.writable(); err != nil {
		return Note{}, err
	}
	if n.LastEditedAt.IsZero() {
		n.LastEditedAt = n.CreatedAt
	}
	n, err := normalize(n)
	if err != nil {
		return Note{}, err
	}
	if n.ID == "" {
		n.ID = s.newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.stamp(time.Time{})
		n.LastEditedAt = n.CreatedAt
	} else {
		n.CreatedAt = n.CreatedAt.UTC()
		n.LastEditedAt = n.LastEditedAt.UTC()
		if n.LastEditedAt.After(s.lastStamp) {
			s.lastStamp = n.LastEditedAt
		}
	}
	return n, nil
}

// AddDraft saves a draft note, moving the sketch payload staged for draftID
// onto it. If saving fails the payload stays staged.
func (s *Store) AddDraft(ctx context.Context, draftID string, n Note) (Note, error) {
	var staged []byte
	if n.Type == TypeSketch && n.SketchPayload == nil {
		if p, ok := s.sketches.Promote(draftID); ok {
			staged = p
			n.SketchPayload = p
		}
	}

	saved, err := s.AddNote(ctx, n)
	if err != nil {
		if staged != nil {
			s.sketches.Stage(draftID, staged)
		}
		return Note{}, err
	}
	s.sketches.Discard(draftID)
	return saved, nil
}

// UpdateNote replaces the note with the same ID.
//
// The creation date is kept. An update that changes no editable field is a
// no-op: nothing is written and the last-edited date does not move.
func (s *Store) UpdateNote(ctx context.Context, n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	i, ok := s.byID[n.ID]
	if !ok || n.ID == "" {
		return notFound(n.ID)
	}
	prev := s.notes[i]

	n.CreatedAt = prev.CreatedAt
	n.LastEditedAt = prev.LastEditedAt
	updated, err := normalize(n)
	if err != nil {
		return err
	}
	if sameContent(prev, updated) {
		return nil
	}
	updated.LastEditedAt = s.stamp(prev.LastEditedAt)

	next := slices.Clone(s.notes)
	next[i] = updated
	return s.commit(ctx, "update", next, []change{{before: &prev, after: &updated}})
}

// modify applies fn to a copy of one note and commits it if fn reports a change.
func (s *Store) modify(ctx context.Context, op, id string, fn func(n *Note) (bool, error)) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return Note{}, err
	}
	i, ok := s.byID[id]
	if !ok {
		return Note{}, notFound(id)
	}
	prev := s.notes[i]
	updated := prev.Clone()

	changed, err := fn(&updated)
	if err != nil {
		return Note{}, err
	}
	if !changed {
		return prev.Clone(), nil
	}
	if err := updated.Validate(); err != nil {
		return Note{}, err
	}
	updated.LastEditedAt = s.stamp(prev.LastEditedAt)

	next := slices.Clone(s.notes)
	next[i] = updated
	if err := s.commit(ctx, op, next, []change{{before: &prev, after: &updated}}); err != nil {
		return Note{}, err
	}
	return updated.Clone(), nil
}

// TogglePinned flips the pin state of a note and returns the updated note.
func (s *Store) TogglePinned(ctx context.Context, id string) (Note, error) {
	return s.modify(ctx, "toggle-pinned", id, func(n *Note) (bool, error) {
		n.Pinned = !n.Pinned
		return true, nil
	})
}

// AddTag attaches a tag to a note. Adding a tag the note already has is a no-op.
func (s *Store) AddTag(ctx context.Context, tag, id string) error {
	normalized, err := ValidateTag(tag)
	if err != nil {
		return err
	}
	_, err = s.modify(ctx, "add-tag", id, func(n *Note) (bool, error) {
		if n.HasTag(normalized) {
			return false, nil
		}
		n.Tags = append(n.Tags, normalized)
		slices.Sort(n.Tags)
		return true, nil
	})
	return err
}

// RemoveTag detaches a tag from a note. Removing an absent tag is a no-op.
func (s *Store) RemoveTag(ctx context.Context, tag, id string) error {
	normalized := NormalizeTag(tag)
	_, err := s.modify(ctx, "remove-tag", id, func(n *Note) (bool, error) {
		if !n.HasTag(normalized) {
			return false, nil
		}
		n.Tags = slices.DeleteFunc(n.Tags, func(t string) bool { return t == normalized })
		if len(n.Tags) == 0 {
			n.Tags = nil
		}
		return true, nil
	})
	return err
}

// SetSketch attaches a drawing payload to a saved sketch note.
// An empty payload clears the drawing.
func (s *Store) SetSketch(ctx context.Context, id string, payload []byte) error {
	_, err := s.modify(ctx, "set-sketch", id, func(n *Note) (bool, error) {
		before := n.SketchPayload
		if err := s.sketches.Attach(n, payload); err != nil {
			return false, err
		}
		return !slices.Equal(before, n.SketchPayload), nil
	})
	return err
}

// RenameTag replaces a tag on every note carrying it, merging with notes that
// already carry the new name. It returns the number of notes changed.
func (s *Store) RenameTag(ctx context.Context, oldTag, newTag string) (int, error) {
	from := NormalizeTag(oldTag)
	to, err := ValidateTag(newTag)
	if err != nil {
		return 0, err
	}
	if from == to {
		return 0, nil
	}
	return s.retag(ctx, "rename-tag", from, func(tags []string) []string {
		tags = slices.DeleteFunc(tags, func(t string) bool { return t == from })
		if !slices.Contains(tags, to) {
			tags = append(tags, to)
		}
		slices.Sort(tags)
		return tags
	})
}

// DeleteTag removes a tag from every note carrying it and returns the number
// of notes changed.
func (s *Store) DeleteTag(ctx context.Context, tag string) (int, error) {
	target := NormalizeTag(tag)
	return s.retag(ctx, "delete-tag", target, func(tags []string) []string {
		tags = slices.DeleteFunc(tags, func(t string) bool { return t == target })
		if len(tags) == 0 {
			return nil
		}
		return tags
	})
}

// retag rewrites the tag list of every note indexed under tag in one write.
func (s *Store) retag(ctx context.Context, op, tag string, rewrite func([]string) []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return 0, err
	}
	ids := s.index.ids(tag)
	if len(ids) == 0 {
		return 0, nil
	}

	next := slices.Clone(s.notes)
	changes := make([]change, 0, len(ids))
	for i := range next {
		if _, ok := ids[next[i].ID]; !ok {
			continue
		}
		prev := next[i]
		updated := prev.Clone()
		updated.Tags = rewrite(updated.Tags)
		updated.LastEditedAt = s.stamp(prev.LastEditedAt)
		next[i] = updated
		changes = append(changes, change{before: &prev, after: &updated})
	}
	if err := s.commit(ctx, op, next, changes); err != nil {
		return 0, err
	}
	s.logger.Info("tag rewritten", "op", op, "tag", tag, "notes", len(changes))
	return len(changes), nil
}

// DeleteNote removes a note. Its sketch payload goes with the record.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	i, ok := s.byID[id]
	if !ok {
		return notFound(id)
	}
	removed := s.notes[i]

	next := slices.Delete(slices.Clone(s.notes), i, i+1)
	if err := s.commit(ctx, "delete", next, []change{{before: &removed}}); err != nil {
		return err
	}
	if removed.SketchPayload != nil {
		s.logger.Debug("sketch payload released", "id", id, "bytes", len(removed.SketchPayload))
	}
	s.logger.Info("note deleted", "id", id)
	return nil
}

// DeleteAllNotes clears the collection and releases every staged sketch payload.
func (s *Store) DeleteAllNotes(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	changes := make([]change, len(s.notes))
	for i := range s.notes {
		changes[i] = change{before: &s.notes[i]}
	}
	if len(changes) > 0 {
		if err := s.commit(ctx, "delete-all", []Note{}, changes); err != nil {
			return err
		}
	}
	released := s.sketches.ReleaseAll()
	s.logger.Info("all notes deleted", "notes", len(changes), "staged_sketches", released)
	return nil
}

// ImportNotes appends notes in one write, always assigning fresh IDs.
// Timestamps carried by the notes are kept. Either every note is added or none.
func (s *Store) ImportNotes(ctx context.Context, notes []Note) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return nil, err
	}
	imported := make([]Note, 0, len(notes))
	for i, n := range notes {
		n.ID = ""
		prepared, err := s.prepareNew(n)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		if _, exists := s.byID[prepared.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, prepared.ID)
		}
		imported = append(imported, prepared)
	}

	changes := make([]change, len(imported))
	for i := range imported {
		changes[i] = change{after: &imported[i]}
	}
	next := append(slices.Clone(s.notes), imported...)
	if err := s.commit(ctx, "import", next, changes); err != nil {
		return nil, err
	}
	s.logger.Info("notes imported", "notes", len(imported))
	return cloneAll(imported), nil
}

// Get returns the note with the given ID.
func (s *Store) Get(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Note{}, notFound(id)
	}
	return s.notes[i].Clone(), nil
}

// Notes returns every note in insertion order.
func (s *Store) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.notes)
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// AllTags returns the sorted set of tags used by any note.
func (s *Store) AllTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.all()
}

// NotesByTag returns the notes carrying tag, in insertion order.
func (s *Store) NotesByTag(tag string) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.index.ids(NormalizeTag(tag))
	return s.filter(func(n Note) bool {
		_, ok := ids[n.ID]
		return ok
	})
}

// NotesMatchingTag returns the notes carrying at least one tag matching a
// glob pattern, e.g. "work/*" or "**/urgent".
func (s *Store) NotesMatchingTag(pattern string) ([]Note, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, &ValidationError{Field: "pattern", Value: pattern, Reason: "invalid tag pattern"}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make(map[string]struct{})
	for _, tag := range s.index.all() {
		ok, err := doublestar.Match(pattern, tag)
		if err != nil {
			return nil, &ValidationError{Field: "pattern", Value: pattern, Reason: err.Error()}
		}
		if !ok {
			continue
		}
		for id := range s.index.ids(tag) {
			matched[id] = struct{}{}
		}
	}
	return s.filter(func(n Note) bool {
		_, ok := matched[n.ID]
		return ok
	}), nil
}

// PinnedNotes returns the pinned notes, in insertion order.
func (s *Store) PinnedNotes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(n Note) bool { return n.Pinned })
}

// Search returns the notes whose title, content or tags contain text,
// ignoring case. An empty query matches every note.
func (s *Store) Search(text string) []Note {
	q := strings.ToLower(strings.TrimSpace(text))

	s.mu.RLock()
	defer s.mu.RUnlock()

	if q == "" {
		return cloneAll(s.notes)
	}
	return s.filter(func(n Note) bool {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			return true
		}
		return slices.ContainsFunc(n.Tags, func(t string) bool { return strings.Contains(t, q) })
	})
}

// Watch streams committed changes until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) <-chan Event {
	return s.broker.subscribe(ctx)
}

// filter returns copies of the notes matching keep. Caller holds s.mu.
func (s *Store) filter(keep func(Note) bool) []Note {
	var out []Note
	for _, n := range s.notes {
		if keep(n) {
			out = append(out, n.Clone())
		}
	}
	return out
}

func cloneAll(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

func equalCollections(a, b []Note) bool {
	return slices.EqualFunc(a, b, func(x, y Note) bool {
		return x.ID == y.ID &&
			sameContent(x, y) &&
			x.CreatedAt.Equal(y.CreatedAt) &&
			x.LastEditedAt.Equal(y.LastEditedAt)
	})
}
