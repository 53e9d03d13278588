// Package autosave debounces the edits of one open note into persisted commits.
package autosave

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/minddump/pkg/core"
)

// ErrClosed is returned by edits made after Close.
var ErrClosed = errors.New("autosave session is closed")

// Committer persists the state of an editing session. *core.Store satisfies it.
type Committer interface {
	AddDraft(ctx context.Context, draftID string, n core.Note) (core.Note, error)
	UpdateNote(ctx context.Context, n core.Note) error
}

// Coordinator owns the in-memory copy of one note while it is being edited.
//
// Every edit replaces the pending commit. When the window passes without a new
// edit the note is committed once. Commits of a session never overlap.
type Coordinator struct {
	mu       sync.Mutex
	store    Committer
	note     core.Note
	draftID  string
	window   time.Duration
	schedule Scheduler
	sketches *core.SketchStore
	logger   *slog.Logger
	onError  func(error)

	timer      Timer
	generation uint64
	dirty      bool
	closed     bool
	commits    int
	lastErr    error
}

// New opens an editing session for n. A note without an ID is a draft and is
// created on its first commit.
func New(store Committer, n core.Note, opts ...Option) *Coordinator {
	c := defaultCoordinator()
	c.store = store
	c.note = n.Clone()
	for _, opt := range opts {
		opt(c)
	}
	if c.note.IsDraft() {
		c.draftID = core.NewDraftID()
	}
	c.logger = c.logger.With("component", "autosave", "session", c.sessionID())
	return c
}

func (c *Coordinator) sessionID() string {
	if c.note.ID != "" {
		return c.note.ID
	}
	return c.draftID
}

// Note returns a copy of the session's current note.
func (c *Coordinator) Note() core.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.note.Clone()
}

// DraftID returns the local identifier used until the note is first saved.
func (c *Coordinator) DraftID() string {
	return c.draftID
}

// SetTitle records a title edit.
func (c *Coordinator) SetTitle(title string) error {
	return c.Edit(func(n *core.Note) { n.Title = title })
}

// SetContent records a body edit.
func (c *Coordinator) SetContent(content string) error {
	return c.Edit(func(n *core.Note) { n.Content = content })
}

// SetTags records a tag list edit. Tags are validated on commit.
func (c *Coordinator) SetTags(tags []string) error {
	return c.Edit(func(n *core.Note) { n.Tags = append([]string(nil), tags...) })
}

// SetColor records a color change.
func (c *Coordinator) SetColor(color core.Color) error {
	return c.Edit(func(n *core.Note) { n.Color = color })
}

// SetSketch records a new drawing on a sketch note. Drafts stage it in the sketch store when
// one is configured, so concurrent drafts keep separate payloads.
func (c *Coordinator) SetSketch(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.note.Type != core.TypeSketch {
		return &core.ValidationError{Field: "sketchPayload", Reason: "only sketch notes carry a drawing"}
	}
	if c.note.IsDraft() && c.sketches != nil {
		c.sketches.Stage(c.draftID, payload)
	} else {
		c.note.SketchPayload = bytes.Clone(payload)
	}
	c.touch()
	return nil
}

// Edit applies an arbitrary change to the session's note.
func (c *Coordinator) Edit(fn func(n *core.Note)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	id := c.note.ID
	fn(&c.note)
	c.note.ID = id
	c.touch()
	return nil
}

// touch marks the session dirty and replaces the pending commit. Caller holds c.mu.
func (c *Coordinator) touch() {
	c.dirty = true
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.generation
	c.timer = c.schedule(c.window, func() { c.fire(gen) })
}

func (c *Coordinator) fire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer edit rescheduled, or Flush/Close already ran.
	if gen != c.generation || c.closed || !c.dirty {
		return
	}
	c.timer = nil
	if err := c.commit(context.Background()); err != nil {
		c.onError(err)
	}
}

// Flush cancels the pending commit and commits now if there are unsaved edits.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.cancelPending()
	if !c.dirty {
		return nil
	}
	return c.commit(ctx)
}

// Close flushes pending edits and ends the session. Later edits return ErrClosed.
// Closing twice is a no-op.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.cancelPending()
	var err error
	if c.dirty {
		err = c.commit(ctx)
	}
	c.closed = true
	if c.note.IsDraft() && c.sketches != nil {
		c.sketches.Discard(c.draftID)
	}
	c.logger.Debug("autosave session closed", "commits", c.commits, "error", err)
	return err
}

func (c *Coordinator) cancelPending() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// commit persists the current note. Caller holds c.mu.
func (c *Coordinator) commit(ctx context.Context) error {
	if c.note.IsDraft() {
		if c.isBlankDraft() {
			c.logger.Debug("blank draft discarded")
			c.dirty = false
			return nil
		}
		saved, err := c.store.AddDraft(ctx, c.draftID, c.note)
		if err != nil {
			return c.fail(err)
		}
		c.note.ID = saved.ID
		c.note.CreatedAt = saved.CreatedAt
		c.note.LastEditedAt = saved.LastEditedAt
		c.note.SketchPayload = saved.SketchPayload
		c.logger.Info("draft saved", "id", saved.ID)
	} else if c.note.IsBlank() {
		c.logger.Debug("blank note not saved")
		c.dirty = false
		return nil
	} else if err := c.store.UpdateNote(ctx, c.note); err != nil {
		return c.fail(err)
	}

	c.dirty = false
	c.commits++
	c.lastErr = nil
	return nil
}

func (c *Coordinator) isBlankDraft() bool {
	if !c.note.IsBlank() {
		return false
	}
	if c.sketches == nil || c.note.Type != core.TypeSketch {
		return true
	}
	_, staged := c.sketches.Staged(c.draftID)
	return !staged
}

func (c *Coordinator) fail(err error) error {
	c.lastErr = err
	c.logger.Warn("autosave commit failed, edits kept", "error", err)
	return err
}

// SessionState exposes the session for observability.
type SessionState struct {
	ID      string `json:"id"`
	DraftID string `json:"draft_id,omitempty"`
	Window  string `json:"window"`
	Dirty   bool   `json:"dirty"`
	Commits int    `json:"commits"`
	Closed  bool   `json:"closed"`
	LastErr string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Coordinator) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := SessionState{
		ID:      c.note.ID,
		Window:  c.window.String(),
		Dirty:   c.dirty,
		Commits: c.commits,
		Closed:  c.closed,
	}
	if c.note.IsDraft() {
		s.DraftID = c.draftID
	}
	if c.lastErr != nil {
		s.LastErr = c.lastErr.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (c *Coordinator) ComponentType() string {
	return "autosave"
}

var _ introspection.Introspectable = (*Coordinator)(nil)
var _ introspection.Component = (*Coordinator)(nil)
