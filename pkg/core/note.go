package core

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"
)

// NoteType determines how a note's body is edited and rendered.
type NoteType string

const (
	TypeBasic    NoteType = "basic"
	TypeBullets  NoteType = "bullets"
	TypeMarkdown NoteType = "markdown"
	TypeSketch   NoteType = "sketch"
)

// NoteTypes lists every supported note type.
var NoteTypes = []NoteType{TypeBasic, TypeBullets, TypeMarkdown, TypeSketch}

// ParseNoteType converts user or wire input into a NoteType.
func ParseNoteType(s string) (NoteType, error) {
	t := NoteType(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(NoteTypes, t) {
		return "", &ValidationError{Field: "type", Value: s, Reason: "unknown note type"}
	}
	return t, nil
}

// Color is the display color of a note.
type Color string

const (
	ColorDefault Color = "default"
	ColorRed     Color = "red"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorTeal    Color = "teal"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
	ColorGray    Color = "gray"
)

// DefaultColor is applied to new notes.
const DefaultColor = ColorDefault

// Colors lists every supported color.
var Colors = []Color{
	ColorDefault, ColorRed, ColorOrange, ColorYellow, ColorGreen,
	ColorTeal, ColorBlue, ColorPurple, ColorPink, ColorGray,
}

// ParseColor converts user or wire input into a Color.
// An empty string maps to DefaultColor.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultColor, nil
	}
	c := Color(s)
	if !slices.Contains(Colors, c) {
		return "", &ValidationError{Field: "color", Value: s, Reason: "unknown color"}
	}
	return c, nil
}

// Note is the central entity of the domain.
// A note without an ID is a draft: it exists in memory only.
type Note struct {
	ID            string
	Title         string
	Content       string
	Color         Color
	Type          NoteType
	Pinned        bool
	Tags          []string
	SketchPayload []byte // Opaque drawing data, only for TypeSketch.
	CreatedAt     time.Time
	LastEditedAt  time.Time
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = slices.Clone(n.Tags)
	}
	if n.SketchPayload != nil {
		c.SketchPayload = bytes.Clone(n.SketchPayload)
	}
	return c
}

// IsDraft reports whether the note has not been assigned a permanent ID yet.
func (n Note) IsDraft() bool {
	return n.ID == ""
}

// IsBlank reports whether the note carries nothing worth saving.
// Editors discard saves of blank notes.
func (n Note) IsBlank() bool {
	return strings.TrimSpace(n.Title) == "" &&
		strings.TrimSpace(n.Content) == "" &&
		len(n.SketchPayload) == 0
}

// HasTag reports whether the note carries the given (already normalized) tag.
func (n Note) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// Validate checks the structural invariants of a note.
func (n Note) Validate() error {
	if !slices.Contains(NoteTypes, n.Type) {
		return &ValidationError{Field: "type", Value: string(n.Type), Reason: "unknown note type"}
	}
	if !slices.Contains(Colors, n.Color) {
		return &ValidationError{Field: "color", Value: string(n.Color), Reason: "unknown color"}
	}
	if n.SketchPayload != nil && n.Type != TypeSketch {
		return &ValidationError{Field: "sketchPayload", Reason: fmt.Sprintf("payload not allowed on %s note", n.Type)}
	}
	seen := make(map[string]struct{}, len(n.Tags))
	for _, tag := range n.Tags {
		normalized, err := ValidateTag(tag)
		if err != nil {
			return err
		}
		if normalized != tag {
			return &ValidationError{Field: "tags", Value: tag, Reason: "tag is not normalized"}
		}
		if _, dup := seen[tag]; dup {
			return &ValidationError{Field: "tags", Value: tag, Reason: "duplicate tag"}
		}
		seen[tag] = struct{}{}
	}
	if !n.CreatedAt.IsZero() && n.LastEditedAt.Before(n.CreatedAt) {
		return &ValidationError{Field: "lastEditedDate", Reason: "earlier than createdDate"}
	}
	return nil
}

// sameContent reports whether two notes are equal in every user-editable field.
func sameContent(a, b Note) bool {
	return a.Title == b.Title &&
		a.Content == b.Content &&
		a.Color == b.Color &&
		a.Type == b.Type &&
		a.Pinned == b.Pinned &&
		slices.Equal(a.Tags, b.Tags) &&
		bytes.Equal(a.SketchPayload, b.SketchPayload)
}

// normalize applies defaults and canonical forms to a note before it is stored.
func normalize(n Note) (Note, error) {
	n = n.Clone()
	if n.Type == "" {
		n.Type = TypeBasic
	}
	if n.Color == "" {
		n.Color = DefaultColor
	}
	if len(n.SketchPayload) == 0 {
		n.SketchPayload = nil
	}
	tags, err := NormalizeTags(n.Tags)
	if err != nil {
		return Note{}, err
	}
	n.Tags = tags
	return n, n.Validate()
}
