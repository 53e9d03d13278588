package core

import (
	"encoding/base64"
	"fmt"
	"time"
)

// Record is the serialized form of a Note, shared by the persisted document
// and the backup document.
type Record struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Content        string    `json:"content" yaml:"content"`
	Color          string    `json:"color" yaml:"color"`
	Type           string    `json:"type" yaml:"type"`
	IsPinned       bool      `json:"isPinned" yaml:"isPinned"`
	Tags           []string  `json:"tags" yaml:"tags"`
	SketchPayload  *string   `json:"sketchPayload" yaml:"sketchPayload"` // base64, nil unless type is sketch
	CreatedDate    time.Time `json:"createdDate" yaml:"createdDate"`
	LastEditedDate time.Time `json:"lastEditedDate" yaml:"lastEditedDate"`
}

// ToRecord converts a note into its serialized form.
func ToRecord(n Note) Record {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	r := Record{
		ID:             n.ID,
		Title:          n.Title,
		Content:        n.Content,
		Color:          string(n.Color),
		Type:           string(n.Type),
		IsPinned:       n.Pinned,
		Tags:           append([]string(nil), tags...),
		CreatedDate:    n.CreatedAt,
		LastEditedDate: n.LastEditedAt,
	}
	if n.SketchPayload != nil {
		encoded := base64.StdEncoding.EncodeToString(n.SketchPayload)
		r.SketchPayload = &encoded
	}
	return r
}

// ToRecords converts a collection into its serialized form.
func ToRecords(notes []Note) []Record {
	out := make([]Record, len(notes))
	for i, n := range notes {
		out[i] = ToRecord(n)
	}
	return out
}

// Note decodes and validates the record.
func (r Record) Note() (Note, error) {
	typ, err := ParseNoteType(r.Type)
	if err != nil {
		return Note{}, err
	}
	color, err := ParseColor(r.Color)
	if err != nil {
		return Note{}, err
	}
	if r.CreatedDate.IsZero() {
		return Note{}, &ValidationError{Field: "createdDate", Reason: "missing"}
	}
	if r.LastEditedDate.IsZero() {
		return Note{}, &ValidationError{Field: "lastEditedDate", Reason: "missing"}
	}

	n := Note{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		Color:        color,
		Type:         typ,
		Pinned:       r.IsPinned,
		Tags:         r.Tags,
		CreatedAt:    r.CreatedDate.UTC(),
		LastEditedAt: r.LastEditedDate.UTC(),
	}
	if r.SketchPayload != nil {
		payload, err := base64.StdEncoding.DecodeString(*r.SketchPayload)
		if err != nil {
			return Note{}, &ValidationError{Field: "sketchPayload", Reason: fmt.Sprintf("invalid base64: %v", err)}
		}
		n.SketchPayload = payload
	}
	return normalize(n)
}

// FromRecords decodes a serialized collection, stopping at the first invalid record.
func FromRecords(records []Record) ([]Note, error) {
	notes := make([]Note, 0, len(records))
	for i, r := range records {
		n, err := r.Note()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}
