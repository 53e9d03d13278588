package fs

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/minddump/pkg/core"
)

func TestSerializers(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	payload := "AQI="
	doc := Document{
		Version: DocumentVersion,
		Notes: []core.Record{
			{ID: "1", Title: "Hello", Content: "line one\nline two", Color: "blue", Type: "markdown", Tags: []string{"a", "b"}, CreatedDate: ts, LastEditedDate: ts},
			{ID: "2", Title: "Sketch", Color: "default", Type: "sketch", Tags: []string{}, SketchPayload: &payload, CreatedDate: ts, LastEditedDate: ts},
		},
	}

	for name, s := range DefaultSerializers() {
		t.Run(name, func(t *testing.T) {
			data, err := s.Encode(doc)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			parsed, err := s.Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if parsed.Version != DocumentVersion {
				t.Errorf("version mismatch: %d", parsed.Version)
			}
			if len(parsed.Notes) != 2 {
				t.Fatalf("expected 2 notes, got %d", len(parsed.Notes))
			}
			if parsed.Notes[0].Content != doc.Notes[0].Content {
				t.Errorf("content mismatch: %q", parsed.Notes[0].Content)
			}
			if parsed.Notes[1].SketchPayload == nil || *parsed.Notes[1].SketchPayload != payload {
				t.Errorf("payload lost")
			}
			if parsed.Notes[0].SketchPayload != nil {
				t.Errorf("expected nil payload on non-sketch note")
			}
			if !parsed.Notes[0].CreatedDate.Equal(ts) {
				t.Errorf("timestamp mismatch: %v", parsed.Notes[0].CreatedDate)
			}
		})
	}
}

func TestJSONFieldNames(t *testing.T) {
	data, err := JSONSerializer{}.Encode(Document{Version: 1, Notes: []core.Record{{ID: "x", IsPinned: true}}})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"isPinned": true`, `"sketchPayload": null`, `"createdDate"`, `"lastEditedDate"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}
}

func TestSerializerFor(t *testing.T) {
	for _, f := range []string{"", "json", ".json", "YAML", "yml"} {
		if _, err := SerializerFor(f); err != nil {
			t.Errorf("SerializerFor(%q): %v", f, err)
		}
	}
	if _, err := SerializerFor("csv"); err == nil {
		t.Error("expected csv to be unsupported")
	}
}
