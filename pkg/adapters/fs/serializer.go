package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/minddump/pkg/core"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the schema version of the persisted document.
const DocumentVersion = 1

// Document is the on-disk form of the whole note collection.
type Document struct {
	Version int           `json:"version" yaml:"version"`
	Notes   []core.Record `json:"notes" yaml:"notes"`
}

// Serializer defines how to read and write the document in a specific format.
type Serializer interface {
	// Ext is the file extension, including the dot.
	Ext() string
	Decode(data []byte) (Document, error)
	Encode(doc Document) ([]byte, error)
}

// DefaultSerializers returns the supported serializers keyed by format name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": JSONSerializer{},
		"yaml": YAMLSerializer{},
	}
}

// SerializerFor resolves a format name ("json", "yaml", "yml"). Empty means json.
func SerializerFor(format string) (Serializer, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	switch format {
	case "", "json":
		return JSONSerializer{}, nil
	case "yaml", "yml":
		return YAMLSerializer{}, nil
	default:
		return nil, fmt.Errorf("unsupported storage format: %s", format)
	}
}

// --- JSON Serializer ---

// JSONSerializer handles the JSON document.
type JSONSerializer struct{}

func (JSONSerializer) Ext() string { return ".json" }

func (JSONSerializer) Decode(data []byte) (Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("invalid json: %w", err)
	}
	return doc, nil
}

func (JSONSerializer) Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// --- YAML Serializer ---

// YAMLSerializer handles the YAML document.
type YAMLSerializer struct{}

func (YAMLSerializer) Ext() string { return ".yaml" }

func (YAMLSerializer) Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return doc, nil
}

func (YAMLSerializer) Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
