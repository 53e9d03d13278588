// Package render turns note bodies into plain text or HTML for display.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/aretw0/minddump/pkg/core"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Bullets splits a bullets note into its non-empty items.
func Bullets(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// Text renders the body of a note for a terminal.
func Text(n core.Note) string {
	switch n.Type {
	case core.TypeBullets:
		items := Bullets(n.Content)
		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = "- " + item
		}
		return strings.Join(lines, "\n")
	case core.TypeSketch:
		if len(n.SketchPayload) == 0 {
			return "[empty sketch]"
		}
		return fmt.Sprintf("[sketch, %d bytes]", len(n.SketchPayload))
	default:
		return n.Content
	}
}

// HTML renders the body of a note as an HTML fragment.
// Markdown notes go through goldmark; other types are escaped.
func HTML(n core.Note) (string, error) {
	switch n.Type {
	case core.TypeMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(n.Content), &buf); err != nil {
			return "", fmt.Errorf("failed to convert markdown: %w", err)
		}
		return buf.String(), nil
	case core.TypeBullets:
		var b strings.Builder
		b.WriteString("<ul>\n")
		for _, item := range Bullets(n.Content) {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(item))
		}
		b.WriteString("</ul>\n")
		return b.String(), nil
	case core.TypeSketch:
		return fmt.Sprintf("<figure class=\"sketch\" data-bytes=\"%d\"></figure>\n", len(n.SketchPayload)), nil
	default:
		var b strings.Builder
		for _, para := range strings.Split(strings.TrimSpace(n.Content), "\n\n") {
			if para == "" {
				continue
			}
			fmt.Fprintf(&b, "<p>%s</p>\n", strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		}
		return b.String(), nil
	}
}

// Preview returns the first line of a note body, cut to max runes.
func Preview(n core.Note, max int) string {
	text := Text(n)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if max > 0 && len(runes) > max {
		return string(runes[:max-1]) + "…"
	}
	return text
}
