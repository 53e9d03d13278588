package render_test

import (
	"testing"

	"github.com/aretw0/minddump/pkg/core"
	"github.com/aretw0/minddump/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBullets(t *testing.T) {
	assert.Equal(t, []string{"milk", "eggs", "bread"}, render.Bullets("- milk\n\n* eggs\n  bread  \n"))
	assert.Nil(t, render.Bullets("\n\n"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "- a\n- b", render.Text(core.Note{Type: core.TypeBullets, Content: "a\nb"}))
	assert.Equal(t, "[sketch, 3 bytes]", render.Text(core.Note{Type: core.TypeSketch, SketchPayload: []byte{1, 2, 3}}))
	assert.Equal(t, "plain", render.Text(core.Note{Type: core.TypeBasic, Content: "plain"}))
}

func TestHTML(t *testing.T) {
	t.Run("Markdown", func(t *testing.T) {
		out, err := render.HTML(core.Note{Type: core.TypeMarkdown, Content: "# Title\n\n**bold** ~~gone~~"})
		require.NoError(t, err)
		assert.Contains(t, out, "<h1>Title</h1>")
		assert.Contains(t, out, "<strong>bold</strong>")
		assert.Contains(t, out, "<del>gone</del>")
	})

	t.Run("Basic Is Escaped", func(t *testing.T) {
		out, err := render.HTML(core.Note{Type: core.TypeBasic, Content: "<script>\nx"})
		require.NoError(t, err)
		assert.Equal(t, "<p>&lt;script&gt;<br>x</p>\n", out)
	})

	t.Run("Bullets", func(t *testing.T) {
		out, err := render.HTML(core.Note{Type: core.TypeBullets, Content: "one\ntwo"})
		require.NoError(t, err)
		assert.Equal(t, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n", out)
	})
}

func TestPreview(t *testing.T) {
	n := core.Note{Type: core.TypeBasic, Content: "a long first line\nsecond"}
	assert.Equal(t, "a long first line", render.Preview(n, 0))
	assert.Equal(t, "a lo…", render.Preview(n, 5))
}
