package core_test

import (
	"strings"
	"testing"

	"github.com/aretw0/minddump/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSketchStore(t *testing.T) {
	t.Run("Stage Copies Payload", func(t *testing.T) {
		s := core.NewSketchStore()
		payload := []byte("abc")
		s.Stage("d1", payload)
		payload[0] = 'x'

		got, ok := s.Staged("d1")
		require.True(t, ok)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("Empty Payload Clears Slot", func(t *testing.T) {
		s := core.NewSketchStore()
		s.Stage("d1", []byte("abc"))
		s.Stage("d1", nil)
		assert.Zero(t, s.Len())
	})

	t.Run("Promote Empties Slot", func(t *testing.T) {
		s := core.NewSketchStore()
		s.Stage("d1", []byte("abc"))

		p, ok := s.Promote("d1")
		require.True(t, ok)
		assert.Equal(t, []byte("abc"), p)

		_, ok = s.Promote("d1")
		assert.False(t, ok)
	})

	t.Run("Attach Requires Sketch Type", func(t *testing.T) {
		s := core.NewSketchStore()
		n := core.Note{Type: core.TypeMarkdown}
		assert.True(t, core.IsValidation(s.Attach(&n, []byte{1})))

		n.Type = core.TypeSketch
		require.NoError(t, s.Attach(&n, []byte{1}))
		assert.Equal(t, []byte{1}, n.SketchPayload)

		s.Detach(&n)
		assert.Nil(t, n.SketchPayload)
	})

	t.Run("Draft IDs Are Distinct", func(t *testing.T) {
		a, b := core.NewDraftID(), core.NewDraftID()
		assert.NotEqual(t, a, b)
		assert.True(t, strings.HasPrefix(a, "draft-"))
	})
}

func TestSketchStoreState(t *testing.T) {
	s := core.NewSketchStore()
	s.Stage("draft-a", []byte("abc"))
	s.Stage("draft-b", []byte("de"))

	state, ok := s.State().(core.SketchState)
	require.True(t, ok)
	assert.Equal(t, 2, state.Staged)
	assert.Equal(t, 5, state.StagedSize)
	assert.Equal(t, "sketch-store", s.ComponentType())
}
