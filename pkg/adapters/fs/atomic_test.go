package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates and Overwrites", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "notes.json")

		require.NoError(t, WriteFileAtomic(filename, []byte("first"), 0644))
		require.NoError(t, WriteFileAtomic(filename, []byte("second"), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, WriteFileAtomic(filepath.Join(dir, "notes.json"), []byte("x"), 0600))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "leftover %s", e.Name())
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "notes.json")
		assert.Error(t, WriteFileAtomic(filename, []byte("x"), 0644))
	})
}
