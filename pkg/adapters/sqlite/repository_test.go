package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/minddump/pkg/adapters/sqlite"
	"github.com/aretw0/minddump/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T, path string) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(sqlite.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 6, 1, 8, 0, 0, 123, time.UTC)
	notes := []core.Note{
		{ID: "z", Title: "last id first", Type: core.TypeBullets, Color: core.ColorGreen, Content: "a\nb", Tags: []string{"list"}, CreatedAt: ts, LastEditedAt: ts},
		{ID: "a", Title: "sketch", Type: core.TypeSketch, Color: core.DefaultColor, SketchPayload: []byte{7, 8}, Pinned: true, CreatedAt: ts, LastEditedAt: ts.Add(time.Second)},
	}

	t.Run("Empty Database", func(t *testing.T) {
		repo := setupRepo(t, ":memory:")
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Round Trip Keeps Order", func(t *testing.T) {
		repo := setupRepo(t, ":memory:")
		require.NoError(t, repo.Save(ctx, notes))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "z", got[0].ID)
		assert.Equal(t, []string{"list"}, got[0].Tags)
		assert.Equal(t, []byte{7, 8}, got[1].SketchPayload)
		assert.True(t, got[1].Pinned)
		assert.True(t, ts.Equal(got[0].CreatedAt))
	})

	t.Run("Save Replaces Collection", func(t *testing.T) {
		repo := setupRepo(t, ":memory:")
		require.NoError(t, repo.Save(ctx, notes))
		require.NoError(t, repo.Save(ctx, notes[1:]))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("Failed Save Keeps Previous Content", func(t *testing.T) {
		repo := setupRepo(t, ":memory:")
		require.NoError(t, repo.Save(ctx, notes))

		dup := []core.Note{notes[0], notes[0]}
		require.Error(t, repo.Save(ctx, dup))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Persists Across Reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db", "notes.db")
		first := setupRepo(t, path)
		require.NoError(t, first.Save(ctx, notes))
		require.NoError(t, first.Close())

		second := setupRepo(t, path)
		got, err := second.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("ReadOnly", func(t *testing.T) {
		repo, err := sqlite.NewRepository(sqlite.Config{Path: ":memory:", ReadOnly: true})
		require.NoError(t, err)
		defer repo.Close()
		require.NoError(t, repo.Initialize(ctx))
		assert.True(t, errors.Is(repo.Save(ctx, notes), core.ErrReadOnly))
	})

	t.Run("Backs a Store", func(t *testing.T) {
		repo := setupRepo(t, ":memory:")
		store := core.NewStore(repo)
		require.NoError(t, store.Load(ctx))

		n, err := store.AddNote(ctx, core.Note{Title: "db note", Tags: []string{"sql"}})
		require.NoError(t, err)
		require.NoError(t, store.AddTag(ctx, "more", n.ID))

		reopened := core.NewStore(repo)
		require.NoError(t, reopened.Load(ctx))
		assert.Equal(t, []string{"more", "sql"}, reopened.AllTags())
	})
}
