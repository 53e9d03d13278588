package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/minddump/pkg/adapters/fs"
	"github.com/aretw0/minddump/pkg/core"
	"github.com/aretw0/minddump/pkg/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRepo creates a repository rooted in a fresh temp dir.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	dataPath := filepath.Join(t.TempDir(), "data")
	cfg := fs.Config{
		Path:     dataPath,
		AutoInit: true,
		Gitless:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo, err := fs.NewRepository(cfg)
	require.NoError(t, err)
	return repo, dataPath
}

func sampleNotes() []core.Note {
	ts := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	return []core.Note{
		{ID: "b", Title: "Second", Type: core.TypeBasic, Color: core.DefaultColor, Tags: []string{"x"}, CreatedAt: ts, LastEditedAt: ts},
		{ID: "a", Title: "First", Type: core.TypeSketch, Color: core.ColorPink, SketchPayload: []byte{1, 2}, Pinned: true, CreatedAt: ts, LastEditedAt: ts.Add(time.Minute)},
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Directory if Missing", func(t *testing.T) {
		repo, path := setupRepo(t)

		if err := repo.Initialize(ctx); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(path, ".minddump")); os.IsNotExist(err) {
			t.Errorf("expected system directory under %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) {
			c.MustExist = true
			c.AutoInit = false
		})

		if err := repo.Initialize(ctx); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})

	t.Run("Inits Git Repo and Ignores System Dir", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		repo, path := setupRepo(t, func(c *fs.Config) { c.Gitless = false })

		require.NoError(t, repo.Initialize(ctx))
		assert.DirExists(t, filepath.Join(path, ".git"))

		ignore, err := os.ReadFile(filepath.Join(path, ".gitignore"))
		require.NoError(t, err)
		assert.Contains(t, string(ignore), ".minddump/")
	})

	t.Run("Rejects Unknown Format", func(t *testing.T) {
		_, err := fs.NewRepository(fs.Config{Path: t.TempDir(), Format: "xml"})
		assert.Error(t, err)
	})
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()

	for _, format := range []string{"json", "yaml"} {
		t.Run("Round Trip "+format, func(t *testing.T) {
			repo, _ := setupRepo(t, func(c *fs.Config) { c.Format = format })
			require.NoError(t, repo.Initialize(ctx))

			want := sampleNotes()
			require.NoError(t, repo.Save(ctx, want))

			got, err := repo.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "b", got[0].ID, "stored order is kept")
			assert.Equal(t, want[1].SketchPayload, got[1].SketchPayload)
			assert.True(t, want[1].LastEditedAt.Equal(got[1].LastEditedAt))
			assert.Equal(t, []string{"x"}, got[0].Tags)
			assert.FileExists(t, repo.DocumentPath())
		})
	}

	t.Run("Missing Document Is Empty", func(t *testing.T) {
		repo, _ := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))

		notes, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("Corrupt Document Fails Load", func(t *testing.T) {
		repo, _ := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))
		require.NoError(t, os.WriteFile(repo.DocumentPath(), []byte("{broken"), 0644))

		_, err := repo.Load(ctx)
		assert.Error(t, err)
	})

	t.Run("ReadOnly Rejects Writes", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })
		require.NoError(t, repo.Initialize(ctx))

		err := repo.Save(ctx, sampleNotes())
		assert.ErrorIs(t, err, core.ErrReadOnly)
	})

	t.Run("Versioned Saves Are Committed", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		repo, _ := setupRepo(t, func(c *fs.Config) { c.Gitless = false })
		require.NoError(t, repo.Initialize(ctx))

		reasonCtx := context.WithValue(ctx, core.ChangeReasonKey, "add note")
		require.NoError(t, repo.Save(reasonCtx, sampleNotes()))
		require.NoError(t, repo.Save(ctx, sampleNotes()[:1]))

		history, err := repo.History(10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(history), 2)
		assert.Equal(t, "update notes (1)", history[0])
		assert.Equal(t, "add note", history[1])
	})
}

func TestFailedCommitRestoresDocument(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	repo, dataPath := setupRepo(t, func(c *fs.Config) { c.Gitless = false })
	require.NoError(t, repo.Initialize(ctx))

	store := core.NewStore(repo)
	require.NoError(t, store.Load(ctx))
	kept, err := store.AddNote(ctx, core.Note{Title: "kept"})
	require.NoError(t, err)

	hook := filepath.Join(dataPath, ".git", "hooks", "pre-commit")
	require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0755))
	require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\nexit 1\n"), 0755))

	_, err = store.AddNote(ctx, core.Note{Title: "rejected"})
	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, store.Len())

	onDisk, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, onDisk, 1)
	assert.Equal(t, kept.ID, onDisk[0].ID)

	t.Run("First Write Leaves No Document", func(t *testing.T) {
		fresh, freshPath := setupRepo(t, func(c *fs.Config) { c.Gitless = false })
		require.NoError(t, fresh.Initialize(ctx))
		hook := filepath.Join(freshPath, ".git", "hooks", "pre-commit")
		require.NoError(t, os.MkdirAll(filepath.Dir(hook), 0755))
		require.NoError(t, os.WriteFile(hook, []byte("#!/bin/sh\nexit 1\n"), 0755))

		require.Error(t, fresh.Save(ctx, sampleNotes()))
		_, err := os.Stat(fresh.DocumentPath())
		assert.True(t, os.IsNotExist(err))
	})
}

func TestStoreOverRepository(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))

	store := core.NewStore(repo)
	require.NoError(t, store.Load(ctx))
	n, err := store.AddNote(ctx, core.Note{Title: "persisted", Tags: []string{"disk"}})
	require.NoError(t, err)

	reopened := core.NewStore(repo)
	require.NoError(t, reopened.Load(ctx))
	got, err := reopened.Get(n.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
	assert.Equal(t, []string{"disk"}, reopened.AllTags())
}
