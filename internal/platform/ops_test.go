package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/minddump/internal/platform"
	"github.com/aretw0/minddump/pkg/adapters/fs"
	"github.com/aretw0/minddump/pkg/adapters/sqlite"
	"github.com/aretw0/minddump/pkg/core"
	"github.com/aretw0/minddump/pkg/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("AutoInit=true Creates Directory", func(t *testing.T) {
		dataPath := filepath.Join(t.TempDir(), "notes")

		repo, err := platform.Init(dataPath, platform.WithAutoInit(true), platform.WithForceTemp(true))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		fsRepo, ok := repo.(*fs.Repository)
		if !ok {
			t.Fatalf("Expected fs repository")
		}
		if fsRepo.Path != dataPath {
			t.Errorf("Expected path %s, got %s", dataPath, fsRepo.Path)
		}
		if info, err := os.Stat(dataPath); err != nil || !info.IsDir() {
			t.Errorf("data directory not created")
		}
		if _, err := os.Stat(filepath.Join(dataPath, ".git")); !os.IsNotExist(err) {
			t.Errorf(".git should not exist unless versioning is requested")
		}
	})

	t.Run("Versioning Initializes Git", func(t *testing.T) {
		if !git.IsInstalled() {
			t.Skip("git not installed")
		}
		dataPath := filepath.Join(t.TempDir(), "versioned")

		_, err := platform.Init(dataPath, platform.WithAutoInit(true), platform.WithVersioning(true), platform.WithForceTemp(true))
		require.NoError(t, err)
		assert.DirExists(t, filepath.Join(dataPath, ".git"))
	})

	t.Run("AutoInit=false Fails if Directory Missing", func(t *testing.T) {
		dataPath := filepath.Join(t.TempDir(), "missing")

		_, err := platform.Init(dataPath, platform.WithAutoInit(false), platform.WithMustExist(true), platform.WithForceTemp(true))
		if err == nil {
			t.Error("Expected failure for missing directory when AutoInit=false")
		}
	})

	t.Run("SQLite Adapter", func(t *testing.T) {
		dir := t.TempDir()

		repo, err := platform.Init(dir, platform.WithAdapter("sqlite"), platform.WithForceTemp(true))
		require.NoError(t, err)
		defer repo.(core.Closer).Close()

		_, ok := repo.(*sqlite.Repository)
		assert.True(t, ok)
		assert.FileExists(t, filepath.Join(dir, platform.DefaultDatabaseName))
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("redis"))
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Store Persists Through Adapter", func(t *testing.T) {
		dir := t.TempDir()
		opts := []platform.Option{platform.WithAutoInit(true), platform.WithForceTemp(true), platform.WithFormat("yaml")}

		store, err := platform.New(dir, opts...)
		require.NoError(t, err)
		_, err = store.AddNote(ctx, core.Note{Title: "remember me"})
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "notes.yaml"))

		reopened, err := platform.New(dir, opts...)
		require.NoError(t, err)
		assert.Equal(t, 1, reopened.Len())
	})

	t.Run("ReadOnly Store", func(t *testing.T) {
		store, err := platform.New(t.TempDir(), platform.WithAutoInit(true), platform.WithReadOnly(true))
		require.NoError(t, err)

		_, err = store.AddNote(ctx, core.Note{Title: "nope"})
		assert.ErrorIs(t, err, core.ErrReadOnly)
	})
}

func TestResolveDataPath(t *testing.T) {
	inTemp := filepath.Join(os.TempDir(), "already-temp")
	assert.Equal(t, inTemp, platform.ResolveDataPath(inTemp, true))
	assert.Equal(t, "./notes", platform.ResolveDataPath("./notes", false))

	sandboxed := platform.ResolveDataPath("/home/someone/notes", true)
	assert.Equal(t, filepath.Join(os.TempDir(), "minddump-dev", "notes"), sandboxed)
}
