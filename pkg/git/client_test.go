package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !IsInstalled() {
		t.Skip("git not installed")
	}
}

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".minddump/git.lock", nil)

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, ".minddump", "git.lock")
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	t.Run("Contention Times Out", func(t *testing.T) {
		other := NewClient(tmpDir, ".minddump/git.lock", nil)
		other.LockTimeout = 30 * time.Millisecond

		if _, err := other.Lock(); err != ErrLockTimeout {
			t.Fatalf("expected ErrLockTimeout, got %v", err)
		}
	})

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_InitAndCommit(t *testing.T) {
	requireGit(t)
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if client.IsRepo() {
		t.Fatal("empty dir reported as repo")
	}
	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if !client.IsRepo() {
		t.Fatal(".git directory not created")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := client.Add("notes.json"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit("add note"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	// Nothing staged.
	if err := client.Commit("noop"); err != nil {
		t.Fatalf("empty commit should be skipped, got %v", err)
	}

	log, err := client.Log(5)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(log) != 1 || log[0] != "add note" {
		t.Errorf("unexpected log: %v", log)
	}
}

func TestSubcommand(t *testing.T) {
	tests := map[string][]string{
		"commit": {"-c", "user.name=minddump", "-c", "user.email=minddump@localhost", "commit", "-m", "msg"},
		"status": {"status", "--porcelain"},
		"log":    {"--no-pager", "log", "-1"},
	}
	for want, args := range tests {
		if got := subcommand(args); got != want {
			t.Errorf("subcommand(%v) = %q, want %q", args, got, want)
		}
	}
}

func TestClient_RunErrorNamesSubcommand(t *testing.T) {
	requireGit(t)
	client := NewClient(t.TempDir(), "", nil)

	// Not a repository, so the commit fails.
	_, err := client.Run("-c", "user.name=minddump", "commit", "-m", "x")
	if err == nil {
		t.Fatal("expected commit outside a repository to fail")
	}
	if !strings.HasPrefix(err.Error(), "git commit failed") {
		t.Errorf("unexpected error text: %v", err)
	}
}
