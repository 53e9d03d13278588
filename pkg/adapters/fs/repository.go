package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/minddump/pkg/core"
	"github.com/aretw0/minddump/pkg/git"
)

// DocumentName is the base name of the persisted document, without extension.
const DocumentName = "notes"

// Repository implements core.Repository as a single document on the
// filesystem, optionally versioned with Git.
type Repository struct {
	Path       string
	git        *git.Client
	config     Config
	serializer Serializer

	mu            sync.RWMutex
	digest        [sha256.Size]byte // of the last document read or written by us
	writes        int
	watcherActive bool
	lastReload    *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	Format       string // "json" (default) or "yaml"
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string // e.g. ".minddump"
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) (*Repository, error) {
	serializer, err := SerializerFor(config.Format)
	if err != nil {
		return nil, err
	}
	if config.SystemDir == "" {
		config.SystemDir = ".minddump"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:       config.Path,
		git:        git.NewClient(config.Path, filepath.Join(config.SystemDir, "git.lock"), config.Logger),
		config:     config,
		serializer: serializer,
	}, nil
}

// DocumentPath returns the absolute path of the persisted document.
func (r *Repository) DocumentPath() string {
	return filepath.Join(r.Path, r.filename())
}

func (r *Repository) filename() string {
	return DocumentName + r.serializer.Ext()
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if r.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}

	if r.config.Gitless {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore adds the system directory to .gitignore. It reports whether
// the file changed.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the document. A missing document is an empty collection.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.DocumentPath())
	if errors.Is(err, os.ErrNotExist) {
		r.remember(nil)
		return []core.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	notes, err := r.decode(data)
	if err != nil {
		return nil, err
	}
	r.remember(data)
	return notes, nil
}

func (r *Repository) decode(data []byte) ([]core.Note, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Note{}, nil
	}
	doc, err := r.serializer.Decode(data)
	if err != nil {
		return nil, err
	}
	if doc.Version > DocumentVersion {
		return nil, fmt.Errorf("document version %d is newer than supported %d", doc.Version, DocumentVersion)
	}
	notes, err := core.FromRecords(doc.Notes)
	if err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return notes, nil
}

// Save atomically rewrites the document and, unless gitless, commits it.
//
// The commit message is taken from core.ChangeReasonKey when present.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.serializer.Encode(Document{
		Version: DocumentVersion,
		Notes:   core.ToRecords(notes),
	})
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	if r.config.Gitless {
		return r.write(data)
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	prev, prevErr := os.ReadFile(r.DocumentPath())
	if prevErr != nil && !errors.Is(prevErr, os.ErrNotExist) {
		return fmt.Errorf("failed to read document: %w", prevErr)
	}

	if err := r.write(data); err != nil {
		return err
	}

	msg := fmt.Sprintf("update notes (%d)", len(notes))
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}
	if err := r.commit(msg); err != nil {
		r.restore(prev, prevErr == nil)
		return err
	}
	return nil
}

func (r *Repository) commit(msg string) error {
	if err := r.git.Add(r.filename()); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// restore puts the previous document back after a failed commit, so a
// failed Save leaves disk as it was. Caller holds the git lock.
func (r *Repository) restore(prev []byte, existed bool) {
	if _, err := r.git.Run("reset", "-q", "--", r.filename()); err != nil {
		r.config.Logger.Warn("failed to unstage document", "error", err)
	}

	var err error
	if existed {
		r.remember(prev)
		err = WriteFileAtomic(r.DocumentPath(), prev, 0644)
	} else {
		r.remember(nil)
		err = os.Remove(r.DocumentPath())
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		r.config.Logger.Error("failed to restore document", "path", r.DocumentPath(), "error", err)
		return
	}
	r.config.Logger.Debug("document restored after failed commit", "path", r.DocumentPath())
}

func (r *Repository) write(data []byte) error {
	// Remember before renaming so the watcher never mistakes our own write
	// for an external one.
	r.remember(data)
	if err := WriteFileAtomic(r.DocumentPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
	return nil
}

func (r *Repository) remember(data []byte) {
	sum := sha256.Sum256(data)
	r.mu.Lock()
	r.digest = sum
	r.mu.Unlock()
}

// changedOnDisk reports whether the document differs from what this
// repository last read or wrote.
func (r *Repository) changedOnDisk() (bool, error) {
	data, err := os.ReadFile(r.DocumentPath())
	if errors.Is(err, os.ErrNotExist) {
		data = nil
	} else if err != nil {
		return false, err
	}
	sum := sha256.Sum256(data)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return sum != r.digest, nil
}

// History returns the subjects of the last n versions of the document.
// It is empty in gitless mode.
func (r *Repository) History(n int) ([]string, error) {
	if r.config.Gitless || !r.git.IsRepo() {
		return nil, nil
	}
	return r.git.Log(n)
}

// Watch emits core.EventReload whenever another process rewrites the
// document. The channel is closed when ctx is cancelled.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	events := make(chan core.Event)
	w := newWatchWorker(r, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = w.Stop(stopCtx)
		close(events)
	}()
	return events, nil
}

func (r *Repository) reportError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.config.Logger.Error("watcher error", "error", err)
}

var _ core.Repository = (*Repository)(nil)
