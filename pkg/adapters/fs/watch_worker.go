package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/minddump/pkg/core"
)

// watchDebounce is how long the watcher waits for writes to settle.
const watchDebounce = 50 * time.Millisecond

type watchWorker struct {
	*worker.BaseWorker
	repo      *Repository
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(repo *Repository, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		repo:       repo,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// The document is replaced by rename, so watch its directory.
	if err := watcher.Add(w.repo.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.repo.Path, err)
	}
	if info, err := os.Stat(filepath.Join(w.repo.Path, ".git")); err == nil && info.IsDir() {
		_ = watcher.Add(filepath.Join(w.repo.Path, ".git"))
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(watchDebounce)
	w.repo.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"document":          w.repo.filename(),
		}
	})
}

// handleGitLockEvent tracks .git/index.lock so the watcher pauses while git
// rewrites the working tree. It reports whether the event was consumed.
func (w *watchWorker) handleGitLockEvent(event fsnotify.Event, gitLocked bool) (handled bool, locked bool) {
	if filepath.Base(event.Name) != "index.lock" || filepath.Base(filepath.Dir(event.Name)) != ".git" {
		return false, gitLocked
	}

	switch {
	case event.Has(fsnotify.Create):
		w.repo.config.Logger.Debug("git operations detected, pausing watcher")
		return true, true
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.repo.config.Logger.Debug("git operations finished, reconciling")
		return true, false
	}
	return true, gitLocked
}

// reconcileAfterGitUnlock checks for changes missed while git held the lock.
func (w *watchWorker) reconcileAfterGitUnlock(ctx context.Context) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		w.checkDocument(ctx, "reconciliation")
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.repo.reportError(fmt.Errorf("reconcile panic: %w", err))
	}))
}

// isDocumentEvent filters out everything but writes to the document itself.
func (w *watchWorker) isDocumentEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return false
	}
	if base != w.repo.filename() {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// checkDocument emits a reload event if the document was changed by someone else.
func (w *watchWorker) checkDocument(ctx context.Context, source string) {
	changed, err := w.repo.changedOnDisk()
	if err != nil {
		w.repo.reportError(fmt.Errorf("failed to read document: %w", err))
		return
	}
	if !changed {
		return
	}
	w.repo.config.Logger.Debug("external change detected", "source", source)
	w.repo.recordReload()
	w.sendEvent(ctx, core.Event{Type: core.EventReload, Timestamp: time.Now()})
}

// sendEvent delivers an event, giving up when the worker is stopping.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	defer func() {
		// The events channel may be closed during shutdown.
		_ = recover()
	}()
	select {
	case w.events <- event:
	case <-ctx.Done():
	}
}

func (w *watchWorker) handleWatcherError(err error) {
	w.repo.reportError(fmt.Errorf("fsnotify: %w", err))
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			// Stack traces only at debug level.
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				w.repo.config.Logger.Error("watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// In-flight debounced checks must finish before the channel can close.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	var gitLocked bool
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}

			if handled, locked := w.handleGitLockEvent(event, gitLocked); handled {
				wasLocked := gitLocked
				gitLocked = locked
				if wasLocked && !gitLocked {
					w.reconcileAfterGitUnlock(ctx)
				}
				continue
			}
			if gitLocked || !w.isDocumentEvent(event) {
				continue
			}

			w.debouncer.add(w.repo.filename(), func() {
				w.checkDocument(ctx, "filesystem")
			})

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
