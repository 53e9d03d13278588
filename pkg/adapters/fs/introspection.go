package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Document      string     `json:"document"`
	Format        string     `json:"format"`
	SystemDir     string     `json:"system_dir"`
	Gitless       bool       `json:"gitless"`
	ReadOnly      bool       `json:"read_only"`
	Writes        int        `json:"writes"`
	WatcherActive bool       `json:"watcher_active"`
	LastReload    *time.Time `json:"last_reload,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		Document:      r.filename(),
		Format:        r.serializer.Ext()[1:],
		SystemDir:     r.config.SystemDir,
		Gitless:       r.config.Gitless,
		ReadOnly:      r.config.ReadOnly,
		Writes:        r.writes,
		WatcherActive: r.watcherActive,
		LastReload:    r.lastReload,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordReload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastReload = &now
}
