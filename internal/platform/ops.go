package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/minddump/pkg/adapters/fs"
	"github.com/aretw0/minddump/pkg/adapters/sqlite"
	"github.com/aretw0/minddump/pkg/core"
)

// DefaultDatabaseName is used when the sqlite uri is a directory.
const DefaultDatabaseName = "notes.db"

// Init resolves the storage adapter for uri and initializes it.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := parseOptions(opts)

	if o.repository != nil {
		if err := o.repository.Initialize(context.Background()); err != nil {
			return nil, err
		}
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs", "":
		repo, err = initFS(uri, o)
	case "sqlite":
		repo, err = initSQLite(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return repo, nil
}

// resolvePath applies dev safety to a user supplied path.
func resolvePath(path string, o *options) (resolved string, useTemp bool) {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe.
	bypassSafety := isReadOnly || !devSafety
	useTemp = tempDir || (IsDevRun() && !bypassSafety)
	resolved = ResolveDataPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		switch {
		case isReadOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if o.logger != nil && resolved != path && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved, useTemp
}

func initFS(path string, o *options) (core.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	format, _ := o.config["format"].(string)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	resolvedPath, useTemp := resolvePath(path, o)

	// Versioning follows the directory unless configured explicitly.
	gitless, explicit := o.config["gitless"].(bool)
	if !explicit {
		_, err := os.Stat(filepath.Join(resolvedPath, ".git"))
		gitless = err != nil
		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		Format:       format,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || (!autoInit && !useTemp),
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(uri string, o *options) (core.Repository, error) {
	isReadOnly, _ := o.config["read_only"].(bool)

	path := uri
	if path != ":memory:" {
		path, _ = resolvePath(uri, o)
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, DefaultDatabaseName)
		}
	}

	return sqlite.NewRepository(sqlite.Config{
		Path:     path,
		ReadOnly: isReadOnly,
		Logger:   o.logger,
	})
}
