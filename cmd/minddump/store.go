package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/minddump"
	"github.com/aretw0/minddump/pkg/core"
)

// resolveData picks the data location: --data, then data.path from the
// config file, then the nearest data directory above the working directory.
func resolveData() (string, error) {
	if dataPath != "" {
		return dataPath, nil
	}
	if cfg.Data.Path != "" {
		return cfg.Data.Path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	if root, err := minddump.FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

func storeOptions(autoInit bool) []minddump.Option {
	opts := []minddump.Option{
		minddump.WithAutoInit(autoInit),
		minddump.WithMustExist(!autoInit),
		minddump.WithLogger(slog.Default()),
	}

	name := adapter
	if name == "" {
		name = cfg.Data.Adapter
	}
	if name != "" {
		opts = append(opts, minddump.WithAdapter(name))
	}

	f := format
	if f == "" {
		f = cfg.Data.Format
	}
	if f != "" {
		opts = append(opts, minddump.WithFormat(f))
	}

	switch {
	case nover:
		opts = append(opts, minddump.WithVersioning(false))
	case cfg.Data.Versioning:
		opts = append(opts, minddump.WithVersioning(true))
	}
	return opts
}

// openStore opens (and, when autoInit is set, creates) the note store.
func openStore(autoInit bool) (*core.Store, error) {
	path, err := resolveData()
	if err != nil {
		return nil, err
	}
	return minddump.New(path, storeOptions(autoInit)...)
}

func mustOpenStore() *core.Store {
	store, err := openStore(true)
	if err != nil {
		fatal("Error opening notes", err)
	}
	return store
}

// resolveID accepts a full note ID or a unique prefix of one.
func resolveID(store *core.Store, arg string) (string, error) {
	if _, err := store.Get(arg); err == nil {
		return arg, nil
	}
	var match string
	for _, n := range store.Notes() {
		if !strings.HasPrefix(n.ID, arg) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("ambiguous note id %q", arg)
		}
		match = n.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, arg)
	}
	return match, nil
}

func mustResolveID(store *core.Store, arg string) string {
	id, err := resolveID(store, arg)
	if err != nil {
		fatal("Error", err)
	}
	return id
}
