package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/minddump/pkg/core"
)

// New opens the storage at uri, loads it and returns a ready store.
//
//	store, err := minddump.New("./notes", minddump.WithVersioning(true))
//
// The uri is adapter-specific: a directory for "fs", a database file for "sqlite".
func New(uri string, opts ...Option) (*core.Store, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := parseOptions(opts)
	storeOpts := append([]core.StoreOption{}, o.storeOpts...)
	if o.logger != nil {
		storeOpts = append(storeOpts, core.WithLogger(o.logger))
	}
	if readOnly, _ := o.config["read_only"].(bool); readOnly {
		storeOpts = append(storeOpts, core.WithReadOnly(true))
	}

	store := core.NewStore(repo, storeOpts...)
	if err := store.Load(context.Background()); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return store, nil
}
