// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/minddump/pkg/core"
)

// Watcher is implemented by *core.Store.
type Watcher interface {
	Watch(ctx context.Context) <-chan core.Event
}

type storeSource struct {
	watcher Watcher
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the committed changes of a store.
// The subscription is opened on Start and closed with its context.
func NewSource(w Watcher) lifecycle.Source {
	return &storeSource{
		watcher: w,
		out:     make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) Start(ctx context.Context) error {
	events := s.watcher.Watch(ctx)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String()).
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
