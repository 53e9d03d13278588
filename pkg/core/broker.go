package core

import (
	"context"
	"log/slog"
	"sync"
)

// broker fans committed events out to Watch subscribers.
// A full subscriber buffer drops the event rather than blocking the writer.
type broker struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	buffer int
	logger *slog.Logger
}

func newBroker(buffer int, logger *slog.Logger) *broker {
	return &broker{
		subs:   make(map[int]chan Event),
		buffer: buffer,
		logger: logger,
	}
}

func (b *broker) subscribe(ctx context.Context) <-chan Event {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		close(ch)
	}()
	return ch
}

func (b *broker) publish(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range events {
		for id, ch := range b.subs {
			select {
			case ch <- e:
			default:
				b.logger.Warn("subscriber buffer full, dropping event", "subscriber", id, "event", e.String())
			}
		}
	}
}

func (b *broker) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
