package fs

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of calls per key into one call after a quiet delay.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*debounceEntry
	stopped bool
	wg      sync.WaitGroup
}

type debounceEntry struct {
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*debounceEntry),
	}
}

// add schedules fn for key, replacing any call still waiting for that key.
func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if prev, ok := d.pending[key]; ok && prev.timer.Stop() {
		d.wg.Done()
	}

	e := &debounceEntry{}
	d.wg.Add(1)
	e.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[key] == e {
			delete(d.pending, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.pending[key] = e
}

// stopAndWait cancels waiting calls and waits for running ones, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for key, e := range d.pending {
		if e.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
