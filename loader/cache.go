package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/just-scribblig/solar-challenge-week0/logger"
	"github.com/just-scribblig/solar-challenge-week0/metrics"
)

// Cache memoizes Load per ordered source list. Results are shared between
// callers and must be treated as read-only. Failed loads are not kept.
type Cache struct {
	loader   *Loader
	recorder metrics.Recorder

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	done   chan struct{}
	result *Result
	err    error
}

// NewCache wraps a loader. The recorder may be nil.
func NewCache(l *Loader, recorder metrics.Recorder) *Cache {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Cache{loader: l, recorder: recorder, entries: make(map[string]*entry)}
}

// Load returns the memoized result for sources, loading it on first use.
// Concurrent callers with the same sources share one load. A waiter whose
// context is still live loads again when the shared load was cancelled.
func (c *Cache) Load(ctx context.Context, sources []Source) (*Result, error) {
	key := Key(sources)

	for {
		c.mu.Lock()
		e, ok := c.entries[key]
		if !ok {
			break
		}
		c.mu.Unlock()
		c.recorder.RecordCacheHit()
		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if isContextErr(e.err) && ctx.Err() == nil {
			continue
		}
		return e.result, e.err
	}
	e := &entry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	c.recorder.RecordCacheMiss()
	e.result, e.err = c.loader.Load(ctx, sources)

	// Failed entries leave the map before waiters wake.
	if e.err != nil {
		c.mu.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}
	close(e.done)
	return e.result, e.err
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Invalidate drops the entry for sources. A load in flight still completes
// for its current waiters.
func (c *Cache) Invalidate(sources []Source) {
	c.mu.Lock()
	delete(c.entries, Key(sources))
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
	logger.Debugf("🧹 Cache: cleared %d entries", n)
}

// Len is the number of memoized source lists.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
