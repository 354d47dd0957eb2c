// Package occurrence finds pattern occurrences in immutable text buffers.
// Results are cached per (buffer, searcher) pair and the cached range only
// ever grows: repeated queries with expanding or shifting windows reuse the
// offsets already found instead of rescanning covered bytes.
package occurrence

import (
	"runtime"
	"sync"
	"weak"

	"github.com/corey/treegrep/internal/ports"
)

// entry is the cached scan state for one (buffer, searcher) pair: the range
// already scanned and the sorted offsets found within it. Entries are
// replaced wholesale, never mutated in place, so readers holding a *entry
// always see a consistent (range, offsets) pair.
type entry struct {
	start   int
	end     int
	offsets []int
}

// covers reports whether the entry's scanned range includes [start, end).
func (e *entry) covers(start, end int) bool {
	return e.start <= start && e.end >= end
}

// Cache memoizes occurrence scans. The buffer key is held weakly: once a
// buffer becomes unreachable elsewhere, its entries are evicted by a runtime
// cleanup and the buffer is free to be collected. Searcher values inside an
// entry map are held strongly for as long as the buffer lives.
//
// Safe for concurrent use. Entry extension by two concurrent callers resolves
// by whole-entry replacement; the losing writer's extra coverage is dropped,
// never merged into a corrupt state.
type Cache struct {
	mu      sync.Mutex
	buffers map[weak.Pointer[ports.Buffer]]map[ports.Searcher]*entry
}

// NewCache returns an isolated cache. Tests use this to avoid cross-test
// interference with the shared instance.
func NewCache() *Cache {
	return &Cache{buffers: make(map[weak.Pointer[ports.Buffer]]map[ports.Searcher]*entry)}
}

var shared = NewCache()

// Shared returns the process-wide occurrence cache.
func Shared() *Cache { return shared }

// lookup returns the current entry for (buf, s), or nil.
func (c *Cache) lookup(buf *ports.Buffer, s ports.Searcher) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.buffers[weak.Make(buf)]
	if m == nil {
		return nil
	}
	return m[s]
}

// store replaces the entry for (buf, s). The first store for a buffer
// registers a cleanup that evicts the buffer's entries once it is collected.
func (c *Cache) store(buf *ports.Buffer, s ports.Searcher, e *entry) {
	key := weak.Make(buf)
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.buffers[key]
	if m == nil {
		m = make(map[ports.Searcher]*entry, 1)
		c.buffers[key] = m
		runtime.AddCleanup(buf, func(k weak.Pointer[ports.Buffer]) {
			c.mu.Lock()
			delete(c.buffers, k)
			c.mu.Unlock()
		}, key)
	}
	m[s] = e
}

// len reports the number of live buffer keys, for tests.
func (c *Cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffers)
}
