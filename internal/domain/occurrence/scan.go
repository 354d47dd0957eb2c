package occurrence

import (
	"context"
	"errors"
	"fmt"

	"github.com/corey/treegrep/internal/ports"
)

// ErrOutOfRange is returned when a query range does not fit the buffer.
// This is a caller-contract violation: typically a stale range held across a
// concurrent edit. Callers at the attribution layer log it and degrade to
// zero matches rather than aborting a multi-file search.
var ErrOutOfRange = errors.New("occurrence: query range out of buffer bounds")

// Occurrences returns the sorted offsets in [start, end) at which the
// searcher's pattern occurs in buf, filtered to identifier boundaries when
// the searcher requires them. An occurrence must fit entirely before end.
//
// The scan is cached: if a previous query covered part of the requested
// range, only the union extension is rescanned, and the cached range grows
// monotonically. Cancellation is polled at every scan step; on cancellation
// the error from ctx is returned and the cache keeps whatever progress the
// previous complete scan had made.
func (c *Cache) Occurrences(ctx context.Context, buf *ports.Buffer, start, end int, s ports.Searcher) ([]int, error) {
	if end > buf.Len() || start < 0 || start > end {
		return nil, fmt.Errorf("%w: start=%d end=%d len=%d", ErrOutOfRange, start, end, buf.Len())
	}

	cached := c.lookup(buf, s)
	if cached == nil || !cached.covers(start, end) {
		newStart, newEnd := start, end
		if cached != nil {
			newStart = min(start, cached.start)
			newEnd = max(end, cached.end)
		}
		offsets, err := scanRange(ctx, buf.Text(), newStart, newEnd, s)
		if err != nil {
			return nil, err
		}
		cached = &entry{start: newStart, end: newEnd, offsets: offsets}
		c.store(buf, s, cached)
	}

	var out []int
	for _, occ := range cached.offsets {
		if occ > end-s.PatternLength() {
			break
		}
		if occ >= start {
			out = append(out, occ)
		}
	}
	return out, nil
}

// scanRange performs the raw linear scan over text[from:to), collecting every
// boundary-accepted occurrence. Offsets come out sorted because the scan is
// strictly forward.
func scanRange(ctx context.Context, text string, from, to int, s ports.Searcher) ([]int, error) {
	var offsets []int
	for index := from; index < to; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		index = s.ScanNext(text, index, to)
		if index < 0 {
			break
		}
		if acceptBoundary(text, s, index) {
			offsets = append(offsets, index)
		}
	}
	return offsets, nil
}

// Process invokes fn for each occurrence in [start, end), stopping early if
// fn returns false. Returns false on early stop.
func (c *Cache) Process(ctx context.Context, buf *ports.Buffer, start, end int, s ports.Searcher, fn func(offset int) bool) (bool, error) {
	offsets, err := c.Occurrences(ctx, buf, start, end, s)
	if err != nil {
		return false, err
	}
	for _, off := range offsets {
		if !fn(off) {
			return false, nil
		}
	}
	return true, nil
}

// coveredRange reports the cached scan range for tests.
func (c *Cache) coveredRange(buf *ports.Buffer, s ports.Searcher) (int, int, bool) {
	e := c.lookup(buf, s)
	if e == nil {
		return 0, 0, false
	}
	return e.start, e.end, true
}
