// Package attribute maps flat-buffer pattern occurrences back onto the nodes
// of a parsed document tree. Given a scope node, it finds the deepest leaf at
// each occurrence, walks up to the scope invoking a visitor at every ancestor
// wide enough to contain the pattern, and recurses into embedded-language
// sub-trees when the match lies fully inside one.
package attribute

import (
	"context"
	"log/slog"

	"github.com/corey/treegrep/internal/domain/occurrence"
	"github.com/corey/treegrep/internal/ports"
)

// Attributor runs occurrence attribution over document trees. The zero value
// is not usable; construct with New.
type Attributor struct {
	cache   *occurrence.Cache
	regions ports.RegionProvider
	log     *slog.Logger
}

// New builds an Attributor. regions may be nil when the caller has no
// embedded-language support; log may be nil to use the default logger.
func New(cache *occurrence.Cache, regions ports.RegionProvider, log *slog.Logger) *Attributor {
	if log == nil {
		log = slog.Default()
	}
	return &Attributor{cache: cache, regions: regions, log: log}
}

// ProcessScope finds every occurrence of the searcher's pattern inside
// scope's text range and invokes visit at each containing ancestor, in
// ascending offset order. It returns false if the visitor (or an embedded
// traversal) requested a stop, true otherwise. The only error returned is
// cancellation; range and structural problems are logged and degrade to
// fewer results.
func (a *Attributor) ProcessScope(ctx context.Context, scope ports.Node, buf *ports.Buffer, s ports.Searcher, visit ports.Visitor) (bool, error) {
	return a.processScope(ctx, scope, buf, s, visit, true)
}

func (a *Attributor) processScope(ctx context.Context, scope ports.Node, buf *ports.Buffer, s ports.Searcher, visit ports.Visitor, withRegions bool) (bool, error) {
	offsets, err := a.occurrencesInScope(ctx, scope, buf, s)
	if err != nil {
		return false, err
	}
	return a.processAtOffsets(ctx, scope, buf, s, offsets, visit, withRegions)
}

// occurrencesInScope returns scope-relative occurrence offsets. An invalid
// scope range (stale after a concurrent edit) is logged with diagnostics and
// treated as zero matches.
func (a *Attributor) occurrencesInScope(ctx context.Context, scope ports.Node, buf *ports.Buffer, s ports.Searcher) ([]int, error) {
	start := absoluteStart(scope)
	end := start + scope.TextLength()

	offsets, err := a.cache.Occurrences(ctx, buf, start, end, s)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		a.log.Error("scope range out of buffer bounds",
			"scope_kind", scope.Kind(),
			"range_start", start,
			"range_end", end,
			"buffer_len", buf.Len(),
			"err", err)
		return nil, nil
	}
	for i := range offsets {
		offsets[i] -= start
	}
	return offsets, nil
}

// processAtOffsets walks each scope-relative offset up the tree. Offsets
// must be ascending; the incremental leaf finder depends on it.
func (a *Attributor) processAtOffsets(ctx context.Context, scope ports.Node, buf *ports.Buffer, s ports.Searcher, offsets []int, visit ports.Visitor, withRegions bool) (bool, error) {
	if len(offsets) == 0 {
		return true, nil
	}

	var last ports.Node
	for _, offset := range offsets {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		leaf := findNextLeafAt(scope, last, offset)
		if leaf == nil {
			a.log.Error("no leaf at occurrence offset",
				"scope_kind", scope.Kind(), "offset", offset)
			continue
		}
		offsetInLeaf, ok := offsetWithin(leaf, scope, offset)
		if !ok {
			a.log.Error("leaf outside scope at occurrence offset",
				"scope_kind", scope.Kind(), "leaf_kind", leaf.Kind(), "offset", offset)
			continue
		}
		keepGoing, err := a.processTreeUp(ctx, scope, leaf, offsetInLeaf, buf, s, visit, withRegions)
		if err != nil {
			return false, err
		}
		if !keepGoing {
			return false, nil
		}
		last = leaf
	}
	return true, nil
}

// processTreeUp walks from leaf to scope, adjusting the running offset by
// each node's position in its parent. The visitor runs at every ancestor
// whose remaining length can hold the pattern. Once a node is wide enough,
// every ancestor above is too, so the width check short-circuits.
func (a *Attributor) processTreeUp(ctx context.Context, scope, leaf ports.Node, offsetInLeaf int, buf *ports.Buffer, s ports.Searcher, visit ports.Visitor, withRegions bool) (bool, error) {
	patternLen := s.PatternLength()
	cur := leaf
	curOffset := offsetInLeaf
	contains := false
	var prev ports.Node
	var run ports.Node

	for run != scope {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if prev != nil {
			curOffset += prev.StartOffsetInParent()
		}
		prev = cur
		run = cur
		if !contains {
			contains = run.TextLength()-curOffset >= patternLen
		}
		if contains {
			if withRegions && a.regions != nil {
				handled, keepGoing, err := a.processInjected(ctx, run, curOffset, s, visit)
				if err != nil {
					return false, err
				}
				if handled {
					return keepGoing, nil
				}
			}
			if !visit(run, curOffset) {
				return false, nil
			}
		}
		cur = cur.Parent()
		if cur == nil {
			break
		}
	}

	if run != scope {
		// Mismatched scope/tree relationship. A malformed region must not
		// abort the whole search; skip the offset.
		a.log.Error("walk ended above scope",
			"scope_kind", scope.Kind(), "reached_kind", kindOf(run), "offset", offsetInLeaf)
	}
	return true, nil
}

// processInjected probes the host node's embedded regions at the match
// position. handled is true when at least one region contains the full
// match; the visitor then runs only inside the embedded traversal, never at
// the host or its ancestors. Embedded trees are traversed without their own
// region probing: one level of nesting per attribution pass.
func (a *Attributor) processInjected(ctx context.Context, host ports.Node, start int, s ports.Searcher, visit ports.Visitor) (handled, keepGoing bool, err error) {
	regions := a.regions.InjectedRegions(host)
	if len(regions) == 0 {
		return false, true, nil
	}
	matched := false
	for _, r := range regions {
		if !r.Range.ContainsRange(start, start+s.PatternLength()) {
			continue
		}
		matched = true
		ok, err := a.processScope(ctx, r.Root, r.Buf, s, visit, false)
		if err != nil {
			return true, false, err
		}
		if !ok {
			return true, false, nil
		}
	}
	return matched, true, nil
}

func kindOf(n ports.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind()
}
