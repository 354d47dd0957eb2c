package attribute

import "github.com/corey/treegrep/internal/ports"

// absoluteStart returns a node's start offset in the backing buffer.
func absoluteStart(n ports.Node) int {
	start := 0
	for cur := n; cur != nil; cur = cur.Parent() {
		start += cur.StartOffsetInParent()
	}
	return start
}

// startWithin returns n's start offset relative to ancestor, walking the
// parent chain. ok is false when ancestor is not actually an ancestor of n.
func startWithin(n, ancestor ports.Node) (int, bool) {
	start := 0
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return start, true
		}
		start += cur.StartOffsetInParent()
	}
	return 0, false
}

// offsetWithin converts a scope-relative occurrence offset into a
// leaf-relative one.
func offsetWithin(leaf, scope ports.Node, offset int) (int, bool) {
	start, ok := startWithin(leaf, scope)
	if !ok {
		return 0, false
	}
	local := offset - start
	if local < 0 {
		return 0, false
	}
	return local, true
}

// findNextLeafAt locates the leaf containing the scope-relative offset.
// When last (the leaf found for the previous, smaller offset) is given, the
// search starts from it and moves forward through siblings instead of
// descending from the scope root, which makes a full ascending scan
// amortized linear instead of quadratic. Callers must query offsets in
// ascending order for that to hold.
func findNextLeafAt(scope, last ports.Node, offset int) ports.Node {
	node := scope
	rel := offset
	if last != nil {
		lastStart, ok := startWithin(last, scope)
		if !ok {
			return nil
		}
		rel -= lastStart + last.TextLength()
		for rel >= 0 {
			next := last.NextSibling()
			if next == nil {
				last = last.Parent()
				if last == nil {
					return nil
				}
				continue
			}
			rel -= next.TextLength()
			last = next
		}
		node = last
		rel += node.TextLength()
	}
	return node.FindLeafAt(rel)
}
