// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Node is an opaque handle into a parsed document tree. Implementations must
// return canonical values: asking twice for the same underlying node must
// yield values that compare equal, because the attribution walk terminates by
// comparing against the scope node.
//
// The tree is read-only during traversal; synchronization is the caller's
// responsibility.
type Node interface {
	// Parent returns the parent node, or nil at the tree root.
	Parent() Node

	// ChildCount returns the number of children (0 for a leaf).
	ChildCount() int

	// ChildAt returns the i-th child.
	ChildAt(i int) Node

	// NextSibling returns the following sibling, or nil for the last child.
	NextSibling() Node

	// StartOffsetInParent returns this node's start offset relative to its
	// parent's start. The root returns its offset in the backing buffer.
	StartOffsetInParent() int

	// TextLength returns the length of the text this node spans.
	TextLength() int

	// FindLeafAt returns the deepest node containing the given offset,
	// relative to this node's start. Returns nil if the offset is outside
	// this node's range.
	FindLeafAt(offset int) Node

	// Kind returns the node's syntactic kind (e.g. "identifier", "comment").
	Kind() string
}

// TextRange is a half-open [Start, End) span of text offsets.
type TextRange struct {
	Start int
	End   int
}

// Len returns the number of characters covered by the range.
func (r TextRange) Len() int { return r.End - r.Start }

// ContainsRange reports whether [start, end) lies fully inside r.
func (r TextRange) ContainsRange(start, end int) bool {
	return r.Start <= start && end <= r.End
}

// Region is an embedded-language fragment hosted inside a node: a sub-tree
// parsed with a different grammar, covering Range within the host node's
// local coordinates. Buf is the fragment's own backing buffer; offsets inside
// the sub-tree are relative to it, not to the host document.
type Region struct {
	Root  Node
	Buf   *Buffer
	Range TextRange
}

// RegionProvider reports embedded-language regions for a node. Most nodes
// have none; returning an empty slice is the common case.
type RegionProvider interface {
	InjectedRegions(n Node) []Region
}

// Visitor is invoked for each tree node that contains a pattern occurrence,
// with the occurrence offset relative to the node's start. Returning false
// stops the traversal.
type Visitor func(n Node, offsetInNode int) bool
