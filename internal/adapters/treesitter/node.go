package treesitter

import (
	"runtime"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/treegrep/internal/ports"
)

// Tree owns a parsed tree-sitter tree together with its source text. Node
// wrappers are canonicalized per tree so the same underlying node always
// yields the same Go value; interface comparisons in the traversal code
// depend on that.
//
// A Tree and its nodes are not safe for concurrent use.
type Tree struct {
	inner  *tree_sitter.Tree
	source []byte
	buf    *ports.Buffer
	nodes  map[uintptr]*Node
}

func newTree(inner *tree_sitter.Tree, source []byte) *Tree {
	t := &Tree{
		inner:  inner,
		source: source,
		buf:    ports.NewBuffer(string(source)),
		nodes:  make(map[uintptr]*Node),
	}
	// The C-side tree is released once the wrapper becomes unreachable.
	runtime.AddCleanup(t, func(ts *tree_sitter.Tree) { ts.Close() }, inner)
	return t
}

// Root returns the canonical wrapper for the tree's root node.
func (t *Tree) Root() ports.Node {
	return t.wrap(t.inner.RootNode())
}

// Buffer returns the text buffer the tree was parsed from.
func (t *Tree) Buffer() *ports.Buffer { return t.buf }

func (t *Tree) wrap(n *tree_sitter.Node) *Node {
	if n == nil {
		return nil
	}
	id := n.Id()
	if cached, ok := t.nodes[id]; ok {
		return cached
	}
	w := &Node{tree: t, n: n}
	t.nodes[id] = w
	return w
}

// Node adapts one tree-sitter node to the traversal contract. Offsets are
// byte offsets.
type Node struct {
	tree *Tree
	n    *tree_sitter.Node
}

func (w *Node) Parent() ports.Node {
	p := w.n.Parent()
	if p == nil {
		return nil
	}
	return w.tree.wrap(p)
}

func (w *Node) ChildCount() int { return int(w.n.ChildCount()) }

func (w *Node) ChildAt(i int) ports.Node {
	c := w.n.Child(uint(i))
	if c == nil {
		return nil
	}
	return w.tree.wrap(c)
}

func (w *Node) NextSibling() ports.Node {
	s := w.n.NextSibling()
	if s == nil {
		return nil
	}
	return w.tree.wrap(s)
}

func (w *Node) StartOffsetInParent() int {
	p := w.n.Parent()
	if p == nil {
		return 0
	}
	return int(w.n.StartByte() - p.StartByte())
}

func (w *Node) TextLength() int {
	return int(w.n.EndByte() - w.n.StartByte())
}

func (w *Node) Kind() string { return w.n.Kind() }

// FindLeafAt returns the deepest descendant containing the node-relative
// byte offset. Offsets in inter-token gaps resolve to the closest enclosing
// branch node, which the upward walk handles the same as a leaf.
func (w *Node) FindLeafAt(offset int) ports.Node {
	if offset < 0 || offset >= w.TextLength() {
		return nil
	}
	abs := uint(int(w.n.StartByte()) + offset)
	d := w.n.DescendantForByteRange(abs, abs+1)
	if d == nil {
		return nil
	}
	return w.tree.wrap(d)
}

// Text returns the source text the node spans.
func (w *Node) Text() string {
	return string(w.tree.source[w.n.StartByte():w.n.EndByte()])
}
