// Package testtree builds small document trees with a known text layout for
// tests, renders their structure as indented text, and provides fake
// implementations of the search ports (searcher, region provider) so domain
// tests stay free of adapter dependencies.
package testtree

import (
	"strings"

	"github.com/corey/treegrep/internal/ports"
)

// Node is an in-memory tree node. Leaves carry text; a branch spans the
// concatenation of its children with no gaps.
type Node struct {
	kind           string
	text           string
	parent         *Node
	children       []*Node
	index          int
	offsetInParent int
	length         int
}

// Leaf creates a leaf node with the given kind and text.
func Leaf(kind, text string) *Node {
	return &Node{kind: kind, text: text, length: len(text)}
}

// Branch creates a branch node spanning the given children in order.
func Branch(kind string, children ...*Node) *Node {
	b := &Node{kind: kind, children: children}
	offset := 0
	for i, c := range children {
		c.parent = b
		c.index = i
		c.offsetInParent = offset
		offset += c.length
	}
	b.length = offset
	return b
}

func (n *Node) Parent() ports.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) ChildAt(i int) ports.Node { return n.children[i] }

func (n *Node) NextSibling() ports.Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *Node) StartOffsetInParent() int { return n.offsetInParent }

func (n *Node) TextLength() int { return n.length }

func (n *Node) Kind() string { return n.kind }

// FindLeafAt descends to the leaf containing offset (relative to n).
func (n *Node) FindLeafAt(offset int) ports.Node {
	if offset < 0 || offset >= n.length {
		return nil
	}
	cur := n
	for len(cur.children) > 0 {
		found := false
		for _, c := range cur.children {
			if c.offsetInParent <= offset && offset < c.offsetInParent+c.length {
				offset -= c.offsetInParent
				cur = c
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return cur
}

// Text returns the text the node spans.
func (n *Node) Text() string {
	if len(n.children) == 0 {
		return n.text
	}
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// BufferOf wraps the root's text in a fresh buffer.
func BufferOf(root *Node) *ports.Buffer {
	return ports.NewBuffer(root.Text())
}

// Render returns an indented text representation of the tree, one node per
// line, children indented one space deeper than their parent.
func Render(n ports.Node, presenter func(ports.Node) string) string {
	var sb strings.Builder
	renderSubtree(n, 0, presenter, &sb)
	return sb.String()
}

func renderSubtree(n ports.Node, level int, presenter func(ports.Node) string, sb *strings.Builder) {
	sb.WriteString(strings.Repeat(" ", level))
	sb.WriteString(presenter(n))
	sb.WriteString("\n")
	for i := 0; i < n.ChildCount(); i++ {
		renderSubtree(n.ChildAt(i), level+1, presenter, sb)
	}
}

// KindPresenter renders a node as its kind.
func KindPresenter(n ports.Node) string { return n.Kind() }
