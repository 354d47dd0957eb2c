// Package plaintext builds a minimal document tree for files no grammar
// covers: a document root with one leaf per line. Searches over such trees
// attribute matches to lines instead of syntax nodes.
package plaintext

import (
	"strings"

	"github.com/corey/treegrep/internal/ports"
)

const (
	// KindDocument is the root node kind.
	KindDocument = "document"
	// KindLine is the per-line leaf kind.
	KindLine = "line"
)

// Parser builds plaintext trees. It accepts every file.
type Parser struct{}

// NewParser returns a plaintext parser.
func NewParser() *Parser { return &Parser{} }

// SupportsExtension always reports true; plaintext is the catch-all.
func (p *Parser) SupportsExtension(string) bool { return true }

// Parse splits the source into line leaves under a document root. It never
// fails.
func (p *Parser) Parse(_ string, source []byte) (ports.Node, *ports.Buffer, error) {
	text := string(source)
	root := &node{kind: KindDocument, length: len(text)}

	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			break // trailing empty split after a final newline
		}
		root.children = append(root.children, &node{
			kind:           KindLine,
			parent:         root,
			index:          len(root.children),
			offsetInParent: offset,
			length:         len(line),
		})
		offset += len(line)
	}
	return root, ports.NewBuffer(text), nil
}

type node struct {
	kind           string
	parent         *node
	children       []*node
	index          int
	offsetInParent int
	length         int
}

func (n *node) Parent() ports.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) ChildCount() int { return len(n.children) }

func (n *node) ChildAt(i int) ports.Node { return n.children[i] }

func (n *node) NextSibling() ports.Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *node) StartOffsetInParent() int { return n.offsetInParent }

func (n *node) TextLength() int { return n.length }

func (n *node) Kind() string { return n.kind }

func (n *node) FindLeafAt(offset int) ports.Node {
	if offset < 0 || offset >= n.length {
		return nil
	}
	if len(n.children) == 0 {
		return n
	}
	for _, c := range n.children {
		if offset < c.offsetInParent+c.length {
			return c.FindLeafAt(offset - c.offsetInParent)
		}
	}
	return nil
}
