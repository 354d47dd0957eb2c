package ports

// Parser produces parsed document trees from source files. The concrete
// implementation (tree-sitter) lives in internal/adapters/treesitter; a
// plain-text fallback handles files with no registered grammar.
type Parser interface {
	// Parse parses source into a document tree and returns its root node
	// plus the backing buffer. Offsets in the tree are relative to buf.
	Parse(path string, source []byte) (root Node, buf *Buffer, err error)

	// SupportsExtension returns true if the parser can handle files with
	// this extension (e.g. ".go", ".py"). Extension includes the leading dot.
	SupportsExtension(ext string) bool
}
