package ports

// Searcher encapsulates a literal search pattern and its matching flags.
// A Searcher is stateless with respect to any one buffer and may be reused
// across buffers. The occurrence cache keys entries by Searcher identity, so
// implementations should be pointer types and callers should reuse the same
// instance across queries that may share cache state.
type Searcher interface {
	// Pattern returns the literal search string.
	Pattern() string

	// PatternLength returns len(Pattern()).
	PatternLength() int

	// WholeWord reports whether matches must fall on identifier boundaries.
	WholeWord() bool

	// EscapeAware reports whether backslash-escape sequences are respected
	// when checking identifier boundaries (string-literal contexts).
	EscapeAware() bool

	// ScanNext returns the index of the next raw occurrence of the pattern
	// in text[from:to), or -1 if there is none. Boundary filtering is the
	// caller's concern; this is the raw scan-to-next-occurrence primitive.
	ScanNext(text string, from, to int) int
}
