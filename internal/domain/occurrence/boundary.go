package occurrence

import "github.com/corey/treegrep/internal/ports"

// acceptBoundary applies whole-identifier filtering to a raw match at index.
// Searchers without whole-word semantics accept every raw match.
//
// The before and after checks are deliberately asymmetric when escape
// handling is on. A preceding identifier character normally disqualifies the
// match, unless it is the second half of a live escape sequence (the "n" in
// "\n" is not an identifier boundary violation). A preceding non-identifier
// character disqualifies the match only when it is an unescaped backslash,
// because the match would then sit inside an escape sequence itself.
func acceptBoundary(text string, s ports.Searcher, index int) bool {
	if !s.WholeWord() {
		return true
	}

	if index > 0 {
		c := text[index-1]
		if isIdentPart(c) && c != '$' {
			if !s.EscapeAware() || index < 2 || isEscapedBackslash(text, 0, index-2) {
				return false
			}
		} else if s.EscapeAware() && !isEscapedBackslash(text, 0, index-1) {
			return false
		}
	}

	after := index + s.PatternLength()
	if after < len(text) {
		c := text[after]
		return !isIdentPart(c) || c == '$'
	}
	return true
}

// isIdentPart reports whether c can continue an identifier. Bytes >= 0x80
// start multi-byte runes, which are treated as identifier characters.
func isIdentPart(c byte) bool {
	return c == '_' || c == '$' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' ||
		c >= 0x80
}

// isEscapedBackslash reports whether the character at pos is either not a
// backslash at all, or a backslash that is itself escaped. A backslash is
// escaped when the run of consecutive backslashes ending just before it
// (bounded below by startOffset) has odd length.
func isEscapedBackslash(text string, startOffset, pos int) bool {
	if text[pos] != '\\' {
		return true
	}
	escaped := false
	for i := pos - 1; i >= startOffset && text[i] == '\\'; i-- {
		escaped = !escaped
	}
	return escaped
}
