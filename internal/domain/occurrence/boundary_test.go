package occurrence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/treegrep/internal/ports"
	"github.com/corey/treegrep/internal/testtree"
)

func wholeWordScan(t *testing.T, text, pattern string, escapeAware bool) []int {
	t.Helper()
	c := NewCache()
	buf := ports.NewBuffer(text)
	s := testtree.NewSearcher(pattern, true, escapeAware)
	got, err := c.Occurrences(context.Background(), buf, 0, buf.Len(), s)
	require.NoError(t, err)
	return got
}

func TestBoundary_WholeWord(t *testing.T) {
	assert.Equal(t, []int{2}, wholeWordScan(t, "a foo b", "foo", false))
	assert.Empty(t, wholeWordScan(t, "afoo", "foo", false))
	assert.Empty(t, wholeWordScan(t, "foob", "foo", false))
	assert.Equal(t, []int{0}, wholeWordScan(t, "foo", "foo", false))
	assert.Equal(t, []int{0, 8}, wholeWordScan(t, "foo bar foo", "foo", false))
}

func TestBoundary_DollarIsNotIdentifier(t *testing.T) {
	// '$' terminates and precedes identifiers without joining them.
	assert.Equal(t, []int{1}, wholeWordScan(t, "$foo$", "foo", false))
}

func TestBoundary_DigitsAndUnderscoreJoin(t *testing.T) {
	assert.Empty(t, wholeWordScan(t, "foo1", "foo", false))
	assert.Empty(t, wholeWordScan(t, "_foo", "foo", false))
	assert.Empty(t, wholeWordScan(t, "foo_bar", "foo", false))
}

func TestBoundary_LiveEscapeRejects(t *testing.T) {
	// "n" inside "\n" is an escape sequence, not a word.
	assert.Empty(t, wholeWordScan(t, `\n`, "n", true))
	// Without escape handling the backslash is just punctuation.
	assert.Equal(t, []int{1}, wholeWordScan(t, `\n`, "n", false))
}

func TestBoundary_EscapedBackslashAccepts(t *testing.T) {
	// In `\\n` the backslash pair is a literal backslash; "n" stands alone.
	assert.Equal(t, []int{2}, wholeWordScan(t, `\\n`, "n", true))
	// Three backslashes: the run before "n" is live again.
	assert.Empty(t, wholeWordScan(t, `\\\n`, "n", true))
}

func TestBoundary_EscapePrefixBeforeIdentifier(t *testing.T) {
	// The "n" in a live "\n" does not count as a preceding identifier
	// character for the following word.
	assert.Equal(t, []int{2}, wholeWordScan(t, `\nfoo`, "foo", true))
	// Without escape awareness "n" is an ordinary identifier character.
	assert.Empty(t, wholeWordScan(t, `\nfoo`, "foo", false))
}

func TestIsEscapedBackslash_RunParity(t *testing.T) {
	assert.True(t, isEscapedBackslash("xn", 0, 1), "non-backslash is trivially escaped")
	assert.False(t, isEscapedBackslash(`\`, 0, 0), "lone backslash is live")
	assert.True(t, isEscapedBackslash(`\\`, 0, 1), "second of a pair is escaped")
	assert.False(t, isEscapedBackslash(`\\\`, 0, 2), "third starts a new escape")
	assert.True(t, isEscapedBackslash(`x\\`, 0, 2), "run bounded by non-backslash")
}
