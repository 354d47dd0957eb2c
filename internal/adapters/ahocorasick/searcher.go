// Package ahocorasick implements the raw occurrence-scan primitive on top of
// the petar-dambovaliev/aho-corasick automaton. The searcher only locates
// candidate positions; word-boundary and escape filtering happen in the
// occurrence package.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Searcher is a single-pattern literal searcher backed by an Aho-Corasick
// DFA. It is immutable after construction and safe for concurrent use.
type Searcher struct {
	pattern     string
	wholeWord   bool
	escapeAware bool
	automaton   aho.AhoCorasick
}

// NewSearcher compiles a searcher for one literal pattern.
func NewSearcher(pattern string, wholeWord, escapeAware bool) *Searcher {
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &Searcher{
		pattern:     pattern,
		wholeWord:   wholeWord,
		escapeAware: escapeAware,
		automaton:   builder.Build([]string{pattern}),
	}
}

func (s *Searcher) Pattern() string    { return s.pattern }
func (s *Searcher) PatternLength() int { return len(s.pattern) }
func (s *Searcher) WholeWord() bool    { return s.wholeWord }
func (s *Searcher) EscapeAware() bool  { return s.escapeAware }

// ScanNext returns the start offset of the first match fully inside
// text[from:to], or -1 when there is none.
func (s *Searcher) ScanNext(text string, from, to int) int {
	if s.pattern == "" || from < 0 || to > len(text) || from >= to {
		return -1
	}
	iter := s.automaton.IterOverlapping(text[from:to])
	m := iter.Next()
	if m == nil {
		return -1
	}
	return from + m.Start()
}
