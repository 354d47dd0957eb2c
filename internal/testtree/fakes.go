package testtree

import (
	"strings"

	"github.com/corey/treegrep/internal/ports"
)

// Searcher is a plain substring searcher for tests. The raw scan step uses
// strings.Index; boundary filtering stays in the occurrence package.
type Searcher struct {
	pattern     string
	wholeWord   bool
	escapeAware bool
}

// NewSearcher builds a literal test searcher.
func NewSearcher(pattern string, wholeWord, escapeAware bool) *Searcher {
	return &Searcher{pattern: pattern, wholeWord: wholeWord, escapeAware: escapeAware}
}

func (s *Searcher) Pattern() string    { return s.pattern }
func (s *Searcher) PatternLength() int { return len(s.pattern) }
func (s *Searcher) WholeWord() bool    { return s.wholeWord }
func (s *Searcher) EscapeAware() bool  { return s.escapeAware }

func (s *Searcher) ScanNext(text string, from, to int) int {
	if from >= to {
		return -1
	}
	i := strings.Index(text[from:to], s.pattern)
	if i < 0 {
		return -1
	}
	return from + i
}

// Regions is a static region provider: hosts are registered explicitly.
type Regions struct {
	m map[ports.Node][]ports.Region
}

// NewRegions returns an empty static region provider.
func NewRegions() *Regions {
	return &Regions{m: make(map[ports.Node][]ports.Region)}
}

// Add registers an embedded region under the given host node.
func (r *Regions) Add(host ports.Node, reg ports.Region) {
	r.m[host] = append(r.m[host], reg)
}

func (r *Regions) InjectedRegions(n ports.Node) []ports.Region {
	return r.m[n]
}
