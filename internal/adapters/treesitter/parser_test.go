//go:build !lean

package treesitter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/treegrep/internal/adapters/ahocorasick"
	"github.com/corey/treegrep/internal/domain/attribute"
	"github.com/corey/treegrep/internal/domain/occurrence"
	"github.com/corey/treegrep/internal/ports"
)

func TestSupportsExtension(t *testing.T) {
	p := NewParser()
	assert.True(t, p.SupportsExtension(".go"))
	assert.True(t, p.SupportsExtension(".GO"), "extension match is case-insensitive")
	assert.True(t, p.SupportsExtension(".html"))
	assert.False(t, p.SupportsExtension(".xyz"))
}

func TestParse_UnknownExtension(t *testing.T) {
	p := NewParser()
	_, _, err := p.Parse("notes.xyz", []byte("whatever"))
	assert.ErrorIs(t, err, ErrNoGrammar)
}

func TestParse_GoSource(t *testing.T) {
	p := NewParser()
	src := []byte("package main\n\nvar foo = 1\n")

	root, buf, err := p.Parse("main.go", src)
	require.NoError(t, err)
	assert.Equal(t, "source_file", root.Kind())
	assert.Equal(t, string(src), buf.Text())
	assert.Equal(t, len(src), root.TextLength())

	// "foo" starts at byte 18.
	leaf := root.FindLeafAt(18)
	require.NotNil(t, leaf)
	assert.Equal(t, "identifier", leaf.Kind())
	assert.Equal(t, "foo", leaf.(*Node).Text())
}

func TestNode_CanonicalIdentity(t *testing.T) {
	p := NewParser()
	root, _, err := p.Parse("main.go", []byte("package main\n"))
	require.NoError(t, err)

	child := root.ChildAt(0)
	require.NotNil(t, child)
	assert.True(t, child.Parent() == root, "same underlying node must be the same Go value")

	leaf := root.FindLeafAt(0)
	require.NotNil(t, leaf)
	top := leaf
	for top.Parent() != nil {
		top = top.Parent()
	}
	assert.True(t, top == root)
}

func TestNode_OffsetsConsistent(t *testing.T) {
	p := NewParser()
	src := []byte("package main\n\nfunc hi() {}\n")
	root, _, err := p.Parse("main.go", src)
	require.NoError(t, err)

	// Summing StartOffsetInParent up the chain gives the leaf's absolute
	// start, and the queried offset falls inside the leaf.
	leaf := root.FindLeafAt(19) // inside "hi"
	require.NotNil(t, leaf)
	abs := 0
	for n := leaf; n != nil; n = n.Parent() {
		abs += n.StartOffsetInParent()
	}
	assert.LessOrEqual(t, abs, 19)
	assert.Greater(t, abs+leaf.TextLength(), 19)
	assert.Equal(t, "hi", leaf.(*Node).Text())
}

func findByKind(n ports.Node, kind string) ports.Node {
	if n.Kind() == kind {
		return n
	}
	for i := 0; i < n.ChildCount(); i++ {
		if found := findByKind(n.ChildAt(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func TestInjectedRegions_ScriptElement(t *testing.T) {
	p := NewParser()
	src := []byte("<html><body><script>const needle = 1;</script></body></html>")
	root, _, err := p.Parse("page.html", src)
	require.NoError(t, err)

	raw := findByKind(root, "raw_text")
	require.NotNil(t, raw, "script body parses as raw_text")

	ip := NewInjectionProvider(p, nil)
	regions := ip.InjectedRegions(raw)
	require.Len(t, regions, 1)
	assert.Equal(t, "program", regions[0].Root.Kind())
	assert.Equal(t, "const needle = 1;", regions[0].Buf.Text())
	assert.Equal(t, ports.TextRange{Start: 0, End: 17}, regions[0].Range)

	// Cached on second probe: same region value comes back.
	again := ip.InjectedRegions(raw)
	require.Len(t, again, 1)
	assert.True(t, regions[0].Root == again[0].Root)
}

func TestInjectedRegions_NonHostNode(t *testing.T) {
	p := NewParser()
	root, _, err := p.Parse("main.go", []byte("package main\n"))
	require.NoError(t, err)

	ip := NewInjectionProvider(p, nil)
	assert.Nil(t, ip.InjectedRegions(root))
}

// One provider is shared across the parallel file searches, so concurrent
// probes must not race on the region cache.
func TestInjectedRegions_ConcurrentProbes(t *testing.T) {
	p := NewParser()
	ip := NewInjectionProvider(p, nil)

	src := []byte("<html><script>var a = 1;</script><style>p { color: red; }</style></html>")
	trees := make([]ports.Node, 8)
	for i := range trees {
		root, _, err := p.Parse("page.html", src)
		require.NoError(t, err)
		trees[i] = root
	}

	var wg sync.WaitGroup
	for _, root := range trees {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var probe func(n ports.Node)
			probe = func(n ports.Node) {
				ip.InjectedRegions(n)
				for i := 0; i < n.ChildCount(); i++ {
					probe(n.ChildAt(i))
				}
			}
			for range 4 {
				probe(root)
			}
		}()
	}
	wg.Wait()

	raw := findByKind(trees[0], "raw_text")
	require.NotNil(t, raw)
	assert.Len(t, ip.InjectedRegions(raw), 1)
}

func TestAttribution_EndToEnd(t *testing.T) {
	p := NewParser()
	src := []byte("<html><body><script>const needle = 1;</script></body></html>")
	root, buf, err := p.Parse("page.html", src)
	require.NoError(t, err)

	a := attribute.New(occurrence.NewCache(), NewInjectionProvider(p, nil), nil)
	s := ahocorasick.NewSearcher("needle", true, false)

	var kinds []string
	done, err := a.ProcessScope(context.Background(), root, buf, s, func(n ports.Node, offset int) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	require.NoError(t, err)
	assert.True(t, done)

	// The match is attributed inside the embedded javascript tree.
	assert.Contains(t, kinds, "identifier")
	assert.Contains(t, kinds, "program")
	assert.NotContains(t, kinds, "script_element")
	assert.NotContains(t, kinds, "html")
}
