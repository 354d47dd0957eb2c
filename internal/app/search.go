package app

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corey/treegrep/internal/adapters/ahocorasick"
	"github.com/corey/treegrep/internal/ports"
)

// maxFileSize caps how large a file the search will parse.
const maxFileSize = 4 << 20

// Options controls one search run.
type Options struct {
	Pattern     string
	WholeWord   bool
	EscapeAware bool

	// Kind restricts matches to occurrences attributed to a node of this
	// syntactic kind anywhere on the leaf-to-root path (e.g. "identifier",
	// "comment"). Empty matches everything.
	Kind string

	MaxResults int
	Workers    int
	Include    []string
	Exclude    []string

	// Paths restricts the search to these files or directories, resolved
	// against the project root. Empty means the whole project.
	Paths []string
}

// SearchOptions returns Options seeded from the project configuration.
func (a *App) SearchOptions(pattern string) Options {
	return Options{
		Pattern:     pattern,
		WholeWord:   a.cfg.Search.WholeWord,
		EscapeAware: a.cfg.Search.EscapeAware,
		MaxResults:  a.cfg.Search.MaxResults,
		Workers:     a.cfg.Search.Workers,
		Include:     a.cfg.Search.Include,
		Exclude:     a.cfg.Search.Exclude,
	}
}

// Match is one attributed occurrence.
type Match struct {
	File string
	// Offset is the byte offset of the occurrence within its buffer: the
	// file for ordinary matches, the fragment for embedded ones.
	Offset int
	// Line and Col are 1-based and set only for non-embedded matches.
	Line int
	Col  int
	// Kind is the syntactic kind of the node the match was attributed to.
	Kind string
	// Embedded marks matches found inside an embedded-language fragment.
	Embedded bool
}

// Result is the outcome of one search run.
type Result struct {
	Matches      []Match
	FilesScanned int
	Truncated    bool
	Elapsed      time.Duration
}

// Search runs the pattern over every eligible file under the project root.
// Files are processed concurrently with bounded parallelism; each file's
// matches stay contiguous and files appear in walk order.
func (a *App) Search(ctx context.Context, opts Options) (*Result, error) {
	if opts.Pattern == "" {
		return nil, fmt.Errorf("empty search pattern")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = a.cfg.Search.MaxResults
		if opts.MaxResults < 1 {
			opts.MaxResults = 1000
		}
	}

	started := time.Now()
	files, err := a.collectFiles(opts)
	if err != nil {
		return nil, err
	}

	searcher := ahocorasick.NewSearcher(opts.Pattern, opts.WholeWord, opts.EscapeAware)

	var budget atomic.Int64
	budget.Store(int64(opts.MaxResults))
	var truncated atomic.Bool

	perFile := make([][]Match, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range files {
		if budget.Load() <= 0 {
			break
		}
		g.Go(func() error {
			matches, err := a.searchFile(ctx, path, searcher, opts.Kind, &budget, &truncated)
			if err != nil {
				return err
			}
			perFile[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{FilesScanned: len(files), Truncated: truncated.Load(), Elapsed: time.Since(started)}
	for _, ms := range perFile {
		res.Matches = append(res.Matches, ms...)
	}

	a.Usage.LogData("search", "executed", map[string]any{
		"files":     res.FilesScanned,
		"matches":   len(res.Matches),
		"truncated": res.Truncated,
	})
	return res, nil
}

// searchFile parses one file and attributes every occurrence in it.
func (a *App) searchFile(ctx context.Context, path string, s ports.Searcher, kind string, budget *atomic.Int64, truncated *atomic.Bool) ([]Match, error) {
	root, buf, err := a.parsed(path)
	if err != nil {
		// A file deleted mid-walk is not a search failure.
		if os.IsNotExist(err) {
			return nil, nil
		}
		a.log.Warn("skipping unreadable file", "path", path, "err", err)
		return nil, nil
	}

	rel, err := filepath.Rel(a.root, path)
	if err != nil {
		rel = path
	}

	starts := lineStarts(buf.Text())
	var matches []Match

	// The walk visits each occurrence's nodes deepest-first, parent by
	// parent. A visited node that is not the previous node's parent starts a
	// new occurrence.
	var prev ports.Node
	recorded := false
	record := func(n ports.Node, offsetInNode int) bool {
		if budget.Add(-1) < 0 {
			truncated.Store(true)
			return false
		}
		abs, top := absoluteOffset(n, offsetInNode)
		m := Match{File: rel, Offset: abs, Kind: n.Kind(), Embedded: top != root}
		if !m.Embedded {
			m.Line, m.Col = lineCol(starts, abs)
		}
		matches = append(matches, m)
		return true
	}

	_, err = a.attr.ProcessScope(ctx, root, buf, s, func(n ports.Node, offsetInNode int) bool {
		if prev == nil || n != prev.Parent() {
			recorded = false
		}
		prev = n
		if recorded {
			return true
		}
		if kind != "" && n.Kind() != kind {
			return true
		}
		recorded = true
		return record(n, offsetInNode)
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// collectFiles gathers the files to search, applying the include/exclude
// filters while walking directories. Patterns match against base names.
// Explicitly named files bypass the filters, like grep's.
func (a *App) collectFiles(opts Options) ([]string, error) {
	roots := opts.Paths
	if len(roots) == 0 {
		roots = []string{a.root}
	}

	var files []string
	for _, r := range roots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(a.root, r)
		}
		fi, err := os.Stat(r)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, r)
			continue
		}
		if err := a.walkDir(r, opts, &files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (a *App) walkDir(root string, opts Options, files *[]string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && matchesAny(opts.Exclude, name) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(opts.Exclude, name) {
			return nil
		}
		if len(opts.Include) > 0 && !matchesAny(opts.Include, name) {
			return nil
		}
		fi, err := d.Info()
		if err != nil || fi.Size() > maxFileSize {
			return nil
		}
		if isBinary(path) {
			return nil
		}
		*files = append(*files, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// isBinary sniffs the head of the file for a NUL byte.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()
	head := make([]byte, 8000)
	n, _ := f.Read(head)
	return bytes.IndexByte(head[:n], 0) >= 0
}

// absoluteOffset converts a node-relative offset to a buffer offset by
// climbing to the tree root. top distinguishes the file tree from an
// embedded fragment's tree.
func absoluteOffset(n ports.Node, offsetInNode int) (abs int, top ports.Node) {
	abs = offsetInNode
	for {
		abs += n.StartOffsetInParent()
		p := n.Parent()
		if p == nil {
			return abs, n
		}
		n = p
	}
}

// lineStarts returns the offset of the first byte of each line.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineCol converts a byte offset to 1-based line and column.
func lineCol(starts []int, offset int) (line, col int) {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	return i + 1, offset - starts[i] + 1
}

// FormatMatch renders one match the way the CLI prints it.
func FormatMatch(m Match) string {
	var b strings.Builder
	b.WriteString(m.File)
	if m.Embedded {
		fmt.Fprintf(&b, ":embedded+%d", m.Offset)
	} else {
		fmt.Fprintf(&b, ":%d:%d", m.Line, m.Col)
	}
	fmt.Fprintf(&b, " [%s]", m.Kind)
	return b.String()
}
