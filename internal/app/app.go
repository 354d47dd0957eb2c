// Package app wires the adapters and domain services into one treegrep
// instance scoped to a single project directory. The CLI constructs an App,
// runs searches or settings commands through it, and closes it on exit.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/treegrep/internal/adapters/bbolt"
	fsw "github.com/corey/treegrep/internal/adapters/fsnotify"
	"github.com/corey/treegrep/internal/adapters/plaintext"
	"github.com/corey/treegrep/internal/adapters/treesitter"
	"github.com/corey/treegrep/internal/config"
	"github.com/corey/treegrep/internal/domain/attribute"
	"github.com/corey/treegrep/internal/domain/hints"
	"github.com/corey/treegrep/internal/domain/occurrence"
	"github.com/corey/treegrep/internal/domain/usage"
	"github.com/corey/treegrep/internal/logging"
	"github.com/corey/treegrep/internal/ports"
)

// dataDirName is the per-project directory holding the store and any
// locally installed grammars.
const dataDirName = ".treegrep"

// Config configures New. Only ProjectRoot is required; every other field has
// a production default and exists so tests can substitute lighter pieces.
type Config struct {
	ProjectRoot string

	// Settings overrides the on-disk configuration. When nil the project's
	// .treegrep.yaml (or the built-in defaults) is loaded.
	Settings *config.Config

	// Log is the base logger. Nil means slog.Default().
	Log *slog.Logger

	// Parser overrides the default tree-sitter parser with plain-text
	// fallback. Regions goes with it; both nil or both set.
	Parser  ports.Parser
	Regions ports.RegionProvider

	// StorePath overrides the bbolt store location.
	StorePath string

	// Watcher overrides the fsnotify watcher used by Watch.
	Watcher ports.Watcher
}

// App is one treegrep instance bound to a project root.
type App struct {
	root    string
	project string
	cfg     config.Config
	log     *slog.Logger

	store  *bbolt.Store
	parser ports.Parser
	cache  *occurrence.Cache
	attr   *attribute.Attributor

	Hints *hints.Service
	Usage *usage.Logger

	mu      sync.Mutex
	trees   map[string]*parsedFile
	watcher ports.Watcher
}

// parsedFile is a cached parse result, valid while the file's stat signature
// is unchanged.
type parsedFile struct {
	modTime time.Time
	size    int64
	root    ports.Node
	buf     *ports.Buffer
}

// New builds a fully wired App. On error, everything constructed so far is
// released before returning.
func New(cfg Config) (*App, error) {
	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	settings := cfg.Settings
	if settings == nil {
		loaded, err := config.Load(root)
		if err != nil {
			return nil, err
		}
		settings = &loaded
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	storePath := cfg.StorePath
	if storePath == "" {
		storePath = filepath.Join(root, dataDirName, "treegrep.db")
	}
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := bbolt.NewStore(storePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	parser := cfg.Parser
	regions := cfg.Regions
	if parser == nil {
		ts := treesitter.NewParser()
		ts.SetGrammarPaths(treesitter.DefaultGrammarPaths(root))
		regions = treesitter.NewInjectionProvider(ts, logging.WithComponent(log, "regions"))
		parser = &parserChain{primary: ts, fallback: plaintext.NewParser()}
	}

	cache := occurrence.NewCache()

	a := &App{
		root:    root,
		project: root,
		cfg:     *settings,
		log:     log,
		store:   store,
		parser:  parser,
		cache:   cache,
		attr:    attribute.New(cache, regions, logging.WithComponent(log, "attribute")),
		Hints:   hints.NewService(store, logging.WithComponent(log, "hints")),
		trees:   make(map[string]*parsedFile),
		watcher: cfg.Watcher,
	}

	a.Usage = usage.NewLogger(a.project, store, logging.WithComponent(log, "usage"))
	a.Usage.Register("search", 1)
	a.Usage.Register("hints", 1)
	a.Usage.LogRegisteredGroups()

	return a, nil
}

// Close stops watching and releases the store.
func (a *App) Close() error {
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()

	var errs []error
	if w != nil {
		if err := w.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ProjectID returns the identifier used to key persisted state.
func (a *App) ProjectID() string { return a.project }

// Settings returns the loaded project configuration.
func (a *App) Settings() config.Config { return a.cfg }

// Counters returns the project's aggregated usage counters, keyed
// "group/event".
func (a *App) Counters() (map[string]uint64, error) {
	return a.store.Counters(a.project)
}

// HintSettings returns the merged hint settings visible for a language.
// Empty language means the global settings.
func (a *App) HintSettings(language string) (ports.HintSettings, error) {
	return a.Hints.Effective(a.project, language)
}

// SetHintEnabled toggles hints globally (empty language) or per language.
func (a *App) SetHintEnabled(language string, on bool) (bool, error) {
	changed, err := a.Hints.SetEnabled(a.project, language, on)
	if changed {
		a.Usage.LogData("hints", "changed", map[string]any{"language": language})
	}
	return changed, err
}

// SetHintOption toggles one hint option globally or per language.
func (a *App) SetHintOption(language, option string, on bool) (bool, error) {
	changed, err := a.Hints.SetOption(a.project, language, option, on)
	if changed {
		a.Usage.LogData("hints", "changed", map[string]any{"language": language, "option": option})
	}
	return changed, err
}

// ResetHints drops all persisted hint settings for the project.
func (a *App) ResetHints() error {
	return a.Hints.Reset(a.project)
}

// parsed returns the cached parse of path, reparsing when the file changed
// since the cached entry was built.
func (a *App) parsed(path string) (ports.Node, *ports.Buffer, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	if pf, ok := a.trees[path]; ok && pf.modTime.Equal(fi.ModTime()) && pf.size == fi.Size() {
		a.mu.Unlock()
		return pf.root, pf.buf, nil
	}
	a.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	root, buf, err := a.parser.Parse(path, data)
	if err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	a.trees[path] = &parsedFile{modTime: fi.ModTime(), size: fi.Size(), root: root, buf: buf}
	a.mu.Unlock()
	return root, buf, nil
}

// Invalidate drops the cached parse for one file. Occurrence cache entries
// keyed by the old buffer fall away once the buffer is collected.
func (a *App) Invalidate(path string) {
	a.mu.Lock()
	delete(a.trees, path)
	a.mu.Unlock()
}

// InvalidateAll drops every cached parse.
func (a *App) InvalidateAll() {
	a.mu.Lock()
	a.trees = make(map[string]*parsedFile)
	a.mu.Unlock()
}

// newWatcher builds the watcher for Watch, honoring the test override.
func (a *App) newWatcher() (ports.Watcher, error) {
	if a.watcher != nil {
		return a.watcher, nil
	}
	return fsw.NewWatcher()
}

// parserChain tries the tree-sitter parser first and falls back to the
// plain-text parser for files with no registered grammar, so search works in
// any file type.
type parserChain struct {
	primary  *treesitter.Parser
	fallback *plaintext.Parser
}

func (p *parserChain) Parse(path string, source []byte) (ports.Node, *ports.Buffer, error) {
	root, buf, err := p.primary.Parse(path, source)
	if err == nil {
		return root, buf, nil
	}
	if errors.Is(err, treesitter.ErrNoGrammar) {
		return p.fallback.Parse(path, source)
	}
	return nil, nil, err
}

func (p *parserChain) SupportsExtension(string) bool { return true }
