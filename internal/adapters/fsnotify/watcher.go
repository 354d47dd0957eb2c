// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a project directory,
// filters out non-source files and directories, and debounces rapid events
// (editors often trigger multiple writes per save). The app uses it to drop
// cached parse trees when files change.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories that never hold searchable sources.
var ignoreDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"__pycache__":  true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"build":        true,
	".treegrep":    true,
	".next":        true,
	"target":       true,
}

// File names and suffixes that never trigger a change callback.
var ignoreFiles = []string{
	".DS_Store",
	".swp",
	".pyc",
	".o",
	".so",
	".dylib",
}

const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	stopped bool
	pending map[string]*time.Timer
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:      fw,
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring projectPath recursively. onChange is called with
// the absolute path of each changed file.
func (w *Watcher) Watch(projectPath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}

	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if ignoreDirs[info.Name()] && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// New directories join the watch list.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !ignoreDirs[info.Name()] {
							w.fw.Add(path)
						}
					}
				}

				if shouldIgnorePath(path) {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(path, onChange)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers from transient errors on its own

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule arms a trailing-edge debounce for path: each new event resets the
// timer, so a burst (editor truncate+write, create+rename) collapses into one
// callback for the final state instead of firing on an intermediate one.
func (w *Watcher) schedule(path string, onChange func(filePath string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(debounceInterval, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		onChange(path)
	})
}

// Stop ends monitoring and releases all resources. Safe to call multiple
// times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for _, t := range w.pending {
		t.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath reports whether a change to path is noise.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range ignoreFiles {
		if base == suffix || strings.HasSuffix(base, suffix) {
			return true
		}
	}
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}
