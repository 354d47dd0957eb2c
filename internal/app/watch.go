package app

import (
	"context"
	"fmt"
)

// Watch monitors the project and re-runs the search whenever a source file
// changes, invalidating the changed file's cached parse first. onResult
// receives each fresh result; it may be called from the watcher goroutine.
// Watch returns immediately; Close (or StopWatch) ends monitoring.
func (a *App) Watch(ctx context.Context, opts Options, onResult func(*Result)) error {
	w, err := a.newWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	err = w.Watch(a.root, func(path string) {
		a.Invalidate(path)
		res, err := a.Search(ctx, opts)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			a.log.Error("watch search failed", "path", path, "err", err)
			return
		}
		onResult(res)
	})
	if err != nil {
		w.Stop()
		return fmt.Errorf("watch %s: %w", a.root, err)
	}

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

// StopWatch ends monitoring started by Watch. Safe to call when not watching.
func (a *App) StopWatch() error {
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Stop()
}
