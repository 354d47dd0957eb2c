package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatching(t *testing.T, dir string) (*Watcher, chan string) {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) {
		changed <- path
	}))
	// Give the watcher time to start.
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package main"), 0644))

	_, changed := startWatching(t, dir)

	require.NoError(t, os.WriteFile(testFile, []byte("package main // edited"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, testFile, path)
}

func TestWatcher_DetectsNewAndDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatching(t, dir)

	newFile := filepath.Join(dir, "added.go")
	require.NoError(t, os.WriteFile(newFile, []byte("package x"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok, "expected callback for new file")
	assert.Equal(t, newFile, path)

	require.NoError(t, os.Remove(newFile))
	path, ok = waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, newFile, path)
}

func TestWatcher_IgnoresNoise(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))
	cacheDir := filepath.Join(dir, ".treegrep")
	require.NoError(t, os.MkdirAll(cacheDir, 0755))

	_, changed := startWatching(t, dir)

	os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644)
	os.WriteFile(filepath.Join(cacheDir, "store.db"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, ".DS_Store"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "edit.swp"), []byte("x"), 0644)

	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for ignored files")

	codeFile := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(codeFile, []byte("package main"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for source file")
	assert.Equal(t, codeFile, path)
}

func TestWatcher_BurstCoalescesToFinalState(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main"), 0644))

	_, changed := startWatching(t, dir)

	// Editor-style save: truncate then write, well inside the debounce
	// window. The callback must see the final content, not the empty
	// intermediate file.
	f, err := os.Create(file)
	require.NoError(t, err)
	_, err = f.WriteString("package main // v2")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	path, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok, "expected callback for save burst")
	assert.Equal(t, file, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main // v2", string(content))

	_, ok = waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "burst should coalesce into one callback")
}

func TestWatcher_StopCleanup(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	require.NoError(t, w.Watch(dir, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	}))

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	os.WriteFile(filepath.Join(dir, "after_stop.go"), []byte("package x"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")
	assert.NoError(t, w.Stop(), "double stop is safe")
}
