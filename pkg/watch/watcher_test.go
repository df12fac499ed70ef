package watch_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorevise/pkg/watch"
)

// Filesystem notification tests run serially; parallel inotify watches
// on shared temp trees make timing assertions unreliable.

const settleTimeout = 5 * time.Second

func newCollector(t *testing.T, opts watch.Options) (*watch.Watcher, chan string) {
	t.Helper()

	settles := make(chan string, 16)
	opts.OnSettle = func(path string) { settles <- path }

	w, err := watch.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	return w, settles
}

func waitForSettle(t *testing.T, settles chan string) (string, bool) {
	t.Helper()
	select {
	case path := <-settles:
		return path, true
	case <-time.After(settleTimeout):
		return "", false
	}
}

func expectQuiet(t *testing.T, settles chan string, window time.Duration) {
	t.Helper()
	select {
	case path := <-settles:
		t.Fatalf("unexpected settle for %s", path)
	case <-time.After(window):
	}
}

func TestNew_RequiresCallback(t *testing.T) {
	t.Parallel()

	_, err := watch.New(watch.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OnSettle")
}

func TestWatcher_SettlesAfterWrite(t *testing.T) {
	dir := t.TempDir()
	w, settles := newCollector(t, watch.Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, w.Add(dir))

	target := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(target, []byte("package main\n"), 0o644))

	path, ok := waitForSettle(t, settles)
	require.True(t, ok, "timed out waiting for settle")
	assert.Equal(t, target, path)
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	w, settles := newCollector(t, watch.Options{Debounce: 300 * time.Millisecond})
	require.NoError(t, w.Add(dir))

	target := filepath.Join(dir, "burst.go")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte(strings.Repeat("x", i+1)), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	_, ok := waitForSettle(t, settles)
	require.True(t, ok, "timed out waiting for settle")

	// The burst fits inside one debounce window, so one settle covers it.
	expectQuiet(t, settles, 600*time.Millisecond)
}

func TestWatcher_FilterSkipsFiles(t *testing.T) {
	dir := t.TempDir()
	w, settles := newCollector(t, watch.Options{
		Debounce: 50 * time.Millisecond,
		Filter:   func(path string) bool { return filepath.Ext(path) == ".go" },
	})
	require.NoError(t, w.Add(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	accepted := filepath.Join(dir, "keep.go")
	require.NoError(t, os.WriteFile(accepted, []byte("package keep\n"), 0o644))

	path, ok := waitForSettle(t, settles)
	require.True(t, ok, "timed out waiting for settle")
	assert.Equal(t, accepted, path)
	expectQuiet(t, settles, 300*time.Millisecond)
}

func TestWatcher_ExplicitFileBypassesFilter(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "pinned.txt")
	sibling := filepath.Join(dir, "sibling.txt")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(sibling, []byte("v1"), 0o644))

	w, settles := newCollector(t, watch.Options{
		Debounce: 50 * time.Millisecond,
		Filter:   func(string) bool { return false },
	})
	require.NoError(t, w.Add(target))

	// Watching a file watches its parent directory, but siblings were
	// never asked for and must not settle.
	require.NoError(t, os.WriteFile(sibling, []byte("v2"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))

	path, ok := waitForSettle(t, settles)
	require.True(t, ok, "timed out waiting for settle")
	assert.Equal(t, target, path)
	expectQuiet(t, settles, 300*time.Millisecond)
}

func TestWatcher_HiddenFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	w, settles := newCollector(t, watch.Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, w.Add(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.go"), []byte("x"), 0o644))
	visible := filepath.Join(dir, "visible.go")
	require.NoError(t, os.WriteFile(visible, []byte("package visible\n"), 0o644))

	path, ok := waitForSettle(t, settles)
	require.True(t, ok, "timed out waiting for settle")
	assert.Equal(t, visible, path)
}

func TestWatcher_NewDirectoryWatched(t *testing.T) {
	dir := t.TempDir()
	w, settles := newCollector(t, watch.Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, w.Add(dir))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// Give the event loop time to pick up the new directory before
	// writing into it.
	time.Sleep(300 * time.Millisecond)

	target := filepath.Join(sub, "nested.go")
	require.NoError(t, os.WriteFile(target, []byte("package sub\n"), 0o644))

	path, ok := waitForSettle(t, settles)
	require.True(t, ok, "timed out waiting for settle")
	assert.Equal(t, target, path)
}

func TestWatcher_RemoveCancelsPending(t *testing.T) {
	dir := t.TempDir()
	w, settles := newCollector(t, watch.Options{Debounce: 500 * time.Millisecond})
	require.NoError(t, w.Add(dir))

	target := filepath.Join(dir, "gone.go")
	require.NoError(t, os.WriteFile(target, []byte("package gone\n"), 0o644))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.Remove(target))

	expectQuiet(t, settles, time.Second)
}

func TestWatcher_Watched(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "single.go")
	require.NoError(t, os.WriteFile(file, []byte("package single\n"), 0o644))

	w, _ := newCollector(t, watch.Options{})
	require.NoError(t, w.Add(dir))
	require.NoError(t, w.Add(file))

	watched := w.Watched()
	assert.Contains(t, watched, dir)
	assert.Contains(t, watched, file)
}

func TestWatcher_AddNonexistent(t *testing.T) {
	w, _ := newCollector(t, watch.Options{})

	err := w.Add(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWatcher_AddAfterClose(t *testing.T) {
	w, err := watch.New(watch.Options{OnSettle: func(string) {}})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Add(t.TempDir()), watch.ErrClosed)

	// Close again is a no-op.
	require.NoError(t, w.Close())
}
