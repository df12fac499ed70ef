// Package watch notifies a callback when watched files settle after a
// burst of changes. It wraps fsnotify with recursive directory watches
// and per-path debouncing so editors that save in several writes, or
// tools that rewrite a tree, trigger one callback per file instead of
// one per syscall.
package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the settle time used when Options.Debounce is unset.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned by Add after Close.
var ErrClosed = errors.New("watch: watcher closed")

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a path must stay quiet after its last write
	// before OnSettle fires. Zero or negative means DefaultDebounce.
	Debounce time.Duration

	// Filter reports whether a changed file is interesting. Nil accepts
	// every file. Explicitly added files bypass the filter; the caller
	// asked for them by name.
	Filter func(path string) bool

	// OnSettle receives the absolute path of each settled file. It runs
	// on a timer goroutine, so implementations serialize their own work.
	OnSettle func(path string)

	// OnError receives watch backend errors. Nil discards them.
	OnError func(err error)
}

// Watcher watches files and directories for changes and reports each
// file once per settled burst. Directories are watched recursively,
// including directories created while watching.
type Watcher struct {
	opts    Options
	backend *fsnotify.Watcher

	mu     sync.Mutex
	roots  []string            // directory roots, events filtered by opts.Filter
	exact  map[string]struct{} // explicitly added files, always reported
	timers map[string]*time.Timer
	closed bool

	closeCh chan struct{}
	loopWg  sync.WaitGroup
}

// New creates a Watcher and starts its event loop. Callers must Close
// it to release the underlying OS watches.
func New(opts Options) (*Watcher, error) {
	if opts.OnSettle == nil {
		return nil, errors.New("watch: OnSettle callback is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	backend, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		opts:    opts,
		backend: backend,
		exact:   make(map[string]struct{}),
		timers:  make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
	}

	w.loopWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Add watches path. Directories are watched recursively with hidden
// subdirectories skipped; a file watches its parent directory so that
// editors which replace files on save keep triggering events.
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	if info.IsDir() {
		w.roots = append(w.roots, absPath)
	} else {
		w.exact[absPath] = struct{}{}
	}
	w.mu.Unlock()

	if !info.IsDir() {
		return w.backend.Add(filepath.Dir(absPath))
	}
	return w.addRecursive(absPath)
}

// addRecursive registers root and every non-hidden subdirectory.
// Watching only directories keeps the OS watch count proportional to
// the tree shape rather than the file count.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return w.backend.Add(path)
	})
}

// Watched returns the currently watched roots and files, sorted. Useful
// for logging what a session covers.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.roots)+len(w.exact))
	paths = append(paths, w.roots...)
	for p := range w.exact {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Close stops the event loop, cancels pending debounce timers, and
// releases the OS watches. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.backend.Close()
	w.loopWg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.loopWg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.backend.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.backend.Errors:
			if !ok {
				return
			}
			if w.opts.OnError != nil {
				w.opts.OnError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelPending(path)
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	// New directories under a watched root are watched as they appear,
	// so files written into them still settle.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.underRoot(path) && !strings.HasPrefix(filepath.Base(path), ".") {
				if err := w.addRecursive(path); err != nil && w.opts.OnError != nil {
					w.opts.OnError(err)
				}
			}
			return
		}
	}

	if !w.accepts(path) {
		return
	}
	w.schedule(path)
}

// accepts decides whether a file event becomes a settle. Explicit files
// always pass; files under a root pass the hidden-name check and the
// caller's filter.
func (w *Watcher) accepts(path string) bool {
	w.mu.Lock()
	_, explicit := w.exact[path]
	under := w.underRootLocked(path)
	w.mu.Unlock()

	if explicit {
		return true
	}
	if !under {
		// Sibling of an explicitly watched file; its parent directory
		// is watched but the file itself was never asked for.
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if w.opts.Filter != nil && !w.opts.Filter(path) {
		return false
	}
	return true
}

func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.underRootLocked(path)
}

func (w *Watcher) underRootLocked(path string) bool {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// schedule arms or extends the debounce timer for path. A burst of
// writes keeps pushing the deadline; the callback fires once the path
// stays quiet for the full debounce window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.opts.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.settle(path)
	})
}

func (w *Watcher) settle(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	closed := w.closed
	w.mu.Unlock()

	if closed {
		return
	}
	// The file may have been removed during the quiet window.
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}
	w.opts.OnSettle(path)
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
}
