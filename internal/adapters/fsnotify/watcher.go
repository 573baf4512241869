// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It watches the directory containing the
// target file rather than the file itself: the catalog is replaced by
// rename on every save, which would silently drop a watch held on the old
// inode. Events for sibling files are filtered out.
package fsnotify

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval suppresses the event bursts editors and atomic saves
// produce for a single logical change.
const debounceInterval = 100 * time.Millisecond

// Watcher implements ports.Watcher for a single file.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring path. onChange fires when the file is written
// or replaced; rapid successive events are debounced.
func (w *Watcher) Watch(path string, onChange func(path string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	var (
		dmu  sync.Mutex
		last time.Time
	)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if event.Name != absPath {
					continue
				}
				// A rename-over lands as Create; an in-place edit as
				// Write. Remove is ignored: there is nothing to reload
				// until the file reappears.
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				dmu.Lock()
				now := time.Now()
				if now.Sub(last) < debounceInterval {
					dmu.Unlock()
					continue
				}
				last = now
				dmu.Unlock()

				onChange(absPath)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
