// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the directory holding a file rather than the file itself, so
// atomic saves (write temp, rename over) keep being seen, and debounces rapid
// events (editors often trigger multiple writes per save).
package fsnotify

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval collapses the burst of events a single save produces.
const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// NewWatcher creates a new file system watcher.
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

// WatchFile starts monitoring path. onChange is called with the absolute path
// once the burst of events from a save has settled.
func (w *Watcher) WatchFile(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Trailing-edge debounce: fire once the file has been quiet for
		// debounceInterval, so the callback reads the finished content.
		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != absPath {
					continue
				}
				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounceInterval)
				} else {
					timer.Reset(debounceInterval)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				onChange(absPath)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers on its own

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
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}
