// Package watch provides a recursive directory watcher with a debounced
// change callback. The server uses it in folder-feeds mode to swap in a
// fresh folder index after the tree settles.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a directory tree and invokes a callback once changes
// have settled for the debounce interval.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	onChange func()

	fireMu    sync.Mutex
	fireTimer *time.Timer
	fireDelay time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New creates a Watcher and starts watching the tree rooted at root.
func New(root string, debounce time.Duration, onChange func(), logger *log.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		root:      root,
		watcher:   fsWatcher,
		logger:    logger,
		onChange:  onChange,
		fireDelay: debounce,
		done:      make(chan struct{}),
	}

	w.addWatchRecursive(root)

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		w.fireMu.Lock()
		if w.fireTimer != nil {
			w.fireTimer.Stop()
			w.fireTimer = nil
		}
		w.fireMu.Unlock()

		w.closeErr = w.watcher.Close()
		w.wg.Wait()
	})
	return w.closeErr
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addWatchRecursive(event.Name)
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.scheduleFire()
	}
}

func (w *Watcher) scheduleFire() {
	select {
	case <-w.done:
		return
	default:
	}

	w.fireMu.Lock()
	defer w.fireMu.Unlock()

	if w.fireTimer != nil {
		w.fireTimer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(w.fireDelay, func() {
		w.onChange()

		w.fireMu.Lock()
		if w.fireTimer == timer {
			w.fireTimer = nil
		}
		w.fireMu.Unlock()
	})

	w.fireTimer = timer
}

func (w *Watcher) addWatchRecursive(path string) {
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Printf("walk error for %s: %v", p, err)
			return nil
		}

		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				w.logger.Printf("watcher add failure for %s: %v", p, err)
			}
		}
		return nil
	})
}
