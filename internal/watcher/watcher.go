// Package watcher provides debounced file system watching for tasklens workspaces.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultDebounce is the time to wait after the last file event before
// triggering a callback. Rapid changes (an editor's save dance, a batch of
// moves) coalesce into a single notification.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches workspace directories for task and config changes and
// invokes a callback with debouncing.
type Watcher struct {
	fsw      *fsnotify.Watcher
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New creates a Watcher that monitors the given directories for changes.
// The callback is invoked (debounced) whenever a relevant file changes.
func New(paths []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return &Watcher{
		fsw:      fsw,
		delay:    DefaultDebounce,
		callback: callback,
	}, nil
}

// SetDebounce overrides the debounce delay. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to errFn, or logged when
// errFn is nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			log.WithFields(log.Fields{"file": event.Name, "op": event.Op.String()}).Debug("workspace changed")
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
				continue
			}
			log.WithError(err).Warn("file watcher error")
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}

// relevant reports whether an event touches a task file or the config.
// Temp files from atomic writes and the activity log are ignored.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch filepath.Ext(name) {
	case ".md", ".yml", ".yaml":
		return true
	default:
		return false
	}
}
