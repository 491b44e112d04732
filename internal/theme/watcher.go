package theme

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// watchedExts are the file types a theme is assembled from. Events on
// anything else (editor swap files, asset churn) are ignored.
var watchedExts = map[string]bool{
	".css":  true,
	".xml":  true,
	".milk": true,
	".yaml": true,
	".yml":  true,
}

// Watcher reports writes to theme source files under watched
// directories. Callers debounce the callback and reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	logger   *slog.Logger
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewWatcher creates a watcher with no directories registered. A nil
// logger falls back to slog.Default.
func NewWatcher(logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: fsw,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the function invoked with the path of each
// changed theme file. Set it before Start.
func (w *Watcher) SetChangeCallback(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Watch registers a directory. Watching is not recursive; register the
// theme root and its widgets directory separately.
func (w *Watcher) Watch(dir string) error {
	return w.watcher.Add(dir)
}

// Unwatch removes a previously registered directory.
func (w *Watcher) Unwatch(dir string) error {
	return w.watcher.Remove(dir)
}

// Start begins delivering change callbacks. Calling Start on a running
// watcher is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	w.running = true

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if !watchedExts[ext] {
				continue
			}
			w.logger.Debug("theme file changed", "path", event.Name, "op", event.Op.String())
			w.mu.Lock()
			fn := w.onChange
			w.mu.Unlock()
			if fn != nil {
				fn(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Stop halts delivery and releases the underlying watcher. The watcher
// cannot be restarted after Stop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		w.watcher.Close()
		return
	}
	w.running = false
	close(w.done)
	w.watcher.Close()
}
