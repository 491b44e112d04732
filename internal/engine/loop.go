package engine

import (
	"context"
	"time"

	"github.com/milkwidget/milk/internal/theme"
)

// Run drives the engine until ctx is cancelled: a fine tick advances
// animations, a coarse tick polls metrics, and reload requests reapply
// the active theme. Missed ticks are absorbed into the next elapsed
// delta, never replayed.
func (e *Engine) Run(ctx context.Context) error {
	fine := time.NewTicker(e.cfg.FrameInterval())
	defer fine.Stop()
	coarse := time.NewTicker(e.cfg.PollIntervalDuration())
	defer coarse.Stop()

	if e.cfg.Engine.Watch {
		if err := e.startWatcher(); err != nil {
			e.logger.Warn("live reload disabled", "error", err)
		} else {
			defer e.stopWatcher()
		}
	}

	e.Poll()

	e.logger.Info("engine running",
		"frame_interval", e.cfg.FrameInterval(),
		"poll_interval", e.cfg.PollIntervalDuration())

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-fine.C:
			e.Tick(now.Sub(last))
			last = now
		case <-coarse.C:
			e.Poll()
		case <-e.reloadCh:
			if _, err := e.Reload(); err != nil {
				e.logger.Warn("theme reload failed", "error", err)
			} else {
				e.rewatch()
			}
		}
	}
}

// Tick advances all animations by dt. Completion callbacks and events
// run after the advance settles.
func (e *Engine) Tick(dt time.Duration) {
	e.mu.Lock()
	e.coord.Advance(dt)
	pending := e.drainLocked()
	e.mu.Unlock()

	run(pending)
}

// Poll refreshes every metric provider.
func (e *Engine) Poll() {
	e.registry.Poll()
}

// RequestReload asks the run loop to reapply the active theme. Requests
// coalesce: one pending reload absorbs any number of later ones.
func (e *Engine) RequestReload() {
	select {
	case e.reloadCh <- struct{}{}:
	default:
	}
}

func (e *Engine) startWatcher() error {
	w, err := theme.NewWatcher(e.logger)
	if err != nil {
		return err
	}
	e.debouncer = theme.NewDebouncer(e.cfg.DebounceDuration())
	w.SetChangeCallback(func(string) {
		e.debouncer.Trigger("reload", e.RequestReload)
	})

	for _, dir := range e.watchRoots() {
		if err := w.Watch(dir); err != nil {
			e.logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}

	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	e.watcher = w
	return nil
}

func (e *Engine) stopWatcher() {
	if e.debouncer != nil {
		e.debouncer.Stop()
	}
	if e.watcher != nil {
		e.watcher.Stop()
		e.watcher = nil
	}
}

// rewatch re-registers watch roots after a reload; a theme may have
// grown a widgets directory since the watcher started.
func (e *Engine) rewatch() {
	if e.watcher == nil {
		return
	}
	for _, dir := range e.watchRoots() {
		if err := e.watcher.Watch(dir); err != nil {
			e.logger.Debug("watch refresh", "dir", dir, "error", err)
		}
	}
}

// watchRoots lists the directories live reload should cover: the
// active theme's directories, or the directories of loose files.
func (e *Engine) watchRoots() []string {
	if t := e.themes.Current(); t != nil {
		return t.WatchDirs()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.fileDirs...)
}
