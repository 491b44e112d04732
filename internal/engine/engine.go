// Package engine owns the live state of the overlay: the active widget
// tree, its resolved style table, the animation coordinator, and the
// metric registry. One mutex serializes all of it; the run loop and
// callers from other goroutines both go through the public methods.
package engine

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/milkwidget/milk/internal/anim"
	"github.com/milkwidget/milk/internal/config"
	"github.com/milkwidget/milk/internal/css"
	"github.com/milkwidget/milk/internal/diag"
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/metrics"
	"github.com/milkwidget/milk/internal/style"
	"github.com/milkwidget/milk/internal/theme"
)

// EventKind classifies engine events.
type EventKind int

const (
	// EventThemeLoaded fires after a theme load or reload installs a new
	// tree and style table.
	EventThemeLoaded EventKind = iota
	// EventTreeReplaced fires whenever the widget tree is swapped,
	// including loads from loose files.
	EventTreeReplaced
	// EventReloadFailed fires when a live reload could not resolve the
	// theme; the previous tree stays active.
	EventReloadFailed
	// EventAnimationStarted mirrors the coordinator's started event.
	EventAnimationStarted
	// EventAnimationCompleted mirrors the coordinator's completed event.
	EventAnimationCompleted
)

// Event is delivered to subscribers in subscription order, after the
// engine state that produced it is fully installed.
type Event struct {
	Kind   EventKind
	Theme  string
	Diags  diag.List
	Target anim.TargetID
	Name   string
	Err    error
}

// Engine is the explicit context object: no package-level state.
type Engine struct {
	mu     sync.Mutex
	logger *slog.Logger
	cfg    *config.Config

	themes   *theme.Manager
	registry *metrics.Registry
	coord    *anim.Coordinator

	tree   *markup.Tree
	styles css.Table
	diags  diag.List

	ids      map[*markup.WidgetNode]anim.TargetID
	nodes    map[anim.TargetID]*markup.WidgetNode
	animated map[anim.TargetID]map[string]float64

	subs    []func(Event)
	pending []func()

	loadedFiles []string
	fileDirs    []string
	reloadCh    chan struct{}
	watcher     *theme.Watcher
	debouncer   *theme.Debouncer
}

// New creates an engine. A nil logger falls back to slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	e := &Engine{
		logger:   logger,
		cfg:      cfg,
		themes:   theme.NewManager(cfg.ThemesPath(), logger),
		registry: metrics.NewRegistry(logger),
		coord:    anim.NewCoordinator(logger),
		styles:   css.Table{},
		tree:     &markup.Tree{},
		ids:      make(map[*markup.WidgetNode]anim.TargetID),
		nodes:    make(map[anim.TargetID]*markup.WidgetNode),
		animated: make(map[anim.TargetID]map[string]float64),
		reloadCh: make(chan struct{}, 1),
	}

	e.coord.Subscribe(func(ev anim.Event) {
		switch ev.Kind {
		case anim.EventStarted:
			e.queueEventLocked(Event{Kind: EventAnimationStarted, Target: ev.Target, Name: ev.Name})
		case anim.EventCompleted:
			e.queueEventLocked(Event{Kind: EventAnimationCompleted, Target: ev.Target, Name: ev.Name})
		}
	})

	return e
}

// Metrics exposes the registry so callers can wire providers.
func (e *Engine) Metrics() *metrics.Registry { return e.registry }

// Themes exposes the theme manager.
func (e *Engine) Themes() *theme.Manager { return e.themes }

// Subscribe registers an observer. Delivery is synchronous, in
// subscription order, after the state change that raised the event.
func (e *Engine) Subscribe(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

// LoadTheme resolves a theme by name and installs its tree and style
// table wholesale. Parse problems become diagnostics, not errors; only
// an unresolvable theme directory fails.
func (e *Engine) LoadTheme(name string) (diag.List, error) {
	t, err := e.themes.LoadTheme(name)
	if err != nil {
		return nil, err
	}
	return e.applyTheme(t)
}

// LoadFiles installs a tree built from loose markup and stylesheet
// paths, for running outside any theme directory. Files ending in .css
// parse as stylesheets; everything else parses as markup.
func (e *Engine) LoadFiles(paths []string) (diag.List, error) {
	tree := &markup.Tree{}
	styles := css.Table{}
	var diags diag.List

	seen := make(map[string]bool)
	var dirs []string
	for _, path := range paths {
		if dir := filepath.Dir(path); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
		if filepath.Ext(path) == ".css" {
			table, ds := css.ParseFile(path)
			diags.Extend(ds)
			for sel, sheet := range table {
				styles[sel] = sheet
			}
			continue
		}
		t, ds := markup.ParseFile(path)
		diags.Extend(ds)
		tree.Widgets = append(tree.Widgets, t.Widgets...)
	}

	if err := e.install(tree, styles, diags, ""); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.loadedFiles = append([]string(nil), paths...)
	e.fileDirs = dirs
	e.mu.Unlock()
	return diags, nil
}

// Reload reapplies whatever was loaded last: loose files are re-parsed,
// otherwise the current theme is re-resolved. Called by the run loop on
// watcher activity; safe to call directly.
func (e *Engine) Reload() (diag.List, error) {
	e.mu.Lock()
	files := append([]string(nil), e.loadedFiles...)
	e.mu.Unlock()
	if len(files) > 0 {
		return e.LoadFiles(files)
	}

	t, err := e.themes.Reload()
	if err != nil {
		e.mu.Lock()
		e.queueEventLocked(Event{Kind: EventReloadFailed, Err: err})
		pending := e.drainLocked()
		e.mu.Unlock()
		run(pending)
		return nil, err
	}
	return e.applyTheme(t)
}

func (e *Engine) applyTheme(t *theme.Theme) (diag.List, error) {
	var diags diag.List

	styles := css.Table{}
	if content, err := t.Stylesheet(); err != nil {
		diags.IO(t.StylesheetPath, err)
	} else if content != "" {
		styles, diags = css.Parse(content, t.StylesheetPath)
	}

	tree := &markup.Tree{}
	for _, path := range t.MarkupPaths {
		parsed, ds := markup.ParseFile(path)
		diags.Extend(ds)
		tree.Widgets = append(tree.Widgets, parsed.Widgets...)
	}

	if err := e.install(tree, styles, diags, t.Name); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.loadedFiles = nil
	e.fileDirs = nil
	e.mu.Unlock()

	e.logger.Info("theme applied",
		"theme", t.Name,
		"widgets", len(tree.Widgets),
		"rules", len(styles),
		"diagnostics", len(diags))
	return diags, nil
}

// install swaps the tree and style table wholesale, mints fresh target
// handles, and resets animation state. Nothing from the previous tree
// survives.
func (e *Engine) install(tree *markup.Tree, styles css.Table, diags diag.List, themeName string) error {
	ids := make(map[*markup.WidgetNode]anim.TargetID, tree.Len())
	nodes := make(map[anim.TargetID]*markup.WidgetNode, tree.Len())
	var mintErr error
	tree.Walk(func(n *markup.WidgetNode) {
		if mintErr != nil {
			return
		}
		id, err := mintTargetID()
		if err != nil {
			mintErr = err
			return
		}
		ids[n] = id
		nodes[id] = n
	})
	if mintErr != nil {
		return mintErr
	}

	e.mu.Lock()
	e.tree = tree
	e.styles = styles
	e.diags = diags
	e.ids = ids
	e.nodes = nodes
	e.animated = make(map[anim.TargetID]map[string]float64)
	e.coord.Reset()

	if themeName != "" {
		e.queueEventLocked(Event{Kind: EventThemeLoaded, Theme: themeName, Diags: diags})
	}
	e.queueEventLocked(Event{Kind: EventTreeReplaced, Diags: diags})
	pending := e.drainLocked()
	e.mu.Unlock()

	run(pending)
	return nil
}

// Tree returns the active widget tree. The tree is immutable once
// installed; holding the pointer across a reload just means holding the
// old tree.
func (e *Engine) Tree() *markup.Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree
}

// Diagnostics returns the diagnostics from the last load.
func (e *Engine) Diagnostics() diag.List {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(diag.List, len(e.diags))
	copy(out, e.diags)
	return out
}

// Style resolves the computed style for a node: type rule, then class
// rule, then inline attributes, later layers winning field-wise.
func (e *Engine) Style(n *markup.WidgetNode) style.StyleSheet {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.styles.Type(n.Tag)
	if n.Class != "" {
		s = style.Merge(s, e.styles.Class(n.Class))
	}
	return style.Merge(s, n.Inline)
}

// Metric returns the latest sample for a metric name.
func (e *Engine) Metric(name string) (metrics.Sample, bool) {
	return e.registry.Get(name)
}

// Target returns the animation handle minted for a node in the current
// tree.
func (e *Engine) Target(n *markup.WidgetNode) (anim.TargetID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.ids[n]
	return id, ok
}

// Node resolves a handle back to its node. Handles from a replaced
// tree resolve to nothing.
func (e *Engine) Node(id anim.TargetID) (*markup.WidgetNode, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.nodes[id]
	return n, ok
}

// mintTargetID generates a fresh ULID handle.
func mintTargetID() (anim.TargetID, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return anim.TargetID(id.String()), nil
}

// queueEventLocked schedules delivery of an event to all current
// subscribers once the lock is released. Callers hold e.mu.
func (e *Engine) queueEventLocked(ev Event) {
	subs := make([]func(Event), len(e.subs))
	copy(subs, e.subs)
	e.pending = append(e.pending, func() {
		for _, fn := range subs {
			fn(ev)
		}
	})
}

// drainLocked takes the pending callback queue. Callers hold e.mu and
// run the result after unlocking.
func (e *Engine) drainLocked() []func() {
	pending := e.pending
	e.pending = nil
	return pending
}

func run(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
