package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkwidget/milk/internal/anim"
	"github.com/milkwidget/milk/internal/config"
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/metrics"
)

const testMarkup = `<widget width="400" height="120" class="panel">
	<text>plain</text>
	<text class="highlight">classed</text>
	<text class="highlight" color="#00ff00">inline</text>
</widget>`

const testStylesheet = `text { color: #ff0000; font-size: 12px; }
.highlight { color: #0000ff; font-size: 14px; }
.panel { background: #101010; }`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Theme.Dir = t.TempDir()
	cfg.Engine.Watch = false
	return New(cfg, nil)
}

// installTestTheme writes a theme directory under the engine's themes
// path and returns its root.
func installTestTheme(t *testing.T, e *Engine, name string) string {
	t.Helper()
	root := filepath.Join(e.Themes().ThemesDir(), name)
	writeFile(t, filepath.Join(root, "theme.xml"), testMarkup)
	writeFile(t, filepath.Join(root, "theme.css"), testStylesheet)
	return root
}

func textNodes(tree *markup.Tree) []*markup.WidgetNode {
	var out []*markup.WidgetNode
	tree.Walk(func(n *markup.WidgetNode) {
		if n.Tag == "text" {
			out = append(out, n)
		}
	})
	return out
}

func TestEngine_LoadTheme(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")

	diags, err := e.LoadTheme("neon")
	require.NoError(t, err)
	assert.Empty(t, diags)

	tree := e.Tree()
	require.Len(t, tree.Widgets, 1)
	assert.Equal(t, "widget", tree.Widgets[0].Tag)
	assert.Len(t, tree.Widgets[0].Children, 3)
	assert.Equal(t, "neon", e.Themes().Current().Name)
}

func TestEngine_LoadTheme_MintsDistinctTargets(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")

	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	tree := e.Tree()
	seen := make(map[anim.TargetID]bool)
	tree.Walk(func(n *markup.WidgetNode) {
		id, ok := e.Target(n)
		require.True(t, ok)
		assert.NotEmpty(t, string(id))
		assert.False(t, seen[id], "each node gets its own handle")
		seen[id] = true

		back, ok := e.Node(id)
		require.True(t, ok)
		assert.Same(t, n, back)
	})
	assert.Len(t, seen, tree.Len())
}

func TestEngine_LoadTheme_Unknown(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.LoadTheme("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, 0, e.Tree().Len())
}

func TestEngine_LoadFiles(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bar.xml"), `<widget height="40"><text class="highlight">hi</text></widget>`)
	writeFile(t, filepath.Join(dir, "bar.css"), `.highlight { color: #abcdef; }`)

	diags, err := e.LoadFiles([]string{
		filepath.Join(dir, "bar.xml"),
		filepath.Join(dir, "bar.css"),
	})
	require.NoError(t, err)
	assert.Empty(t, diags)

	tree := e.Tree()
	require.Len(t, tree.Widgets, 1)
	texts := textNodes(tree)
	require.Len(t, texts, 1)
	assert.Equal(t, "#abcdef", e.Style(texts[0]).TextColor.Hex())
}

func TestEngine_StyleLayering(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	texts := textNodes(e.Tree())
	require.Len(t, texts, 3)

	tests := []struct {
		name     string
		node     *markup.WidgetNode
		color    string
		fontSize int
	}{
		{"type rule only", texts[0], "#ff0000", 12},
		{"class overrides type", texts[1], "#0000ff", 14},
		{"inline overrides class", texts[2], "#00ff00", 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := e.Style(tt.node)
			assert.Equal(t, tt.color, s.TextColor.Hex())
			assert.Equal(t, tt.fontSize, s.FontSize)
		})
	}

	root := e.Tree().Widgets[0]
	assert.Equal(t, "#101010", e.Style(root).BackgroundColor.Hex())
}

func TestEngine_LoadTheme_CollectsDiagnostics(t *testing.T) {
	e := newTestEngine(t)
	root := installTestTheme(t, e, "broken")
	writeFile(t, filepath.Join(root, "widgets", "bad.xml"), `<widget><text></widget>`)

	diags, err := e.LoadTheme("broken")
	require.NoError(t, err, "parse problems degrade to diagnostics")
	require.NotEmpty(t, diags)

	got := e.Diagnostics()
	require.Len(t, got, len(diags))
	got[0].Message = "scribbled"
	assert.NotEqual(t, "scribbled", e.Diagnostics()[0].Message, "Diagnostics returns a copy")
}

func TestEngine_AnimateRecordsValues(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	node := e.Tree().Widgets[0]
	target, ok := e.Target(node)
	require.True(t, ok)

	e.Animate(anim.Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   anim.FromTo(0, 100),
		Duration: 100 * time.Millisecond,
		Curve:    anim.Linear,
	})

	_, ok = e.Animated(node, "opacity")
	assert.False(t, ok, "no value until the first tick")

	e.Tick(25 * time.Millisecond)
	v, ok := e.Animated(node, "opacity")
	require.True(t, ok)
	assert.InDelta(t, 25, v, 1e-9)

	e.Tick(100 * time.Millisecond)
	v, ok = e.Animated(node, "opacity")
	require.True(t, ok, "final value persists after completion")
	assert.InDelta(t, 100, v, 1e-9)
}

func TestEngine_AnimateDegenerateCompletesInline(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	target, _ := e.Target(e.Tree().Widgets[0])

	done := false
	e.Animate(anim.Request{
		Target: target,
		Name:   "noop",
		OnDone: func() { done = true },
	})
	assert.True(t, done, "zero-duration requests complete before Animate returns")
}

func TestEngine_OnDoneMayChainAnimations(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	node := e.Tree().Widgets[0]
	target, _ := e.Target(node)

	e.Animate(anim.Request{
		Target:   target,
		Name:     "out",
		Property: "opacity",
		Frames:   anim.FromTo(100, 0),
		Duration: 50 * time.Millisecond,
		Curve:    anim.Linear,
		OnDone: func() {
			e.Animate(anim.Request{
				Target:   target,
				Name:     "in",
				Property: "opacity",
				Frames:   anim.FromTo(0, 100),
				Duration: 50 * time.Millisecond,
				Curve:    anim.Linear,
			})
		},
	})

	e.Tick(50 * time.Millisecond)
	v, ok := e.Animated(node, "opacity")
	require.True(t, ok)
	assert.InDelta(t, 0, v, 1e-9)

	e.Tick(25 * time.Millisecond)
	v, _ = e.Animated(node, "opacity")
	assert.InDelta(t, 50, v, 1e-9, "the chained animation is live")
}

func TestEngine_InstallResetsAnimations(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	oldNode := e.Tree().Widgets[0]
	oldTarget, _ := e.Target(oldNode)

	updates := 0
	e.Animate(anim.Request{
		Target:   oldTarget,
		Name:     "fade",
		Property: "opacity",
		Frames:   anim.FromTo(0, 100),
		Duration: time.Second,
		Curve:    anim.Linear,
		OnUpdate: func(string, float64) { updates++ },
	})
	e.Tick(100 * time.Millisecond)
	require.Equal(t, 1, updates)

	_, err = e.LoadTheme("neon")
	require.NoError(t, err)

	e.Tick(100 * time.Millisecond)
	assert.Equal(t, 1, updates, "a tree swap drops running animations")

	_, ok := e.Animated(oldNode, "opacity")
	assert.False(t, ok, "recorded values do not survive the swap")
	_, ok = e.Node(oldTarget)
	assert.False(t, ok, "old handles resolve to nothing")
}

func TestEngine_CancelKeepsLastValue(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	node := e.Tree().Widgets[0]
	target, _ := e.Target(node)

	done := false
	e.Animate(anim.Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   anim.FromTo(0, 100),
		Duration: 100 * time.Millisecond,
		Curve:    anim.Linear,
		OnDone:   func() { done = true },
	})
	e.Tick(50 * time.Millisecond)

	require.True(t, e.Cancel(target, "fade"))
	e.Tick(100 * time.Millisecond)

	assert.False(t, done, "cancellation is silent")
	v, ok := e.Animated(node, "opacity")
	require.True(t, ok)
	assert.InDelta(t, 50, v, 1e-9, "the value freezes where the animation stopped")
}

func TestEngine_ForgetClearsValues(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	node := e.Tree().Widgets[0]
	target, _ := e.Target(node)

	e.Animate(anim.Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   anim.FromTo(0, 100),
		Duration: 100 * time.Millisecond,
		Curve:    anim.Linear,
	})
	e.Tick(50 * time.Millisecond)

	assert.Equal(t, 1, e.Forget(target))
	_, ok := e.Animated(node, "opacity")
	assert.False(t, ok)
}

func TestEngine_Events_ThemeLoadOrder(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")

	var kinds []EventKind
	var themes []string
	e.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		themes = append(themes, ev.Theme)
	})

	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	require.Equal(t, []EventKind{EventThemeLoaded, EventTreeReplaced}, kinds)
	assert.Equal(t, "neon", themes[0])
}

func TestEngine_Events_LoadFilesOnlyReplacesTree(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bar.xml"), `<widget/>`)

	var kinds []EventKind
	e.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	_, err := e.LoadFiles([]string{filepath.Join(dir, "bar.xml")})
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventTreeReplaced}, kinds)
}

func TestEngine_Events_AnimationLifecycle(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	target, _ := e.Target(e.Tree().Widgets[0])

	var events []Event
	e.Subscribe(func(ev Event) { events = append(events, ev) })

	e.Animate(anim.Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   anim.FromTo(0, 1),
		Duration: 50 * time.Millisecond,
		Curve:    anim.Linear,
	})
	e.Tick(50 * time.Millisecond)

	require.Len(t, events, 2)
	assert.Equal(t, EventAnimationStarted, events[0].Kind)
	assert.Equal(t, EventAnimationCompleted, events[1].Kind)
	for _, ev := range events {
		assert.Equal(t, target, ev.Target)
		assert.Equal(t, "fade", ev.Name)
	}
}

func TestEngine_Events_SubscriberOrder(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")

	var order []string
	e.Subscribe(func(ev Event) {
		if ev.Kind == EventTreeReplaced {
			order = append(order, "first")
		}
	})
	e.Subscribe(func(ev Event) {
		if ev.Kind == EventTreeReplaced {
			order = append(order, "second")
		}
	})

	_, err := e.LoadTheme("neon")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEngine_SubscriberMayCallBack(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")

	var lengths []int
	e.Subscribe(func(ev Event) {
		if ev.Kind == EventTreeReplaced {
			lengths = append(lengths, e.Tree().Len())
		}
	})

	_, err := e.LoadTheme("neon")
	require.NoError(t, err)
	require.Equal(t, []int{4}, lengths, "the new tree is installed before delivery")
}

func TestEngine_Reload_PicksUpNewWidgets(t *testing.T) {
	e := newTestEngine(t)
	root := installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)
	require.Len(t, e.Tree().Widgets, 1)

	writeFile(t, filepath.Join(root, "widgets", "extra.xml"), `<widget height="30"/>`)

	_, err = e.Reload()
	require.NoError(t, err)
	assert.Len(t, e.Tree().Widgets, 2)
}

func TestEngine_Reload_FailureKeepsTree(t *testing.T) {
	e := newTestEngine(t)
	root := installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)
	before := e.Tree()

	var failures []Event
	e.Subscribe(func(ev Event) {
		if ev.Kind == EventReloadFailed {
			failures = append(failures, ev)
		}
	})

	require.NoError(t, os.RemoveAll(root))

	_, err = e.Reload()
	require.Error(t, err)
	require.Len(t, failures, 1)
	assert.Error(t, failures[0].Err)
	assert.Same(t, before, e.Tree(), "the previous tree stays active")
}

func TestEngine_Reload_ReparsesLooseFiles(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bar.xml")
	writeFile(t, path, `<widgets><widget/></widgets>`)

	_, err := e.LoadFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, e.Tree().Widgets, 1)

	writeFile(t, path, `<widgets><widget/><widget/></widgets>`)

	_, err = e.Reload()
	require.NoError(t, err)
	assert.Len(t, e.Tree().Widgets, 2)
}

func TestEngine_RequestReloadCoalesces(t *testing.T) {
	e := newTestEngine(t)

	e.RequestReload()
	e.RequestReload()
	e.RequestReload()

	select {
	case <-e.reloadCh:
	default:
		t.Fatal("expected a pending reload request")
	}
	select {
	case <-e.reloadCh:
		t.Fatal("requests must coalesce into one")
	default:
	}
}

type stubProvider struct {
	name    string
	samples map[string]metrics.Sample
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Collect() (map[string]metrics.Sample, error) {
	return p.samples, nil
}

func TestEngine_MetricLookup(t *testing.T) {
	e := newTestEngine(t)
	e.Metrics().Register(&stubProvider{
		name:    "stub",
		samples: map[string]metrics.Sample{"cpu.percent": metrics.Number(42, "42%")},
	})

	_, ok := e.Metric("cpu.percent")
	assert.False(t, ok, "nothing before the first poll")

	e.Poll()
	s, ok := e.Metric("cpu.percent")
	require.True(t, ok)
	assert.Equal(t, 42.0, s.Value)
	assert.Equal(t, "42%", s.Text)
}

func TestEngine_RunStopsOnCancel(t *testing.T) {
	e := newTestEngine(t)
	installTestTheme(t, e, "neon")
	_, err := e.LoadTheme("neon")
	require.NoError(t, err)

	target, _ := e.Target(e.Tree().Widgets[0])

	finished := make(chan struct{})
	e.Animate(anim.Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   anim.FromTo(0, 1),
		Duration: 30 * time.Millisecond,
		Curve:    anim.Linear,
		OnDone:   func() { close(finished) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- e.Run(ctx) }()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("run loop never advanced the animation")
	}

	cancel()
	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not stop on cancel")
	}
}
