package render

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkwidget/milk/internal/css"
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/metrics"
	"github.com/milkwidget/milk/internal/style"
)

type stubContext struct {
	styles   css.Table
	samples  map[string]metrics.Sample
	animated map[string]float64
}

func (c *stubContext) Style(n *markup.WidgetNode) style.StyleSheet {
	return Static{Table: c.styles}.Style(n)
}

func (c *stubContext) Metric(name string) (metrics.Sample, bool) {
	s, ok := c.samples[name]
	return s, ok
}

func (c *stubContext) Animated(_ *markup.WidgetNode, property string) (float64, bool) {
	v, ok := c.animated[property]
	return v, ok
}

func newStub() *stubContext {
	return &stubContext{
		styles:   css.Table{},
		samples:  map[string]metrics.Sample{},
		animated: map[string]float64{},
	}
}

func parseTree(t *testing.T, src string) *markup.Tree {
	t.Helper()
	tree, diags := markup.ParseString(src)
	require.Empty(t, diags)
	return tree
}

func TestSurface_MetricBinding(t *testing.T) {
	ctx := newStub()
	ctx.samples["cpu.percent"] = metrics.Number(42, "42%")
	ctx.samples["uptime"] = metrics.Number(7384, "2h 3m")
	s := NewSurface(80, 24, ctx)

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"appended", `<widget><text metric="cpu.percent">CPU</text></widget>`, "CPU 42%"},
		{"substituted", `<widget><text metric="cpu.percent">load: %v now</text></widget>`, "load: 42% now"},
		{"bare", `<widget><text metric="uptime"></text></widget>`, "2h 3m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseTree(t, tt.markup)
			out := s.RenderWidget(tree.Widgets[0])
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSurface_MetricBinding_MissingSampleLeavesText(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><text metric="cpu.percent">CPU</text></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.Contains(t, out, "CPU")
	assert.NotContains(t, out, "%")
}

func TestSurface_Render_EmptyTree(t *testing.T) {
	s := NewSurface(20, 5, newStub())
	assert.Equal(t, "", s.Render(&markup.Tree{}))
	assert.Equal(t, "", s.Render(nil))
}

func TestSurface_Render_SinglePanelAnchored(t *testing.T) {
	s := NewSurface(20, 6, newStub())
	tree := parseTree(t, `<widget width="64" height="32" position="bottom-right"><text>hi</text></widget>`)

	out := s.Render(tree)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, ln := range lines[:5] {
		assert.Equal(t, "", ln)
	}
	assert.True(t, strings.HasPrefix(lines[5], strings.Repeat(" ", 12)+"hi"))
}

func TestSurface_Render_MultiPanelBands(t *testing.T) {
	s := NewSurface(40, 8, newStub())
	tree := parseTree(t, `<widgets>
		<widget width="32"><text>AA</text></widget>
		<widget width="32" position="bottom-right"><text>BB</text></widget>
	</widgets>`)

	out := s.Render(tree)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "AA"))
	assert.Equal(t, 36, strings.Index(lines[7], "BB"), "right cell is flush with the right edge")
}

func TestSurface_Render_OpacityHidesPanel(t *testing.T) {
	ctx := newStub()
	ctx.animated["opacity"] = 0.01
	s := NewSurface(40, 8, ctx)
	tree := parseTree(t, `<widget><text>gone</text></widget>`)

	assert.Equal(t, "", s.Render(tree))

	ctx.animated["opacity"] = 0.5
	assert.Contains(t, s.Render(tree), "gone")
}

func TestSurface_Render_AnimatedOffsetShiftsBlock(t *testing.T) {
	ctx := newStub()
	ctx.animated["offset-x"] = 32
	s := NewSurface(40, 8, ctx)
	tree := parseTree(t, `<widget width="16"><text>hi</text></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.True(t, strings.HasPrefix(out, strings.Repeat(" ", 4)+"hi"))
}

func TestSurface_HorizontalLayoutWithSpacing(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><hbox spacing="16"><text>L</text><text>R</text></hbox></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.Contains(t, out, "L  R")
}

func TestSurface_GridLayoutPacksPairs(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><box layout="grid"><text>a</text><text>b</text><text>c</text><text>d</text></box></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.Contains(t, out, "a b")
	assert.Contains(t, out, "c d")
}

func TestSurface_SpacerSeparatesChildren(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><text>a</text><spacer size="16"/><text>b</text></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.Equal(t, 3, lipgloss.Height(out))
}

func TestSurface_RenderProgress(t *testing.T) {
	s := NewSurface(80, 24, newStub())

	withText := parseTree(t, `<widget><progress value="42" show-text="true"/></widget>`)
	out := s.RenderWidget(withText.Widgets[0])
	assert.Contains(t, out, "42%")

	bare := parseTree(t, `<widget><progress value="42"/></widget>`)
	out = s.RenderWidget(bare.Widgets[0])
	assert.NotContains(t, out, "%")
	assert.Contains(t, out, "█")
}

func TestSurface_RenderProgress_MetricDrivesValue(t *testing.T) {
	ctx := newStub()
	ctx.samples["mem.percent"] = metrics.Number(75, "75%")
	s := NewSurface(80, 24, ctx)
	tree := parseTree(t, `<widget><progress metric="mem.percent" show-text="true"/></widget>`)

	assert.Contains(t, s.RenderWidget(tree.Widgets[0]), "75%")
}

func TestSurface_RenderGauge(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><gauge value="50" label="CPU" unit="%"/></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.Contains(t, out, "CPU")
	assert.Contains(t, out, "] 50%")
	assert.Contains(t, out, strings.Repeat("█", 8)+strings.Repeat("░", 8))
}

func TestSurface_RenderGraph_HistoryTrims(t *testing.T) {
	ctx := newStub()
	s := NewSurface(80, 24, ctx)
	tree := parseTree(t, `<widget><graph metric="net.down" max-points="3"/></widget>`)

	for i, v := range []float64{10, 20, 30, 40, 50} {
		ctx.samples["net.down"] = metrics.Number(v, "")
		out := s.RenderWidget(tree.Widgets[0])
		want := i + 1
		if want > 3 {
			want = 3
		}
		assert.Equal(t, want, utf8.RuneCountInString(strings.TrimSpace(out)))
	}
}

func TestSurface_RenderGraph_NothingWithoutSamples(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><graph metric="net.down"/></widget>`)

	assert.Equal(t, "", s.RenderWidget(tree.Widgets[0]))
}

func TestSurface_Reset_DropsGraphHistory(t *testing.T) {
	ctx := newStub()
	ctx.samples["net.down"] = metrics.Number(10, "")
	s := NewSurface(80, 24, ctx)
	tree := parseTree(t, `<widget><graph metric="net.down" max-points="10"/></widget>`)

	s.RenderWidget(tree.Widgets[0])
	s.RenderWidget(tree.Widgets[0])
	s.Reset()
	out := s.RenderWidget(tree.Widgets[0])
	assert.Equal(t, 1, utf8.RuneCountInString(strings.TrimSpace(out)))
}

func TestSurface_RenderClock(t *testing.T) {
	fixed := time.Date(2026, 8, 22, 13, 37, 45, 0, time.UTC)

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"explicit format", `<widget><clock format="15:04:05"/></widget>`, "13:37:45"},
		{"defaults", `<widget><clock/></widget>`, "Sat Aug 22, 13:37:45"},
		{"time only", `<widget><clock show-date="false" show-seconds="false"/></widget>`, "13:37"},
		{"12 hour", `<widget><clock hour24="false" show-date="false" show-seconds="false"/></widget>`, "1:37 PM"},
		{"date without seconds", `<widget><clock show-seconds="false"/></widget>`, "Sat Aug 22, 13:37"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(80, 24, newStub())
			s.now = func() time.Time { return fixed }
			tree := parseTree(t, tt.markup)
			assert.Contains(t, s.RenderWidget(tree.Widgets[0]), tt.want)
		})
	}
}

func TestSurface_RenderCalendar(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	s.now = func() time.Time { return time.Date(2026, 8, 22, 13, 37, 0, 0, time.UTC) }
	tree := parseTree(t, `<widget><calendar/></widget>`)

	out := s.RenderWidget(tree.Widgets[0])
	assert.Contains(t, out, "August 2026")
	assert.Contains(t, out, "Su Mo Tu We Th Fr Sa")
	assert.Contains(t, out, "31")
}

func TestSurface_UnknownTagsRenderNothing(t *testing.T) {
	s := NewSurface(80, 24, newStub())
	tree := parseTree(t, `<widget><text>kept</text></widget>`)
	tree.Widgets[0].Children = append(tree.Widgets[0].Children, &markup.WidgetNode{Tag: "mystery"})

	out := s.RenderWidget(tree.Widgets[0])
	assert.Contains(t, out, "kept")
	assert.Equal(t, 1, lipgloss.Height(out))
}

func TestStatic_StyleLayering(t *testing.T) {
	table, diags := css.Parse(`text { color: #ff0000; } .hot { color: #00ff00; }`, "")
	require.Empty(t, diags)

	tree := parseTree(t, `<widget><text class="hot" color="#0000ff">x</text><text>y</text></widget>`)
	static := Static{Table: table}

	texts := tree.Widgets[0].Children
	assert.Equal(t, "#0000ff", static.Style(texts[0]).TextColor.Hex())
	assert.Equal(t, "#ff0000", static.Style(texts[1]).TextColor.Hex())
}
