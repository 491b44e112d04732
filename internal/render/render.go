// Package render draws a resolved widget tree onto a fixed-size text
// canvas with lipgloss. It is a preview surface: pixel sizes from the
// markup scale down to character cells, translucency pre-blends toward
// black, and effects with no terminal mapping (glow, blur, scale) are
// dropped.
package render

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/milkwidget/milk/internal/css"
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/metrics"
	"github.com/milkwidget/milk/internal/style"
)

// Context supplies everything the surface pulls while drawing: the
// computed style of a node, current metric samples, and live animated
// property values. *engine.Engine satisfies it.
type Context interface {
	Style(n *markup.WidgetNode) style.StyleSheet
	Metric(name string) (metrics.Sample, bool)
	Animated(n *markup.WidgetNode, property string) (float64, bool)
}

// Static is a Context with no engine behind it: styles come from a
// parsed rule table, metrics and animated values are absent. Used for
// one-shot previews.
type Static struct {
	Table css.Table
}

// Style resolves type rule, then class rule, then inline attributes.
func (s Static) Style(n *markup.WidgetNode) style.StyleSheet {
	sheet := s.Table.Type(n.Tag)
	if n.Class != "" {
		sheet = style.Merge(sheet, s.Table.Class(n.Class))
	}
	return style.Merge(sheet, n.Inline)
}

func (Static) Metric(string) (metrics.Sample, bool) { return metrics.Sample{}, false }

func (Static) Animated(*markup.WidgetNode, string) (float64, bool) { return 0, false }

// Default canvas size when the config leaves the renderer unsized.
const (
	DefaultWidth  = 100
	DefaultHeight = 30
)

// Panels whose effective opacity falls below this are not drawn.
const minVisibleOpacity = 0.05

// Surface renders widget trees into strings. It accumulates sample
// history for graph widgets, so one Surface should live as long as the
// tree it draws; call Reset after the tree is replaced.
type Surface struct {
	width, height int
	ctx           Context
	now           func() time.Time
	history       map[*markup.WidgetNode][]float64
}

// NewSurface creates a surface of the given cell dimensions.
// Non-positive dimensions fall back to the defaults.
func NewSurface(width, height int, ctx Context) *Surface {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Surface{
		width:   width,
		height:  height,
		ctx:     ctx,
		now:     time.Now,
		history: make(map[*markup.WidgetNode][]float64),
	}
}

// Resize changes the canvas dimensions for subsequent renders.
func (s *Surface) Resize(width, height int) {
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
}

// Reset drops accumulated graph history. Call it when the tree the
// surface has been drawing is replaced.
func (s *Surface) Reset() {
	s.history = make(map[*markup.WidgetNode][]float64)
}

// Render draws every top-level panel onto the canvas. A single panel
// is placed at its anchored origin; several panels are composed on a
// 3x3 anchor grid, each band spread across the full width.
func (s *Surface) Render(tree *markup.Tree) string {
	if tree == nil || len(tree.Widgets) == 0 {
		return ""
	}

	if len(tree.Widgets) == 1 {
		n := tree.Widgets[0]
		block := s.RenderWidget(n)
		if block == "" {
			return ""
		}
		return s.place(block, n.Anchor, scaleMargin(s.ctx.Style(n).Margin))
	}

	var cells [3][3][]string
	for _, n := range tree.Widgets {
		block := s.RenderWidget(n)
		if block == "" {
			continue
		}
		row, col := anchorCell(n.Anchor)
		cells[row][col] = append(cells[row][col], block)
	}
	return s.assemble(cells)
}

// RenderWidget draws one top-level panel: its children laid out per
// the panel's orientation inside the panel's box.
func (s *Surface) RenderWidget(n *markup.WidgetNode) string {
	sheet := s.ctx.Style(n)
	opacity := s.opacity(n, sheet)
	if opacity < minVisibleOpacity {
		return ""
	}

	content := s.renderChildren(n)

	box := boxStyle(sheet)
	if w := cellsX(n.Width); w > 0 {
		box = box.Width(w)
	}
	block := box.Render(content)
	if opacity < 1 {
		block = lipgloss.NewStyle().Faint(true).Render(block)
	}
	return s.offsetBlock(n, block)
}

// renderChildren lays a node's children out per its orientation,
// with spacing gaps between them. Grid packs two columns per row.
func (s *Surface) renderChildren(n *markup.WidgetNode) string {
	var views []string
	for _, c := range n.Children {
		if v := s.renderNode(c, n.Layout); v != "" {
			views = append(views, v)
		}
	}
	if len(views) == 0 {
		return ""
	}

	switch n.Layout {
	case markup.OrientationHorizontal:
		if gap := cellsX(n.Spacing); gap > 0 {
			spacer := strings.Repeat(" ", gap)
			spaced := make([]string, 0, len(views)*2-1)
			for i, v := range views {
				if i > 0 {
					spaced = append(spaced, spacer)
				}
				spaced = append(spaced, v)
			}
			views = spaced
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, views...)
	case markup.OrientationGrid:
		var rows []string
		for i := 0; i < len(views); i += 2 {
			if i+1 < len(views) {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, views[i], " ", views[i+1]))
			} else {
				rows = append(rows, views[i])
			}
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	default:
		if gap := cellsY(n.Spacing); gap > 0 {
			spaced := make([]string, 0, len(views)*2-1)
			for i, v := range views {
				if i > 0 {
					spaced = append(spaced, strings.Repeat("\n", gap-1))
				}
				spaced = append(spaced, v)
			}
			views = spaced
		}
		return lipgloss.JoinVertical(lipgloss.Left, views...)
	}
}

func (s *Surface) renderNode(n *markup.WidgetNode, orient markup.Orientation) string {
	sheet := s.ctx.Style(n)
	opacity := s.opacity(n, sheet)
	if opacity < minVisibleOpacity {
		return ""
	}

	var out string
	switch n.Tag {
	case "text":
		out = s.renderText(n, sheet)
	case "title":
		out = textStyle(sheet).Bold(true).Render(s.metricText(n))
	case "button":
		out = s.renderButton(n, sheet)
	case "clock":
		out = s.renderClock(n, sheet)
	case "calendar":
		out = s.renderCalendar(sheet)
	case "progress":
		out = s.renderProgress(n)
	case "graph":
		out = s.renderGraph(n)
	case "gauge":
		out = s.renderGauge(n, sheet)
	case "image":
		out = renderImage(n, sheet)
	case "spacer":
		out = renderSpacer(n, orient)
	case "container", "widget":
		out = boxStyle(sheet).Render(s.renderChildren(n))
	default:
		return ""
	}
	if out == "" {
		return ""
	}
	if opacity < 1 {
		out = lipgloss.NewStyle().Faint(true).Render(out)
	}
	return out
}

func (s *Surface) renderText(n *markup.WidgetNode, sheet style.StyleSheet) string {
	return textStyle(sheet).Render(s.metricText(n))
}

func (s *Surface) renderButton(n *markup.WidgetNode, sheet style.StyleSheet) string {
	st := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	if sheet.TextColor.Valid {
		st = st.Foreground(termColor(sheet.TextColor))
	}
	if sheet.BackgroundColor.Valid {
		st = st.Background(termColor(sheet.BackgroundColor))
	}
	if sheet.Border.Color.Valid {
		st = st.BorderForeground(termColor(sheet.Border.Color))
	}
	return st.Render(n.Text)
}

func renderImage(n *markup.WidgetNode, sheet style.StyleSheet) string {
	name := filepath.Base(n.Src)
	if n.Src == "" {
		name = "empty"
	}
	border := lipgloss.NormalBorder()
	if n.Circular || sheet.CornerRadius > 0 {
		border = lipgloss.RoundedBorder()
	}
	return lipgloss.NewStyle().Border(border).Padding(0, 1).Render("image: " + name)
}

func renderSpacer(n *markup.WidgetNode, orient markup.Orientation) string {
	if orient == markup.OrientationHorizontal {
		return strings.Repeat(" ", max1(cellsX(n.Size)))
	}
	return lipgloss.NewStyle().Height(max1(cellsY(n.Size))).Width(1).Render("")
}

// metricText resolves a node's visible text, splicing in the bound
// metric sample when one is named: "%v" placeholders are substituted,
// otherwise the sample is appended (or stands alone for empty text).
func (s *Surface) metricText(n *markup.WidgetNode) string {
	text := n.Text
	if n.Metric == "" {
		return text
	}
	sample, ok := s.ctx.Metric(n.Metric)
	if !ok {
		return text
	}
	v := sampleText(sample)
	switch {
	case strings.Contains(text, "%v"):
		return strings.ReplaceAll(text, "%v", v)
	case text == "":
		return v
	default:
		return text + " " + v
	}
}

// opacity is the node's effective opacity: a live animated value wins
// over the stylesheet.
func (s *Surface) opacity(n *markup.WidgetNode, sheet style.StyleSheet) float64 {
	v := sheet.Opacity
	if av, ok := s.ctx.Animated(n, "opacity"); ok {
		v = av
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// offsetBlock shifts a rendered block by the node's animated slide
// offsets. Cells cannot go negative; slides off the left or top edge
// clamp at the border.
func (s *Surface) offsetBlock(n *markup.WidgetNode, block string) string {
	st := lipgloss.NewStyle()
	shifted := false
	if ox, ok := s.ctx.Animated(n, "offset-x"); ok && ox > 0 {
		st = st.MarginLeft(cellsX(int(ox)))
		shifted = true
	}
	if oy, ok := s.ctx.Animated(n, "offset-y"); ok && oy > 0 {
		st = st.MarginTop(cellsY(int(oy)))
		shifted = true
	}
	if !shifted {
		return block
	}
	return st.Render(block)
}

// place positions a single block on the canvas by anchor and margin.
func (s *Surface) place(block string, a markup.Anchor, m style.Margin) string {
	x, y := Origin(s.width, s.height, lipgloss.Width(block), lipgloss.Height(block), a, m)
	indent := strings.Repeat(" ", x)
	lines := strings.Split(block, "\n")
	out := make([]string, 0, y+len(lines))
	for i := 0; i < y; i++ {
		out = append(out, "")
	}
	for _, ln := range lines {
		out = append(out, indent+ln)
	}
	return strings.Join(out, "\n")
}

// assemble composes the 3x3 anchor grid: each band is spread across
// the full width, the top band sticks to the top, the bottom band to
// the last row, and the middle splits the slack.
func (s *Surface) assemble(cells [3][3][]string) string {
	var bands [3]string
	for row := 0; row < 3; row++ {
		var cols [3]string
		for col := 0; col < 3; col++ {
			if len(cells[row][col]) > 0 {
				cols[col] = lipgloss.JoinVertical(lipgloss.Left, cells[row][col]...)
			}
		}
		bands[row] = s.spreadRow(cols[0], cols[1], cols[2])
	}

	free := s.height
	for _, b := range bands {
		if b != "" {
			free -= lipgloss.Height(b)
		}
	}
	if free < 0 {
		free = 0
	}
	gapA := free
	var gapB int
	if bands[1] != "" {
		gapA = free / 2
		gapB = free - gapA
	}

	var lines []string
	appendBlock := func(b string) {
		if b != "" {
			lines = append(lines, strings.Split(b, "\n")...)
		}
	}
	appendBlank := func(k int) {
		for i := 0; i < k; i++ {
			lines = append(lines, "")
		}
	}
	appendBlock(bands[0])
	appendBlank(gapA)
	appendBlock(bands[1])
	appendBlank(gapB)
	appendBlock(bands[2])
	return strings.Join(lines, "\n")
}

// spreadRow lays the three cells of one band across the canvas width:
// left flush, center centered, right flush against the right edge.
func (s *Surface) spreadRow(left, center, right string) string {
	if left == "" && center == "" && right == "" {
		return ""
	}

	lw := lipgloss.Width(left)
	cw := lipgloss.Width(center)
	rw := lipgloss.Width(right)

	var parts []string
	add := func(p string) {
		if p != "" {
			parts = append(parts, p)
		}
	}

	if center == "" {
		add(left)
		if right != "" {
			add(pad(s.width - lw - rw))
			add(right)
		}
	} else {
		g1 := (s.width-cw)/2 - lw
		add(left)
		add(pad(g1))
		add(center)
		if right != "" {
			add(pad(s.width - lw - maxInt(g1, 0) - cw - rw))
			add(right)
		}
	}

	if len(parts) == 1 {
		return parts[0]
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func textStyle(sheet style.StyleSheet) lipgloss.Style {
	st := lipgloss.NewStyle()
	if sheet.TextColor.Valid {
		st = st.Foreground(termColor(sheet.TextColor))
	}
	return st.Bold(sheet.FontBold).Italic(sheet.FontItalic)
}

// boxStyle builds the container style shared by panels and boxes.
func boxStyle(sheet style.StyleSheet) lipgloss.Style {
	st := lipgloss.NewStyle()
	if sheet.BackgroundColor.Valid {
		st = st.Background(termColor(sheet.BackgroundColor))
	} else if sheet.BackgroundGradient.Valid() {
		mid := sheet.BackgroundGradient.Start.Mix(sheet.BackgroundGradient.End, 0.5)
		st = st.Background(termColor(mid))
	}
	if p := sheet.Padding; p != (style.Margin{}) {
		st = st.Padding(cellsY(p.Top), cellsX(p.Right), cellsY(p.Bottom), cellsX(p.Left))
	}
	if sheet.Border.Width > 0 && sheet.Border.Style != style.BorderStyleNone {
		st = st.Border(borderFor(sheet.Border.Style, sheet.CornerRadius))
		if sheet.Border.Color.Valid {
			st = st.BorderForeground(termColor(sheet.Border.Color))
		}
	}
	return st
}

func borderFor(bs style.BorderStyle, cornerRadius int) lipgloss.Border {
	switch bs {
	case style.BorderStyleDashed:
		return dashedBorder
	case style.BorderStyleDotted:
		return dottedBorder
	}
	if cornerRadius > 0 {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.NormalBorder()
}

var dashedBorder = lipgloss.Border{
	Top: "╌", Bottom: "╌", Left: "╎", Right: "╎",
	TopLeft: "┌", TopRight: "┐", BottomLeft: "└", BottomRight: "┘",
}

var dottedBorder = lipgloss.Border{
	Top: "┄", Bottom: "┄", Left: "┆", Right: "┆",
	TopLeft: "┌", TopRight: "┐", BottomLeft: "└", BottomRight: "┘",
}

// termColor flattens a style color onto the terminal palette. Cells
// have no transparency, so alpha pre-blends toward black.
func termColor(c style.Color) lipgloss.Color {
	if !c.Valid {
		return lipgloss.Color("")
	}
	if c.A < 255 {
		c = c.Mix(style.RGB(0, 0, 0), 1-float64(c.A)/255).WithAlpha(255)
	}
	return lipgloss.Color(c.Hex())
}

func flatHex(c style.Color) string {
	return string(termColor(c))
}

func sampleText(sample metrics.Sample) string {
	if sample.Text != "" {
		return sample.Text
	}
	return strconv.FormatFloat(sample.Value, 'g', -1, 64)
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
