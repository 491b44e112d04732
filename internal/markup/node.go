// Package markup turns widget markup documents into trees of typed
// description nodes. Nodes are plain data: they carry the raw attribute
// list, the coerced typed fields for their tag, and an inline StyleSheet
// built from styling attributes. Rendering happens elsewhere, keyed by
// tag name.
package markup

import (
	"strconv"
	"strings"

	"github.com/milkwidget/milk/internal/style"
)

// Attr is one raw markup attribute. Keys are lower-cased; when a key
// appears more than once on an element the last occurrence wins.
type Attr struct {
	Key   string
	Value string
}

// Orientation selects how a container lays out its children.
type Orientation int

const (
	OrientationVertical Orientation = iota
	OrientationHorizontal
	OrientationGrid
)

// String returns the layout keyword.
func (o Orientation) String() string {
	switch o {
	case OrientationHorizontal:
		return "horizontal"
	case OrientationGrid:
		return "grid"
	default:
		return "vertical"
	}
}

// WidgetNode describes one markup element. Tag is the canonical tag
// name (aliases are folded, e.g. label to text). Fields beyond Tag,
// Attrs, and Children are populated by per-tag coercion; which ones are
// meaningful depends on the tag.
type WidgetNode struct {
	Tag      string
	Attrs    []Attr
	Children []*WidgetNode

	// Styling
	Class  string
	Inline style.StyleSheet

	// Text content for text-bearing tags, whitespace preserved.
	Text string

	// Panel geometry and behavior.
	Width, Height int
	X, Y          int
	HasXY         bool
	Anchor        Anchor
	Shape         string
	Spacing       int
	Layout        Orientation
	Draggable     bool
	AlwaysOnTop   bool
	ClickThrough  bool

	// Glow is a text/panel effect that rides outside the StyleSheet.
	GlowColor  style.Color
	GlowRadius int

	// Content fields.
	Src     string // image path, resolved against the theme asset root
	Format  string // clock format
	Align   string
	Label   string
	Unit    string
	Variant string // tag-specific style keyword (graph type, gauge style, ...)
	Metric  string // metric key the widget pulls its value from

	// Data widget fields.
	Value, Min, Max float64
	MaxPoints       int
	AutoScale       bool
	ShowText        bool
	ShowGrid        bool
	ShowSeconds     bool
	ShowDate        bool
	TwentyFourHour  bool
	Circular        bool
	Size            int // spacer extent
	Thickness       int // gauge stroke
	FillColor       style.Color
	TrackColor      style.Color
}

// Attr returns the raw value for a lower-case key.
func (n *WidgetNode) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the key is present.
func (n *WidgetNode) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// AttrOr returns the raw value or fallback when absent.
func (n *WidgetNode) AttrOr(key, fallback string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return fallback
}

// IntAttr coerces an attribute to an integer; absent or non-numeric
// values yield fallback.
func (n *WidgetNode) IntAttr(key string, fallback int) int {
	v, ok := n.Attr(key)
	if !ok {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return i
}

// FloatAttr coerces an attribute to a float; absent or non-numeric
// values yield fallback.
func (n *WidgetNode) FloatAttr(key string, fallback float64) float64 {
	v, ok := n.Attr(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return f
}

// BoolAttr coerces an attribute: exactly "true" is true, anything else
// including absence is false.
func (n *WidgetNode) BoolAttr(key string) bool {
	v, _ := n.Attr(key)
	return v == "true"
}

// Walk visits the node and every descendant in document order.
func (n *WidgetNode) Walk(visit func(*WidgetNode)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Tree is the parse result: the widget roots of one document.
type Tree struct {
	Widgets []*WidgetNode
}

// Walk visits every node of every widget root in document order.
func (t *Tree) Walk(visit func(*WidgetNode)) {
	for _, w := range t.Widgets {
		w.Walk(visit)
	}
}

// Len counts all nodes in the tree.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*WidgetNode) { count++ })
	return count
}
