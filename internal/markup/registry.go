package markup

import (
	"strconv"
	"strings"

	"github.com/milkwidget/milk/internal/style"
)

// Coercer applies a tag's attribute coercion rules to a node. rawTag is
// the tag as written in the document, before alias folding; most
// coercers ignore it.
type Coercer func(n *WidgetNode, rawTag string)

// Definition describes how one child tag is parsed. Container tags have
// their child elements parsed recursively; textual tags capture their
// character data as node text, whitespace preserved.
type Definition struct {
	Tag       string
	Coerce    Coercer
	Container bool
	Textual   bool
}

var registry = map[string]Definition{}

// Register binds a definition to its canonical tag and any aliases.
// Parsing an alias produces a node whose Tag is the canonical name.
// Registering an existing tag replaces it.
func Register(def Definition, aliases ...string) {
	registry[def.Tag] = def
	for _, a := range aliases {
		registry[a] = def
	}
}

// Lookup finds the definition for a tag, case-insensitively.
func Lookup(tag string) (Definition, bool) {
	def, ok := registry[strings.ToLower(tag)]
	return def, ok
}

func init() {
	Register(Definition{Tag: "text", Coerce: coerceText, Textual: true}, "label")
	Register(Definition{Tag: "title", Coerce: coerceTitle, Textual: true})
	Register(Definition{Tag: "progress", Coerce: coerceProgress}, "progressbar", "progress-bar")
	Register(Definition{Tag: "graph", Coerce: coerceGraph}, "chart")
	Register(Definition{Tag: "gauge", Coerce: coerceGauge}, "meter")
	Register(Definition{Tag: "image", Coerce: coerceImage}, "img")
	Register(Definition{Tag: "button", Coerce: coerceButton, Textual: true})
	Register(Definition{Tag: "spacer", Coerce: coerceSpacer}, "space")
	Register(Definition{Tag: "clock", Coerce: coerceClock})
	Register(Definition{Tag: "calendar"})
	Register(Definition{Tag: "container", Coerce: coerceContainer, Container: true}, "box", "vbox", "hbox")
}

// applyBackground routes a background value to the gradient or color
// field depending on its form.
func applyBackground(sheet *style.StyleSheet, value string) {
	if strings.HasPrefix(value, "linear-gradient") {
		sheet.BackgroundGradient = style.ParseGradient(value)
		return
	}
	sheet.BackgroundColor = style.ParseColor(value)
}

// coercePanel handles the top-level widget element.
func coercePanel(n *WidgetNode, _ string) {
	n.Width = n.IntAttr("width", 300)
	n.Height = n.IntAttr("height", 200)

	if v, ok := n.Attr("background"); ok {
		applyBackground(&n.Inline, v)
	} else if v, ok := n.Attr("bg"); ok {
		applyBackground(&n.Inline, v)
	}

	n.Shape = strings.ToLower(n.AttrOr("shape", ""))

	if v, ok := n.Attr("rounded"); ok {
		n.Inline.CornerRadius = style.ParseLength(v)
	} else if v, ok := n.Attr("radius"); ok {
		n.Inline.CornerRadius = style.ParseLength(v)
	}

	if v, ok := n.Attr("position"); ok {
		n.Anchor = ParseAnchor(v)
	} else if v, ok := n.Attr("pos"); ok {
		n.Anchor = ParseAnchor(v)
	}
	if n.HasAttr("x") && n.HasAttr("y") {
		n.X = n.IntAttr("x", 0)
		n.Y = n.IntAttr("y", 0)
		n.HasXY = true
	}

	// border="2px #ff0000" is (width, color); a single token is a
	// color with a one pixel width.
	if v, ok := n.Attr("border"); ok {
		parts := strings.Fields(v)
		if len(parts) >= 2 {
			n.Inline.Border = style.Border{
				Width: style.ParseLength(parts[0]),
				Color: style.ParseColor(parts[1]),
				Style: style.BorderStyleSolid,
			}
		} else {
			n.Inline.Border = style.Border{
				Width: 1,
				Color: style.ParseColor(v),
				Style: style.BorderStyleSolid,
			}
		}
	}
	if n.HasAttr("border-color") && n.HasAttr("border-width") {
		n.Inline.Border = style.Border{
			Width: n.IntAttr("border-width", 0),
			Color: style.ParseColor(n.AttrOr("border-color", "")),
			Style: style.BorderStyleSolid,
		}
	}

	if n.HasAttr("opacity") {
		n.Inline.Opacity = n.FloatAttr("opacity", 1)
	}
	if n.BoolAttr("glass") {
		n.Inline.Blur = style.BlurGlass
	}
	if n.HasAttr("blur") {
		n.Inline.Blur = style.BlurGlass
		n.Inline.BlurRadius = n.FloatAttr("blur", 10)
	}

	coerceGlow(n)

	// shadow="color blur offsetX offsetY" requires all four parts.
	if v, ok := n.Attr("shadow"); ok {
		parts := strings.Fields(v)
		if len(parts) >= 4 {
			n.Inline.Shadow = style.Shadow{
				Color:   style.ParseColor(parts[0]),
				Blur:    atoi(parts[1]),
				OffsetX: atoi(parts[2]),
				OffsetY: atoi(parts[3]),
				Enabled: true,
			}
		}
	}

	n.Draggable = n.BoolAttr("draggable")
	n.AlwaysOnTop = n.BoolAttr("always-on-top")
	n.ClickThrough = n.BoolAttr("click-through")

	if v, ok := n.Attr("margin"); ok {
		n.Inline.Margin = style.UniformMargin(style.ParseLength(v))
	}
	if v, ok := n.Attr("padding"); ok {
		n.Inline.Padding = style.UniformMargin(style.ParseLength(v))
	}
	n.Spacing = n.IntAttr("spacing", 0)

	n.Class = n.AttrOr("class", "")
}

func coerceText(n *WidgetNode, _ string) {
	if v, ok := n.Attr("color"); ok {
		n.Inline.TextColor = style.ParseColor(v)
	}
	if v, ok := n.Attr("font"); ok {
		parts := strings.Fields(v)
		if len(parts) >= 2 {
			n.Inline.FontFamily = parts[0]
			n.Inline.FontSize = style.ParseLength(parts[1])
		} else {
			n.Inline.FontFamily = v
		}
	}
	if v, ok := n.Attr("size"); ok {
		n.Inline.FontSize = style.ParseLength(v)
	}
	if n.HasAttr("bold") {
		n.Inline.FontBold = n.BoolAttr("bold")
	}
	if n.HasAttr("italic") {
		n.Inline.FontItalic = n.BoolAttr("italic")
	}
	n.Align = strings.ToLower(n.AttrOr("align", ""))
	coerceGlow(n)
	applyTextPreset(n, strings.ToLower(n.AttrOr("style", "")))
	n.Metric = n.AttrOr("metric", "")
	n.Class = n.AttrOr("class", "")
}

// applyTextPreset expands the style attribute shorthands.
func applyTextPreset(n *WidgetNode, preset string) {
	switch preset {
	case "title":
		n.Inline.FontSize = 18
		n.Inline.FontBold = true
	case "subtitle":
		n.Inline.FontSize = 14
	case "body":
		n.Inline.FontSize = 12
	case "caption":
		n.Inline.FontSize = 10
		n.Inline.TextColor = style.RGB(150, 150, 150)
	case "monospace", "mono":
		n.Inline.FontFamily = "monospace"
	case "code":
		n.Inline.FontFamily = "monospace"
		n.Inline.BackgroundColor = style.RGBA(0, 0, 0, 50)
		n.Inline.Padding = style.UniformMargin(4)
		n.Inline.CornerRadius = 3
	}
	if preset != "" {
		n.Variant = preset
	}
}

func coerceTitle(n *WidgetNode, _ string) {
	n.Inline.FontSize = 18
	n.Inline.FontBold = true
	if v, ok := n.Attr("color"); ok {
		n.Inline.TextColor = style.ParseColor(v)
	}
	n.Class = n.AttrOr("class", "")
}

func coerceProgress(n *WidgetNode, _ string) {
	n.Value = n.FloatAttr("value", 0)
	n.Min = n.FloatAttr("min", 0)
	n.Max = n.FloatAttr("max", 100)

	if n.HasAttr("background") && n.HasAttr("fill") {
		n.TrackColor = style.ParseColor(n.AttrOr("background", ""))
		n.FillColor = style.ParseColor(n.AttrOr("fill", ""))
	}
	if n.HasAttr("bg") && n.HasAttr("color") {
		n.TrackColor = style.ParseColor(n.AttrOr("bg", ""))
		n.FillColor = style.ParseColor(n.AttrOr("color", ""))
	}

	if v, ok := n.Attr("rounded"); ok {
		n.Inline.CornerRadius = style.ParseLength(v)
	}
	n.Height = n.IntAttr("height", 0)
	n.ShowText = n.BoolAttr("show-text")
	n.Metric = n.AttrOr("metric", "")
	n.Class = n.AttrOr("class", "")
}

func coerceGraph(n *WidgetNode, _ string) {
	n.Variant = strings.ToLower(n.AttrOr("type", "line"))
	if v, ok := n.Attr("color"); ok {
		n.FillColor = style.ParseColor(v)
	}
	if v, ok := n.Attr("fill"); ok {
		n.TrackColor = style.ParseColor(v)
	}
	n.MaxPoints = n.IntAttr("max-points", 60)
	n.Min = n.FloatAttr("min", 0)
	n.Max = n.FloatAttr("max", 100)
	n.AutoScale = n.BoolAttr("auto-scale")
	if v, ok := n.Attr("grid"); ok {
		n.ShowGrid = v == "true"
	} else {
		n.ShowGrid = true
	}
	n.Metric = n.AttrOr("metric", "")
	n.Class = n.AttrOr("class", "")
}

func coerceGauge(n *WidgetNode, _ string) {
	n.Value = n.FloatAttr("value", 0)
	n.Min = 0
	n.Max = 100
	if n.HasAttr("min") && n.HasAttr("max") {
		n.Min = n.FloatAttr("min", 0)
		n.Max = n.FloatAttr("max", 100)
	}
	n.Variant = strings.ToLower(n.AttrOr("style", "arc"))
	n.Thickness = n.IntAttr("thickness", 10)
	n.Label = n.AttrOr("label", "")
	n.Unit = n.AttrOr("unit", "")
	n.Metric = n.AttrOr("metric", "")
	n.Class = n.AttrOr("class", "")
}

func coerceImage(n *WidgetNode, _ string) {
	n.Src = n.AttrOr("src", n.AttrOr("source", ""))
	if v, ok := n.Attr("rounded"); ok {
		n.Inline.CornerRadius = style.ParseLength(v)
	}
	n.Circular = n.BoolAttr("circular")
	if n.HasAttr("opacity") {
		n.Inline.Opacity = n.FloatAttr("opacity", 1)
	}
	n.Class = n.AttrOr("class", "")
}

func coerceButton(n *WidgetNode, _ string) {
	if v, ok := n.Attr("background"); ok {
		n.Inline.BackgroundColor = style.ParseColor(v)
	}
	if v, ok := n.Attr("color"); ok {
		n.Inline.TextColor = style.ParseColor(v)
	}
	if v, ok := n.Attr("rounded"); ok {
		n.Inline.CornerRadius = style.ParseLength(v)
	}
	n.Class = n.AttrOr("class", "")
}

func coerceSpacer(n *WidgetNode, _ string) {
	n.Size = n.IntAttr("size", 10)
}

func coerceClock(n *WidgetNode, _ string) {
	n.Variant = strings.ToLower(n.AttrOr("style", "digital"))
	n.Format = n.AttrOr("format", "")
	if v, ok := n.Attr("color"); ok {
		n.Inline.TextColor = style.ParseColor(v)
	}
	// Everything is shown unless the markup turns it off. XML names
	// cannot start with a digit, so the 24-hour flag is spelled hour24.
	n.ShowSeconds = true
	n.ShowDate = true
	n.TwentyFourHour = true
	if n.HasAttr("show-seconds") {
		n.ShowSeconds = n.BoolAttr("show-seconds")
	}
	if n.HasAttr("show-date") {
		n.ShowDate = n.BoolAttr("show-date")
	}
	if n.HasAttr("hour24") {
		n.TwentyFourHour = n.BoolAttr("hour24")
	}
	n.Class = n.AttrOr("class", "")
}

func coerceContainer(n *WidgetNode, rawTag string) {
	switch {
	case rawTag == "hbox" || n.AttrOr("layout", "") == "horizontal":
		n.Layout = OrientationHorizontal
	case n.AttrOr("layout", "") == "grid":
		n.Layout = OrientationGrid
	default:
		n.Layout = OrientationVertical
	}
	n.Spacing = n.IntAttr("spacing", 0)
	if v, ok := n.Attr("margin"); ok {
		n.Inline.Margin = style.UniformMargin(style.ParseLength(v))
	}
	n.Class = n.AttrOr("class", "")
}

func coerceGlow(n *WidgetNode) {
	v, ok := n.Attr("glow")
	if !ok {
		return
	}
	parts := strings.Fields(v)
	if len(parts) >= 2 {
		n.GlowColor = style.ParseColor(parts[0])
		n.GlowRadius = atoi(parts[1])
	} else {
		n.GlowColor = style.ParseColor(v)
		n.GlowRadius = 10
	}
}

// atoi mirrors lenient attribute coercion: garbage yields zero.
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
