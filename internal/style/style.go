// Package style defines the visual property model for widgets: colors,
// box values (margin, border, shadow, gradient), the StyleSheet record,
// and the textual grammars that produce them. Every StyleSheet field is
// independently optional; the unset state is encoded in the value itself
// (invalid color, empty string, non-positive size, disabled flag) so
// sheets merge field-by-field without a presence map.
package style

// BorderStyle enumerates border line styles.
type BorderStyle int

const (
	BorderStyleNone BorderStyle = iota
	BorderStyleSolid
	BorderStyleDashed
	BorderStyleDotted
)

// String returns the CSS keyword for the border style.
func (b BorderStyle) String() string {
	switch b {
	case BorderStyleSolid:
		return "solid"
	case BorderStyleDashed:
		return "dashed"
	case BorderStyleDotted:
		return "dotted"
	default:
		return "none"
	}
}

// BlurMode enumerates backdrop blur treatments.
type BlurMode int

const (
	BlurNone BlurMode = iota
	BlurBackground
	BlurGlass
	BlurFrosted
)

// String returns a label for the blur mode.
func (m BlurMode) String() string {
	switch m {
	case BlurBackground:
		return "background"
	case BlurGlass:
		return "glass"
	case BlurFrosted:
		return "frosted"
	default:
		return "none"
	}
}

// Margin holds per-side lengths. It doubles as padding.
type Margin struct {
	Top, Right, Bottom, Left int
}

// UniformMargin returns a margin with all four sides set to n.
func UniformMargin(n int) Margin {
	return Margin{Top: n, Right: n, Bottom: n, Left: n}
}

// Any reports whether any side is positive, which is the "set" state
// for margin and padding fields.
func (m Margin) Any() bool {
	return m.Top > 0 || m.Right > 0 || m.Bottom > 0 || m.Left > 0
}

// Border describes a widget outline.
type Border struct {
	Color Color
	Width int
	Style BorderStyle
}

// Visible reports whether the border would draw anything.
func (b Border) Visible() bool {
	return b.Width > 0 && b.Color.Valid && b.Color.A > 0 && b.Style != BorderStyleNone
}

// Shadow describes a drop shadow. Enabled is the "set" state; a parsed
// shadow is always enabled.
type Shadow struct {
	Color   Color
	Blur    int
	OffsetX int
	OffsetY int
	Spread  int
	Enabled bool
}

// GradientType enumerates gradient geometries.
type GradientType int

const (
	GradientLinear GradientType = iota
	GradientRadial
)

// Gradient describes a two-stop background gradient.
type Gradient struct {
	Type  GradientType
	Start Color
	End   Color
	Angle float64
}

// Valid reports whether both stops parsed, which is the "set" state.
func (g Gradient) Valid() bool {
	return g.Start.Valid && g.End.Valid
}

// StyleSheet is a bundle of optional visual properties. Construct with
// New so the opacity and blur-radius sentinels start in their unset
// values; the zero value of the struct is not a valid empty sheet.
type StyleSheet struct {
	// Background
	BackgroundColor    Color
	BackgroundGradient Gradient
	BackgroundImage    string

	// Text
	TextColor  Color
	FontFamily string
	FontSize   int
	FontBold   bool
	FontItalic bool

	// Box
	Border       Border
	Shadow       Shadow
	Margin       Margin
	Padding      Margin
	CornerRadius int

	// Effects
	Opacity    float64
	Blur       BlurMode
	BlurRadius float64
}

// New returns a StyleSheet with every field in the unset state. Opacity
// unset is 1.0 (fully opaque wins only when lowered) and the blur radius
// defaults to 10 for rules that enable blur without giving one.
func New() StyleSheet {
	return StyleSheet{
		Border:     Border{Style: BorderStyleSolid},
		Opacity:    1,
		BlurRadius: 10,
	}
}

// Merge overlays override onto base field-by-field. An override field
// replaces the base field only when it is in the set state; unset
// override fields leave base untouched. Merge never mutates its inputs.
func Merge(base, override StyleSheet) StyleSheet {
	out := base

	if override.BackgroundColor.Valid {
		out.BackgroundColor = override.BackgroundColor
	}
	if override.BackgroundGradient.Valid() {
		out.BackgroundGradient = override.BackgroundGradient
	}
	if override.BackgroundImage != "" {
		out.BackgroundImage = override.BackgroundImage
	}
	if override.TextColor.Valid {
		out.TextColor = override.TextColor
	}
	if override.FontFamily != "" {
		out.FontFamily = override.FontFamily
	}
	if override.FontSize > 0 {
		out.FontSize = override.FontSize
	}
	if override.FontBold {
		out.FontBold = true
	}
	if override.FontItalic {
		out.FontItalic = true
	}
	if override.Border.Width > 0 {
		out.Border = override.Border
	}
	if override.Shadow.Enabled {
		out.Shadow = override.Shadow
	}
	if override.Margin.Any() {
		out.Margin = override.Margin
	}
	if override.Padding.Any() {
		out.Padding = override.Padding
	}
	if override.CornerRadius > 0 {
		out.CornerRadius = override.CornerRadius
	}
	if override.Opacity < 1 {
		out.Opacity = override.Opacity
	}
	if override.Blur != BlurNone {
		out.Blur = override.Blur
		out.BlurRadius = override.BlurRadius
	}

	return out
}

// IsZero reports whether every field is in the unset state.
func (s StyleSheet) IsZero() bool {
	return !s.BackgroundColor.Valid &&
		!s.BackgroundGradient.Valid() &&
		s.BackgroundImage == "" &&
		!s.TextColor.Valid &&
		s.FontFamily == "" &&
		s.FontSize <= 0 &&
		!s.FontBold &&
		!s.FontItalic &&
		s.Border.Width <= 0 &&
		!s.Shadow.Enabled &&
		!s.Margin.Any() &&
		!s.Padding.Any() &&
		s.CornerRadius <= 0 &&
		s.Opacity >= 1 &&
		s.Blur == BlurNone
}
