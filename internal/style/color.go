package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGBA color. The zero value is the invalid color;
// parsers return it for unrecognized input and style merging treats it
// as "field not set".
type Color struct {
	R, G, B, A uint8
	Valid      bool
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255, Valid: true}
}

// RGBA returns a color with an explicit alpha channel.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a, Valid: true}
}

// Predefined colors.
var (
	Transparent = RGBA(0, 0, 0, 0)
	White       = RGB(255, 255, 255)
	Black       = RGB(0, 0, 0)
	Red         = RGB(255, 0, 0)
	Green       = RGB(0, 255, 0)
	Blue        = RGB(0, 0, 255)
	Yellow      = RGB(255, 255, 0)
	Cyan        = RGB(0, 255, 255)
	Magenta     = RGB(255, 0, 255)
	Orange      = RGB(255, 165, 0)
	Purple      = RGB(128, 0, 128)
	Pink        = RGB(255, 192, 203)
	Gray        = RGB(128, 128, 128)
	DarkGray    = RGB(64, 64, 64)
	LightGray   = RGB(192, 192, 192)
)

var namedColors = map[string]Color{
	"transparent": Transparent,
	"white":       White,
	"black":       Black,
	"red":         Red,
	"green":       Green,
	"blue":        Blue,
	"yellow":      Yellow,
	"cyan":        Cyan,
	"magenta":     Magenta,
	"orange":      Orange,
	"purple":      Purple,
	"pink":        Pink,
	"gray":        Gray,
	"grey":        Gray,
	"darkgray":    DarkGray,
	"darkgrey":    DarkGray,
	"lightgray":   LightGray,
	"lightgrey":   LightGray,
}

// ParseColor parses a textual color. Accepted forms, in priority order:
// rgb(r,g,b), rgba(r,g,b,a), hsl(h,s%,l%), a named color, or a hex
// literal (#rgb, #rrggbb, #rrggbbaa). The rgba alpha component is an
// integer 0-255 unless it contains a decimal point, in which case it is
// a 0.0-1.0 fraction. Unrecognized input returns the invalid color.
func ParseColor(text string) Color {
	s := strings.ToLower(strings.TrimSpace(text))

	switch {
	case strings.HasPrefix(s, "rgba("):
		return parseRGBFunc(strings.TrimPrefix(s, "rgba("), true)
	case strings.HasPrefix(s, "rgb("):
		return parseRGBFunc(strings.TrimPrefix(s, "rgb("), false)
	case strings.HasPrefix(s, "hsl("):
		return parseHSLFunc(strings.TrimPrefix(s, "hsl("))
	}

	if c, ok := namedColors[s]; ok {
		return c
	}
	return parseHex(s)
}

func parseRGBFunc(rest string, withAlpha bool) Color {
	inner, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return Color{}
	}
	parts := strings.Split(inner, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) < want {
		return Color{}
	}

	r, okR := parseChannel(parts[0])
	g, okG := parseChannel(parts[1])
	b, okB := parseChannel(parts[2])
	if !okR || !okG || !okB {
		return Color{}
	}

	a := uint8(255)
	if withAlpha {
		var okA bool
		a, okA = parseAlpha(parts[3])
		if !okA {
			return Color{}
		}
	}
	return RGBA(r, g, b, a)
}

func parseChannel(s string) (uint8, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 255 {
		return 0, false
	}
	return uint8(n), true
}

// parseAlpha applies the decimal-point heuristic: "0.5" is a fraction,
// "128" is an 8-bit value. Theme files depend on this distinction, so
// "1" means 1/255, not fully opaque.
func parseAlpha(s string) (uint8, bool) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n := int(f * 255)
		if n < 0 || n > 255 {
			return 0, false
		}
		return uint8(n), true
	}
	return parseChannel(s)
}

func parseHSLFunc(rest string) Color {
	inner, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return Color{}
	}
	parts := strings.Split(inner, ",")
	if len(parts) < 3 {
		return Color{}
	}

	h := atoiOrZero(parts[0])
	sat := atoiOrZero(strings.ReplaceAll(parts[1], "%", ""))
	light := atoiOrZero(strings.ReplaceAll(parts[2], "%", ""))
	if sat < 0 || sat > 100 || light < 0 || light > 100 {
		return Color{}
	}

	hue := math.Mod(float64(h), 360)
	if hue < 0 {
		hue += 360
	}
	cc := colorful.Hsl(hue, float64(sat)/100, float64(light)/100)
	return fromColorful(cc, 255)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseHex(s string) Color {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}
	}

	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return Color{}
		}
		return RGB(r*17, g*17, b*17)
	case 6:
		r, okR := hexByte(hex[0:2])
		g, okG := hexByte(hex[2:4])
		b, okB := hexByte(hex[4:6])
		if !okR || !okG || !okB {
			return Color{}
		}
		return RGB(r, g, b)
	case 8:
		r, okR := hexByte(hex[0:2])
		g, okG := hexByte(hex[2:4])
		b, okB := hexByte(hex[4:6])
		a, okA := hexByte(hex[6:8])
		if !okR || !okG || !okB || !okA {
			return Color{}
		}
		return RGBA(r, g, b, a)
	default:
		return Color{}
	}
}

func hexByte(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

func hexNibble(c byte) (uint8, bool) {
	n, err := strconv.ParseUint(string(c), 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

// Hex formats the color as #rrggbb, or #rrggbbaa when the color is not
// fully opaque. Returns "" for the invalid color.
func (c Color) Hex() string {
	if !c.Valid {
		return ""
	}
	if c.A < 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBString formats the color as rgb(r, g, b).
func (c Color) RGBString() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBAString formats the color as rgba(r, g, b, a) with an 8-bit alpha.
func (c Color) RGBAString() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

// HSLString formats the color as hsl(h, s%, l%).
func (c Color) HSLString() string {
	h, s, l := c.toColorful().Hsl()
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)",
		int(math.Round(h)), int(math.Round(s*100)), int(math.Round(l*100)))
}

// String renders invalid colors as "transparent", translucent colors in
// rgba form, and opaque colors as hex.
func (c Color) String() string {
	switch {
	case !c.Valid:
		return "transparent"
	case c.A < 255:
		return c.RGBAString()
	default:
		return c.Hex()
	}
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func fromColorful(cc colorful.Color, a uint8) Color {
	r, g, b := cc.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: a, Valid: true}
}

// WithAlpha returns the color with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Lighten raises the HSL lightness by amount (0-1), clamped. Alpha is
// preserved. Darken is Lighten with a negated amount.
func (c Color) Lighten(amount float64) Color {
	if !c.Valid {
		return c
	}
	h, s, l := c.toColorful().Hsl()
	l = clamp01(l + amount)
	return fromColorful(colorful.Hsl(h, s, l), c.A)
}

// Darken lowers the HSL lightness by amount (0-1), clamped.
func (c Color) Darken(amount float64) Color {
	return c.Lighten(-amount)
}

// Mix blends c toward other channel-wise. ratio 0 returns c, 1 returns
// other. Mixing with an invalid color returns the invalid color.
func (c Color) Mix(other Color, ratio float64) Color {
	if !c.Valid || !other.Valid {
		return Color{}
	}
	ratio = clamp01(ratio)
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*ratio)
	}
	return RGBA(lerp(c.R, other.R), lerp(c.G, other.G), lerp(c.B, other.B), lerp(c.A, other.A))
}

// Luminance returns the WCAG relative luminance in [0,1].
func (c Color) Luminance() float64 {
	toLinear := func(ch uint8) float64 {
		v := float64(ch) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*toLinear(c.R) + 0.7152*toLinear(c.G) + 0.0722*toLinear(c.B)
}

// Contrast returns the WCAG contrast ratio between two colors (>= 1).
func (c Color) Contrast(other Color) float64 {
	l1, l2 := c.Luminance(), other.Luminance()
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// IsDark reports whether the color reads as dark.
func (c Color) IsDark() bool {
	return c.Luminance() < 0.5
}

// ContrastingText returns white for dark backgrounds, black otherwise.
func (c Color) ContrastingText() Color {
	if c.IsDark() {
		return White
	}
	return Black
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
