package style

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseLength converts a CSS-like length to an integer, stripping a
// px, pt, em, or rem suffix. Fractional values truncate. Non-numeric
// input yields 0.
func ParseLength(text string) int {
	v := strings.ToLower(strings.TrimSpace(text))
	for _, suffix := range []string{"rem", "px", "pt", "em"} {
		if cut, ok := strings.CutSuffix(v, suffix); ok {
			v = strings.TrimSpace(cut)
			break
		}
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

// ParseMargin applies CSS shorthand rules to a space-separated list of
// lengths: one value sets all sides, two set (vertical, horizontal),
// three set (top, horizontal, bottom), four or more set (top, right,
// bottom, left).
func ParseMargin(text string) Margin {
	parts := strings.Fields(text)
	var m Margin

	switch {
	case len(parts) == 1:
		m = UniformMargin(ParseLength(parts[0]))
	case len(parts) == 2:
		v, h := ParseLength(parts[0]), ParseLength(parts[1])
		m = Margin{Top: v, Right: h, Bottom: v, Left: h}
	case len(parts) == 3:
		m.Top = ParseLength(parts[0])
		m.Right = ParseLength(parts[1])
		m.Left = ParseLength(parts[1])
		m.Bottom = ParseLength(parts[2])
	case len(parts) >= 4:
		m.Top = ParseLength(parts[0])
		m.Right = ParseLength(parts[1])
		m.Bottom = ParseLength(parts[2])
		m.Left = ParseLength(parts[3])
	}

	return m
}

// ParseBorderStyle maps a CSS keyword to a BorderStyle. Unknown
// keywords report ok=false and leave the caller's value alone.
func ParseBorderStyle(text string) (BorderStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "solid":
		return BorderStyleSolid, true
	case "dashed":
		return BorderStyleDashed, true
	case "dotted":
		return BorderStyleDotted, true
	case "none":
		return BorderStyleNone, true
	default:
		return BorderStyleNone, false
	}
}

// ParseBorder reads a border shorthand such as "2px solid #ff0000".
// Tokens are classified by shape: numeric tokens become the width,
// known keywords the line style, and the first remaining token the
// color. Token order does not matter.
func ParseBorder(text string) Border {
	b := Border{Style: BorderStyleSolid}

	colorTaken := false
	for _, tok := range splitTokens(text) {
		switch {
		case isLengthToken(tok):
			b.Width = ParseLength(tok)
		default:
			if s, ok := ParseBorderStyle(tok); ok {
				b.Style = s
			} else if !colorTaken {
				b.Color = ParseColor(tok)
				colorTaken = true
			}
		}
	}

	return b
}

func isLengthToken(tok string) bool {
	if strings.HasSuffix(tok, "px") {
		return true
	}
	if tok == "" {
		return false
	}
	c := tok[0]
	return c >= '0' && c <= '9' || c == '-'
}

// splitTokens splits on whitespace outside parentheses, keeping
// functional values like rgba(0, 0, 0, 80) as one token.
func splitTokens(text string) []string {
	var toks []string
	var b strings.Builder
	depth := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '(':
			depth++
			b.WriteByte(c)
		case c == ')':
			if depth > 0 {
				depth--
			}
			b.WriteByte(c)
		case (c == ' ' || c == '\t' || c == '\n') && depth == 0:
			if b.Len() > 0 {
				toks = append(toks, b.String())
				b.Reset()
			}
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		toks = append(toks, b.String())
	}
	return toks
}

// ParseShadow reads a box-shadow shorthand: "offsetX offsetY blur
// spread color" with the trailing numbers optional. The first
// non-numeric token supplies the color; later ones are ignored.
func ParseShadow(text string) Shadow {
	s := Shadow{
		Color:   RGBA(0, 0, 0, 80),
		Blur:    10,
		OffsetY: 2,
		Enabled: true,
	}

	var nums []int
	colorTaken := false
	for _, tok := range splitTokens(text) {
		if n, err := strconv.Atoi(strings.TrimSuffix(tok, "px")); err == nil {
			nums = append(nums, n)
			continue
		}
		if !colorTaken {
			s.Color = ParseColor(tok)
			colorTaken = true
		}
	}

	if len(nums) >= 2 {
		s.OffsetX, s.OffsetY = nums[0], nums[1]
	}
	if len(nums) >= 3 {
		s.Blur = nums[2]
	}
	if len(nums) >= 4 {
		s.Spread = nums[3]
	}

	return s
}

var (
	gradientAngleRe  = regexp.MustCompile(`linear-gradient\s*\(\s*(\d+)deg\s*,\s*([^,]+)\s*,\s*([^)]+)\s*\)`)
	gradientSimpleRe = regexp.MustCompile(`linear-gradient\s*\(\s*([^,]+)\s*,\s*([^)]+)\s*\)`)
)

// ParseGradient reads linear-gradient(Ndeg, start, end) or
// linear-gradient(start, end); the two-color form defaults to a
// top-to-bottom 180 degree angle. Anything else yields an invalid
// gradient.
func ParseGradient(text string) Gradient {
	var g Gradient

	if m := gradientAngleRe.FindStringSubmatch(text); m != nil {
		g.Type = GradientLinear
		g.Angle, _ = strconv.ParseFloat(m[1], 64)
		g.Start = ParseColor(strings.TrimSpace(m[2]))
		g.End = ParseColor(strings.TrimSpace(m[3]))
		return g
	}

	if m := gradientSimpleRe.FindStringSubmatch(text); m != nil {
		g.Type = GradientLinear
		g.Angle = 180
		g.Start = ParseColor(strings.TrimSpace(m[1]))
		g.End = ParseColor(strings.TrimSpace(m[2]))
	}

	return g
}
