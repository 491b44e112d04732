package css

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/milkwidget/milk/internal/style"
)

var blurRadiusRe = regexp.MustCompile(`blur\((\d+)`)

// applyProperty dispatches one key/value declaration onto the sheet.
// Property names arrive lowercased; values keep their written case.
// Unknown properties fall through untouched.
func applyProperty(sheet *style.StyleSheet, property, value string) {
	switch property {
	case "background", "background-color", "bg":
		if strings.HasPrefix(value, "linear-gradient") {
			sheet.BackgroundGradient = style.ParseGradient(value)
		} else {
			sheet.BackgroundColor = style.ParseColor(value)
		}
	case "background-image":
		if strings.HasPrefix(value, "url(") && strings.HasSuffix(value, ")") {
			sheet.BackgroundImage = strings.Trim(value[4:len(value)-1], `"'`)
		}

	case "color":
		sheet.TextColor = style.ParseColor(value)
	case "font-family":
		sheet.FontFamily = strings.Trim(value, `"'`)
	case "font-size":
		sheet.FontSize = style.ParseLength(value)
	case "font-weight":
		sheet.FontBold = value == "bold" || atoi(value) >= 700
	case "font-style":
		sheet.FontItalic = value == "italic"

	case "border":
		sheet.Border = style.ParseBorder(value)
	case "border-color":
		sheet.Border.Color = style.ParseColor(value)
	case "border-width":
		sheet.Border.Width = style.ParseLength(value)
	case "border-radius":
		sheet.CornerRadius = style.ParseLength(value)
	case "border-style":
		if bs, ok := style.ParseBorderStyle(value); ok {
			sheet.Border.Style = bs
		}

	case "box-shadow":
		sheet.Shadow = style.ParseShadow(value)

	case "margin":
		sheet.Margin = style.ParseMargin(value)
	case "margin-top":
		sheet.Margin.Top = style.ParseLength(value)
	case "margin-right":
		sheet.Margin.Right = style.ParseLength(value)
	case "margin-bottom":
		sheet.Margin.Bottom = style.ParseLength(value)
	case "margin-left":
		sheet.Margin.Left = style.ParseLength(value)

	case "padding":
		sheet.Padding = style.ParseMargin(value)
	case "padding-top":
		sheet.Padding.Top = style.ParseLength(value)
	case "padding-right":
		sheet.Padding.Right = style.ParseLength(value)
	case "padding-bottom":
		sheet.Padding.Bottom = style.ParseLength(value)
	case "padding-left":
		sheet.Padding.Left = style.ParseLength(value)

	case "opacity":
		sheet.Opacity = parseFloat(value)
	case "backdrop-filter", "blur":
		if strings.Contains(value, "blur") {
			sheet.Blur = style.BlurBackground
			if m := blurRadiusRe.FindStringSubmatch(value); m != nil {
				sheet.BlurRadius = parseFloat(m[1])
			}
		}
	}
}

// atoi and parseFloat mirror lenient value coercion: garbage yields zero.
func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
