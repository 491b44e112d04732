package render

import (
	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/style"
)

// Markup sizes are pixels; the surface is character cells. A cell is
// taken as 8x16 px, the usual monospace aspect.
const (
	cellWidth  = 8
	cellHeight = 16
)

// cellsX converts a horizontal pixel length to columns. Any positive
// length occupies at least one column.
func cellsX(px int) int {
	if px <= 0 {
		return 0
	}
	c := px / cellWidth
	if c < 1 {
		c = 1
	}
	return c
}

// cellsY converts a vertical pixel length to rows.
func cellsY(px int) int {
	if px <= 0 {
		return 0
	}
	c := px / cellHeight
	if c < 1 {
		c = 1
	}
	return c
}

func scaleMargin(m style.Margin) style.Margin {
	return style.Margin{
		Top:    cellsY(m.Top),
		Right:  cellsX(m.Right),
		Bottom: cellsY(m.Bottom),
		Left:   cellsX(m.Left),
	}
}

// Origin computes the top-left cell of a w*h block on a canvas from
// its anchor and margin (both already in cells). Margins apply on the
// anchored edges; centering splits the leftover space evenly and
// ignores them. Coordinates clamp to the canvas.
func Origin(canvasW, canvasH, w, h int, a markup.Anchor, m style.Margin) (int, int) {
	var x, y int

	switch a {
	case markup.AnchorTopCenter, markup.AnchorCenter, markup.AnchorBottomCenter:
		x = (canvasW - w) / 2
	case markup.AnchorTopRight, markup.AnchorCenterRight, markup.AnchorBottomRight:
		x = canvasW - w - m.Right
	default:
		x = m.Left
	}

	switch a {
	case markup.AnchorCenterLeft, markup.AnchorCenter, markup.AnchorCenterRight:
		y = (canvasH - h) / 2
	case markup.AnchorBottomLeft, markup.AnchorBottomCenter, markup.AnchorBottomRight:
		y = canvasH - h - m.Bottom
	default:
		y = m.Top
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// anchorCell maps an anchor onto the 3x3 band grid the multi-panel
// layout composes. Unanchored panels go top-left.
func anchorCell(a markup.Anchor) (row, col int) {
	switch a {
	case markup.AnchorTopCenter:
		return 0, 1
	case markup.AnchorTopRight:
		return 0, 2
	case markup.AnchorCenterLeft:
		return 1, 0
	case markup.AnchorCenter:
		return 1, 1
	case markup.AnchorCenterRight:
		return 1, 2
	case markup.AnchorBottomLeft:
		return 2, 0
	case markup.AnchorBottomCenter:
		return 2, 1
	case markup.AnchorBottomRight:
		return 2, 2
	default:
		return 0, 0
	}
}
