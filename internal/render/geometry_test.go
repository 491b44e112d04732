package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milkwidget/milk/internal/markup"
	"github.com/milkwidget/milk/internal/style"
)

func TestOrigin_Anchors(t *testing.T) {
	margin := style.Margin{Top: 2, Right: 3, Bottom: 4, Left: 5}

	tests := []struct {
		anchor markup.Anchor
		x, y   int
	}{
		{markup.AnchorTopLeft, 5, 2},
		{markup.AnchorTopCenter, 40, 2},
		{markup.AnchorTopRight, 77, 2},
		{markup.AnchorCenterLeft, 5, 15},
		{markup.AnchorCenter, 40, 15},
		{markup.AnchorCenterRight, 77, 15},
		{markup.AnchorBottomLeft, 5, 26},
		{markup.AnchorBottomCenter, 40, 26},
		{markup.AnchorBottomRight, 77, 26},
		{markup.AnchorNone, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			x, y := Origin(100, 40, 20, 10, tt.anchor, margin)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestOrigin_CenteringIgnoresMargin(t *testing.T) {
	x, y := Origin(100, 40, 20, 10, markup.AnchorCenter, style.Margin{Top: 9, Right: 9, Bottom: 9, Left: 9})
	assert.Equal(t, 40, x)
	assert.Equal(t, 15, y)
}

func TestOrigin_ClampsToCanvas(t *testing.T) {
	x, y := Origin(10, 10, 20, 20, markup.AnchorTopLeft, style.Margin{})
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	x, y = Origin(10, 10, 20, 20, markup.AnchorBottomRight, style.Margin{})
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestCells(t *testing.T) {
	assert.Equal(t, 0, cellsX(0))
	assert.Equal(t, 0, cellsX(-8))
	assert.Equal(t, 1, cellsX(4), "any positive length is at least one column")
	assert.Equal(t, 1, cellsX(8))
	assert.Equal(t, 2, cellsX(16))
	assert.Equal(t, 37, cellsX(300))

	assert.Equal(t, 0, cellsY(0))
	assert.Equal(t, 1, cellsY(10))
	assert.Equal(t, 1, cellsY(16))
	assert.Equal(t, 2, cellsY(32))
}

func TestScaleMargin(t *testing.T) {
	m := scaleMargin(style.Margin{Top: 16, Right: 8, Bottom: 32, Left: 20})
	assert.Equal(t, style.Margin{Top: 1, Right: 1, Bottom: 2, Left: 2}, m)
}

func TestAnchorCell(t *testing.T) {
	tests := []struct {
		anchor   markup.Anchor
		row, col int
	}{
		{markup.AnchorNone, 0, 0},
		{markup.AnchorTopLeft, 0, 0},
		{markup.AnchorTopCenter, 0, 1},
		{markup.AnchorTopRight, 0, 2},
		{markup.AnchorCenterLeft, 1, 0},
		{markup.AnchorCenter, 1, 1},
		{markup.AnchorCenterRight, 1, 2},
		{markup.AnchorBottomLeft, 2, 0},
		{markup.AnchorBottomCenter, 2, 1},
		{markup.AnchorBottomRight, 2, 2},
	}
	for _, tt := range tests {
		row, col := anchorCell(tt.anchor)
		assert.Equal(t, tt.row, row, tt.anchor.String())
		assert.Equal(t, tt.col, col, tt.anchor.String())
	}
}
