package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUnset(t *testing.T) {
	s := New()
	assert.True(t, s.IsZero())
	assert.Equal(t, 1.0, s.Opacity)
	assert.False(t, s.BackgroundColor.Valid)
	assert.False(t, s.TextColor.Valid)
	assert.Zero(t, s.Border.Width)
	assert.False(t, s.Shadow.Enabled)
}

func TestMergeOverrideWins(t *testing.T) {
	base := New()
	base.TextColor = Red
	base.FontSize = 14
	base.Margin = UniformMargin(5)

	override := New()
	override.TextColor = Blue
	override.FontBold = true

	merged := Merge(base, override)

	// Set override fields replace base values.
	assert.Equal(t, Blue, merged.TextColor)
	assert.True(t, merged.FontBold)

	// Unset override fields leave base values untouched.
	assert.Equal(t, 14, merged.FontSize)
	assert.Equal(t, UniformMargin(5), merged.Margin)

	// Inputs are not mutated.
	assert.Equal(t, Red, base.TextColor)
}

func TestMergeNotCommutative(t *testing.T) {
	a := New()
	a.TextColor = Red
	b := New()
	b.TextColor = Blue

	assert.Equal(t, Blue, Merge(a, b).TextColor)
	assert.Equal(t, Red, Merge(b, a).TextColor)
	assert.NotEqual(t, Merge(a, b), Merge(b, a))
}

func TestMergeSentinels(t *testing.T) {
	base := New()
	base.Opacity = 0.8
	base.CornerRadius = 6
	base.Shadow = ParseShadow("0 2 8 black")

	// An all-unset override changes nothing.
	merged := Merge(base, New())
	assert.Equal(t, base, merged)

	override := New()
	override.Opacity = 0.5
	override.Blur = BlurGlass
	override.BlurRadius = 20

	merged = Merge(base, override)
	assert.Equal(t, 0.5, merged.Opacity)
	assert.Equal(t, BlurGlass, merged.Blur)
	assert.Equal(t, 20.0, merged.BlurRadius)
	assert.Equal(t, 6, merged.CornerRadius)
	assert.True(t, merged.Shadow.Enabled)
}

func TestMergeCompoundFields(t *testing.T) {
	base := New()
	base.Border = ParseBorder("1px solid red")

	override := New()
	override.Border = ParseBorder("3px dashed blue")

	merged := Merge(base, override)
	assert.Equal(t, 3, merged.Border.Width)
	assert.Equal(t, BorderStyleDashed, merged.Border.Style)
	assert.Equal(t, Blue, merged.Border.Color)

	// A gradient override rides along only when both stops are valid.
	override = New()
	override.BackgroundGradient = ParseGradient("linear-gradient(red, bogus)")
	merged = Merge(base, override)
	assert.False(t, merged.BackgroundGradient.Valid())
}

func TestMergeIgnoresZeroValueNoise(t *testing.T) {
	base := New()
	base.FontSize = 12

	override := New()
	override.FontSize = 0 // unset, not "size zero"

	assert.Equal(t, 12, Merge(base, override).FontSize)
}
