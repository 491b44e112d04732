package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFadePresets(t *testing.T) {
	in := FadeIn("w1", 0)
	assert.Equal(t, "fade", in.Name)
	assert.Equal(t, "opacity", in.Property)
	assert.Equal(t, DefaultDuration, in.Duration)
	assert.InDelta(t, 0, in.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 1, in.Frames.ValueAt(1), 1e-9)

	out := FadeOut("w1", 150*time.Millisecond)
	assert.Equal(t, "fade", out.Name, "fades share a slot so they replace each other")
	assert.Equal(t, 150*time.Millisecond, out.Duration)
	assert.InDelta(t, 1, out.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 0, out.Frames.ValueAt(1), 1e-9)
}

func TestFadeOutReplacesFadeIn(t *testing.T) {
	c := NewCoordinator(nil)

	inDone := false
	in := FadeIn("w1", 100*time.Millisecond)
	in.OnDone = func() { inDone = true }
	c.Animate(in)
	c.Advance(30 * time.Millisecond)

	var last float64
	out := FadeOut("w1", 100*time.Millisecond)
	out.Curve = Linear
	out.OnUpdate = func(_ string, v float64) { last = v }
	c.Animate(out)

	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 1, c.Len())
	assert.False(t, inDone)
	assert.InDelta(t, 0.5, last, 1e-9)
}

func TestSlidePresets(t *testing.T) {
	in := SlideIn("w1", EdgeTop, 80, 0)
	assert.Equal(t, "slide", in.Name)
	assert.Equal(t, "offset-y", in.Property)
	assert.InDelta(t, -80, in.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 0, in.Frames.ValueAt(1), 1e-9)

	out := SlideOut("w1", EdgeRight, 80, 0)
	assert.Equal(t, "offset-x", out.Property)
	assert.InDelta(t, 0, out.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 80, out.Frames.ValueAt(1), 1e-9)

	left := SlideIn("w1", EdgeLeft, 40, 0)
	assert.Equal(t, "offset-x", left.Property)
	assert.InDelta(t, -40, left.Frames.ValueAt(0), 1e-9)

	bottom := SlideOut("w1", EdgeBottom, 40, 0)
	assert.Equal(t, "offset-y", bottom.Property)
	assert.InDelta(t, 40, bottom.Frames.ValueAt(1), 1e-9)
}

func TestPulsePreset(t *testing.T) {
	p := Pulse("w1", 0, 2)
	assert.Equal(t, time.Second, p.Duration)
	assert.Equal(t, 2, p.Loops)
	assert.InDelta(t, 1, p.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 0.5, p.Frames.ValueAt(0.5), 1e-9)
	assert.InDelta(t, 1, p.Frames.ValueAt(1), 1e-9)
}

func TestShakePreset(t *testing.T) {
	s := Shake("w1", 0, 0)
	assert.Equal(t, 500*time.Millisecond, s.Duration)
	require.Len(t, s.Frames, 10)

	assert.InDelta(t, 0, s.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 10, s.Frames.ValueAt(0.1), 1e-9)
	assert.InDelta(t, -10, s.Frames.ValueAt(0.2), 1e-9)
	assert.InDelta(t, 10, s.Frames.ValueAt(0.7), 1e-9)
	assert.InDelta(t, -10, s.Frames.ValueAt(0.8), 1e-9)
	assert.InDelta(t, 0, s.Frames.ValueAt(1), 1e-9)

	custom := Shake("w1", time.Second, 4)
	assert.InDelta(t, 4, custom.Frames.ValueAt(0.1), 1e-9)
}

func TestBouncePreset(t *testing.T) {
	b := Bounce("w1", 0)
	assert.Equal(t, "offset-y", b.Property)
	assert.InDelta(t, 0, b.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, -10, b.Frames.ValueAt(0.25), 1e-9)
	assert.InDelta(t, 0, b.Frames.ValueAt(1), 1e-9)
}

func TestScalePreset(t *testing.T) {
	s := Scale("w1", 0.8, 1.0, 0)
	assert.Equal(t, "scale", s.Property)
	assert.InDelta(t, 0.8, s.Frames.ValueAt(0), 1e-9)
	assert.InDelta(t, 1.0, s.Frames.ValueAt(1), 1e-9)
}
