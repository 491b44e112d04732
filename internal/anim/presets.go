package anim

import "time"

// Edge names a screen side for slide animations.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "unknown"
}

func (e Edge) property() string {
	if e == EdgeLeft || e == EdgeRight {
		return "offset-x"
	}
	return "offset-y"
}

// sign gives the off-screen direction along the edge's axis.
func (e Edge) sign() float64 {
	if e == EdgeTop || e == EdgeLeft {
		return -1
	}
	return 1
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultDuration
	}
	return d
}

// FadeIn ramps opacity from 0 to 1.
func FadeIn(target TargetID, d time.Duration) Request {
	return Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   FromTo(0, 1),
		Duration: orDefault(d),
		Curve:    OutCubic,
	}
}

// FadeOut ramps opacity from 1 to 0. It shares the fade slot, so it
// replaces a running FadeIn on the same target.
func FadeOut(target TargetID, d time.Duration) Request {
	return Request{
		Target:   target,
		Name:     "fade",
		Property: "opacity",
		Frames:   FromTo(1, 0),
		Duration: orDefault(d),
		Curve:    OutCubic,
	}
}

// SlideIn moves the target's offset from distance off the given edge
// to rest.
func SlideIn(target TargetID, from Edge, distance float64, d time.Duration) Request {
	return Request{
		Target:   target,
		Name:     "slide",
		Property: from.property(),
		Frames:   FromTo(from.sign()*distance, 0),
		Duration: orDefault(d),
		Curve:    OutCubic,
	}
}

// SlideOut moves the target's offset from rest to distance off the
// given edge, accelerating the way an exit should.
func SlideOut(target TargetID, to Edge, distance float64, d time.Duration) Request {
	return Request{
		Target:   target,
		Name:     "slide",
		Property: to.property(),
		Frames:   FromTo(0, to.sign()*distance),
		Duration: orDefault(d),
		Curve:    InCubic,
	}
}

// Pulse dips opacity to half and back. count follows Request.Loops
// semantics; pass LoopForever for an attention beacon.
func Pulse(target TargetID, d time.Duration, count int) Request {
	if d <= 0 {
		d = time.Second
	}
	return Request{
		Target:   target,
		Name:     "pulse",
		Property: "opacity",
		Frames: Keyframes{
			{At: 0, Value: 1},
			{At: 0.5, Value: 0.5},
			{At: 1, Value: 1},
		},
		Duration: d,
		Curve:    InOutSine,
		Loops:    count,
	}
}

// Shake rattles the horizontal offset by intensity pixels, settling
// back at rest.
func Shake(target TargetID, d time.Duration, intensity float64) Request {
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	if intensity <= 0 {
		intensity = 10
	}
	frames := Keyframes{{At: 0, Value: 0}}
	for i := 1; i <= 8; i++ {
		v := intensity
		if i%2 == 0 {
			v = -intensity
		}
		frames = append(frames, Keyframe{At: float64(i) / 10, Value: v})
	}
	frames = append(frames, Keyframe{At: 1, Value: 0})

	return Request{
		Target:   target,
		Name:     "shake",
		Property: "offset-x",
		Frames:   frames,
		Duration: d,
		Curve:    Linear,
	}
}

// Bounce hops the vertical offset up and drops it back.
func Bounce(target TargetID, d time.Duration) Request {
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	return Request{
		Target:   target,
		Name:     "bounce",
		Property: "offset-y",
		Frames: Keyframes{
			{At: 0, Value: 0},
			{At: 0.25, Value: -10},
			{At: 1, Value: 0},
		},
		Duration: d,
		Curve:    OutBounce,
	}
}

// Scale ramps a size multiplier between two factors.
func Scale(target TargetID, from, to float64, d time.Duration) Request {
	return Request{
		Target:   target,
		Name:     "scale",
		Property: "scale",
		Frames:   FromTo(from, to),
		Duration: orDefault(d),
		Curve:    OutCubic,
	}
}
