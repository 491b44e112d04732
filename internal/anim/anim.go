// Package anim coordinates named property animations. Each animation
// occupies a slot keyed by (target, name); requesting a name that is
// already running on the same target replaces the running animation
// immediately, without queuing. Slots advance on explicit ticks driven
// by the caller's scheduler, so the package does no timing of its own
// and is not safe for concurrent use.
package anim

import "time"

// TargetID is an opaque handle for the thing being animated. Targets
// are registered implicitly by their first animation and must be
// forgotten explicitly on teardown.
type TargetID string

// State tracks a slot through its lifecycle.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// LoopForever makes a request repeat until cancelled.
const LoopForever = -1

// DefaultDuration is what presets use when called with a zero
// duration.
const DefaultDuration = 300 * time.Millisecond

// Keyframe pins a value at a fraction of the animation's duration.
type Keyframe struct {
	At    float64
	Value float64
}

// Keyframes is an ordered list of keyframes with At ascending in
// [0,1].
type Keyframes []Keyframe

// FromTo builds the common two-frame ramp.
func FromTo(from, to float64) Keyframes {
	return Keyframes{{At: 0, Value: from}, {At: 1, Value: to}}
}

// ValueAt interpolates linearly between the two bracketing keyframes.
// Progress before the first or after the last keyframe clamps to that
// keyframe's value. No keyframes at all yields 0.
func (k Keyframes) ValueAt(progress float64) float64 {
	if len(k) == 0 {
		return 0
	}
	if progress <= k[0].At {
		return k[0].Value
	}
	last := k[len(k)-1]
	if progress >= last.At {
		return last.Value
	}
	for i := 1; i < len(k); i++ {
		if progress > k[i].At {
			continue
		}
		a, b := k[i-1], k[i]
		span := b.At - a.At
		if span <= 0 {
			return b.Value
		}
		f := (progress - a.At) / span
		return a.Value + (b.Value-a.Value)*f
	}
	return last.Value
}

// Request describes one animation to start.
//
// Loops counts full passes through the keyframes: 0 and 1 both play
// once, LoopForever repeats until cancelled. A nil Curve eases with
// OutCubic. A request with no keyframes, or a non-positive duration,
// completes immediately: the final value (if any) is pushed, OnDone
// fires, and no slot is registered.
type Request struct {
	Target   TargetID
	Name     string
	Property string
	Frames   Keyframes
	Duration time.Duration
	Curve    Curve
	Loops    int

	// OnUpdate receives the property identifier and its current value
	// on every tick. OnDone fires once on normal completion, never on
	// cancellation or replacement.
	OnUpdate func(property string, value float64)
	OnDone   func()
}
