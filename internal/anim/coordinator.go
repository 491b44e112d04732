package anim

import (
	"log/slog"
	"time"
)

// EventKind distinguishes coordinator notifications.
type EventKind int

const (
	// EventStarted fires when a slot is registered.
	EventStarted EventKind = iota
	// EventCompleted fires when a slot finishes its final loop.
	EventCompleted
)

// Event describes one animation lifecycle notification. Cancellations
// are silent: a replaced or stopped animation simply disappears.
type Event struct {
	Kind     EventKind
	Target   TargetID
	Name     string
	Property string
}

type slotKey struct {
	target TargetID
	name   string
}

type slot struct {
	key      slotKey
	property string
	frames   Keyframes
	duration time.Duration
	curve    Curve
	loops    int
	elapsed  time.Duration
	state    State
	paused   bool
	onUpdate func(string, float64)
	onDone   func()
}

// Coordinator owns every live animation slot. Slots advance in
// registration order on each Advance call. The caller serializes all
// access; the engine drives it from its single tick loop.
type Coordinator struct {
	slots  []*slot
	index  map[slotKey]*slot
	subs   []func(Event)
	logger *slog.Logger
}

// NewCoordinator returns an empty coordinator. A nil logger falls back
// to slog.Default.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		index:  make(map[slotKey]*slot),
		logger: logger,
	}
}

// Subscribe registers an observer for lifecycle events. Delivery is
// synchronous, in subscription order, within the step that produced
// the event.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.subs = append(c.subs, fn)
}

func (c *Coordinator) emit(ev Event) {
	for _, fn := range c.subs {
		fn(ev)
	}
}

// Animate starts the requested animation. A running slot with the same
// (target, name) is cancelled first, without firing its completion
// callback. Requests with no keyframes or a non-positive duration
// complete immediately and never occupy a slot.
func (c *Coordinator) Animate(req Request) {
	key := slotKey{req.Target, req.Name}
	if existing, ok := c.index[key]; ok {
		c.remove(existing, StateCancelled)
	}

	if len(req.Frames) == 0 || req.Duration <= 0 {
		c.logger.Debug("animation degenerate, completing immediately",
			"target", string(req.Target), "name", req.Name)
		if req.OnUpdate != nil && len(req.Frames) > 0 {
			req.OnUpdate(req.Property, req.Frames.ValueAt(1))
		}
		if req.OnDone != nil {
			req.OnDone()
		}
		c.emit(Event{EventCompleted, req.Target, req.Name, req.Property})
		return
	}

	curve := req.Curve
	if curve == nil {
		curve = OutCubic
	}
	loops := req.Loops
	if loops == 0 {
		loops = 1
	}

	s := &slot{
		key:      key,
		property: req.Property,
		frames:   req.Frames,
		duration: req.Duration,
		curve:    curve,
		loops:    loops,
		state:    StateCreated,
		onUpdate: req.OnUpdate,
		onDone:   req.OnDone,
	}
	c.slots = append(c.slots, s)
	c.index[key] = s

	c.logger.Debug("animation started",
		"target", string(req.Target), "name", req.Name,
		"property", req.Property, "duration", req.Duration)
	c.emit(Event{EventStarted, req.Target, req.Name, req.Property})
}

// Cancel stops one named animation. The completion callback does not
// fire. It reports whether a slot existed.
func (c *Coordinator) Cancel(target TargetID, name string) bool {
	s, ok := c.index[slotKey{target, name}]
	if !ok {
		return false
	}
	c.remove(s, StateCancelled)
	return true
}

// Forget cancels every slot belonging to a target, regardless of name,
// and returns how many were dropped. Call it on target teardown.
func (c *Coordinator) Forget(target TargetID) int {
	dropped := 0
	for _, s := range c.snapshot() {
		if s.key.target == target && c.index[s.key] == s {
			c.remove(s, StateCancelled)
			dropped++
		}
	}
	return dropped
}

// Pause suspends every slot for a target; paused slots hold their
// current value and do not accumulate elapsed time.
func (c *Coordinator) Pause(target TargetID) {
	for _, s := range c.slots {
		if s.key.target == target {
			s.paused = true
		}
	}
}

// Resume lifts a Pause.
func (c *Coordinator) Resume(target TargetID) {
	for _, s := range c.slots {
		if s.key.target == target {
			s.paused = false
		}
	}
}

// Reset drops every slot without callbacks or events. Used when the
// whole widget tree is replaced.
func (c *Coordinator) Reset() {
	c.slots = nil
	c.index = make(map[slotKey]*slot)
}

// Has reports whether a named animation is live.
func (c *Coordinator) Has(target TargetID, name string) bool {
	_, ok := c.index[slotKey{target, name}]
	return ok
}

// Len counts live slots.
func (c *Coordinator) Len() int {
	return len(c.slots)
}

// Names lists the live animation names for one target, in registration
// order.
func (c *Coordinator) Names(target TargetID) []string {
	var names []string
	for _, s := range c.slots {
		if s.key.target == target {
			names = append(names, s.key.name)
		}
	}
	return names
}

// Advance moves every running slot forward by dt and pushes the
// resulting property values in registration order. A slot reaching the
// end of its final loop completes: its callback fires and the slot is
// released. Callbacks may start or cancel animations; slots added
// during the call first advance on the next one.
func (c *Coordinator) Advance(dt time.Duration) {
	for _, s := range c.snapshot() {
		if c.index[s.key] != s || s.paused {
			continue
		}
		c.step(s, dt)
	}
}

func (c *Coordinator) step(s *slot, dt time.Duration) {
	s.state = StateRunning
	s.elapsed += dt

	progress := float64(s.elapsed) / float64(s.duration)
	if progress > 1 {
		progress = 1
	}

	value := s.frames.ValueAt(s.curve(progress))
	if s.onUpdate != nil {
		s.onUpdate(s.property, value)
	}

	if progress < 1 {
		return
	}
	if s.loops == LoopForever {
		s.elapsed = 0
		return
	}
	s.loops--
	if s.loops > 0 {
		s.elapsed = 0
		return
	}

	c.remove(s, StateCompleted)
	c.logger.Debug("animation completed",
		"target", string(s.key.target), "name", s.key.name)
	if s.onDone != nil {
		s.onDone()
	}
	c.emit(Event{EventCompleted, s.key.target, s.key.name, s.property})
}

// remove unlinks a slot. Only completion paths fire callbacks; the
// caller does that after remove returns.
func (c *Coordinator) remove(s *slot, state State) {
	s.state = state
	delete(c.index, s.key)
	for i, cur := range c.slots {
		if cur == s {
			c.slots = append(c.slots[:i], c.slots[i+1:]...)
			break
		}
	}
}

// snapshot copies the slot order so callbacks can mutate the live
// slice mid-iteration.
func (c *Coordinator) snapshot() []*slot {
	out := make([]*slot, len(c.slots))
	copy(out, c.slots)
	return out
}
