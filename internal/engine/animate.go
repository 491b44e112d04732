package engine

import (
	"github.com/milkwidget/milk/internal/anim"
	"github.com/milkwidget/milk/internal/markup"
)

// Animate schedules an animation through the coordinator. The engine
// records every property update so the renderer can read animated
// values; the request's own OnUpdate still fires. OnDone and events are
// delivered after the engine state settles, so they may call back into
// the engine.
func (e *Engine) Animate(req anim.Request) {
	e.mu.Lock()

	target := req.Target
	userUpdate := req.OnUpdate
	req.OnUpdate = func(property string, value float64) {
		e.recordLocked(target, property, value)
		if userUpdate != nil {
			userUpdate(property, value)
		}
	}

	userDone := req.OnDone
	req.OnDone = func() {
		if userDone != nil {
			e.pending = append(e.pending, userDone)
		}
	}

	e.coord.Animate(req)
	pending := e.drainLocked()
	e.mu.Unlock()

	run(pending)
}

// Cancel stops an animation without firing its completion callback.
func (e *Engine) Cancel(target anim.TargetID, name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coord.Cancel(target, name)
}

// Forget drops every animation and recorded value for a target. Used
// when a widget goes away outside a full tree swap.
func (e *Engine) Forget(target anim.TargetID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.animated, target)
	return e.coord.Forget(target)
}

// Animated returns the last animated value of a property on a node.
// Values persist after an animation completes until the tree is
// replaced or the target is forgotten.
func (e *Engine) Animated(n *markup.WidgetNode, property string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.ids[n]
	if !ok {
		return 0, false
	}
	vals, ok := e.animated[id]
	if !ok {
		return 0, false
	}
	v, ok := vals[property]
	return v, ok
}

func (e *Engine) recordLocked(target anim.TargetID, property string, value float64) {
	vals := e.animated[target]
	if vals == nil {
		vals = make(map[string]float64)
		e.animated[target] = vals
	}
	vals[property] = value
}
