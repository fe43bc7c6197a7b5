package annotation

import (
	"image-protractor/pkg/geometry"
)

// Drag preview overlay. Move events update an in-progress position that
// geometry reads consult, while the committed entity store stays untouched
// until the terminal commit. Cached angle degrees refresh at commit.

// DragPointTo records an in-progress position for a point. Unknown ids are
// ignored.
func (e *Engine) DragPointTo(id string, x, y float64) {
	e.mu.Lock()
	if _, ok := e.points[id]; !ok {
		e.mu.Unlock()
		return
	}
	e.dragPos[id] = geometry.Point2D{X: x, Y: y}
	e.mu.Unlock()

	e.Emit(EventInteractionChanged, nil)
}

// CommitDrag commits the point's in-progress position into the store and
// runs the angle recompute pass.
func (e *Engine) CommitDrag(id string) {
	e.mu.Lock()
	pos, ok := e.dragPos[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(e.dragPos, id)
	if p, exists := e.points[id]; exists {
		p.X = pos.X
		p.Y = pos.Y
		e.recomputeAnglesLocked()
	}
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// CancelDrag discards all in-progress positions without mutating committed
// entities.
func (e *Engine) CancelDrag() {
	e.mu.Lock()
	changed := len(e.dragPos) > 0
	e.dragPos = make(map[string]geometry.Point2D)
	e.mu.Unlock()

	if changed {
		e.Emit(EventInteractionChanged, nil)
	}
}

// IsDragging reports whether the point has an uncommitted drag position.
func (e *Engine) IsDragging(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.dragPos[id]
	return ok
}
