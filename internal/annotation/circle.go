package annotation

import (
	"math"

	"image-protractor/pkg/geometry"
)

// Minimum radius clamp preventing degenerate or negative circles.
const (
	minRadiusCorner = 5.0
	minRadiusEdge   = 10.0
)

// ResizeHandle identifies one of the eight resize handles on the circle's
// bounding box: four corners and four edge midpoints. Each handle resizes
// around a fixed anchor at the opposite corner or edge.
type ResizeHandle int

const (
	HandleTopLeft ResizeHandle = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

func (h ResizeHandle) String() string {
	switch h {
	case HandleTopLeft:
		return "top-left"
	case HandleTop:
		return "top"
	case HandleTopRight:
		return "top-right"
	case HandleRight:
		return "right"
	case HandleBottomRight:
		return "bottom-right"
	case HandleBottom:
		return "bottom"
	case HandleBottomLeft:
		return "bottom-left"
	case HandleLeft:
		return "left"
	default:
		return "unknown"
	}
}

// isCorner reports whether the handle is a corner handle.
func (h ResizeHandle) isCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft:
		return true
	}
	return false
}

// direction returns the handle's outward axis directions relative to the
// circle center. Zero means the axis is not driven by this handle.
func (h ResizeHandle) direction() (dx, dy float64) {
	switch h {
	case HandleTopLeft:
		return -1, -1
	case HandleTop:
		return 0, -1
	case HandleTopRight:
		return 1, -1
	case HandleRight:
		return 1, 0
	case HandleBottomRight:
		return 1, 1
	case HandleBottom:
		return 0, 1
	case HandleBottomLeft:
		return -1, 1
	case HandleLeft:
		return -1, 0
	}
	return 0, 0
}

// HandlePosition returns the image-space position of a resize handle for
// the current circle, or false when no circle exists.
func (e *Engine) HandlePosition(h ResizeHandle) (geometry.Point2D, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.circle == nil {
		return geometry.Point2D{}, false
	}
	dx, dy := h.direction()
	return geometry.Point2D{
		X: e.circle.CenterX + dx*e.circle.Radius,
		Y: e.circle.CenterY + dy*e.circle.Radius,
	}, true
}

// CircleUpdate is a partial update merged into the existing circle.
type CircleUpdate struct {
	CenterX *float64
	CenterY *float64
	Radius  *float64
}

// UpdateCircle merges a partial update into the circle. Radius is clamped
// to the corner-handle minimum. A no-op when no circle exists.
func (e *Engine) UpdateCircle(u CircleUpdate) {
	e.mu.Lock()
	if e.circle == nil {
		e.mu.Unlock()
		return
	}
	if u.CenterX != nil {
		e.circle.CenterX = *u.CenterX
	}
	if u.CenterY != nil {
		e.circle.CenterY = *u.CenterY
	}
	if u.Radius != nil {
		e.circle.Radius = math.Max(*u.Radius, minRadiusCorner)
	}
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// MoveCircle translates the circle by a pointer delta without changing its
// radius.
func (e *Engine) MoveCircle(dx, dy float64) {
	e.mu.Lock()
	if e.circle == nil {
		e.mu.Unlock()
		return
	}
	e.circle.CenterX += dx
	e.circle.CenterY += dy
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// ResizeCircle recomputes center and radius from the handle's fixed anchor
// (the opposite corner or edge midpoint) and the current pointer position.
// Corner handles keep the circular shape by taking the minimum of the two
// axis displacements; edge handles scale one axis only, leaving the
// orthogonal center coordinate unchanged.
func (e *Engine) ResizeCircle(h ResizeHandle, px, py float64) {
	e.mu.Lock()
	c := e.circle
	if c == nil {
		e.mu.Unlock()
		return
	}

	dx, dy := h.direction()
	anchorX := c.CenterX - dx*c.Radius
	anchorY := c.CenterY - dy*c.Radius

	if h.isCorner() {
		d := math.Min(math.Abs(px-anchorX), math.Abs(py-anchorY))
		r := math.Max(d/2, minRadiusCorner)
		c.Radius = r
		c.CenterX = anchorX + dx*r
		c.CenterY = anchorY + dy*r
	} else if dx != 0 {
		r := math.Max(math.Abs(px-anchorX)/2, minRadiusEdge)
		c.Radius = r
		c.CenterX = anchorX + dx*r
	} else {
		r := math.Max(math.Abs(py-anchorY)/2, minRadiusEdge)
		c.Radius = r
		c.CenterY = anchorY + dy*r
	}
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// FitCircleToSelection fits the reference circle through the currently
// selected points by least squares, creating the circle if none exists.
// A silent no-op with fewer than three selected points or a degenerate
// (collinear) selection.
func (e *Engine) FitCircleToSelection() {
	e.mu.Lock()
	var pts []geometry.Point2D
	for _, id := range e.pointOrder {
		if e.selectedPoints[id] {
			pts = append(pts, e.pointPos(id))
		}
	}

	center, radius, err := geometry.FitCircle(pts)
	if err != nil {
		e.mu.Unlock()
		return
	}

	if e.circle == nil {
		e.circle = &Circle{ID: newID()}
	}
	e.circle.CenterX = center.X
	e.circle.CenterY = center.Y
	e.circle.Radius = math.Max(radius, minRadiusCorner)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}
