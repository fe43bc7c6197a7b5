package annotation

import (
	"math"

	"image-protractor/pkg/geometry"
)

// Hit testing for the input surface. Coordinates are image-pixel units.
// Points are checked before lines so a click on a shared endpoint resolves
// to the point.

// HitTestPoint returns the id of the first point within HitRadius of
// (x, y), or "".
func (e *Engine) HitTestPoint(x, y float64) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if p := e.hitTestPointLocked(x, y); p != nil {
		return p.ID
	}
	return ""
}

func (e *Engine) hitTestPointLocked(x, y float64) *Point {
	click := geometry.Point2D{X: x, Y: y}
	for _, id := range e.pointOrder {
		if e.pointPos(id).Distance(click) <= HitRadius {
			return e.points[id]
		}
	}
	return nil
}

// HitTestLine returns the id of the line whose segment passes within
// LineHitTolerance of (x, y), or "". The nearest line wins.
func (e *Engine) HitTestLine(x, y float64) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	click := geometry.Point2D{X: x, Y: y}
	best := ""
	bestDist := LineHitTolerance
	for _, id := range e.lineOrder {
		l := e.lines[id]
		d := geometry.DistanceToSegment(click, e.pointPos(l.StartPointID), e.pointPos(l.EndPointID))
		if d <= bestDist {
			best = id
			bestDist = d
		}
	}
	return best
}

// HitTestAngle returns the id of the angle whose rendered arc passes near
// (x, y), or "".
func (e *Engine) HitTestAngle(x, y float64) string {
	e.mu.RLock()
	angleIDs := append([]string(nil), e.angleOrder...)
	e.mu.RUnlock()

	click := geometry.Point2D{X: x, Y: y}
	for _, id := range angleIDs {
		arc := e.AngleArcParams(id)
		if arc == nil {
			continue
		}
		a := e.AngleByID(id)
		vertex := e.PointByID(a.VertexPointID)
		if vertex == nil {
			continue
		}
		d := click.Distance(geometry.Point2D{X: vertex.X, Y: vertex.Y})
		if math.Abs(d-arc.Radius) <= LineHitTolerance {
			return id
		}
	}
	return ""
}

// HitTestCircleHandle returns the resize handle under (x, y) when the
// circle is selected, or false.
func (e *Engine) HitTestCircleHandle(x, y float64) (ResizeHandle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.circle == nil || !e.circleSelected {
		return 0, false
	}
	click := geometry.Point2D{X: x, Y: y}
	for h := HandleTopLeft; h <= HandleLeft; h++ {
		dx, dy := h.direction()
		pos := geometry.Point2D{
			X: e.circle.CenterX + dx*e.circle.Radius,
			Y: e.circle.CenterY + dy*e.circle.Radius,
		}
		if pos.Distance(click) <= HitRadius {
			return h, true
		}
	}
	return 0, false
}

// HitTestCircle reports whether (x, y) falls on the circle body: near the
// circumference, or anywhere inside.
func (e *Engine) HitTestCircle(x, y float64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.circle == nil {
		return false
	}
	d := geometry.Point2D{X: x, Y: y}.Distance(geometry.Point2D{X: e.circle.CenterX, Y: e.circle.CenterY})
	return d <= e.circle.Radius+LineHitTolerance
}
