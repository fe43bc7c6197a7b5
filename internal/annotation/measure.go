package annotation

import (
	"math"

	"image-protractor/pkg/geometry"
)

// Arc radius bounds for the rendered angle arc, in image-pixel units.
const (
	arcRadiusFraction = 0.3
	arcRadiusMin      = 20.0
	arcRadiusMax      = 50.0
)

// ArcParams describes the arc a renderer draws for an angle. Degrees is the
// absolute swept angle and matches the dot-product measurement; both derive
// from the same vertex geometry.
type ArcParams struct {
	Radius   float64
	StartX   float64
	StartY   float64
	EndX     float64
	EndY     float64
	Sweep    bool // true when the sweep runs in the positive angular direction
	LargeArc bool
	Degrees  float64
}

// CalculateLineLength returns the Euclidean length of a line from its
// endpoints' current positions, reflecting any in-progress drag. Returns 0
// for an unknown id.
func (e *Engine) CalculateLineLength(id string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	l, ok := e.lines[id]
	if !ok {
		return 0
	}
	return e.pointPos(l.StartPointID).Distance(e.pointPos(l.EndPointID))
}

// AngleArcParams returns the arc rendering parameters for an angle, or nil
// for an unknown id. The arc radius is 30% of the shorter arm, clamped to
// [20, 50]; sweep direction comes from the signed angular difference of the
// two rays, normalized into (-pi, pi].
func (e *Engine) AngleArcParams(id string) *ArcParams {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.angles[id]
	if !ok {
		return nil
	}
	l1, ok1 := e.lines[a.Line1ID]
	l2, ok2 := e.lines[a.Line2ID]
	if !ok1 || !ok2 {
		return nil
	}

	vertex := e.pointPos(a.VertexPointID)
	far1 := e.pointPos(otherEndpoint(l1, a.VertexPointID))
	far2 := e.pointPos(otherEndpoint(l2, a.VertexPointID))

	arm1 := vertex.Distance(far1)
	arm2 := vertex.Distance(far2)
	if arm1 == 0 || arm2 == 0 {
		return &ArcParams{Radius: arcRadiusMin, StartX: vertex.X, StartY: vertex.Y, EndX: vertex.X, EndY: vertex.Y}
	}

	radius := geometry.Clamp(arcRadiusFraction*math.Min(arm1, arm2), arcRadiusMin, arcRadiusMax)

	a1 := geometry.RayAngle(vertex, far1)
	a2 := geometry.RayAngle(vertex, far2)
	diff := geometry.SignedAngleDiff(a1, a2)

	return &ArcParams{
		Radius:   radius,
		StartX:   vertex.X + radius*math.Cos(a1),
		StartY:   vertex.Y + radius*math.Sin(a1),
		EndX:     vertex.X + radius*math.Cos(a2),
		EndY:     vertex.Y + radius*math.Sin(a2),
		Sweep:    diff > 0,
		LargeArc: math.Abs(diff) > math.Pi,
		Degrees:  math.Abs(diff) * 180 / math.Pi,
	}
}

// angleDegreesLocked measures the angle between two lines at their shared
// vertex from the current point positions.
func (e *Engine) angleDegreesLocked(l1, l2 *Line, vertex string) float64 {
	v := e.pointPos(vertex)
	far1 := e.pointPos(otherEndpoint(l1, vertex))
	far2 := e.pointPos(otherEndpoint(l2, vertex))
	return geometry.AngleBetween(v, far1, far2)
}

// recomputeAnglesLocked refreshes the cached degrees of every angle whose
// two backing lines still exist. Angles with a deleted backing line are
// left for the cascading delete to remove.
func (e *Engine) recomputeAnglesLocked() {
	for _, id := range e.angleOrder {
		a := e.angles[id]
		l1, ok1 := e.lines[a.Line1ID]
		l2, ok2 := e.lines[a.Line2ID]
		if !ok1 || !ok2 {
			continue
		}
		a.Degrees = e.angleDegreesLocked(l1, l2, a.VertexPointID)
	}
}

// otherEndpoint returns the endpoint of l that is not the given point.
func otherEndpoint(l *Line, pointID string) string {
	if l.StartPointID == pointID {
		return l.EndPointID
	}
	return l.StartPointID
}
