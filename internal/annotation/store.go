package annotation

import (
	"image-protractor/pkg/geometry"
)

// Entity store mutations. Every cascading delete computes the full set of
// affected ids up front, then applies all removals before returning, so no
// intermediate state is ever observable.

// AddPoint appends a new point at (x, y) and returns its id.
func (e *Engine) AddPoint(x, y float64) string {
	e.mu.Lock()
	p := e.addPointLocked(x, y)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
	return p.ID
}

func (e *Engine) addPointLocked(x, y float64) *Point {
	p := &Point{ID: newID(), X: x, Y: y}
	e.points[p.ID] = p
	e.pointOrder = append(e.pointOrder, p.ID)
	return p
}

// UpdatePointPosition moves a point and recomputes every angle whose backing
// lines still exist. Unknown ids are ignored.
func (e *Engine) UpdatePointPosition(id string, x, y float64) {
	e.mu.Lock()
	p, ok := e.points[id]
	if !ok {
		e.mu.Unlock()
		return
	}
	p.X = x
	p.Y = y
	e.recomputeAnglesLocked()
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// DeletePoint removes the point, every line incident to it, every angle
// referencing a removed line, and then any point left with zero incident
// lines. Deleting a non-existent id is a no-op.
func (e *Engine) DeletePoint(id string) {
	e.mu.Lock()
	if _, ok := e.points[id]; !ok {
		e.mu.Unlock()
		return
	}

	removedLines := e.incidentLinesLocked(map[string]bool{id: true})
	e.applyRemovalLocked(map[string]bool{id: true}, removedLines)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// DeleteLine removes the line, every angle referencing it, and any endpoint
// left with zero incident lines.
func (e *Engine) DeleteLine(id string) {
	e.mu.Lock()
	if _, ok := e.lines[id]; !ok {
		e.mu.Unlock()
		return
	}

	e.applyRemovalLocked(nil, map[string]bool{id: true})
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// DeleteAngle removes only the angle; nothing cascades.
func (e *Engine) DeleteAngle(id string) {
	e.mu.Lock()
	if _, ok := e.angles[id]; !ok {
		e.mu.Unlock()
		return
	}
	e.removeAngleLocked(id)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// DeleteCircle removes the reference circle and clears its selection flag.
func (e *Engine) DeleteCircle() {
	e.mu.Lock()
	if e.circle == nil {
		e.mu.Unlock()
		return
	}
	e.circle = nil
	e.circleSelected = false
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// DeleteSelected resolves the current multi-class selection into one
// combined deletion: the selected circle, selected angles, selected lines
// plus every line incident to a selected point, every angle referencing a
// removed line, the selected points themselves, and finally a single orphan
// sweep over the remaining affected endpoints.
func (e *Engine) DeleteSelected() {
	e.mu.Lock()
	if len(e.selectedPoints) == 0 && len(e.selectedLines) == 0 &&
		len(e.selectedAngles) == 0 && !e.circleSelected {
		e.mu.Unlock()
		return
	}

	if e.circleSelected {
		e.circle = nil
		e.circleSelected = false
	}

	for id := range e.selectedAngles {
		e.removeAngleLocked(id)
	}

	// The full removed-line set is computed before any angle filtering so
	// an angle is never left referencing a line removed in the same batch.
	removedLines := make(map[string]bool)
	for id := range e.selectedLines {
		if _, ok := e.lines[id]; ok {
			removedLines[id] = true
		}
	}
	for id := range e.incidentLinesLocked(e.selectedPoints) {
		removedLines[id] = true
	}

	removedPoints := make(map[string]bool)
	for id := range e.selectedPoints {
		if _, ok := e.points[id]; ok {
			removedPoints[id] = true
		}
	}

	e.applyRemovalLocked(removedPoints, removedLines)

	e.selectedPoints = make(map[string]bool)
	e.selectedLines = make(map[string]bool)
	e.selectedAngles = make(map[string]bool)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
	e.Emit(EventSelectionChanged, nil)
}

// ClearAll resets every collection and all transient state.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	e.points = make(map[string]*Point)
	e.pointOrder = nil
	e.lines = make(map[string]*Line)
	e.lineOrder = nil
	e.angles = make(map[string]*Angle)
	e.angleOrder = nil
	e.circle = nil
	e.selectedPoints = make(map[string]bool)
	e.selectedLines = make(map[string]bool)
	e.selectedAngles = make(map[string]bool)
	e.circleSelected = false
	e.activePointID = ""
	e.firstLineID = ""
	e.dragPos = make(map[string]geometry.Point2D)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
	e.Emit(EventSelectionChanged, nil)
	e.Emit(EventInteractionChanged, nil)
}

// incidentLinesLocked returns the set of line ids with an endpoint in the
// given point set.
func (e *Engine) incidentLinesLocked(pointIDs map[string]bool) map[string]bool {
	result := make(map[string]bool)
	if len(pointIDs) == 0 {
		return result
	}
	for _, id := range e.lineOrder {
		l := e.lines[id]
		if pointIDs[l.StartPointID] || pointIDs[l.EndPointID] {
			result[id] = true
		}
	}
	return result
}

// incidentLineCountLocked returns the number of lines touching a point.
func (e *Engine) incidentLineCountLocked(pointID string) int {
	count := 0
	for _, id := range e.lineOrder {
		l := e.lines[id]
		if l.StartPointID == pointID || l.EndPointID == pointID {
			count++
		}
	}
	return count
}

// applyRemovalLocked removes the given points and lines, cascades to angles
// referencing any removed line, and sweeps orphaned endpoints of the
// removed lines. Transient state referencing removed ids is cleared.
func (e *Engine) applyRemovalLocked(removedPoints, removedLines map[string]bool) {
	// Angles referencing a removed line go first.
	for _, id := range append([]string(nil), e.angleOrder...) {
		a := e.angles[id]
		if removedLines[a.Line1ID] || removedLines[a.Line2ID] {
			e.removeAngleLocked(id)
		}
	}

	// Endpoints of removed lines are sweep candidates.
	sweep := make(map[string]bool)
	for id := range removedLines {
		l := e.lines[id]
		if l == nil {
			continue
		}
		sweep[l.StartPointID] = true
		sweep[l.EndPointID] = true
	}

	for id := range removedLines {
		e.removeLineLocked(id)
	}
	for id := range removedPoints {
		e.removePointLocked(id)
	}

	for id := range sweep {
		if removedPoints[id] {
			continue
		}
		if _, ok := e.points[id]; !ok {
			continue
		}
		if e.incidentLineCountLocked(id) == 0 {
			e.removePointLocked(id)
		}
	}
}

// sweepOrphansLocked removes every point with zero incident lines. Used
// when leaving the marker tool, where a point created but never connected
// must not linger.
func (e *Engine) sweepOrphansLocked() bool {
	removed := false
	for _, id := range append([]string(nil), e.pointOrder...) {
		if e.incidentLineCountLocked(id) == 0 {
			e.removePointLocked(id)
			removed = true
		}
	}
	return removed
}

func (e *Engine) removePointLocked(id string) {
	if _, ok := e.points[id]; !ok {
		return
	}
	delete(e.points, id)
	delete(e.selectedPoints, id)
	delete(e.dragPos, id)
	e.pointOrder = removeString(e.pointOrder, id)
	if e.activePointID == id {
		e.activePointID = ""
	}
}

func (e *Engine) removeLineLocked(id string) {
	if _, ok := e.lines[id]; !ok {
		return
	}
	delete(e.lines, id)
	delete(e.selectedLines, id)
	e.lineOrder = removeString(e.lineOrder, id)
	if e.firstLineID == id {
		e.firstLineID = ""
	}
}

func (e *Engine) removeAngleLocked(id string) {
	if _, ok := e.angles[id]; !ok {
		return
	}
	delete(e.angles, id)
	delete(e.selectedAngles, id)
	e.angleOrder = removeString(e.angleOrder, id)
}

// lineBetweenLocked returns the existing line between two points regardless
// of direction, or nil.
func (e *Engine) lineBetweenLocked(p1, p2 string) *Line {
	for _, id := range e.lineOrder {
		l := e.lines[id]
		if (l.StartPointID == p1 && l.EndPointID == p2) ||
			(l.StartPointID == p2 && l.EndPointID == p1) {
			return l
		}
	}
	return nil
}

func removeString(slice []string, s string) []string {
	for i, v := range slice {
		if v == s {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}
