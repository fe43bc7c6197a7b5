package annotation

// Tool interaction state machines. The marker tool is a two-state machine
// (Idle / Pending, tracked by activePointID); the angle tool likewise
// (NoFirstLine / HasFirstLine, tracked by firstLineID). Invalid operations
// are silent no-ops by policy, never errors.

// SetCurrentTool switches the interaction tool. Leaving the marker tool
// clears the active point and sweeps orphaned points, so a point created
// but never connected does not linger. Leaving the angle tool clears the
// pending first line.
func (e *Engine) SetCurrentTool(tool Tool) {
	e.mu.Lock()
	if e.tool == tool {
		e.mu.Unlock()
		return
	}
	prev := e.tool
	e.tool = tool

	swept := false
	if prev == ToolMarker {
		e.activePointID = ""
		swept = e.sweepOrphansLocked()
	}
	if prev == ToolAngle {
		e.firstLineID = ""
	}
	e.mu.Unlock()

	e.Emit(EventToolChanged, tool)
	e.Emit(EventInteractionChanged, nil)
	if swept {
		e.Emit(EventEntitiesChanged, nil)
	}
}

// HandleCanvasClick processes a marker-tool click at image coordinates.
// In Idle the clicked (or newly created) point becomes active; in Pending a
// line is drawn from the active point to the click target, which then
// becomes the new active point so a poly-line can continue from the same
// click stream. Clicking the active point itself cancels back to Idle.
// Returns the active point id after the click, or "" when idle.
func (e *Engine) HandleCanvasClick(x, y float64) string {
	e.mu.Lock()
	if e.tool != ToolMarker {
		e.mu.Unlock()
		return ""
	}

	target := e.hitTestPointLocked(x, y)
	if target == nil {
		target = e.addPointLocked(x, y)
	}

	if e.activePointID == "" {
		e.activePointID = target.ID
		e.mu.Unlock()

		e.Emit(EventEntitiesChanged, nil)
		e.Emit(EventInteractionChanged, nil)
		return target.ID
	}

	if target.ID == e.activePointID {
		// Self-loop rejected: cancel the pending line.
		e.activePointID = ""
		e.mu.Unlock()

		e.Emit(EventInteractionChanged, nil)
		return ""
	}

	if e.lineBetweenLocked(e.activePointID, target.ID) == nil {
		l := &Line{
			ID:           newID(),
			Label:        e.nextLineLabelLocked(),
			StartPointID: e.activePointID,
			EndPointID:   target.ID,
		}
		e.lines[l.ID] = l
		e.lineOrder = append(e.lineOrder, l.ID)
	}
	e.activePointID = target.ID
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
	e.Emit(EventInteractionChanged, nil)
	return target.ID
}

// HandleAngleToolLineClick processes an angle-tool click on a line. The
// first click records the line; a second click on a different line
// constructs the angle at their shared endpoint, if one exists and the pair
// is not already angled. Clicking the recorded line again cancels.
func (e *Engine) HandleAngleToolLineClick(lineID string) {
	e.mu.Lock()
	if e.tool != ToolAngle {
		e.mu.Unlock()
		return
	}
	l2, ok := e.lines[lineID]
	if !ok {
		e.mu.Unlock()
		return
	}

	if e.firstLineID == "" {
		e.firstLineID = lineID
		e.mu.Unlock()

		e.Emit(EventInteractionChanged, nil)
		return
	}

	if e.firstLineID == lineID {
		e.firstLineID = ""
		e.mu.Unlock()

		e.Emit(EventInteractionChanged, nil)
		return
	}

	l1 := e.lines[e.firstLineID]
	e.firstLineID = ""

	vertex := sharedEndpoint(l1, l2)
	if vertex == "" || e.angleForPairLocked(l1.ID, l2.ID) != nil {
		e.mu.Unlock()

		e.Emit(EventInteractionChanged, nil)
		return
	}

	a := &Angle{
		ID:            newID(),
		Label:         e.nextAngleLabelLocked(),
		Line1ID:       l1.ID,
		Line2ID:       l2.ID,
		VertexPointID: vertex,
		Degrees:       e.angleDegreesLocked(l1, l2, vertex),
	}
	e.angles[a.ID] = a
	e.angleOrder = append(e.angleOrder, a.ID)
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
	e.Emit(EventInteractionChanged, nil)
}

// HandleCircleToolClick creates the reference circle at the click position
// with the default radius. A no-op while a circle already exists.
func (e *Engine) HandleCircleToolClick(x, y float64) {
	e.mu.Lock()
	if e.tool != ToolCircle || e.circle != nil {
		e.mu.Unlock()
		return
	}
	e.circle = &Circle{ID: newID(), CenterX: x, CenterY: y, Radius: DefaultCircleRadius}
	e.mu.Unlock()

	e.Emit(EventEntitiesChanged, nil)
}

// CancelActivePoint clears the pending line endpoint without side effects.
func (e *Engine) CancelActivePoint() {
	e.mu.Lock()
	changed := e.activePointID != ""
	e.activePointID = ""
	e.mu.Unlock()

	if changed {
		e.Emit(EventInteractionChanged, nil)
	}
}

// CancelAngleSelection clears the pending first line of an angle
// construction.
func (e *Engine) CancelAngleSelection() {
	e.mu.Lock()
	changed := e.firstLineID != ""
	e.firstLineID = ""
	e.mu.Unlock()

	if changed {
		e.Emit(EventInteractionChanged, nil)
	}
}

// sharedEndpoint returns the point id the two lines have in common, or ""
// if they do not touch.
func sharedEndpoint(l1, l2 *Line) string {
	if l1.StartPointID == l2.StartPointID || l1.StartPointID == l2.EndPointID {
		return l1.StartPointID
	}
	if l1.EndPointID == l2.StartPointID || l1.EndPointID == l2.EndPointID {
		return l1.EndPointID
	}
	return ""
}

// angleForPairLocked returns the existing angle over the unordered line
// pair, or nil.
func (e *Engine) angleForPairLocked(line1, line2 string) *Angle {
	for _, id := range e.angleOrder {
		a := e.angles[id]
		if (a.Line1ID == line1 && a.Line2ID == line2) ||
			(a.Line1ID == line2 && a.Line2ID == line1) {
			return a
		}
	}
	return nil
}
