package annotation

// Selection model: four mutually-aware channels (points, lines, angles,
// circle flag). A plain selection replaces its channel and clears the other
// three; an additive selection only toggles membership within its own
// channel. Selecting an empty id in replace mode clears just that channel.

// SelectPoint selects a point. With additive false the point selection
// becomes {id} and all other channels are cleared; an id that does not
// resolve clears the point channel only.
func (e *Engine) SelectPoint(id string, additive bool) {
	e.mu.Lock()
	if additive {
		if _, ok := e.points[id]; ok {
			if e.selectedPoints[id] {
				delete(e.selectedPoints, id)
			} else {
				e.selectedPoints[id] = true
			}
		}
	} else if _, ok := e.points[id]; ok {
		e.selectedPoints = map[string]bool{id: true}
		e.selectedLines = make(map[string]bool)
		e.selectedAngles = make(map[string]bool)
		e.circleSelected = false
	} else {
		e.selectedPoints = make(map[string]bool)
	}
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, nil)
}

// SelectLine selects a line; semantics mirror SelectPoint.
func (e *Engine) SelectLine(id string, additive bool) {
	e.mu.Lock()
	if additive {
		if _, ok := e.lines[id]; ok {
			if e.selectedLines[id] {
				delete(e.selectedLines, id)
			} else {
				e.selectedLines[id] = true
			}
		}
	} else if _, ok := e.lines[id]; ok {
		e.selectedPoints = make(map[string]bool)
		e.selectedLines = map[string]bool{id: true}
		e.selectedAngles = make(map[string]bool)
		e.circleSelected = false
	} else {
		e.selectedLines = make(map[string]bool)
	}
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, nil)
}

// SelectAngle selects an angle; semantics mirror SelectPoint.
func (e *Engine) SelectAngle(id string, additive bool) {
	e.mu.Lock()
	if additive {
		if _, ok := e.angles[id]; ok {
			if e.selectedAngles[id] {
				delete(e.selectedAngles, id)
			} else {
				e.selectedAngles[id] = true
			}
		}
	} else if _, ok := e.angles[id]; ok {
		e.selectedPoints = make(map[string]bool)
		e.selectedLines = make(map[string]bool)
		e.selectedAngles = map[string]bool{id: true}
		e.circleSelected = false
	} else {
		e.selectedAngles = make(map[string]bool)
	}
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, nil)
}

// SelectCircle selects or toggles the circle flag.
func (e *Engine) SelectCircle(additive bool) {
	e.mu.Lock()
	if additive {
		if e.circle != nil {
			e.circleSelected = !e.circleSelected
		}
	} else if e.circle != nil {
		e.selectedPoints = make(map[string]bool)
		e.selectedLines = make(map[string]bool)
		e.selectedAngles = make(map[string]bool)
		e.circleSelected = true
	} else {
		e.circleSelected = false
	}
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, nil)
}

// ClearSelection empties all four selection channels.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	e.selectedPoints = make(map[string]bool)
	e.selectedLines = make(map[string]bool)
	e.selectedAngles = make(map[string]bool)
	e.circleSelected = false
	e.mu.Unlock()

	e.Emit(EventSelectionChanged, nil)
}

// HasSelection reports whether any channel is non-empty.
func (e *Engine) HasSelection() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.selectedPoints) > 0 || len(e.selectedLines) > 0 ||
		len(e.selectedAngles) > 0 || e.circleSelected
}

// SelectedPointIDs returns the selected point ids in creation order.
func (e *Engine) SelectedPointIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.selectedPoints))
	for _, id := range e.pointOrder {
		if e.selectedPoints[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectedLineIDs returns the selected line ids in creation order.
func (e *Engine) SelectedLineIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.selectedLines))
	for _, id := range e.lineOrder {
		if e.selectedLines[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectedAngleIDs returns the selected angle ids in creation order.
func (e *Engine) SelectedAngleIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.selectedAngles))
	for _, id := range e.angleOrder {
		if e.selectedAngles[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsPointSelected reports membership in the point channel.
func (e *Engine) IsPointSelected(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedPoints[id]
}

// IsLineSelected reports membership in the line channel.
func (e *Engine) IsLineSelected(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedLines[id]
}

// IsAngleSelected reports membership in the angle channel.
func (e *Engine) IsAngleSelected(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedAngles[id]
}

// IsCircleSelected reports the circle selection flag.
func (e *Engine) IsCircleSelected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.circleSelected
}
