package annotation

import (
	"sync"

	"image-protractor/pkg/geometry"
)

// EventType identifies engine change notifications.
type EventType int

const (
	// EventEntitiesChanged fires after any committed mutation of points,
	// lines, angles or the circle.
	EventEntitiesChanged EventType = iota

	// EventSelectionChanged fires after any selection change.
	EventSelectionChanged

	// EventToolChanged fires when the current tool changes.
	EventToolChanged

	// EventInteractionChanged fires when transient interaction state
	// (active point, pending angle line, drag preview) changes.
	EventInteractionChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Engine owns the annotation model. All mutations run to completion before
// the next input event is processed; listeners are invoked after the
// mutation has fully committed.
type Engine struct {
	mu sync.RWMutex

	points     map[string]*Point
	pointOrder []string
	lines      map[string]*Line
	lineOrder  []string
	angles     map[string]*Angle
	angleOrder []string
	circle     *Circle

	selectedPoints map[string]bool
	selectedLines  map[string]bool
	selectedAngles map[string]bool
	circleSelected bool

	tool          Tool
	activePointID string
	firstLineID   string

	// In-progress drag positions, consulted by reads but committed to the
	// entity collections only on drag end.
	dragPos map[string]geometry.Point2D

	listeners map[EventType][]EventListener
}

// NewEngine creates an empty annotation engine with the cursor tool active.
func NewEngine() *Engine {
	return &Engine{
		points:         make(map[string]*Point),
		lines:          make(map[string]*Line),
		angles:         make(map[string]*Angle),
		selectedPoints: make(map[string]bool),
		selectedLines:  make(map[string]bool),
		selectedAngles: make(map[string]bool),
		dragPos:        make(map[string]geometry.Point2D),
		listeners:      make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (e *Engine) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *Engine) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Read accessors

// Points returns the points in creation order.
func (e *Engine) Points() []Point {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Point, 0, len(e.pointOrder))
	for _, id := range e.pointOrder {
		result = append(result, *e.points[id])
	}
	return result
}

// Lines returns the lines in creation order.
func (e *Engine) Lines() []Line {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Line, 0, len(e.lineOrder))
	for _, id := range e.lineOrder {
		result = append(result, *e.lines[id])
	}
	return result
}

// Angles returns the angles in creation order.
func (e *Engine) Angles() []Angle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Angle, 0, len(e.angleOrder))
	for _, id := range e.angleOrder {
		result = append(result, *e.angles[id])
	}
	return result
}

// Circle returns a copy of the reference circle, or nil if none exists.
func (e *Engine) Circle() *Circle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.circle == nil {
		return nil
	}
	c := *e.circle
	return &c
}

// PointByID returns a copy of the point, or nil. The position reflects any
// in-progress drag.
func (e *Engine) PointByID(id string) *Point {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.points[id]
	if !ok {
		return nil
	}
	cp := *p
	if pos, dragging := e.dragPos[id]; dragging {
		cp.X = pos.X
		cp.Y = pos.Y
	}
	return &cp
}

// LineByID returns a copy of the line, or nil.
func (e *Engine) LineByID(id string) *Line {
	e.mu.RLock()
	defer e.mu.RUnlock()

	l, ok := e.lines[id]
	if !ok {
		return nil
	}
	cl := *l
	return &cl
}

// AngleByID returns a copy of the angle, or nil.
func (e *Engine) AngleByID(id string) *Angle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.angles[id]
	if !ok {
		return nil
	}
	ca := *a
	return &ca
}

// ActivePointID returns the id of the pending line endpoint, or "".
func (e *Engine) ActivePointID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activePointID
}

// FirstLineID returns the id of the first operand of an in-progress angle
// construction, or "".
func (e *Engine) FirstLineID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.firstLineID
}

// CurrentTool returns the active tool.
func (e *Engine) CurrentTool() Tool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tool
}

// HasData reports whether any annotation exists.
func (e *Engine) HasData() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.points) > 0 || len(e.lines) > 0 || len(e.angles) > 0 || e.circle != nil
}

// pointPos returns a point's effective position, consulting the drag
// overlay first. Lock must be held.
func (e *Engine) pointPos(id string) geometry.Point2D {
	if pos, ok := e.dragPos[id]; ok {
		return pos
	}
	if p, ok := e.points[id]; ok {
		return geometry.Point2D{X: p.X, Y: p.Y}
	}
	return geometry.Point2D{}
}
