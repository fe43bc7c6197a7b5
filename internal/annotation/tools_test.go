package annotation

import (
	"math"
	"testing"
)

// addTestLine builds a line between two fresh points directly in the store,
// so geometric fixtures can use coordinates closer together than HitRadius.
func addTestLine(e *Engine, x1, y1, x2, y2 float64) (p1, p2, lineID string) {
	p1 = e.AddPoint(x1, y1)
	p2 = e.AddPoint(x2, y2)

	e.mu.Lock()
	l := &Line{
		ID:           newID(),
		Label:        e.nextLineLabelLocked(),
		StartPointID: p1,
		EndPointID:   p2,
	}
	e.lines[l.ID] = l
	e.lineOrder = append(e.lineOrder, l.ID)
	e.mu.Unlock()

	return p1, p2, l.ID
}

func TestMarkerClickCreatesPendingPoint(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	id := e.HandleCanvasClick(10, 20)
	if id == "" {
		t.Fatal("Expected a point to be created and activated")
	}
	if e.ActivePointID() != id {
		t.Errorf("Expected active point %s, got %s", id, e.ActivePointID())
	}
	if len(e.Points()) != 1 {
		t.Errorf("Expected 1 point, got %d", len(e.Points()))
	}
	if len(e.Lines()) != 0 {
		t.Errorf("Expected no lines yet, got %d", len(e.Lines()))
	}
}

func TestMarkerClickReusesNearbyPoint(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	first := e.HandleCanvasClick(100, 100)
	e.CancelActivePoint()

	// Within the 15-unit hit radius of the existing point.
	second := e.HandleCanvasClick(110, 100)
	if second != first {
		t.Errorf("Expected click to activate existing point %s, got %s", first, second)
	}
	if len(e.Points()) != 1 {
		t.Errorf("Expected 1 point, got %d", len(e.Points()))
	}
}

func TestMarkerCompletesLine(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	e.HandleCanvasClick(0, 0)
	e.HandleCanvasClick(100, 0)

	lines := e.Lines()
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0].Label != "A" {
		t.Errorf("Expected first line labeled A, got %q", lines[0].Label)
	}
	if got := e.CalculateLineLength(lines[0].ID); math.Abs(got-100) > 1e-9 {
		t.Errorf("Expected line length 100, got %v", got)
	}
}

func TestMarkerPolylineDrawing(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	e.HandleCanvasClick(0, 0)
	e.HandleCanvasClick(100, 0)
	last := e.HandleCanvasClick(200, 0)

	lines := e.Lines()
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines from a 3-click chain, got %d", len(lines))
	}
	if lines[0].Label != "A" || lines[1].Label != "B" {
		t.Errorf("Expected labels A and B, got %q and %q", lines[0].Label, lines[1].Label)
	}
	// The end target stays active so the chain can continue.
	if e.ActivePointID() != last {
		t.Errorf("Expected chain end %s to remain active, got %s", last, e.ActivePointID())
	}
}

func TestMarkerSelfLoopCancels(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	e.HandleCanvasClick(50, 50)
	// Hits the active point itself.
	e.HandleCanvasClick(55, 50)

	if len(e.Lines()) != 0 {
		t.Errorf("Self-loop must not create a line, got %d lines", len(e.Lines()))
	}
	if e.ActivePointID() != "" {
		t.Errorf("Expected return to idle, active point is %s", e.ActivePointID())
	}
}

func TestMarkerDuplicateLineNoOp(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	p0 := e.HandleCanvasClick(0, 0)
	e.HandleCanvasClick(100, 0)
	// Back to the first point: the A-B pair already has a line.
	back := e.HandleCanvasClick(0, 0)

	if back != p0 {
		t.Errorf("Expected click to resolve to the original point %s, got %s", p0, back)
	}
	if len(e.Lines()) != 1 {
		t.Errorf("Duplicate line was created! Expected 1, got %d", len(e.Lines()))
	}
	// The end target still becomes the active point.
	if e.ActivePointID() != p0 {
		t.Errorf("Expected active point %s after duplicate attempt, got %s", p0, e.ActivePointID())
	}
}

func TestCancelActivePoint(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	e.HandleCanvasClick(10, 10)
	e.CancelActivePoint()

	if e.ActivePointID() != "" {
		t.Errorf("Expected no active point after cancel, got %s", e.ActivePointID())
	}
	// Cancel has no side effects: the point itself stays.
	if len(e.Points()) != 1 {
		t.Errorf("Cancel must not remove points, got %d", len(e.Points()))
	}
}

func TestToolSwitchSweepsOrphans(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolMarker)

	e.HandleCanvasClick(0, 0)
	e.HandleCanvasClick(100, 0)
	// Start a new chain segment that never completes.
	e.CancelActivePoint()
	e.HandleCanvasClick(300, 300)

	e.SetCurrentTool(ToolCursor)

	if e.ActivePointID() != "" {
		t.Errorf("Expected active point cleared on tool switch, got %s", e.ActivePointID())
	}
	if len(e.Points()) != 2 {
		t.Errorf("Expected unconnected point swept on tool switch, got %d points", len(e.Points()))
	}
	if len(e.Lines()) != 1 {
		t.Errorf("Expected connected line to survive, got %d", len(e.Lines()))
	}
}

func TestMarkerClickIgnoredForOtherTools(t *testing.T) {
	e := NewEngine()
	e.SetCurrentTool(ToolCursor)

	if id := e.HandleCanvasClick(10, 10); id != "" {
		t.Errorf("Cursor tool click must not create points, got %s", id)
	}
	if len(e.Points()) != 0 {
		t.Errorf("Expected no points, got %d", len(e.Points()))
	}
}

func TestAngleConstruction(t *testing.T) {
	e := NewEngine()
	_, p1a, l1 := addTestLine(e, 0, 0, 10, 0)

	// Second line shares the point at (10, 0).
	p2 := e.AddPoint(10, 10)
	e.mu.Lock()
	l := &Line{ID: newID(), Label: e.nextLineLabelLocked(), StartPointID: p1a, EndPointID: p2}
	e.lines[l.ID] = l
	e.lineOrder = append(e.lineOrder, l.ID)
	e.mu.Unlock()

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	if e.FirstLineID() != l1 {
		t.Fatalf("Expected first line %s recorded, got %s", l1, e.FirstLineID())
	}
	e.HandleAngleToolLineClick(l.ID)

	angles := e.Angles()
	if len(angles) != 1 {
		t.Fatalf("Expected 1 angle, got %d", len(angles))
	}
	a := angles[0]
	if a.VertexPointID != p1a {
		t.Errorf("Expected vertex at shared point %s, got %s", p1a, a.VertexPointID)
	}
	if a.Label != "θ1" {
		t.Errorf("Expected label θ1, got %q", a.Label)
	}
	if math.Abs(a.Degrees-90) > 1e-9 {
		t.Errorf("Expected 90 degrees, got %v", a.Degrees)
	}
	if e.FirstLineID() != "" {
		t.Errorf("Expected return to no-first-line state, got %s", e.FirstLineID())
	}
}

func TestAngleSameLineClickCancels(t *testing.T) {
	e := NewEngine()
	_, _, l1 := addTestLine(e, 0, 0, 10, 0)

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	e.HandleAngleToolLineClick(l1)

	if e.FirstLineID() != "" {
		t.Errorf("Expected cancel on second click of same line, got %s", e.FirstLineID())
	}
	if len(e.Angles()) != 0 {
		t.Errorf("Expected no angle, got %d", len(e.Angles()))
	}
}

func TestAngleNoSharedEndpointAborts(t *testing.T) {
	e := NewEngine()
	_, _, l1 := addTestLine(e, 0, 0, 10, 0)
	_, _, l2 := addTestLine(e, 100, 100, 110, 100)

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	e.HandleAngleToolLineClick(l2)

	if len(e.Angles()) != 0 {
		t.Errorf("Disjoint lines must not form an angle, got %d", len(e.Angles()))
	}
	if e.FirstLineID() != "" {
		t.Errorf("Expected return to no-first-line state, got %s", e.FirstLineID())
	}
}

func TestAngleDuplicatePairRejected(t *testing.T) {
	e := NewEngine()
	_, shared, l1 := addTestLine(e, 0, 0, 10, 0)

	p2 := e.AddPoint(10, 10)
	e.mu.Lock()
	l := &Line{ID: newID(), Label: e.nextLineLabelLocked(), StartPointID: shared, EndPointID: p2}
	e.lines[l.ID] = l
	e.lineOrder = append(e.lineOrder, l.ID)
	e.mu.Unlock()

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	e.HandleAngleToolLineClick(l.ID)
	// Same pair in the opposite order.
	e.HandleAngleToolLineClick(l.ID)
	e.HandleAngleToolLineClick(l1)

	if len(e.Angles()) != 1 {
		t.Errorf("Duplicate angle was added! Expected 1, got %d", len(e.Angles()))
	}
}

func TestAngleRecomputeOnPointMove(t *testing.T) {
	e := NewEngine()
	_, shared, l1 := addTestLine(e, 0, 0, 10, 0)

	p2 := e.AddPoint(10, 10)
	e.mu.Lock()
	l := &Line{ID: newID(), Label: e.nextLineLabelLocked(), StartPointID: shared, EndPointID: p2}
	e.lines[l.ID] = l
	e.lineOrder = append(e.lineOrder, l.ID)
	e.mu.Unlock()

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	e.HandleAngleToolLineClick(l.ID)

	// Straighten the second arm onto the first line's extension: the arms
	// point opposite ways from the vertex, so the angle becomes 180.
	e.UpdatePointPosition(p2, 20, 0)

	a := e.Angles()[0]
	if math.Abs(a.Degrees-180) > 1e-9 {
		t.Errorf("Expected angle recomputed to 180 degrees after move, got %v", a.Degrees)
	}
}

func TestToolSwitchClearsPendingAngleLine(t *testing.T) {
	e := NewEngine()
	_, _, l1 := addTestLine(e, 0, 0, 10, 0)

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	e.SetCurrentTool(ToolCursor)

	if e.FirstLineID() != "" {
		t.Errorf("Expected pending angle line cleared on tool switch, got %s", e.FirstLineID())
	}
}
