package annotation

import (
	"fmt"
	"testing"
)

// buildAngleFixture creates two lines meeting at a shared vertex and an
// angle between them: P0(0,0)--P1(10,0) and P1--P2(10,10).
func buildAngleFixture(e *Engine) (p0, p1, p2, l1, l2, angleID string) {
	p0, p1, l1 = addTestLine(e, 0, 0, 10, 0)

	p2 = e.AddPoint(10, 10)
	e.mu.Lock()
	l := &Line{ID: newID(), Label: e.nextLineLabelLocked(), StartPointID: p1, EndPointID: p2}
	e.lines[l.ID] = l
	e.lineOrder = append(e.lineOrder, l.ID)
	e.mu.Unlock()
	l2 = l.ID

	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(l1)
	e.HandleAngleToolLineClick(l2)
	e.SetCurrentTool(ToolCursor)

	return p0, p1, p2, l1, l2, e.Angles()[0].ID
}

func TestDeleteVertexPointCascades(t *testing.T) {
	e := NewEngine()
	_, p1, _, _, _, _ := buildAngleFixture(e)

	// Deleting the shared vertex removes both lines, the angle, and the two
	// endpoints left with no remaining line.
	e.DeletePoint(p1)

	if n := len(e.Points()); n != 0 {
		t.Errorf("Expected all points removed, got %d", n)
	}
	if n := len(e.Lines()); n != 0 {
		t.Errorf("Expected all lines removed, got %d", n)
	}
	if n := len(e.Angles()); n != 0 {
		t.Errorf("Expected all angles removed, got %d", n)
	}
}

func TestDeleteLineCascades(t *testing.T) {
	e := NewEngine()
	p0, p1, p2, l1, _, _ := buildAngleFixture(e)

	e.DeleteLine(l1)

	if n := len(e.Angles()); n != 0 {
		t.Errorf("Expected dependent angle removed, got %d", n)
	}
	if n := len(e.Lines()); n != 1 {
		t.Errorf("Expected the other line to survive, got %d", n)
	}
	// P0 had only the deleted line; P1 and P2 still back the survivor.
	if e.PointByID(p0) != nil {
		t.Error("Expected orphaned endpoint removed")
	}
	if e.PointByID(p1) == nil || e.PointByID(p2) == nil {
		t.Error("Expected endpoints of the surviving line to remain")
	}
}

func TestDeleteAngleLeavesGeometry(t *testing.T) {
	e := NewEngine()
	_, _, _, _, _, angleID := buildAngleFixture(e)

	e.DeleteAngle(angleID)

	if n := len(e.Angles()); n != 0 {
		t.Errorf("Expected angle removed, got %d", n)
	}
	if n := len(e.Lines()); n != 2 {
		t.Errorf("Angle deletion must not touch lines, got %d", n)
	}
	if n := len(e.Points()); n != 3 {
		t.Errorf("Angle deletion must not touch points, got %d", n)
	}
}

func TestDeleteUnknownIDsAreNoOps(t *testing.T) {
	e := NewEngine()
	buildAngleFixture(e)

	e.DeletePoint("nope")
	e.DeleteLine("nope")
	e.DeleteAngle("nope")
	e.DeleteCircle()

	if len(e.Points()) != 3 || len(e.Lines()) != 2 || len(e.Angles()) != 1 {
		t.Error("Deleting unknown ids must leave the store unchanged")
	}
}

func TestDeleteSelectedBatch(t *testing.T) {
	e := NewEngine()
	_, p1, _, _, _, _ := buildAngleFixture(e)

	e.SetCurrentTool(ToolCircle)
	e.HandleCircleToolClick(200, 200)
	e.SetCurrentTool(ToolCursor)

	e.SelectPoint(p1, false)
	e.SelectCircle(true)
	e.DeleteSelected()

	// The vertex cascade takes everything; the circle goes with it.
	if len(e.Points()) != 0 || len(e.Lines()) != 0 || len(e.Angles()) != 0 {
		t.Error("Expected full cascade from deleting the selected vertex")
	}
	if e.Circle() != nil {
		t.Error("Expected selected circle deleted")
	}
	if e.HasSelection() {
		t.Error("Expected selection cleared after batch delete")
	}
}

func TestDeleteSelectedAngleOnly(t *testing.T) {
	e := NewEngine()
	_, _, _, _, _, angleID := buildAngleFixture(e)

	e.SelectAngle(angleID, false)
	e.DeleteSelected()

	if len(e.Angles()) != 0 {
		t.Error("Expected selected angle deleted")
	}
	if len(e.Lines()) != 2 || len(e.Points()) != 3 {
		t.Error("Deleting a selected angle must not cascade to geometry")
	}
}

func TestClearAll(t *testing.T) {
	e := NewEngine()
	buildAngleFixture(e)
	e.SetCurrentTool(ToolCircle)
	e.HandleCircleToolClick(50, 50)

	e.ClearAll()

	if e.HasData() {
		t.Error("Expected empty store after ClearAll")
	}
	if e.Circle() != nil {
		t.Error("Expected circle removed by ClearAll")
	}
	if e.ActivePointID() != "" || e.FirstLineID() != "" {
		t.Error("Expected interaction state reset by ClearAll")
	}
}

func TestLineLabelSequence(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 30; i++ {
		addTestLine(e, float64(i*100), 0, float64(i*100), 50)
	}

	lines := e.Lines()
	if lines[0].Label != "A" || lines[25].Label != "Z" {
		t.Errorf("Expected A..Z for the first 26 lines, got %q and %q", lines[0].Label, lines[25].Label)
	}
	for i := 26; i < 30; i++ {
		want := fmt.Sprintf("L%d", i+1)
		if lines[i].Label != want {
			t.Errorf("Expected overflow label %q at position %d, got %q", want, i, lines[i].Label)
		}
	}
}

func TestLineLabelReuseAfterDelete(t *testing.T) {
	e := NewEngine()
	addTestLine(e, 0, 0, 10, 0)
	_, _, lb := addTestLine(e, 100, 0, 110, 0)
	addTestLine(e, 200, 0, 210, 0)

	e.DeleteLine(lb)
	_, _, fresh := addTestLine(e, 300, 0, 310, 0)

	if got := e.LineByID(fresh).Label; got != "B" {
		t.Errorf("Expected freed label B reused, got %q", got)
	}
}

func TestAngleLabelSequence(t *testing.T) {
	e := NewEngine()
	// Fan of lines from a common vertex; every adjacent pair gets an angle.
	origin := e.AddPoint(0, 0)
	var lineIDs []string
	for i := 1; i <= 4; i++ {
		far := e.AddPoint(float64(i*100), float64(i*37))
		e.mu.Lock()
		l := &Line{ID: newID(), Label: e.nextLineLabelLocked(), StartPointID: origin, EndPointID: far}
		e.lines[l.ID] = l
		e.lineOrder = append(e.lineOrder, l.ID)
		e.mu.Unlock()
		lineIDs = append(lineIDs, l.ID)
	}

	e.SetCurrentTool(ToolAngle)
	for i := 0; i < 3; i++ {
		e.HandleAngleToolLineClick(lineIDs[i])
		e.HandleAngleToolLineClick(lineIDs[i+1])
	}

	angles := e.Angles()
	if len(angles) != 3 {
		t.Fatalf("Expected 3 angles, got %d", len(angles))
	}
	for i, a := range angles {
		want := fmt.Sprintf("θ%d", i+1)
		if a.Label != want {
			t.Errorf("Expected angle label %q, got %q", want, a.Label)
		}
	}

	// Freed numbers are reused at the lowest slot.
	e.DeleteAngle(angles[0].ID)
	e.HandleAngleToolLineClick(lineIDs[0])
	e.HandleAngleToolLineClick(lineIDs[1])
	found := false
	for _, a := range e.Angles() {
		if a.Label == "θ1" {
			found = true
		}
	}
	if !found {
		t.Error("Expected freed label θ1 reused")
	}
}

func TestUpdatePointPositionRecomputesAngles(t *testing.T) {
	e := NewEngine()
	_, _, p2, _, _, angleID := buildAngleFixture(e)

	e.UpdatePointPosition(p2, 5, 0)

	a := e.AngleByID(angleID)
	if a == nil {
		t.Fatal("Angle disappeared after point move")
	}
	// Both arms now point along negative x from the vertex at (10, 0).
	if a.Degrees > 1e-9 {
		t.Errorf("Expected 0 degrees after folding arm onto the other, got %v", a.Degrees)
	}
}

func TestEngineEvents(t *testing.T) {
	e := NewEngine()

	var entityEvents, toolEvents int
	e.On(EventEntitiesChanged, func(interface{}) { entityEvents++ })
	e.On(EventToolChanged, func(interface{}) { toolEvents++ })

	e.AddPoint(1, 2)
	e.SetCurrentTool(ToolMarker)
	e.SetCurrentTool(ToolMarker) // same tool, no event

	if entityEvents != 1 {
		t.Errorf("Expected 1 entity event, got %d", entityEvents)
	}
	if toolEvents != 1 {
		t.Errorf("Expected 1 tool event, got %d", toolEvents)
	}
}
