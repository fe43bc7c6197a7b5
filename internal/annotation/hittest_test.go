package annotation

import "testing"

func TestHitTestPointPrecedence(t *testing.T) {
	e := NewEngine()
	p0, _, _ := addTestLine(e, 0, 0, 100, 0)

	// A click near the endpoint resolves to the point, not the line under it.
	if got := e.HitTestPoint(5, 5); got != p0 {
		t.Errorf("Expected point %s, got %q", p0, got)
	}
	if got := e.HitTestPoint(50, 40); got != "" {
		t.Errorf("Expected miss far from any point, got %q", got)
	}
}

func TestHitTestLineNearestWins(t *testing.T) {
	e := NewEngine()
	_, _, la := addTestLine(e, 0, 0, 100, 0)
	_, _, lb := addTestLine(e, 0, 10, 100, 10)

	if got := e.HitTestLine(50, 2); got != la {
		t.Errorf("Expected nearer line %s, got %q", la, got)
	}
	if got := e.HitTestLine(50, 8); got != lb {
		t.Errorf("Expected nearer line %s, got %q", lb, got)
	}
	if got := e.HitTestLine(50, 100); got != "" {
		t.Errorf("Expected miss outside tolerance, got %q", got)
	}
}

func TestHitTestLineSegmentBounds(t *testing.T) {
	e := NewEngine()
	addTestLine(e, 0, 0, 100, 0)

	// Beyond the segment end, distance is measured to the endpoint.
	if got := e.HitTestLine(150, 0); got != "" {
		t.Errorf("Expected miss beyond the segment, got %q", got)
	}
}

func TestHitTestAngleArc(t *testing.T) {
	e := NewEngine()
	id := addAngleAt(e, 0, 0, 200, 0, 0, 200)

	arc := e.AngleArcParams(id)
	// On the arc, mid-sweep.
	if got := e.HitTestAngle(arc.Radius*0.7071, arc.Radius*0.7071); got != id {
		t.Errorf("Expected angle %s on its arc, got %q", id, got)
	}
	if got := e.HitTestAngle(150, 150); got != "" {
		t.Errorf("Expected miss away from the arc, got %q", got)
	}
}

func TestHitTestCircleBody(t *testing.T) {
	e := newCircleEngine(t)

	if !e.HitTestCircle(50, 50) {
		t.Error("Expected hit inside the circle")
	}
	if !e.HitTestCircle(102, 50) {
		t.Error("Expected hit near the circumference")
	}
	if e.HitTestCircle(200, 200) {
		t.Error("Expected miss far from the circle")
	}
}
