package annotation

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// addAngleAt builds two lines from a shared vertex to the two far points and
// constructs the angle between them, returning the angle id.
func addAngleAt(e *Engine, vx, vy, x1, y1, x2, y2 float64) string {
	vertex := e.AddPoint(vx, vy)
	var lineIDs []string
	for _, far := range [][2]float64{{x1, y1}, {x2, y2}} {
		fp := e.AddPoint(far[0], far[1])
		e.mu.Lock()
		l := &Line{ID: newID(), Label: e.nextLineLabelLocked(), StartPointID: vertex, EndPointID: fp}
		e.lines[l.ID] = l
		e.lineOrder = append(e.lineOrder, l.ID)
		e.mu.Unlock()
		lineIDs = append(lineIDs, l.ID)
	}

	prev := e.CurrentTool()
	e.SetCurrentTool(ToolAngle)
	e.HandleAngleToolLineClick(lineIDs[0])
	e.HandleAngleToolLineClick(lineIDs[1])
	e.SetCurrentTool(prev)

	angles := e.Angles()
	return angles[len(angles)-1].ID
}

func TestArcSweepMatchesDotProduct(t *testing.T) {
	cases := []struct {
		name                   string
		vx, vy, x1, y1, x2, y2 float64
	}{
		{"right angle", 0, 0, 10, 0, 0, 10},
		{"acute", 0, 0, 100, 0, 80, 30},
		{"obtuse", 50, 50, 150, 50, -40, 70},
		{"near straight", 0, 0, 100, 0, -100, 1},
		{"tiny", 0, 0, 100, 0, 100, 0.001},
		{"crossing negative y", 20, -30, 120, -30, 20, 70},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			id := addAngleAt(e, tc.vx, tc.vy, tc.x1, tc.y1, tc.x2, tc.y2)

			a := e.AngleByID(id)
			arc := e.AngleArcParams(id)
			if a == nil || arc == nil {
				t.Fatal("Angle fixture missing")
			}
			// The arc's swept extent and the dot-product measurement are two
			// routes to the same quantity.
			if !scalar.EqualWithinAbs(a.Degrees, arc.Degrees, 1e-6) {
				t.Errorf("Dot-product %v and arc sweep %v disagree", a.Degrees, arc.Degrees)
			}
		})
	}
}

func TestArcRadiusClamping(t *testing.T) {
	e := NewEngine()

	// Short arms: 30% of 10 is 3, clamped up to 20.
	short := addAngleAt(e, 0, 0, 10, 0, 0, 10)
	if arc := e.AngleArcParams(short); arc.Radius != arcRadiusMin {
		t.Errorf("Expected minimum arc radius %v, got %v", arcRadiusMin, arc.Radius)
	}

	// Long arms: 30% of 1000 is 300, clamped down to 50.
	long := addAngleAt(e, 500, 500, 1500, 500, 500, 1500)
	if arc := e.AngleArcParams(long); arc.Radius != arcRadiusMax {
		t.Errorf("Expected maximum arc radius %v, got %v", arcRadiusMax, arc.Radius)
	}

	// In between: 30% of the shorter arm.
	mid := addAngleAt(e, 1000, 0, 1100, 0, 1000, 200)
	if arc := e.AngleArcParams(mid); !scalar.EqualWithinAbs(arc.Radius, 30, 1e-9) {
		t.Errorf("Expected arc radius 30, got %v", arc.Radius)
	}
}

func TestArcEndpointsLieOnArms(t *testing.T) {
	e := NewEngine()
	id := addAngleAt(e, 0, 0, 100, 0, 0, 100)

	arc := e.AngleArcParams(id)
	if !scalar.EqualWithinAbs(arc.StartX, arc.Radius, 1e-9) || !scalar.EqualWithinAbs(arc.StartY, 0, 1e-9) {
		t.Errorf("Expected arc start on the first arm, got (%v, %v)", arc.StartX, arc.StartY)
	}
	if !scalar.EqualWithinAbs(arc.EndX, 0, 1e-9) || !scalar.EqualWithinAbs(arc.EndY, arc.Radius, 1e-9) {
		t.Errorf("Expected arc end on the second arm, got (%v, %v)", arc.EndX, arc.EndY)
	}
	if arc.LargeArc {
		t.Error("A 90 degree sweep is not a large arc")
	}
}

func TestZeroLengthArmMeasuresZero(t *testing.T) {
	e := NewEngine()
	// The second far point coincides with the vertex.
	id := addAngleAt(e, 0, 0, 100, 0, 0, 0)

	if a := e.AngleByID(id); a.Degrees != 0 {
		t.Errorf("Expected 0 degrees for a zero-length arm, got %v", a.Degrees)
	}
	arc := e.AngleArcParams(id)
	if arc == nil || arc.Radius != arcRadiusMin {
		t.Errorf("Expected degenerate arc at minimum radius, got %+v", arc)
	}
}

func TestLineLengthUnknownID(t *testing.T) {
	e := NewEngine()
	if got := e.CalculateLineLength("nope"); got != 0 {
		t.Errorf("Expected 0 for unknown line, got %v", got)
	}
	if e.AngleArcParams("nope") != nil {
		t.Error("Expected nil arc for unknown angle")
	}
}

func TestDragPreviewAffectsMeasurements(t *testing.T) {
	e := NewEngine()
	_, p1, la := addTestLine(e, 0, 0, 100, 0)

	e.DragPointTo(p1, 0, 200)

	// Live geometry follows the preview position.
	if got := e.CalculateLineLength(la); !scalar.EqualWithinAbs(got, 200, 1e-9) {
		t.Errorf("Expected previewed length 200, got %v", got)
	}
	// The committed store is untouched.
	if p := e.LineByID(la); p == nil {
		t.Fatal("Line missing")
	}
	if e.PointByID(p1).Y != 200 {
		t.Error("PointByID must report the preview position while dragging")
	}

	e.CancelDrag()
	if got := e.CalculateLineLength(la); !scalar.EqualWithinAbs(got, 100, 1e-9) {
		t.Errorf("Expected committed length 100 after cancel, got %v", got)
	}
}

func TestCommitDragRecomputesAngles(t *testing.T) {
	e := NewEngine()
	id := addAngleAt(e, 0, 0, 100, 0, 0, 100)

	// Drag the second far point onto the x axis.
	a := e.AngleByID(id)
	l2 := e.LineByID(a.Line2ID)
	far := otherEndpoint(l2, a.VertexPointID)

	e.DragPointTo(far, 100, 100)
	if got := e.AngleByID(id).Degrees; !scalar.EqualWithinAbs(got, 90, 1e-9) {
		t.Errorf("Cached degrees must not change during preview, got %v", got)
	}

	e.CommitDrag(far)
	if got := e.AngleByID(id).Degrees; !scalar.EqualWithinAbs(got, 45, 1e-9) {
		t.Errorf("Expected 45 degrees after commit, got %v", got)
	}

	if e.IsDragging(far) {
		t.Error("Expected drag state cleared after commit")
	}
	if p := e.PointByID(far); p.X != 100 || p.Y != 100 {
		t.Errorf("Expected committed position (100, 100), got (%v, %v)", p.X, p.Y)
	}
}
