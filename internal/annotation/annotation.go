// Package annotation provides the annotation model and engine: the canonical
// collections of points, lines, angles and the reference circle, the
// tool-driven interaction state machines that turn pointer input into edits,
// and the consistency rules that keep the model coherent.
package annotation

import (
	"github.com/google/uuid"
)

// Point is a labeled position on the canvas, in image-pixel units.
type Point struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Line connects two points. Lines are undirected: a line between P and Q is
// the same line as one between Q and P.
type Line struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	StartPointID string `json:"start_point_id"`
	EndPointID   string `json:"end_point_id"`
}

// Angle is the measured angle between two lines at their shared endpoint.
// Degrees is a cached derived value recomputed from the point positions
// whenever a point moves; the positions are the source of truth.
type Angle struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Line1ID       string  `json:"line1_id"`
	Line2ID       string  `json:"line2_id"`
	VertexPointID string  `json:"vertex_point_id"`
	Degrees       float64 `json:"degrees"`
}

// Circle is the single optional reference circle.
type Circle struct {
	ID      string  `json:"id"`
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
}

// Tool identifies the current interaction tool.
type Tool int

const (
	ToolCursor Tool = iota
	ToolMarker
	ToolAngle
	ToolCircle
)

func (t Tool) String() string {
	switch t {
	case ToolCursor:
		return "Cursor"
	case ToolMarker:
		return "Marker"
	case ToolAngle:
		return "Angle"
	case ToolCircle:
		return "Circle"
	default:
		return "Unknown"
	}
}

const (
	// HitRadius is the pick distance for points, in image-pixel units.
	HitRadius = 15.0

	// LineHitTolerance is the pick distance for line segments.
	LineHitTolerance = 8.0

	// DefaultCircleRadius is the radius of a newly created reference circle.
	DefaultCircleRadius = 50.0
)

func newID() string {
	return uuid.NewString()
}
