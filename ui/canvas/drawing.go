package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"image-protractor/internal/annotation"
)

// Overlay colors.
var (
	colorLine     = color.RGBA{R: 0x00, G: 0x96, B: 0xC7, A: 0xFF} // Cyan
	colorPoint    = color.RGBA{R: 0xE6, G: 0x39, B: 0x46, A: 0xFF} // Red
	colorActive   = color.RGBA{R: 0x38, G: 0xB0, B: 0x00, A: 0xFF} // Green
	colorAngle    = color.RGBA{R: 0xC7, G: 0x24, B: 0xB1, A: 0xFF} // Magenta
	colorCircle   = color.RGBA{R: 0x3A, G: 0x86, B: 0xFF, A: 0xFF} // Blue
	colorSelected = color.RGBA{R: 0xFF, G: 0xB7, B: 0x03, A: 0xFF} // Amber
	colorHandle   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF} // White
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters and the symbols
// used by measurement labels.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'θ': {0b010, 0b101, 0b111, 0b101, 0b010},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

func rgba(r, g, b float64) color.RGBA {
	clamp8 := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 255}
}

// drawAnnotations renders the engine's entities onto the output image at
// the given zoom. Draw order: lines, angle arcs, points, circle, so points
// stay visible on top of the geometry they anchor.
func drawAnnotations(output *image.RGBA, e *annotation.Engine, zoom float64) {
	labelScale := int(zoom * 2)
	if labelScale < 1 {
		labelScale = 1
	}
	if labelScale > 6 {
		labelScale = 6
	}

	drawLines(output, e, zoom, labelScale)
	drawAngles(output, e, zoom, labelScale)
	drawPoints(output, e, zoom)
	drawReferenceCircle(output, e, zoom)
}

func drawLines(output *image.RGBA, e *annotation.Engine, zoom float64, labelScale int) {
	for _, l := range e.Lines() {
		p1 := e.PointByID(l.StartPointID)
		p2 := e.PointByID(l.EndPointID)
		if p1 == nil || p2 == nil {
			continue
		}

		col := colorLine
		if e.IsLineSelected(l.ID) {
			col = colorSelected
		}

		x1, y1 := int(p1.X*zoom), int(p1.Y*zoom)
		x2, y2 := int(p2.X*zoom), int(p2.Y*zoom)
		drawSegment(output, x1, y1, x2, y2, col, 2)

		// Label at the midpoint, nudged off the line.
		midX := (x1 + x2) / 2
		midY := (y1+y2)/2 - 6*labelScale
		drawText(output, l.Label, midX, midY, col, labelScale)
	}
}

func drawAngles(output *image.RGBA, e *annotation.Engine, zoom float64, labelScale int) {
	for _, a := range e.Angles() {
		arc := e.AngleArcParams(a.ID)
		vertex := e.PointByID(a.VertexPointID)
		if arc == nil || vertex == nil {
			continue
		}

		col := colorAngle
		if e.IsAngleSelected(a.ID) {
			col = colorSelected
		}

		drawArc(output, vertex, arc, zoom, col)

		// Label and degree readout just beyond the arc, along the bisector.
		a1 := math.Atan2(arc.StartY-vertex.Y, arc.StartX-vertex.X)
		dir := 1.0
		if !arc.Sweep {
			dir = -1
		}
		mid := a1 + dir*arc.Degrees*math.Pi/360
		labelR := (arc.Radius + 14) * zoom
		lx := int(vertex.X*zoom + labelR*math.Cos(mid))
		ly := int(vertex.Y*zoom + labelR*math.Sin(mid))

		text := fmt.Sprintf("%s %.1f", a.Label, a.Degrees)
		drawText(output, text, lx, ly, col, labelScale)
	}
}

func drawPoints(output *image.RGBA, e *annotation.Engine, zoom float64) {
	activeID := e.ActivePointID()
	for _, p := range e.Points() {
		pos := e.PointByID(p.ID)
		if pos == nil {
			continue
		}
		x, y := int(pos.X*zoom), int(pos.Y*zoom)

		col := colorPoint
		radius := 4
		switch {
		case p.ID == activeID:
			col = colorActive
			radius = 6
		case e.IsPointSelected(p.ID):
			col = colorSelected
			radius = 5
		}
		drawDot(output, x, y, radius, col)
	}
}

func drawReferenceCircle(output *image.RGBA, e *annotation.Engine, zoom float64) {
	c := e.Circle()
	if c == nil {
		return
	}

	col := colorCircle
	if e.IsCircleSelected() {
		col = colorSelected
	}

	drawRing(output, c.CenterX*zoom, c.CenterY*zoom, c.Radius*zoom, col)

	// Center cross.
	cx, cy := int(c.CenterX*zoom), int(c.CenterY*zoom)
	drawSegment(output, cx-4, cy, cx+4, cy, col, 1)
	drawSegment(output, cx, cy-4, cx, cy+4, col, 1)

	if !e.IsCircleSelected() {
		return
	}
	for h := annotation.HandleTopLeft; h <= annotation.HandleLeft; h++ {
		pos, ok := e.HandlePosition(h)
		if !ok {
			continue
		}
		drawSquare(output, int(pos.X*zoom), int(pos.Y*zoom), 3, colorHandle)
	}
}

// drawArc samples the angle arc from its start ray, sweeping by the arc's
// extent in its sweep direction.
func drawArc(output *image.RGBA, vertex *annotation.Point, arc *annotation.ArcParams, zoom float64, col color.RGBA) {
	if arc.Degrees == 0 {
		return
	}

	a1 := math.Atan2(arc.StartY-vertex.Y, arc.StartX-vertex.X)
	sweep := arc.Degrees * math.Pi / 180
	if !arc.Sweep {
		sweep = -sweep
	}

	r := arc.Radius * zoom
	steps := int(math.Max(r*math.Abs(sweep), 16))
	prevX := int((vertex.X + arc.Radius*math.Cos(a1)) * zoom)
	prevY := int((vertex.Y + arc.Radius*math.Sin(a1)) * zoom)
	for i := 1; i <= steps; i++ {
		ang := a1 + sweep*float64(i)/float64(steps)
		x := int((vertex.X + arc.Radius*math.Cos(ang)) * zoom)
		y := int((vertex.Y + arc.Radius*math.Sin(ang)) * zoom)
		drawSegment(output, prevX, prevY, x, y, col, 2)
		prevX, prevY = x, y
	}
}

// drawSegment draws a line between two points using Bresenham's algorithm.
func drawSegment(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDot draws a filled circle marker.
func drawDot(output *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x, y, col)
			}
		}
	}
}

// drawSquare draws a filled square handle marker.
func drawSquare(output *image.RGBA, cx, cy, half int, col color.RGBA) {
	bounds := output.Bounds()
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x, y, col)
			}
		}
	}
}

// drawRing draws a circle outline 2 pixels thick.
func drawRing(output *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := output.Bounds()

	minX := int(cx - r - 1)
	maxX := int(cx + r + 1)
	minY := int(cy - r - 1)
	maxY := int(cy + r + 1)

	r2 := r * r
	inner := r - 2
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy
			if dist2 <= r2 && dist2 >= innerR2 {
				output.Set(x, y, col)
			}
		}
	}
}

// drawText draws a label centered at the given canvas coordinates using the
// 3x5 bitmap font.
func drawText(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}

	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale

	runes := []rune(label)
	labelWidth := len(runes)*charWidth + (len(runes)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	bounds := output.Bounds()

	for i, ch := range runes {
		pattern := getCharPattern(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}
