// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

// Verb is a path construction command.
type Verb uint8

const (
	// VerbMoveTo starts a subpath. One point.
	VerbMoveTo Verb = iota
	// VerbLineTo adds a line. One point.
	VerbLineTo
	// VerbQuadTo adds a quadratic Bezier curve. Two points.
	VerbQuadTo
	// VerbCubicTo adds a cubic Bezier curve. Three points.
	VerbCubicTo
	// VerbClose closes the subpath. No points.
	VerbClose
)

// pointCount returns the number of points a verb consumes.
func (v Verb) pointCount() int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 1
	case VerbQuadTo:
		return 2
	case VerbCubicTo:
		return 3
	default:
		return 0
	}
}

// Path represents a vector path for drawing operations.
//
// Example:
//
//	p := surface.NewPath()
//	p.MoveTo(100, 100)
//	p.LineTo(200, 100)
//	p.LineTo(150, 200)
//	p.Close()
//
//	s.Fill(p, style)
type Path struct {
	verbs  []Verb
	points []float32
	startX float32
	startY float32
	curX   float32
	curY   float32
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]Verb, 0, 16),
		points: make([]float32, 0, 64),
	}
}

// MoveTo starts a new subpath at the given point.
func (p *Path) MoveTo(x, y float64) {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.points = append(p.points, float32(x), float32(y))
	p.startX, p.startY = float32(x), float32(y)
	p.curX, p.curY = float32(x), float32(y)
}

// LineTo adds a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(x, y)
		return
	}
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, float32(x), float32(y))
	p.curX, p.curY = float32(x), float32(y)
}

// QuadTo adds a quadratic Bezier curve from the current point.
// (cx, cy) is the control point, (x, y) is the endpoint.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(cx, cy)
	}
	p.verbs = append(p.verbs, VerbQuadTo)
	p.points = append(p.points, float32(cx), float32(cy), float32(x), float32(y))
	p.curX, p.curY = float32(x), float32(y)
}

// CubicTo adds a cubic Bezier curve from the current point.
// (c1x, c1y) and (c2x, c2y) are control points, (x, y) is the endpoint.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(c1x, c1y)
	}
	p.verbs = append(p.verbs, VerbCubicTo)
	p.points = append(p.points,
		float32(c1x), float32(c1y),
		float32(c2x), float32(c2y),
		float32(x), float32(y))
	p.curX, p.curY = float32(x), float32(y)
}

// Close closes the current subpath by connecting to the start point.
func (p *Path) Close() {
	if len(p.verbs) == 0 {
		return
	}
	p.verbs = append(p.verbs, VerbClose)
	p.curX, p.curY = p.startX, p.startY
}

// Rectangle appends a closed axis-aligned rectangle.
func (p *Path) Rectangle(r Rect) {
	p.MoveTo(r.MinX, r.MinY)
	p.LineTo(r.MaxX, r.MinY)
	p.LineTo(r.MaxX, r.MaxY)
	p.LineTo(r.MinX, r.MaxY)
	p.Close()
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.startX, p.startY = 0, 0
	p.curX, p.curY = 0, 0
}

// IsEmpty returns true if the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.verbs) == 0
}

// Verbs returns the verb slice.
func (p *Path) Verbs() []Verb {
	return p.verbs
}

// Points returns the flattened coordinate slice (x0, y0, x1, y1, ...).
func (p *Path) Points() []float32 {
	return p.points
}

// Bounds returns the bounding box of all points, control points included.
func (p *Path) Bounds() Rect {
	if len(p.points) < 2 {
		return Rect{}
	}
	r := Rect{
		MinX: float64(p.points[0]), MinY: float64(p.points[1]),
		MaxX: float64(p.points[0]), MaxY: float64(p.points[1]),
	}
	for i := 2; i+1 < len(p.points); i += 2 {
		x, y := float64(p.points[i]), float64(p.points[i+1])
		r.MinX = min(r.MinX, x)
		r.MinY = min(r.MinY, y)
		r.MaxX = max(r.MaxX, x)
		r.MaxY = max(r.MaxY, y)
	}
	return r
}
