package untangle

import "math"

// Point is a position in canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Canvas is the fixed play field a puzzle is laid out on.
type Canvas struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	NodeRadius float64 `json:"nodeRadius"`
}

var (
	// WideCanvas is the full-page "Dependency Resolver" window.
	WideCanvas = Canvas{Width: 600, Height: 400, NodeRadius: 20}
	// CompactCanvas fits the puzzle inside a dialog.
	CompactCanvas = Canvas{Width: 450, Height: 300, NodeRadius: 20}
)

// Clamp keeps p at least one node radius away from every canvas edge.
func (c Canvas) Clamp(p Point) Point {
	return Point{
		X: math.Max(c.NodeRadius, math.Min(p.X, c.Width-c.NodeRadius)),
		Y: math.Max(c.NodeRadius, math.Min(p.Y, c.Height-c.NodeRadius)),
	}
}

// Contains reports whether p lies inside the clamped play field.
func (c Canvas) Contains(p Point) bool {
	return p.X >= c.NodeRadius && p.X <= c.Width-c.NodeRadius &&
		p.Y >= c.NodeRadius && p.Y <= c.Height-c.NodeRadius
}

// Viewport is where the canvas is displayed on the host's screen. Its size can
// differ from the canvas when the host scales the drawing.
type Viewport struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToCanvas maps raw client coordinates into canvas coordinates.
func (v Viewport) ToCanvas(c Canvas, clientX, clientY float64) Point {
	scaleX, scaleY := 1.0, 1.0
	if v.Width > 0 {
		scaleX = c.Width / v.Width
	}
	if v.Height > 0 {
		scaleY = c.Height / v.Height
	}
	return Point{
		X: (clientX - v.Left) * scaleX,
		Y: (clientY - v.Top) * scaleY,
	}
}

// ccw reports whether a, b, c make a strict counter-clockwise turn.
// Collinear points are never ccw.
func ccw(a, b, c Point) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// SegmentsCross reports whether segment p1-p2 properly intersects p3-p4.
// Touching and collinear configurations do not count.
func SegmentsCross(p1, p2, p3, p4 Point) bool {
	return ccw(p1, p3, p4) != ccw(p2, p3, p4) && ccw(p1, p2, p3) != ccw(p1, p2, p4)
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
