// Package geom provides the small amount of planar geometry the vectorizer
// needs: float pixel points, polyline length, shoelace area, orientation and
// point-in-polygon containment.
//
// Coordinates follow image conventions: X grows to the right and Y grows
// downward, so a polygon with positive signed area winds clockwise on screen.
package geom

import "math"

// Point is a pixel coordinate. Traced contours sit on integer pixel centres
// but simplification and rescaling keep them as floats.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both coordinates multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// DistanceSq returns the squared euclidean distance between p and q.
func DistanceSq(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Sqrt(DistanceSq(p, q))
}

// PolylineLength returns the sum of the segment lengths of pts.
// Fewer than two points have zero length.
func PolylineLength(pts []Point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Distance(pts[i-1], pts[i])
	}
	return total
}

// PerpendicularDistance returns the distance from p to the infinite line
// through a and b. When a and b coincide it degrades to the distance to a.
func PerpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return Distance(p, a)
	}
	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	return num / math.Sqrt(dx*dx+dy*dy)
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Bounds returns the bounding box of pts. An empty slice yields the zero Rect.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Overlaps reports whether r and o intersect after growing both by tol.
func (r Rect) Overlaps(o Rect, tol float64) bool {
	return r.MinX-tol <= o.MaxX && o.MinX-tol <= r.MaxX &&
		r.MinY-tol <= o.MaxY && o.MinY-tol <= r.MaxY
}
