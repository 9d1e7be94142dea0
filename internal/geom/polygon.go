package geom

import "math"

// SignedArea returns the shoelace area of the closed polygon pts.
//
// In image coordinates (Y down) a positive result means the vertices wind
// clockwise as seen on screen. Fewer than three points have zero area.
func SignedArea(pts []Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	j := len(pts) - 1
	for i := range pts {
		sum += pts[j].X*pts[i].Y - pts[i].X*pts[j].Y
		j = i
	}
	return sum / 2
}

// Area returns the absolute shoelace area of pts.
func Area(pts []Point) float64 {
	return math.Abs(SignedArea(pts))
}

// ContainsPoint reports whether p lies inside the polygon pts using the
// even-odd ray casting rule. Points exactly on an edge may land either way.
func ContainsPoint(pts []Point, p Point) bool {
	if len(pts) < 3 {
		return false
	}
	inside := false
	j := len(pts) - 1
	for i := range pts {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
