package geom

import (
	"math"
	"testing"
)

func rectangle(x0, y0, x1, y1 float64) []Point {
	return []Point{Pt(x0, y0), Pt(x1, y0), Pt(x1, y1), Pt(x0, y1)}
}

func reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func TestSignedArea_Orientation(t *testing.T) {
	cw := rectangle(2, 3, 12, 8)
	ccw := reversed(cw)

	if got := Area(cw); math.Abs(got-50) > 1e-9 {
		t.Errorf("Area(cw): got %v, want 50", got)
	}
	if diff := math.Abs(Area(cw) - Area(ccw)); diff >= 1.0 {
		t.Errorf("area difference: got %v, want < 1", diff)
	}
	if SignedArea(cw) <= 0 || SignedArea(ccw) >= 0 {
		t.Errorf("signs: cw=%v ccw=%v, want positive then negative", SignedArea(cw), SignedArea(ccw))
	}
}

func TestSignedArea_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		pts  []Point
	}{
		{"empty", nil},
		{"single", []Point{Pt(1, 1)}},
		{"segment", []Point{Pt(0, 0), Pt(5, 5)}},
		{"collinear", []Point{Pt(0, 0), Pt(1, 1), Pt(2, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedArea(tt.pts); got != 0 {
				t.Errorf("SignedArea: got %v, want 0", got)
			}
		})
	}
}

func TestContainsPoint(t *testing.T) {
	poly := rectangle(0, 0, 10, 10)
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"centre", Pt(5, 5), true},
		{"near corner", Pt(0.5, 9.5), true},
		{"left of", Pt(-1, 5), false},
		{"below", Pt(5, 11), false},
		{"far away", Pt(100, 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsPoint(poly, tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v): got %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolylineLength(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(3, 4), Pt(3, 10)}
	if got := PolylineLength(pts); math.Abs(got-11) > 1e-9 {
		t.Errorf("PolylineLength: got %v, want 11", got)
	}
	if got := PolylineLength(pts[:1]); got != 0 {
		t.Errorf("PolylineLength single point: got %v, want 0", got)
	}
}

func TestPerpendicularDistance(t *testing.T) {
	if got := PerpendicularDistance(Pt(5, 3), Pt(0, 0), Pt(10, 0)); math.Abs(got-3) > 1e-9 {
		t.Errorf("horizontal line: got %v, want 3", got)
	}
	if got := PerpendicularDistance(Pt(3, 4), Pt(0, 0), Pt(0, 0)); math.Abs(got-5) > 1e-9 {
		t.Errorf("degenerate line: got %v, want 5", got)
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Bounds([]Point{Pt(0, 0), Pt(10, 10)})
	b := Bounds([]Point{Pt(15, 0), Pt(20, 10)})
	if a.Overlaps(b, 0) {
		t.Error("disjoint rects should not overlap without tolerance")
	}
	if !a.Overlaps(b, 5) {
		t.Error("rects 5px apart should overlap with tolerance 5")
	}
	if a.Width() != 10 || a.Height() != 10 {
		t.Errorf("size: got %vx%v, want 10x10", a.Width(), a.Height())
	}
}
