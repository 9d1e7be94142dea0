package vectorize

import (
	"math"
	"testing"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name   string
		pts    []geom.Point
		closed bool
		want   []geom.Point
	}{
		{
			name: "collinear collapses to endpoints",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}},
			want: []geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}},
		},
		{
			name: "corner survives",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 10, Y: 10}},
			want: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		},
		{
			name: "small wobble removed",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 3, Y: 0.2}, {X: 6, Y: -0.2}, {X: 10, Y: 0}},
			want: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		},
		{
			name:   "closed square keeps corners",
			pts:    []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}, {X: 10, Y: 10}, {X: 5, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 5}},
			closed: true,
			want:   []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		},
		{
			name: "two points unchanged",
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
			want: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Simplify(tt.pts, 1.0, tt.closed)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("point %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPathLength(t *testing.T) {
	square := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if got := PathLength(square, false); got != 30 {
		t.Errorf("open: got %v, want 30", got)
	}
	if got := PathLength(square, true); got != 40 {
		t.Errorf("closed: got %v, want 40", got)
	}
}

func TestSimplifyPaths_DropsShort(t *testing.T) {
	paths := []Path{
		{Points: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}, Parent: -1},
		{Points: []geom.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 40, Y: 0}}, Parent: -1},
		{Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, Closed: true, Parent: -1},
	}
	got := simplifyPaths(paths, 1.0, 10)
	if len(got) != 1 {
		t.Fatalf("len: got %d, want 1", len(got))
	}
	if l := got[0].Length(); math.Abs(l-40) > 1e-9 {
		t.Errorf("kept length: got %v, want 40", l)
	}
	if len(got[0].Points) != 2 {
		t.Errorf("kept points: got %d, want 2", len(got[0].Points))
	}
}

func TestSimplifyPaths_ParallelKeepsOrder(t *testing.T) {
	var paths []Path
	for i := 0; i < 3*parallelPaths; i++ {
		y := float64(i)
		l := float64(5 + i%30)
		paths = append(paths, Path{Points: []geom.Point{{X: 0, Y: y}, {X: l / 2, Y: y}, {X: l, Y: y}}, Parent: -1})
	}
	got := simplifyPaths(paths, 0.5, 20)
	prev := -1.0
	for _, p := range got {
		if p.Length() < 20 {
			t.Errorf("path at y=%v shorter than minimum: %v", p.Points[0].Y, p.Length())
		}
		if p.Points[0].Y <= prev {
			t.Errorf("order broken: y=%v after y=%v", p.Points[0].Y, prev)
		}
		prev = p.Points[0].Y
	}
}

func TestCompact_ReparentsToSurvivingAncestor(t *testing.T) {
	paths := []Path{
		{Level: 0, Parent: -1, Children: []int{1}},
		{Level: 1, Parent: 0, IsHole: true, Children: []int{2}},
		{Level: 2, Parent: 1},
		{Level: 0, Parent: -1},
	}
	got := compact(paths, []bool{true, false, true, true})
	if len(got) != 3 {
		t.Fatalf("len: got %d, want 3", len(got))
	}
	if got[1].Parent != 0 {
		t.Errorf("Parent: got %d, want 0", got[1].Parent)
	}
	if got[1].Level != 1 || !got[1].IsHole {
		t.Errorf("Level/IsHole: got %d/%v, want 1/true", got[1].Level, got[1].IsHole)
	}
	if len(got[0].Children) != 1 || got[0].Children[0] != 1 {
		t.Errorf("Children: got %v, want [1]", got[0].Children)
	}
	if got[2].Parent != -1 || len(got[2].Children) != 0 {
		t.Errorf("root: got parent %d children %v", got[2].Parent, got[2].Children)
	}
}

func TestCompact_DroppedRootPromotesChild(t *testing.T) {
	paths := []Path{
		{Level: 0, Parent: -1, Children: []int{1}},
		{Level: 1, Parent: 0, IsHole: true},
	}
	got := compact(paths, []bool{false, true})
	if len(got) != 1 {
		t.Fatalf("len: got %d, want 1", len(got))
	}
	if got[0].Parent != -1 || got[0].Level != 0 || got[0].IsHole {
		t.Errorf("got parent %d level %d hole %v, want -1 0 false", got[0].Parent, got[0].Level, got[0].IsHole)
	}
}
