package vectorize

import (
	"math"
	"testing"
	"time"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// grayFunc builds a width x height gray buffer from f.
func grayFunc(t *testing.T, width, height int, f func(x, y int) uint8) []uint8 {
	t.Helper()
	gray := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray[y*width+x] = f(x, y)
		}
	}
	return gray
}

func TestAnalyze_DiagonalContent(t *testing.T) {
	// A linear ramp brightening to the right and up has the same gradient
	// everywhere, at about 342 degrees: inside the 315-360 bin.
	gray := grayFunc(t, 64, 64, func(x, y int) uint8 {
		return uint8(64 + 3*x - y)
	})
	a := analyze(gray, 64, 64, nil)
	if !a.DiagonalContent {
		t.Errorf("DiagonalContent: got false, want true (histogram %v)", a.Histogram)
	}
	if a.Directionality != 1 {
		t.Errorf("Directionality: got %v, want 1 for a single orientation", a.Directionality)
	}
	// 0.9 for diagonal content, x0.7 for strong directionality.
	if math.Abs(a.DiagonalBenefit-0.63) > 1e-9 {
		t.Errorf("DiagonalBenefit: got %v, want 0.63", a.DiagonalBenefit)
	}
}

func TestAnalyze_UniformImage(t *testing.T) {
	gray := grayFunc(t, 40, 40, func(x, y int) uint8 { return 128 })
	a := analyze(gray, 40, 40, nil)
	if a.DiagonalContent || a.Architectural || a.Lighting != "" {
		t.Errorf("uniform image flagged: %+v", a)
	}
	if a.Directionality != 0 {
		t.Errorf("Directionality: got %v, want 0", a.Directionality)
	}
	if a.ReverseBenefit != 0.4 || a.DiagonalBenefit != 0.3 {
		t.Errorf("benefits: got %v/%v, want 0.4/0.3", a.ReverseBenefit, a.DiagonalBenefit)
	}
}

func TestLightingDirection(t *testing.T) {
	tests := []struct {
		name string
		f    func(x, y int) uint8
		want string
	}{
		{"bright left", func(x, y int) uint8 { return uint8(255 - 2*x) }, "left"},
		{"bright right", func(x, y int) uint8 { return uint8(2 * x) }, "right"},
		{"bright bottom", func(x, y int) uint8 { return uint8(2 * y) }, "bottom"},
		{"bright top", func(x, y int) uint8 { return uint8(255 - 2*y) }, "top"},
		{"flat", func(x, y int) uint8 { return 90 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := grayFunc(t, 100, 100, tt.f)
			if got := lightingDirection(gray, 100, 100); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountStraightPaths(t *testing.T) {
	straight := Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 40, Y: 1}, {X: 60, Y: 0}}}
	zigzag := Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 30, Y: 30}, {X: 0, Y: 60}, {X: 30, Y: 90}}}
	short := Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}, {X: 15, Y: 0}}}
	if got := countStraightPaths([]Path{straight, straight, zigzag, short}); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestSchedule(t *testing.T) {
	a := Analysis{ReverseBenefit: 0.8, DiagonalBenefit: 0.5}
	all := Config{ReversePass: true, DiagonalPass: true, DirectionalStrengthThreshold: 0.3}

	tests := []struct {
		name      string
		a         Analysis
		cfg       Config
		remaining time.Duration
		want      []edges.ScanOrder
	}{
		{"all fit", a, all, time.Second, []edges.ScanOrder{edges.ScanReverse, edges.ScanDiagonalNW, edges.ScanDiagonalNE}},
		{"budget for two", a, all, 100 * time.Millisecond, []edges.ScanOrder{edges.ScanReverse, edges.ScanDiagonalNW}},
		{"budget for none", a, all, 40 * time.Millisecond, nil},
		{"nothing left", a, all, 0, nil},
		{"diagonals win", Analysis{ReverseBenefit: 0.4, DiagonalBenefit: 0.9}, all, time.Second,
			[]edges.ScanOrder{edges.ScanDiagonalNW, edges.ScanDiagonalNE, edges.ScanReverse}},
		{"below threshold", Analysis{ReverseBenefit: 0.4, DiagonalBenefit: 0.3},
			Config{ReversePass: true, DiagonalPass: true, DirectionalStrengthThreshold: 0.35}, time.Second,
			[]edges.ScanOrder{edges.ScanReverse}},
		{"reverse only", a, Config{ReversePass: true, DirectionalStrengthThreshold: 0.3}, time.Second,
			[]edges.ScanOrder{edges.ScanReverse}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule(tt.a, tt.cfg, tt.remaining)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d passes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].order != tt.want[i] {
					t.Errorf("pass %d: got %v, want %v", i, got[i].order, tt.want[i])
				}
			}
		})
	}
}

func TestDirectionalPass(t *testing.T) {
	rev := directionalPass(edges.ScanReverse, 0.5, 100, 100)
	base := NewThresholds(0.4, 100, 100)
	if math.Abs(rev.edge.Sigma-1.6) > 1e-9 {
		t.Errorf("reverse sigma: got %v, want 1.6", rev.edge.Sigma)
	}
	if math.Abs(rev.edge.High-base.CannyHigh*0.85) > 1e-9 {
		t.Errorf("reverse high: got %v, want %v", rev.edge.High, base.CannyHigh*0.85)
	}
	if math.Abs(rev.minLength-base.MinStrokeLength*1.2) > 1e-9 {
		t.Errorf("reverse min length: got %v, want %v", rev.minLength, base.MinStrokeLength*1.2)
	}
	if rev.keep != nil {
		t.Errorf("reverse pass should not filter orientation")
	}

	diag := directionalPass(edges.ScanDiagonalNE, 0.5, 100, 100)
	if math.Abs(diag.edge.Sigma-1.4) > 1e-9 {
		t.Errorf("diagonal sigma: got %v, want 1.4", diag.edge.Sigma)
	}
	if math.Abs(diag.edge.Low-base.CannyLow*1.15) > 1e-9 {
		t.Errorf("diagonal low: got %v, want %v", diag.edge.Low, base.CannyLow*1.15)
	}
	if diag.keep == nil || diag.name != "diagonal_ne" {
		t.Errorf("diagonal pass: keep set %v, name %q", diag.keep != nil, diag.name)
	}
}

func TestDiagonalOriented(t *testing.T) {
	tests := []struct {
		name string
		p    Path
		want bool
	}{
		{"45 degrees", line(0, 0, 10, 10), true},
		{"shallow", line(0, 0, 10, 1), false},
		{"vertical", line(0, 0, 0, 10), false},
		{"tiny", line(0, 0, 0.5, 0.5), false},
		{"closed square box", Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, Closed: true}, true},
		{"closed flat box", Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 2}, {X: 0, Y: 2}}, Closed: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diagonalOriented(tt.p); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPassDetail(t *testing.T) {
	tests := []struct {
		base float64
		p    int
		want float64
	}{
		{0.5, 0, 0.5},
		{0.5, 1, 0.4},
		{0.5, 2, 0.3},
		{0.5, 3, 0.2},
		{0.5, 4, 0.175},
		{1.0, 9, 0.1},
		{0.0, 0, 0.0},
		{0.05, 0, 0.05},
		{0.05, 1, 0.1},
		{0.0, 5, 0.1},
	}
	for _, tt := range tests {
		if got := passDetail(tt.base, tt.p); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("passDetail(%v, %d): got %v, want %v", tt.base, tt.p, got, tt.want)
		}
	}
}
