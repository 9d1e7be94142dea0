package vectorize

import (
	"math"
	"testing"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
)

func TestNewThresholds_Monotonic(t *testing.T) {
	sizes := [][2]int{{1, 1}, {100, 100}, {640, 480}, {4096, 2160}}
	for _, size := range sizes {
		prev := NewThresholds(0, size[0], size[1])
		for i := 1; i <= 20; i++ {
			d := float64(i) / 20
			cur := NewThresholds(d, size[0], size[1])
			if cur.Epsilon > prev.Epsilon {
				t.Errorf("%v detail %.2f: epsilon rose from %v to %v", size, d, prev.Epsilon, cur.Epsilon)
			}
			if cur.CannyHigh > prev.CannyHigh {
				t.Errorf("%v detail %.2f: high threshold rose from %v to %v", size, d, prev.CannyHigh, cur.CannyHigh)
			}
			if cur.MinStrokeLength > prev.MinStrokeLength {
				t.Errorf("%v detail %.2f: min length rose from %v to %v", size, d, prev.MinStrokeLength, cur.MinStrokeLength)
			}
			if math.Abs(cur.CannyLow-0.4*cur.CannyHigh) > 1e-12 {
				t.Errorf("%v detail %.2f: low %v is not 0.4 x high %v", size, d, cur.CannyLow, cur.CannyHigh)
			}
			prev = cur
		}
	}
}

func TestNewThresholds_Values(t *testing.T) {
	diag := math.Sqrt(100*100 + 100*100)
	tests := []struct {
		name       string
		detail     float64
		wantEps    float64
		wantHigh   float64
		wantMinLen float64
	}{
		{"full detail", 1, 0.003 * diag, 0.1, 10},
		{"no detail", 0, 0.015 * diag, 0.5, 50},
		{"half", 0.5, 0.009 * diag, 0.3, 30},
		{"clamped above", 2, 0.003 * diag, 0.1, 10},
		{"clamped below", -1, 0.015 * diag, 0.5, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewThresholds(tt.detail, 100, 100)
			if math.Abs(got.Epsilon-tt.wantEps) > 1e-9 {
				t.Errorf("Epsilon: got %v, want %v", got.Epsilon, tt.wantEps)
			}
			if math.Abs(got.CannyHigh-tt.wantHigh) > 1e-9 {
				t.Errorf("CannyHigh: got %v, want %v", got.CannyHigh, tt.wantHigh)
			}
			if math.Abs(got.MinStrokeLength-tt.wantMinLen) > 1e-9 {
				t.Errorf("MinStrokeLength: got %v, want %v", got.MinStrokeLength, tt.wantMinLen)
			}
			if math.Abs(got.Diagonal-diag) > 1e-9 {
				t.Errorf("Diagonal: got %v, want %v", got.Diagonal, diag)
			}
		})
	}
}

func TestNewThresholds_ZeroDimensions(t *testing.T) {
	got := NewThresholds(0.5, 0, 0)
	if got.Diagonal < 1 {
		t.Errorf("Diagonal: got %v, want >= 1", got.Diagonal)
	}
	if math.IsNaN(got.Epsilon) || got.Epsilon <= 0 {
		t.Errorf("Epsilon: got %v, want positive", got.Epsilon)
	}
}

func TestThresholdSet_EdgeOptions(t *testing.T) {
	ts := NewThresholds(0.5, 10, 10)
	opts := ts.EdgeOptions(edges.ScanReverse)
	if opts.Sigma != 1.5 {
		t.Errorf("Sigma: got %v, want 1.5", opts.Sigma)
	}
	if opts.High != ts.CannyHigh || opts.Low != ts.CannyLow {
		t.Errorf("thresholds: got %v/%v, want %v/%v", opts.Low, opts.High, ts.CannyLow, ts.CannyHigh)
	}
	if opts.Order != edges.ScanReverse {
		t.Errorf("Order: got %v, want reverse", opts.Order)
	}
}

func TestStrokeWidth(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		px   float64
		want float64
	}{
		{"reference size", 1920, 1080, 1.2, 1.2},
		{"double size", 3840, 2160, 1.2, 2.4},
		{"tiny image clamps low", 10, 10, 1.2, 0.5},
		{"huge stroke clamps high", 1920, 1080, 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrokeWidth(tt.w, tt.h, tt.px); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
