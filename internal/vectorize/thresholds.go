package vectorize

import (
	"math"

	"github.com/ironsheep/image-vectorize-mcp/internal/edges"
)

// ThresholdSet holds every tuning value derived from a detail level and an
// image size. It is the only place raw detail is turned into numbers; the
// rest of the pipeline reads from here.
type ThresholdSet struct {
	// Detail is the clamped input, kept for the blur sigma.
	Detail float64 `json:"detail"`

	// Epsilon is the Douglas-Peucker tolerance in pixels.
	Epsilon float64 `json:"dp_epsilon_px"`

	// MinStrokeLength is the shortest polyline kept, in pixels.
	MinStrokeLength float64 `json:"min_stroke_length_px"`

	// CannyHigh and CannyLow are hysteresis thresholds on the normalised
	// gradient range [0, 1].
	CannyHigh float64 `json:"canny_high_threshold"`
	CannyLow  float64 `json:"canny_low_threshold"`

	// Diagonal is the image diagonal in pixels.
	Diagonal float64 `json:"image_diagonal_px"`
}

// NewThresholds maps detail in [0,1] onto a ThresholdSet for a width x
// height image. Out-of-range detail is clamped and zero dimensions are
// treated as 1, so the function never fails.
//
//	eps  = clamp((0.003 + 0.012(1-d)) diag, 0.003 diag, 0.015 diag)
//	high = 0.1 + 0.4(1-d), low = 0.4 high
//	min  = 10 + 40(1-d)
//
// Every value is non-increasing in detail.
//
// Parameters:
//   - detail: Detail level, 0 for the coarsest output and 1 for the finest.
//   - width, height: Processing size in pixels, after any downscale.
//
// Returns:
//   - ThresholdSet: Simplification tolerance, minimum stroke length and
//     Canny thresholds, with Detail holding the clamped input.
func NewThresholds(detail float64, width, height int) ThresholdSet {
	d := clamp01(detail)
	w := float64(max(width, 1))
	h := float64(max(height, 1))
	diag := math.Max(1, math.Sqrt(w*w+h*h))

	eps := (0.003 + 0.012*(1-d)) * diag
	eps = math.Max(0.003*diag, math.Min(eps, 0.015*diag))

	high := 0.1 + 0.4*(1-d)

	return ThresholdSet{
		Detail:          d,
		Epsilon:         eps,
		MinStrokeLength: 10 + 40*(1-d),
		CannyHigh:       high,
		CannyLow:        0.4 * high,
		Diagonal:        diag,
	}
}

// EdgeOptions returns the classifier settings for a standard pass in the
// given scan order.
func (t ThresholdSet) EdgeOptions(order edges.ScanOrder) edges.Options {
	return edges.Options{
		Sigma: edges.SigmaForDetail(t.Detail),
		Low:   t.CannyLow,
		High:  t.CannyHigh,
		Order: order,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
