package vectorize

import (
	"math"
	"time"

	"github.com/ironsheep/image-vectorize-mcp/internal/contour"
	"github.com/ironsheep/image-vectorize-mcp/internal/imaging"
)

const (
	// DefaultMaxProcessingTimeMs is the wall-clock budget when none is set.
	DefaultMaxProcessingTimeMs = 300_000

	// DefaultDirectionalThreshold is the lowest benefit a directional pass
	// needs to be scheduled.
	DefaultDirectionalThreshold = 0.3

	// MaxPassCount bounds multi-pass runs.
	MaxPassCount = 10

	// DefaultMinAreaRatio is the hierarchical area filter, as a fraction of
	// the image area.
	DefaultMinAreaRatio = 0.0001

	// DefaultStrokePxAt1080p is the stroke width for a 1920x1080 image.
	DefaultStrokePxAt1080p = 1.2
)

// Config controls one Vectorize call. Field tags match the tool argument
// names, so a JSON object can be decoded over DefaultConfig to override
// only the fields it names.
type Config struct {
	// Detail in [0,1]: higher keeps more, finer edges.
	Detail float64 `json:"detail"`

	Mode contour.Mode `json:"mode"`

	// MinAreaRatio drops hierarchical contours smaller than this fraction
	// of the image area (small holes inside large shapes are kept).
	MinAreaRatio float64 `json:"min_area_ratio"`

	// Multipass runs PassCount passes at decreasing detail.
	Multipass bool `json:"multipass"`
	PassCount int  `json:"pass_count"`

	// ReversePass and DiagonalPass enable directional passes.
	ReversePass  bool `json:"reverse_pass"`
	DiagonalPass bool `json:"diagonal_pass"`

	DirectionalStrengthThreshold float64 `json:"directional_strength_threshold"`

	// MaxProcessingTimeMs is the wall-clock budget for the whole call.
	MaxProcessingTimeMs int64 `json:"max_processing_time_ms"`

	BackgroundRemoval   bool                        `json:"background_removal"`
	BackgroundAlgorithm imaging.BackgroundAlgorithm `json:"background_algorithm"`
	BackgroundStrength  float64                     `json:"background_strength"`
	BackgroundThreshold int                         `json:"background_threshold"`

	// NoiseFiltering applies a median filter of NoiseRadius pixels.
	NoiseFiltering bool    `json:"noise_filtering"`
	NoiseRadius    float64 `json:"noise_radius"`

	// MaxImageSize is the largest side processed at full resolution.
	MaxImageSize int `json:"max_image_size"`

	// PreserveColors samples a stroke colour for every path.
	PreserveColors bool `json:"preserve_colors"`

	StrokePxAt1080p float64 `json:"stroke_px_at_1080p"`

	// Backend replaces the edge pipeline when set.
	Backend Backend `json:"-"`
}

// DefaultConfig returns the settings used for omitted tool arguments.
func DefaultConfig() Config {
	return Config{
		Detail:                       0.5,
		Mode:                         contour.ModeFlat,
		MinAreaRatio:                 DefaultMinAreaRatio,
		PassCount:                    1,
		DirectionalStrengthThreshold: DefaultDirectionalThreshold,
		MaxProcessingTimeMs:          DefaultMaxProcessingTimeMs,
		BackgroundAlgorithm:          imaging.BackgroundAuto,
		BackgroundStrength:           0.5,
		NoiseRadius:                  1,
		MaxImageSize:                 imaging.MaxImageSize,
		StrokePxAt1080p:              DefaultStrokePxAt1080p,
	}
}

// normalized returns a copy with every knob clamped to its valid range.
func (c Config) normalized() Config {
	c.Detail = clamp01(c.Detail)
	c.PassCount = max(1, min(c.PassCount, MaxPassCount))
	if c.MinAreaRatio < 0 || math.IsNaN(c.MinAreaRatio) {
		c.MinAreaRatio = 0
	}
	if c.MaxProcessingTimeMs <= 0 {
		c.MaxProcessingTimeMs = DefaultMaxProcessingTimeMs
	}
	if c.DirectionalStrengthThreshold < 0 || math.IsNaN(c.DirectionalStrengthThreshold) {
		c.DirectionalStrengthThreshold = DefaultDirectionalThreshold
	}
	if c.BackgroundAlgorithm == "" {
		c.BackgroundAlgorithm = imaging.BackgroundAuto
	}
	c.BackgroundStrength = clamp01(c.BackgroundStrength)
	if c.BackgroundThreshold < 0 || c.BackgroundThreshold > 255 {
		c.BackgroundThreshold = 0
	}
	if c.NoiseRadius < 0 {
		c.NoiseRadius = 0
	}
	if c.MaxImageSize <= 0 {
		c.MaxImageSize = imaging.MaxImageSize
	}
	if c.StrokePxAt1080p <= 0 {
		c.StrokePxAt1080p = DefaultStrokePxAt1080p
	}
	return c
}

// budget is the processing budget as a duration.
func (c Config) budget() time.Duration {
	return time.Duration(c.MaxProcessingTimeMs) * time.Millisecond
}

// directional reports whether any directional pass is enabled.
func (c Config) directional() bool {
	return c.ReversePass || c.DiagonalPass
}

// StrokeWidth scales strokePxAt1080p by the ratio of the image diagonal to
// the 1920x1080 diagonal and clamps the result to [0.5, 10].
func StrokeWidth(width, height int, strokePxAt1080p float64) float64 {
	diag := math.Hypot(float64(width), float64(height))
	ref := math.Hypot(1920, 1080)
	w := strokePxAt1080p * diag / ref
	return math.Max(0.5, math.Min(w, 10))
}
