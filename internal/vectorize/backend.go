package vectorize

import (
	"image"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// Polyline is raw backend output before simplification.
type Polyline struct {
	Points []geom.Point
	Closed bool
}

// Backend is an alternative tracer. Its polylines go through the same
// simplification and length filter as edge-traced contours and are
// reported as one pass.
type Backend interface {
	// Name identifies the backend in pass reports.
	Name() string

	// Trace returns polylines in img's pixel coordinates.
	Trace(img *image.RGBA, t ThresholdSet) ([]Polyline, error)

	// Precise reports whether the polylines are already exact, in which
	// case the minimum length is relaxed to PreciseMinLength.
	Precise() bool
}
