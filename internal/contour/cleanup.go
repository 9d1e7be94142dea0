package contour

import (
	"math"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

const (
	// duplicateDistSq is the squared distance under which consecutive points
	// are merged.
	duplicateDistSq = 0.1

	// reversalCos is the turn cosine below which a point is treated as a
	// back-and-forth spike (a turn sharper than about 144 degrees).
	reversalCos = -0.8
)

// cleanTrace removes near-duplicate consecutive points and spikes where the
// walk doubles back on itself. The result is a fresh slice.
func cleanTrace(pts []geom.Point) []geom.Point {
	deduped := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(deduped); n > 0 && geom.DistanceSq(deduped[n-1], p) < duplicateDistSq {
			continue
		}
		deduped = append(deduped, p)
	}
	if len(deduped) < 3 {
		return deduped
	}

	out := make([]geom.Point, 0, len(deduped))
	out = append(out, deduped[0])
	for i := 1; i < len(deduped)-1; i++ {
		if sharpTurn(out[len(out)-1], deduped[i], deduped[i+1]) {
			continue
		}
		out = append(out, deduped[i])
	}
	return append(out, deduped[len(deduped)-1])
}

// sharpTurn reports whether the path a -> b -> c reverses direction at b.
func sharpTurn(a, b, c geom.Point) bool {
	in := b.Sub(a)
	out := c.Sub(b)
	li := math.Hypot(in.X, in.Y)
	lo := math.Hypot(out.X, out.Y)
	if li == 0 || lo == 0 {
		return false
	}
	cos := (in.X*out.X + in.Y*out.Y) / (li * lo)
	return cos < reversalCos
}
