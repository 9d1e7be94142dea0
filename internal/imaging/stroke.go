package imaging

import (
	"image"
	"math"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// strokeSampleSpacing is the distance in pixels between colour samples
	// along a polyline.
	strokeSampleSpacing = 2.0

	// maxStrokeSamples bounds the work per polyline.
	maxStrokeSamples = 64
)

// StrokeColor returns the perceptual average colour of img along pts as
// "#RRGGBB". Samples are spaced evenly along the polyline and averaged in
// Lab space so a dark line over a light background does not wash out to
// grey the way an RGB mean would. Fully transparent samples are skipped.
//
// The boolean is false when no opaque pixel was sampled.
func StrokeColor(img *image.RGBA, pts []geom.Point) (string, bool) {
	if len(pts) == 0 {
		return "", false
	}

	samples := samplePoints(pts)
	var l, a, b float64
	n := 0
	for _, p := range samples {
		x := int(math.Round(p.X))
		y := int(math.Round(p.Y))
		if !(image.Point{X: x, Y: y}.In(img.Rect)) {
			continue
		}
		o := img.PixOffset(x, y)
		if img.Pix[o+3] == 0 {
			continue
		}
		c := rgbColor(img.Pix[o], img.Pix[o+1], img.Pix[o+2])
		cl, ca, cb := c.Lab()
		l += cl
		a += ca
		b += cb
		n++
	}
	if n == 0 {
		return "", false
	}
	avg := colorful.Lab(l/float64(n), a/float64(n), b/float64(n)).Clamped()
	return avg.Hex(), true
}

// samplePoints returns points spaced strokeSampleSpacing apart along pts,
// thinned to at most maxStrokeSamples.
func samplePoints(pts []geom.Point) []geom.Point {
	out := []geom.Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := geom.Distance(a, b)
		steps := int(segLen / strokeSampleSpacing)
		for s := 1; s <= steps; s++ {
			t := float64(s) * strokeSampleSpacing / segLen
			out = append(out, geom.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t))
		}
		out = append(out, b)
	}
	if len(out) <= maxStrokeSamples {
		return out
	}
	thinned := make([]geom.Point, 0, maxStrokeSamples)
	stride := float64(len(out)-1) / float64(maxStrokeSamples-1)
	for i := 0; i < maxStrokeSamples; i++ {
		thinned = append(thinned, out[int(math.Round(float64(i)*stride))])
	}
	return thinned
}
