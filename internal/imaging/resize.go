package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MaxImageSize is the default largest side processed at full resolution.
const MaxImageSize = 4096

// FitWithin downscales img so neither side exceeds maxSide, preserving the
// aspect ratio with a Lanczos filter.
//
// It returns the image to process and the factor that maps its coordinates
// back to the source (source = processed * scale). Images that already fit,
// or a non-positive maxSide, are returned unchanged with scale 1.
func FitWithin(img *image.RGBA, maxSide int) (*image.RGBA, float64) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img, 1.0
	}

	fitted := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	scale := float64(w) / float64(fitted.Bounds().Dx())
	return ToRGBA(fitted), scale
}

// FitSize returns the dimensions FitWithin produces for a width x height
// image without resampling it.
func FitSize(width, height, maxSide int) (int, int) {
	if maxSide <= 0 || (width <= maxSide && height <= maxSide) {
		return width, height
	}
	if width >= height {
		return maxSide, max(1, int(math.Round(float64(height)*float64(maxSide)/float64(width))))
	}
	return max(1, int(math.Round(float64(width)*float64(maxSide)/float64(height)))), maxSide
}
