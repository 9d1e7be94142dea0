package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Denoise applies a median filter of the given radius. Median keeps step
// edges sharp while removing the isolated speckles that would otherwise
// turn into tiny contours. A non-positive radius returns img unchanged.
func Denoise(img *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return img
	}
	return ToRGBA(effect.Median(img, radius))
}
