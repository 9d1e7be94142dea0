package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// ToRGBA returns a packed RGBA copy of img whose bounds start at (0,0).
//
// Every later stage indexes Pix directly, so the origin shift matters for
// sub-images and decoders that return offset bounds.
func ToRGBA(img image.Image) *image.RGBA {
	rgba := clone.AsRGBA(img)
	if rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	// A freshly allocated RGBA stores its Min pixel at Pix[0], so the buffer
	// can be reused under a zero-origin rectangle.
	return &image.RGBA{
		Pix:    rgba.Pix,
		Stride: rgba.Stride,
		Rect:   image.Rect(0, 0, rgba.Rect.Dx(), rgba.Rect.Dy()),
	}
}

// Luminance converts an RGB triple to gray using ITU-R BT.601 weights.
func Luminance(r, g, b uint8) uint8 {
	v := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Gray returns the row-major luminance of a zero-origin RGBA image, one byte
// per pixel. Alpha is ignored.
func Gray(img *image.RGBA) []uint8 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			out[y*w+x] = Luminance(row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}
