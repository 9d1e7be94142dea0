package edges

import "math"

// gaussianKernel returns a normalised 1-D Gaussian kernel with radius
// ceil(3*sigma).
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// GaussianBlur blurs the width x height grayscale image src into dst using
// scratch for the intermediate horizontal pass. Borders replicate the edge
// pixel. A non-positive sigma copies src unchanged.
//
// src, dst and scratch must each hold width*height bytes; dst and scratch
// must not alias src or each other.
func GaussianBlur(src, dst, scratch []uint8, width, height int, sigma float64) {
	n := width * height
	if sigma <= 0 {
		copy(dst[:n], src[:n])
		return
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := clampInt(x+k, 0, width-1)
				sum += float64(src[row+sx]) * kernel[k+radius]
			}
			scratch[row+x] = toByte(sum)
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sy := clampInt(y+k, 0, height-1)
				sum += float64(scratch[sy*width+x]) * kernel[k+radius]
			}
			dst[y*width+x] = toByte(sum)
		}
	}
}

// clampInt constrains val to [lo, hi].
func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// toByte rounds v and clamps it into a byte.
func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
