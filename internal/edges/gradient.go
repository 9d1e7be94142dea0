package edges

import "math"

// sobelAt returns the Sobel x and y responses at (x, y), replicating border
// pixels.
func sobelAt(src []uint8, width, height, x, y int) (gx, gy float64) {
	xm := clampInt(x-1, 0, width-1)
	xp := clampInt(x+1, 0, width-1)
	ym := clampInt(y-1, 0, height-1) * width
	y0 := y * width
	yp := clampInt(y+1, 0, height-1) * width

	tl, tc, tr := float64(src[ym+xm]), float64(src[ym+x]), float64(src[ym+xp])
	ml, mr := float64(src[y0+xm]), float64(src[y0+xp])
	bl, bc, br := float64(src[yp+xm]), float64(src[yp+x]), float64(src[yp+xp])

	gx = (tr + 2*mr + br) - (tl + 2*ml + bl)
	gy = (bl + 2*bc + br) - (tl + 2*tc + tr)
	return gx, gy
}

// GradientAt returns the Sobel response of a grayscale image at (x, y).
// It is used by image analysis that samples gradients sparsely instead of
// computing a full magnitude buffer.
func GradientAt(gray []uint8, width, height, x, y int) (gx, gy float64) {
	return sobelAt(gray, width, height, x, y)
}

// Sobel computes the gradient of src into mag and dir.
//
// The magnitude sqrt(gx² + gy²) is clamped to 255; the direction is
// atan2(gy, gx) in radians. Images above a size threshold are processed in
// parallel row bands.
func Sobel(src, mag []uint8, dir []float32, width, height int) {
	forRows(width, height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				gx, gy := sobelAt(src, width, height, x, y)
				m := math.Sqrt(gx*gx + gy*gy)
				if m > 255 {
					m = 255
				}
				i := y*width + x
				mag[i] = uint8(m)
				dir[i] = float32(math.Atan2(gy, gx))
			}
		}
	})
}
