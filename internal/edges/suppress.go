package edges

import "math"

// Direction bins used by non-maximum suppression. The bin names describe
// the gradient, so binHorizontal compares left and right neighbours.
const (
	binHorizontal = iota
	binDiagonalDown // gradient toward +x,+y (south-east in image space)
	binVertical
	binDiagonalUp // gradient toward +x,-y
)

// quantize maps an atan2 angle to one of four bins using fixed pi/8
// boundaries.
func quantize(angle float64) int {
	// Fold into [0, pi): opposite gradients share a bin.
	if angle < 0 {
		angle += math.Pi
	}
	switch {
	case angle < math.Pi/8 || angle >= 7*math.Pi/8:
		return binHorizontal
	case angle < 3*math.Pi/8:
		return binDiagonalDown
	case angle < 5*math.Pi/8:
		return binVertical
	default:
		return binDiagonalUp
	}
}

// NonMaxSuppress thins the gradient magnitude mag to ridges one pixel wide
// and writes the surviving magnitudes to out (others become zero).
//
// A pixel survives when it is strictly greater than both neighbours along
// its quantised gradient direction. On a plateau where it only ties, the
// survivor is chosen by parity: (x+y) even for horizontal and vertical
// bins, even x for diagonal bins. The one-pixel border is always zero.
//
// out must not alias mag.
func NonMaxSuppress(mag []uint8, dir []float32, out []uint8, width, height int) {
	forRows(width, height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				i := y*width + x
				out[i] = 0
				if x == 0 || y == 0 || x == width-1 || y == height-1 {
					continue
				}
				m := mag[i]
				if m == 0 {
					continue
				}

				bin := quantize(float64(dir[i]))
				var n1, n2 uint8
				switch bin {
				case binHorizontal:
					n1, n2 = mag[i-1], mag[i+1]
				case binDiagonalDown:
					n1, n2 = mag[i-width-1], mag[i+width+1]
				case binVertical:
					n1, n2 = mag[i-width], mag[i+width]
				default:
					n1, n2 = mag[i-width+1], mag[i+width-1]
				}

				switch {
				case m > n1 && m > n2:
					out[i] = m
				case m >= n1 && m >= n2:
					if tieWinner(bin, x, y) {
						out[i] = m
					}
				}
			}
		}
	})
}

// tieWinner applies the plateau parity rule.
func tieWinner(bin, x, y int) bool {
	if bin == binHorizontal || bin == binVertical {
		return (x+y)%2 == 0
	}
	return x%2 == 0
}
