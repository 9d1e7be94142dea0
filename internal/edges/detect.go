package edges

import (
	"fmt"
	"math"
)

// Options controls one run of the edge classifier.
type Options struct {
	// Sigma is the Gaussian blur standard deviation. Zero disables blurring.
	Sigma float64

	// Low and High are the hysteresis thresholds as fractions of the full
	// gradient range [0, 1]. Low is normally 0.4 x High.
	Low  float64
	High float64

	// Order is the pixel order used to seed hysteresis.
	Order ScanOrder
}

// SigmaForDetail returns the blur used for a standard pass: 1 + detail.
// More detail means less smoothing relative to the finer thresholds.
func SigmaForDetail(detail float64) float64 {
	return 1.0 + detail
}

// thresholdByte converts a normalised threshold to the byte scale of the
// magnitude buffer.
func thresholdByte(v float64) uint8 {
	if v <= 0 {
		return 1
	}
	return toByte(math.Max(1, v*255))
}

// Detect runs blur, Sobel, suppression and hysteresis over gray and returns
// the binary edge mask (0 or 255 per pixel).
//
// gray must hold ws.Width*ws.Height bytes. The workspace is reset first, so
// nothing from a previous run leaks into this one. The returned slice
// aliases ws.Temp.
//
// # Algorithm
//
//  1. Gaussian blur with opts.Sigma: gray -> Temp (Magnitude as scratch)
//  2. Sobel: Temp -> Magnitude, Direction
//  3. Non-maximum suppression: Magnitude, Direction -> Temp
//  4. Hysteresis: Temp -> State -> Temp (0/255)
//
// Parameters:
//   - ws: Workspace sized for the image. Its buffers are overwritten.
//   - gray: Luminance, row-major, ws.Width*ws.Height bytes.
//   - opts: Blur sigma, normalised hysteresis thresholds and scan order.
//
// Returns:
//   - []uint8: The edge mask, aliasing ws.Temp until the next call.
//   - error: Non-nil if the workspace is empty or gray has the wrong size.
//
// An all-zero or uniform input yields an all-zero mask.
//
// # Errors
//
//   - Returns ErrInvalidSize if the workspace has no pixels
//   - Returns error if len(gray) != ws.Width*ws.Height
func Detect(ws *Workspace, gray []uint8, opts Options) ([]uint8, error) {
	n := ws.Width * ws.Height
	if n == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, ws.Width, ws.Height)
	}
	if len(gray) != n {
		return nil, fmt.Errorf("gray buffer has %d pixels, workspace expects %d", len(gray), n)
	}

	ws.Reset()

	GaussianBlur(gray, ws.Temp, ws.Magnitude, ws.Width, ws.Height, opts.Sigma)
	Sobel(ws.Temp, ws.Magnitude, ws.Direction, ws.Width, ws.Height)
	NonMaxSuppress(ws.Magnitude, ws.Direction, ws.Temp, ws.Width, ws.Height)

	high := thresholdByte(opts.High)
	low := thresholdByte(opts.Low)
	if low > high {
		low = high
	}
	Hysteresis(ws, low, high, opts.Order)

	return ws.Temp, nil
}

// CountEdges returns the number of set pixels in a 0/255 mask.
func CountEdges(mask []uint8) int {
	count := 0
	for _, v := range mask {
		if v != 0 {
			count++
		}
	}
	return count
}
