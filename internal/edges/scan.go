package edges

import "fmt"

// ScanOrder is the order in which pixels are visited when seeding hysteresis
// and when the contour tracer looks for start pixels. Different orders pick
// different start points at junctions, which is what makes directional
// passes recover strokes a standard pass merges away.
type ScanOrder int

const (
	// ScanStandard walks rows top to bottom, left to right.
	ScanStandard ScanOrder = iota
	// ScanReverse walks rows bottom to top, right to left.
	ScanReverse
	// ScanDiagonalNW walks anti-diagonals starting at the top-left corner.
	ScanDiagonalNW
	// ScanDiagonalNE walks diagonals starting at the top-right corner.
	ScanDiagonalNE
)

// String returns the pass name used in logs and reports.
func (o ScanOrder) String() string {
	switch o {
	case ScanStandard:
		return "standard"
	case ScanReverse:
		return "reverse"
	case ScanDiagonalNW:
		return "diagonal_nw"
	case ScanDiagonalNE:
		return "diagonal_ne"
	default:
		return fmt.Sprintf("scan(%d)", int(o))
	}
}

// ParseScanOrder converts a pass name to a ScanOrder. The empty string
// selects ScanStandard.
func ParseScanOrder(s string) (ScanOrder, error) {
	switch s {
	case "", "standard":
		return ScanStandard, nil
	case "reverse":
		return ScanReverse, nil
	case "diagonal_nw":
		return ScanDiagonalNW, nil
	case "diagonal_ne":
		return ScanDiagonalNE, nil
	default:
		return ScanStandard, fmt.Errorf("unknown scan order %q", s)
	}
}

// Diagonal reports whether o is one of the diagonal orders.
func (o ScanOrder) Diagonal() bool {
	return o == ScanDiagonalNW || o == ScanDiagonalNE
}

// Walk calls fn for every pixel of a width x height grid in order o.
// Walking stops early when fn returns false.
func (o ScanOrder) Walk(width, height int, fn func(x, y int) bool) {
	switch o {
	case ScanReverse:
		for y := height - 1; y >= 0; y-- {
			for x := width - 1; x >= 0; x-- {
				if !fn(x, y) {
					return
				}
			}
		}
	case ScanDiagonalNW:
		// d = x + y
		for d := 0; d <= width+height-2; d++ {
			y0 := max(0, d-(width-1))
			y1 := min(height-1, d)
			for y := y0; y <= y1; y++ {
				if !fn(d-y, y) {
					return
				}
			}
		}
	case ScanDiagonalNE:
		// d = (width-1-x) + y
		for d := 0; d <= width+height-2; d++ {
			y0 := max(0, d-(width-1))
			y1 := min(height-1, d)
			for y := y0; y <= y1; y++ {
				if !fn(width-1-(d-y), y) {
					return
				}
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !fn(x, y) {
					return
				}
			}
		}
	}
}
