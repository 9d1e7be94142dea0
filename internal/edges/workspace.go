package edges

import (
	"errors"
	"fmt"

	"github.com/ironsheep/image-vectorize-mcp/internal/geom"
)

// ErrInvalidSize is returned when a Workspace is requested for an image with
// a non-positive width or height.
var ErrInvalidSize = errors.New("edges: invalid workspace size")

// EdgeState is the hysteresis classification of a pixel.
type EdgeState uint8

const (
	StateNone EdgeState = iota
	StateWeak
	StateStrong
)

// Workspace is an arena of pixel-sized buffers shared by the detection
// stages and the contour tracer.
//
// All slices have length Width*Height (the active region). Backing storage
// only grows: Resize to a smaller size keeps the larger arrays and reslices
// them. Buffer contents never survive Resize or Reset.
//
// A Workspace is not safe for concurrent use.
type Workspace struct {
	Width  int
	Height int

	Magnitude []uint8
	Direction []float32
	Temp      []uint8
	Visited   []bool
	State     []EdgeState

	// Points is a reusable scratch list for the contour tracer.
	Points []geom.Point

	// Queue holds pixel indices for breadth-first hysteresis.
	Queue []int
}

// NewWorkspace allocates zero-filled buffers for a width x height image.
func NewWorkspace(width, height int) (*Workspace, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	n := width * height
	return &Workspace{
		Width:     width,
		Height:    height,
		Magnitude: make([]uint8, n),
		Direction: make([]float32, n),
		Temp:      make([]uint8, n),
		Visited:   make([]bool, n),
		State:     make([]EdgeState, n),
		Points:    make([]geom.Point, 0, 256),
		Queue:     make([]int, 0, n/10+1),
	}, nil
}

// Resize prepares the workspace for a width x height image.
//
// Storage grows when the new size needs more room and is otherwise reused.
// The union of the previous and the new active region is zeroed, and the
// point list and queue are emptied.
func (ws *Workspace) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	oldN := ws.Width * ws.Height
	n := width * height

	if cap(ws.Magnitude) < n {
		ws.Magnitude = make([]uint8, n)
		ws.Direction = make([]float32, n)
		ws.Temp = make([]uint8, n)
		ws.Visited = make([]bool, n)
		ws.State = make([]EdgeState, n)
	} else {
		clearN := max(oldN, n)
		clear(ws.Magnitude[:clearN])
		clear(ws.Direction[:clearN])
		clear(ws.Temp[:clearN])
		clear(ws.Visited[:clearN])
		clear(ws.State[:clearN])
		ws.Magnitude = ws.Magnitude[:n]
		ws.Direction = ws.Direction[:n]
		ws.Temp = ws.Temp[:n]
		ws.Visited = ws.Visited[:n]
		ws.State = ws.State[:n]
	}

	ws.Width = width
	ws.Height = height
	ws.Points = ws.Points[:0]
	ws.Queue = ws.Queue[:0]
	return nil
}

// Reset zeroes the active region and empties the point list and queue.
func (ws *Workspace) Reset() {
	clear(ws.Magnitude)
	clear(ws.Direction)
	clear(ws.Temp)
	clear(ws.Visited)
	clear(ws.State)
	ws.Points = ws.Points[:0]
	ws.Queue = ws.Queue[:0]
}

// ClearVisited zeroes only the visited flags, leaving the mask in Temp intact.
func (ws *Workspace) ClearVisited() {
	clear(ws.Visited)
}

// Capacity returns the number of pixels the backing storage can hold
// without reallocating.
func (ws *Workspace) Capacity() int {
	return cap(ws.Magnitude)
}

// EstimateBytes returns the memory a Workspace for a width x height image is
// expected to need: one byte each for magnitude, temp, visited and state,
// four for direction, plus a tenth of the pixels as 8-byte queue entries.
func EstimateBytes(width, height int) int64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	pixels := int64(width) * int64(height)
	return pixels*(1+4+1+1+1) + (pixels/10)*8
}
