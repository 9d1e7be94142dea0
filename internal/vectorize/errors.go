package vectorize

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is matched by every *DimensionError.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrMemoryBudget is matched by every *MemoryError.
	ErrMemoryBudget = errors.New("memory budget exceeded")
)

// DimensionError reports an image that cannot be processed because one of
// its sides is zero or negative.
type DimensionError struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invalid image dimensions %dx%d: %s", e.Width, e.Height, e.Details)
	}
	return fmt.Sprintf("invalid image dimensions %dx%d", e.Width, e.Height)
}

// Is reports whether target is ErrInvalidDimensions.
func (e *DimensionError) Is(target error) bool {
	return target == ErrInvalidDimensions
}

// MemoryError reports an allocation refused by a MemoryChecker.
type MemoryError struct {
	Requested int64  `json:"requested_bytes"`
	Available int64  `json:"available_bytes"`
	Purpose   string `json:"purpose"`
}

// Error implements the error interface.
func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory budget exceeded for %s: requested %d bytes, %d available",
		e.Purpose, e.Requested, e.Available)
}

// Is reports whether target is ErrMemoryBudget.
func (e *MemoryError) Is(target error) bool {
	return target == ErrMemoryBudget
}

// checkDimensions returns a *DimensionError unless both sides are positive.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return &DimensionError{
			Width:   width,
			Height:  height,
			Details: "image must have non-zero dimensions",
		}
	}
	return nil
}
