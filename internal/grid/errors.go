package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpacing is returned for a spacing that is not a positive finite number
	ErrInvalidSpacing = errors.New("invalid grid spacing")

	// ErrInvalidBoundary is returned for a boundary that cannot enclose a grid
	ErrInvalidBoundary = errors.New("invalid grid boundary")

	// ErrGridTooDense is returned when the spacing would produce more candidate lines than allowed
	ErrGridTooDense = errors.New("grid too dense")
)

// SpacingError carries the rejected spacing
type SpacingError struct {
	Spacing float64
}

func (e *SpacingError) Error() string {
	return fmt.Sprintf("invalid grid spacing %v: must be a positive number of meters", e.Spacing)
}

func (e *SpacingError) Unwrap() error {
	return ErrInvalidSpacing
}

// BoundaryError explains why a boundary was rejected
type BoundaryError struct {
	Vertices int
	Reason   string
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("invalid grid boundary (%d vertices): %s", e.Vertices, e.Reason)
}

func (e *BoundaryError) Unwrap() error {
	return ErrInvalidBoundary
}
