package projection

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCoordinate is returned for NaN, infinite or out of range input.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrProjectionFailure is returned when the projection math does not produce a finite result.
	ErrProjectionFailure = errors.New("projection failure")
)

// CoordinateError describes the geographic input that was rejected
type CoordinateError struct {
	Lat, Lon float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%f lon=%f (lat must be ±90, lon must be ±180)",
		e.Lat, e.Lon)
}

func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}

// GridError describes projected input that was rejected
type GridError struct {
	Easting, Northing float64
	Zone              int
	Reason            string
}

func (e *GridError) Error() string {
	return fmt.Sprintf("invalid projected coordinate: E=%f N=%f zone=%d: %s",
		e.Easting, e.Northing, e.Zone, e.Reason)
}

func (e *GridError) Unwrap() error {
	return ErrInvalidCoordinate
}

// FailureError records which direction of the transform broke down
type FailureError struct {
	Op   string
	X, Y float64
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("projection failure in %s at (%f, %f)", e.Op, e.X, e.Y)
}

func (e *FailureError) Unwrap() error {
	return ErrProjectionFailure
}
