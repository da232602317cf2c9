package spatial

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyClosed is returned when a vertex is added to a closed ring
	ErrAlreadyClosed = errors.New("measurement ring already closed")

	// ErrInvalidGeometry is returned for vertex input that does not normalize to a flat ring
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidMode is returned for an unknown measurement mode
	ErrInvalidMode = errors.New("invalid measurement mode")
)

// GeometryError explains why raw vertex input was rejected
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}
