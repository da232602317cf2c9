package compass

import (
	"math"

	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// DefaultWindow is the number of readings a HeadingSmoother averages
const DefaultWindow = 8

// HeadingSmoother averages the most recent headings on the circle so the
// readout does not jump between 359 and 0. Not safe for concurrent use.
type HeadingSmoother struct {
	window  []float64
	next    int
	filled  bool
	current float64
}

// NewHeadingSmoother averages up to size readings
func NewHeadingSmoother(size int) *HeadingSmoother {
	if size <= 0 {
		size = DefaultWindow
	}
	return &HeadingSmoother{window: make([]float64, size)}
}

// Add records a heading and returns the smoothed value in [0,360).
// Non-finite readings are ignored.
func (s *HeadingSmoother) Add(heading float64) float64 {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return s.current
	}
	s.window[s.next] = spatial.NormalizeDegrees(heading)
	s.next = (s.next + 1) % len(s.window)
	if s.next == 0 {
		s.filled = true
	}
	s.current = spatial.CircularMeanDegrees(s.samples(), nil)
	return s.current
}

// Heading returns the last smoothed value
func (s *HeadingSmoother) Heading() float64 {
	return s.current
}

// Stability is the mean resultant length of the window, 1 when steady
func (s *HeadingSmoother) Stability() float64 {
	return spatial.MeanResultantLength(s.samples(), nil)
}

// Reset drops all readings
func (s *HeadingSmoother) Reset() {
	s.next = 0
	s.filled = false
	s.current = 0
}

func (s *HeadingSmoother) samples() []float64 {
	if s.filled {
		return s.window
	}
	return s.window[:s.next]
}
