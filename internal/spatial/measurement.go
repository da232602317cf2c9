package spatial

import (
	"fmt"

	"github.com/jengzang/geofield-backend-go/internal/projection"
)

// DefaultSnapTolerance is the distance in meters within which a tap on the
// first vertex closes a polygon
const DefaultSnapTolerance = 30.0

// MeasureMode is what the user intends to draw
type MeasureMode string

const (
	ModeLine    MeasureMode = "line"
	ModePolygon MeasureMode = "polygon"
)

// ParseMeasureMode validates a mode string
func ParseMeasureMode(s string) (MeasureMode, error) {
	switch MeasureMode(s) {
	case ModeLine, ModePolygon:
		return MeasureMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MeasureState is the drawing state of a measurement
type MeasureState string

const (
	StateIdle    MeasureState = "idle"
	StateDrawing MeasureState = "drawing"
	StateClosed  MeasureState = "closed"
)

// Measurement is one interactive distance/area measurement. While closed,
// the live vertex list repeats the first vertex at the end. A Measurement
// is not safe for concurrent use.
type Measurement struct {
	mode          MeasureMode
	snapTolerance float64
	transformer   *projection.Transformer
	points        []Point
	closed        bool
}

// MeasurementOption configures a Measurement
type MeasurementOption func(*Measurement)

// WithSnapTolerance sets the closing distance in meters
func WithSnapTolerance(meters float64) MeasurementOption {
	return func(m *Measurement) {
		if meters > 0 {
			m.snapTolerance = meters
		}
	}
}

// WithTransformer sets the projection used for area
func WithTransformer(t *projection.Transformer) MeasurementOption {
	return func(m *Measurement) {
		if t != nil {
			m.transformer = t
		}
	}
}

// NewMeasurement starts an empty measurement in the given mode
func NewMeasurement(mode MeasureMode, opts ...MeasurementOption) (*Measurement, error) {
	if _, err := ParseMeasureMode(string(mode)); err != nil {
		return nil, err
	}
	m := &Measurement{
		mode:          mode,
		snapTolerance: DefaultSnapTolerance,
		transformer:   projection.Legacy(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Mode returns the drawing intent
func (m *Measurement) Mode() MeasureMode {
	return m.mode
}

// State derives the current state from the vertex list
func (m *Measurement) State() MeasureState {
	switch {
	case m.closed:
		return StateClosed
	case len(m.points) == 0:
		return StateIdle
	default:
		return StateDrawing
	}
}

// Closed reports whether the polygon ring has been closed
func (m *Measurement) Closed() bool {
	return m.closed
}

// AddVertex appends p. In polygon mode, a vertex within the snap tolerance
// of the first one closes the ring once three vertices exist; the first
// vertex is then repeated instead of appending p.
func (m *Measurement) AddVertex(p Point) (MeasureState, error) {
	if m.closed {
		return m.State(), ErrAlreadyClosed
	}
	if err := ValidatePoint(p); err != nil {
		return m.State(), err
	}

	if m.mode == ModePolygon && len(m.points) >= 3 &&
		HaversineDistance(p, m.points[0]) <= m.snapTolerance {
		m.points = append(m.points, m.points[0])
		m.closed = true
		return m.State(), nil
	}

	m.points = append(m.points, p)
	return m.State(), nil
}

// Undo removes the last vertex. Undoing a closed ring removes the repeated
// closing vertex and reopens it.
func (m *Measurement) Undo() MeasureState {
	if len(m.points) == 0 {
		return StateIdle
	}
	m.points = m.points[:len(m.points)-1]
	m.closed = false
	return m.State()
}

// Reset clears all vertices
func (m *Measurement) Reset() {
	m.points = nil
	m.closed = false
}

// Len returns the number of live vertices
func (m *Measurement) Len() int {
	return len(m.points)
}

// Points returns a copy of the live vertex list
func (m *Measurement) Points() []Point {
	out := make([]Point, len(m.points))
	copy(out, m.points)
	return out
}

// Ring returns the vertices without a repeated closing vertex
func (m *Measurement) Ring() []Point {
	pts := m.points
	if m.closed && len(pts) > 0 {
		pts = pts[:len(pts)-1]
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}

// Length is the path length in meters; a closed ring includes its closing edge
func (m *Measurement) Length() float64 {
	return PathLength(m.points)
}

// Area is the enclosed area in square meters for polygon mode
func (m *Measurement) Area() float64 {
	if m.mode != ModePolygon {
		return 0
	}
	return PolygonAreaWith(m.transformer, m.Ring())
}

// MeasurementSnapshot is a plain copy of a measurement for rendering
type MeasurementSnapshot struct {
	Mode     MeasureMode  `json:"mode"`
	State    MeasureState `json:"state"`
	Points   []Point      `json:"points"`
	Segments []Segment    `json:"segments,omitempty"`
	Length   float64      `json:"length_m"`
	Area     float64      `json:"area_m2"`
}

// Snapshot copies the measurement
func (m *Measurement) Snapshot() MeasurementSnapshot {
	return MeasurementSnapshot{
		Mode:     m.mode,
		State:    m.State(),
		Points:   m.Points(),
		Segments: Segments(m.points),
		Length:   m.Length(),
		Area:     m.Area(),
	}
}
