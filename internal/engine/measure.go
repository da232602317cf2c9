package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// Measurement limits
const (
	DefaultMaxMeasurements = 16
	DefaultMeasurementIdle = 2 * time.Hour
)

type openMeasurement struct {
	m       *spatial.Measurement
	touched time.Time
}

// SaveFunc persists a finished measurement draft and returns the stored record
type SaveFunc func(draft models.Record) (models.Record, error)

// StartMeasurement opens an empty measurement and returns its ID. Measurements
// idle for longer than MeasurementIdle are dropped first; if MaxMeasurements
// are still open the least recently used one is evicted.
func (s *Session) StartMeasurement(mode spatial.MeasureMode) (string, *spatial.Measurement, error) {
	m, err := spatial.NewMeasurement(mode,
		spatial.WithSnapTolerance(s.cfg.SnapTolerance),
		spatial.WithTransformer(s.cfg.Transformer),
	)
	if err != nil {
		return "", nil, err
	}

	s.expireMeasurements()
	for len(s.measurements) >= s.cfg.MaxMeasurements {
		s.evictMeasurement()
	}

	id := uuid.NewString()
	s.measurements[id] = &openMeasurement{m: m, touched: s.now()}
	return id, m, nil
}

// Measurement returns an open measurement and marks it used
func (s *Session) Measurement(id string) (*spatial.Measurement, error) {
	s.expireMeasurements()
	om, ok := s.measurements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoMeasurement, id)
	}
	om.touched = s.now()
	return om.m, nil
}

// MeasurementIDs lists the open measurements, most recently used first
func (s *Session) MeasurementIDs() []string {
	s.expireMeasurements()
	ids := make([]string, 0, len(s.measurements))
	for id := range s.measurements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.measurements[ids[i]].touched, s.measurements[ids[j]].touched
		if !a.Equal(b) {
			return a.After(b)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// CancelMeasurement discards an open measurement
func (s *Session) CancelMeasurement(id string) error {
	if _, ok := s.measurements[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNoMeasurement, id)
	}
	delete(s.measurements, id)
	return nil
}

// FinishMeasurement turns an open measurement into a record and closes it.
// save stores the draft; a nil save adds it to the session directly. The
// measurement stays open when the draft is incomplete or save fails.
func (s *Session) FinishMeasurement(id string, draft models.Record, save SaveFunc) (models.Record, error) {
	m, err := s.Measurement(id)
	if err != nil {
		return models.Record{}, err
	}
	draft, err = MeasurementRecord(m, draft)
	if err != nil {
		return models.Record{}, err
	}
	if save == nil {
		save = s.AddRecord
	}
	rec, err := save(draft)
	if err != nil {
		return models.Record{}, err
	}
	delete(s.measurements, id)
	return rec, nil
}

func (s *Session) expireMeasurements() {
	if s.cfg.MeasurementIdle <= 0 {
		return
	}
	cutoff := s.now().Add(-s.cfg.MeasurementIdle)
	for id, om := range s.measurements {
		if om.touched.Before(cutoff) {
			delete(s.measurements, id)
		}
	}
}

func (s *Session) evictMeasurement() {
	var oldest string
	for id, om := range s.measurements {
		if oldest == "" || om.touched.Before(s.measurements[oldest].touched) ||
			(om.touched.Equal(s.measurements[oldest].touched) && id < oldest) {
			oldest = id
		}
	}
	delete(s.measurements, oldest)
}

// MeasurementRecord fills the geometry of draft from m. Polygon measurements
// with three or more vertices become polygon records stored as open rings;
// anything else becomes a polyline. The record coordinate is the first vertex
// of a polyline or the vertex centroid of a polygon. The returned record has
// a zero ID.
func MeasurementRecord(m *spatial.Measurement, draft models.Record) (models.Record, error) {
	ring := m.Ring()
	if len(ring) < 2 {
		return models.Record{}, fmt.Errorf("%w: have %d", ErrMeasurementIncomplete, len(ring))
	}

	draft.ID = 0
	draft.Geometry = models.FromPoints(ring)
	if m.Mode() == spatial.ModePolygon && len(ring) >= 3 {
		draft.GeometryKind = models.GeometryPolygon
		c := spatial.Centroid(ring)
		draft.Coordinate = models.GeoPoint{Lat: c.Lat, Lon: c.Lon}
	} else {
		draft.GeometryKind = models.GeometryPolyline
		draft.Coordinate = models.GeoPoint{Lat: ring[0].Lat, Lon: ring[0].Lon}
	}
	return draft, nil
}
