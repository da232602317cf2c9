package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// MeasurementView is a measurement snapshot with its ID
type MeasurementView struct {
	ID string `json:"id"`
	spatial.MeasurementSnapshot
}

// MeasurementService drives the open measurements of the session. Finished
// measurements are saved through the record service.
type MeasurementService struct {
	ws      *Workspace
	records *RecordService
}

// NewMeasurementService creates a measurement service
func NewMeasurementService(ws *Workspace, records *RecordService) *MeasurementService {
	return &MeasurementService{ws: ws, records: records}
}

// Start opens an empty measurement
func (s *MeasurementService) Start(mode string) (MeasurementView, error) {
	mm, err := spatial.ParseMeasureMode(mode)
	if err != nil {
		return MeasurementView{}, err
	}

	var view MeasurementView
	err = s.ws.Do(func(sess *engine.Session) error {
		id, m, err := sess.StartMeasurement(mm)
		if err != nil {
			return err
		}
		view = MeasurementView{ID: id, MeasurementSnapshot: m.Snapshot()}
		return nil
	})
	if err != nil {
		return MeasurementView{}, err
	}
	log.Debug().Str("id", view.ID).Str("mode", mode).Msg("Measurement started")
	return view, nil
}

// with runs fn on an open measurement with the session locked
func (s *MeasurementService) with(id string, fn func(m *spatial.Measurement) error) (MeasurementView, error) {
	var view MeasurementView
	err := s.ws.Do(func(sess *engine.Session) error {
		m, err := sess.Measurement(id)
		if err != nil {
			return err
		}
		err = fn(m)
		view = MeasurementView{ID: id, MeasurementSnapshot: m.Snapshot()}
		return err
	})
	return view, err
}

// Get returns the current state of a measurement
func (s *MeasurementService) Get(id string) (MeasurementView, error) {
	return s.with(id, func(*spatial.Measurement) error { return nil })
}

// AddVertex appends a vertex. The returned view is valid even when the
// vertex is rejected.
func (s *MeasurementService) AddVertex(id string, p spatial.Point) (MeasurementView, error) {
	return s.with(id, func(m *spatial.Measurement) error {
		_, err := m.AddVertex(p)
		return err
	})
}

// Undo removes the last vertex
func (s *MeasurementService) Undo(id string) (MeasurementView, error) {
	return s.with(id, func(m *spatial.Measurement) error {
		m.Undo()
		return nil
	})
}

// Reset clears every vertex
func (s *MeasurementService) Reset(id string) (MeasurementView, error) {
	return s.with(id, func(m *spatial.Measurement) error {
		m.Reset()
		return nil
	})
}

// Cancel discards a measurement
func (s *MeasurementService) Cancel(id string) error {
	return s.ws.Do(func(sess *engine.Session) error {
		return sess.CancelMeasurement(id)
	})
}

// Finish saves the measurement as a record and closes it. The measurement
// stays open when saving fails.
func (s *MeasurementService) Finish(ctx context.Context, id string, draft models.Record) (models.Record, error) {
	var rec models.Record
	err := s.ws.Do(func(sess *engine.Session) error {
		var err error
		rec, err = sess.FinishMeasurement(id, draft, func(d models.Record) (models.Record, error) {
			return s.records.create(ctx, sess, d)
		})
		return err
	})
	if err != nil {
		return models.Record{}, err
	}
	log.Debug().Str("id", id).Int64("record", rec.ID).Msg("Measurement saved")
	return rec, nil
}

// List returns the open measurement IDs, most recently used first
func (s *MeasurementService) List() []string {
	var ids []string
	_ = s.ws.Do(func(sess *engine.Session) error {
		ids = sess.MeasurementIDs()
		return nil
	})
	return ids
}

// Len returns the number of open measurements
func (s *MeasurementService) Len() int {
	return len(s.List())
}
