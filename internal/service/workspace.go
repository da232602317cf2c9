// Package service serialises access to the field session and keeps it in
// step with the persistent store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/repository"
)

var (
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrInvalidGeoJSON       = errors.New("invalid GeoJSON")
	ErrMeasurementNotFound  = engine.ErrNoMeasurement
	ErrRecordStoreOutOfSync = errors.New("record store out of sync")
)

// Workspace owns the single engine session. Every access goes through Do,
// which holds one mutex for the whole call.
type Workspace struct {
	mu      sync.Mutex
	session *engine.Session
}

// NewWorkspace wraps a fresh session built from cfg
func NewWorkspace(cfg engine.Config) *Workspace {
	return &Workspace{session: engine.NewSession(cfg)}
}

// Do runs fn with exclusive access to the session
func (w *Workspace) Do(fn func(s *engine.Session) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.session)
}

// Config returns the session configuration
func (w *Workspace) Config() engine.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.Config()
}

// Load fills the session from the stores. Stored items the engine rejects
// are skipped and logged.
func (w *Workspace) Load(ctx context.Context, records repository.RecordRepository, layers repository.LayerRepository) error {
	recs, err := records.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	ls, err := layers.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load layers: %w", err)
	}

	return w.Do(func(s *engine.Session) error {
		skipped := s.Load(recs, ls)
		if skipped > 0 {
			log.Warn().Int("skipped", skipped).Msg("Skipped invalid stored items")
		}
		log.Info().
			Int("records", len(s.Records())).
			Int("layers", len(s.Layers())).
			Int64("next_id", s.NextID()).
			Msg("Workspace loaded")
		return nil
	})
}
