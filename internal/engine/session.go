// Package engine holds the in-memory state of one field session: saved
// records, imported layers, the heatmap filter, open measurements and the
// grid cache.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/dhconnelly/rtreego"

	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// Config carries the tunables of a Session
type Config struct {
	Transformer     *projection.Transformer
	SnapTolerance   float64
	MaxMeasurements int
	MeasurementIdle time.Duration
	Grid            grid.Options
	GridCacheSize   int
	Calibration     heatmap.Calibration
}

// DefaultConfig reproduces the legacy constants
func DefaultConfig() Config {
	return Config{
		Transformer:     projection.Legacy(),
		SnapTolerance:   spatial.DefaultSnapTolerance,
		MaxMeasurements: DefaultMaxMeasurements,
		MeasurementIdle: DefaultMeasurementIdle,
		Grid:            grid.DefaultOptions(),
		GridCacheSize:   grid.DefaultCacheSize,
		Calibration:     heatmap.DefaultCalibration(),
	}
}

// Session is one user's working state. It is not safe for concurrent use;
// callers serialise access.
type Session struct {
	cfg          Config
	records      []models.Record // ordered by ID
	layers       []models.ExternalLayer
	filter       string
	measurements map[string]*openMeasurement
	grids        *grid.Cache
	nextID       int64
	index        *rtreego.Rtree
	indexDirty   bool
	now          func() time.Time
}

// NewSession returns an empty session
func NewSession(cfg Config) *Session {
	if cfg.Transformer == nil {
		cfg.Transformer = projection.Legacy()
	}
	if cfg.SnapTolerance <= 0 {
		cfg.SnapTolerance = spatial.DefaultSnapTolerance
	}
	if cfg.MaxMeasurements <= 0 {
		cfg.MaxMeasurements = DefaultMaxMeasurements
	}
	return &Session{
		cfg:          cfg,
		filter:       heatmap.FilterAll,
		measurements: make(map[string]*openMeasurement),
		grids:        grid.NewCache(cfg.GridCacheSize),
		nextID:       1,
		indexDirty:   true,
		now:          time.Now,
	}
}

// Config returns the session configuration
func (s *Session) Config() Config {
	return s.cfg
}

// Load replaces the session contents with stored records and layers.
// Items that fail validation or collide with an earlier ID are skipped and
// counted.
func (s *Session) Load(records []models.Record, layers []models.ExternalLayer) (skipped int) {
	s.records = nil
	s.layers = nil
	s.nextID = 1
	s.indexDirty = true
	s.grids.Clear()

	for _, r := range records {
		if r.ID == 0 {
			skipped++
			continue
		}
		if _, err := s.AddRecord(r); err != nil {
			skipped++
		}
	}
	for _, l := range layers {
		if _, err := s.AddLayer(l); err != nil {
			skipped++
		}
	}
	return skipped
}

// AddRecord validates r and stores it. A zero ID is replaced with the next
// monotonic ID; a zero CreatedAt with the current time.
func (s *Session) AddRecord(r models.Record) (models.Record, error) {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return models.Record{}, err
	}

	if r.ID == 0 {
		r.ID = s.nextID
	} else if _, ok := s.find(r.ID); ok {
		return models.Record{}, fmt.Errorf("%w: %d", ErrDuplicateRecord, r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	if r.ID >= s.nextID {
		s.nextID = r.ID + 1
	}

	i := sort.Search(len(s.records), func(i int) bool { return s.records[i].ID >= r.ID })
	s.records = append(s.records, models.Record{})
	copy(s.records[i+1:], s.records[i:])
	s.records[i] = r
	s.indexDirty = true
	return r, nil
}

// UpdateRecord replaces the stored record with the same ID. CreatedAt is
// kept when r leaves it zero.
func (s *Session) UpdateRecord(r models.Record) (models.Record, error) {
	i, ok := s.find(r.ID)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: %d", ErrRecordNotFound, r.ID)
	}
	r.Normalize()
	if err := r.Validate(); err != nil {
		return models.Record{}, err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.records[i].CreatedAt
	}
	s.records[i] = r
	s.indexDirty = true
	return r, nil
}

// DeleteRecord removes a record
func (s *Session) DeleteRecord(id int64) error {
	i, ok := s.find(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.indexDirty = true
	return nil
}

// Record returns a record by ID
func (s *Session) Record(id int64) (models.Record, bool) {
	i, ok := s.find(id)
	if !ok {
		return models.Record{}, false
	}
	return s.records[i], true
}

// Records returns a copy of all records ordered by ID
func (s *Session) Records() []models.Record {
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

// NextID returns the ID the next new record will get
func (s *Session) NextID() int64 {
	return s.nextID
}

func (s *Session) find(id int64) (int, bool) {
	i := sort.Search(len(s.records), func(i int) bool { return s.records[i].ID >= id })
	if i < len(s.records) && s.records[i].ID == id {
		return i, true
	}
	return i, false
}
