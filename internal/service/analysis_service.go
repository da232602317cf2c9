package service

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// AnalysisService runs the read side of the session: heatmap, density,
// grids and spatial queries
type AnalysisService struct {
	ws    *Workspace
	grids singleflight.Group
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(ws *Workspace) *AnalysisService {
	return &AnalysisService{ws: ws}
}

// SetFilter selects the heatmap tag and returns the canonical filter
func (s *AnalysisService) SetFilter(filter string) (string, error) {
	var out string
	err := s.ws.Do(func(sess *engine.Session) error {
		f, err := sess.SetFilter(filter)
		out = f
		return err
	})
	if err == nil {
		log.Debug().Str("filter", out).Msg("Heatmap filter set")
	}
	return out, err
}

// Filter returns the current heatmap tag
func (s *AnalysisService) Filter() string {
	var out string
	s.ws.Do(func(sess *engine.Session) error {
		out = sess.Filter()
		return nil
	})
	return out
}

// Heatmap returns the weighted points and kernel radius for a view
func (s *AnalysisService) Heatmap(view heatmap.View, radiusMeters float64) engine.HeatmapResult {
	var out engine.HeatmapResult
	s.ws.Do(func(sess *engine.Session) error {
		out = sess.Heatmap(view, radiusMeters)
		return nil
	})
	return out
}

// DensityCells aggregates the current heatmap points into geohash cells
func (s *AnalysisService) DensityCells(precision int) []heatmap.Cell {
	var out []heatmap.Cell
	s.ws.Do(func(sess *engine.Session) error {
		out = sess.DensityCells(precision)
		return nil
	})
	return out
}

// Grid generates or reuses the grid for boundary. Identical concurrent
// requests share one generation.
func (s *AnalysisService) Grid(boundary []spatial.Point, spacingMeters float64, color string) (*grid.Grid, error) {
	cfg := s.ws.Config()
	key := strconv.FormatUint(uint64(grid.KeyFor(boundary, spacingMeters, color, cfg.Grid)), 16)

	v, err, shared := s.grids.Do(key, func() (interface{}, error) {
		var g *grid.Grid
		err := s.ws.Do(func(sess *engine.Session) error {
			var err error
			g, err = sess.Grid(boundary, spacingMeters, color)
			return err
		})
		return g, err
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("key", key).Msg("Grid request shared")
	}
	return v.(*grid.Grid), nil
}

// CacheStats reports grid cache usage
type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// GridCacheStats returns grid cache hits and misses
func (s *AnalysisService) GridCacheStats() CacheStats {
	var out CacheStats
	s.ws.Do(func(sess *engine.Session) error {
		out.Hits, out.Misses = sess.GridCacheStats()
		return nil
	})
	return out
}

// Within returns the records whose coordinate lies inside boundary
func (s *AnalysisService) Within(boundary []spatial.Point) ([]models.Record, error) {
	var out []models.Record
	err := s.ws.Do(func(sess *engine.Session) error {
		var err error
		out, err = sess.RecordsWithin(boundary)
		return err
	})
	return out, err
}

// Nearest returns up to k records closest to p
func (s *AnalysisService) Nearest(p spatial.Point, k int) ([]engine.Neighbor, error) {
	var out []engine.Neighbor
	err := s.ws.Do(func(sess *engine.Session) error {
		var err error
		out, err = sess.NearestRecords(p, k)
		return err
	})
	return out, err
}

// AvailableTags lists tags found on records and visible layers
func (s *AnalysisService) AvailableTags() []string {
	var out []string
	s.ws.Do(func(sess *engine.Session) error {
		out = sess.AvailableTags().Strings()
		return nil
	})
	return out
}

// Attitude summarises strike and dip of the records matching filter
func (s *AnalysisService) Attitude(filter string) (engine.AttitudeSummary, error) {
	var out engine.AttitudeSummary
	err := s.ws.Do(func(sess *engine.Session) error {
		f := heatmap.NormalizeFilter(filter)
		if _, ok := tagging.Lookup(f); f != heatmap.FilterAll && !ok {
			return fmt.Errorf("%w: %q", engine.ErrUnknownTag, filter)
		}
		out = sess.AttitudeSummary(f)
		return nil
	})
	return out, err
}
