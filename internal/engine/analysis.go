package engine

import (
	"github.com/jengzang/geofield-backend-go/internal/compass"
	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/stats"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// HeatmapResult is everything the renderer needs for one density layer
type HeatmapResult struct {
	Filter         string                  `json:"filter"`
	Points         []heatmap.WeightedPoint `json:"points"`
	Count          int                     `json:"count"`
	Radius         int                     `json:"radius_px"`
	MetersPerPixel float64                 `json:"meters_per_pixel"`
}

// WeightedPoints returns the density samples for the current filter
func (s *Session) WeightedPoints() []heatmap.WeightedPoint {
	return heatmap.BuildWeightedPoints(s.records, s.layers, s.filter)
}

// Heatmap builds the weighted points and kernel radius for a view. A zero
// radius selects the zoom heuristic.
func (s *Session) Heatmap(view heatmap.View, radiusMeters float64) HeatmapResult {
	points := s.WeightedPoints()
	return HeatmapResult{
		Filter:         s.filter,
		Points:         points,
		Count:          len(points),
		Radius:         heatmap.Radius(radiusMeters, view, s.cfg.Calibration),
		MetersPerPixel: heatmap.MetersPerPixel(view),
	}
}

// DensityCells aggregates the current weighted points into geohash cells
func (s *Session) DensityCells(precision int) []heatmap.Cell {
	return heatmap.DensityCells(s.WeightedPoints(), precision)
}

// Grid returns the grid for boundary, reusing a cached one for identical input
func (s *Session) Grid(boundary []spatial.Point, spacingMeters float64, color string) (*grid.Grid, error) {
	return s.grids.Generate(boundary, spacingMeters, color, s.cfg.Grid)
}

// GridCacheStats returns grid cache hits and misses
func (s *Session) GridCacheStats() (hits, misses int) {
	return s.grids.Stats()
}

// AttitudeSummary describes the orientation of a set of records
type AttitudeSummary struct {
	Count          int           `json:"count"`
	MeanStrike     float64       `json:"mean_strike"`
	MeanStrikeText string        `json:"mean_strike_text"`
	Concentration  float64       `json:"concentration"` // mean resultant length of the strike axes
	Dip            stats.Summary `json:"dip"`
}

// AttitudeSummary summarises strike and dip of records carrying filter
// (or all records). Strikes are axes, so the mean is taken on doubled angles.
func (s *Session) AttitudeSummary(filter string) AttitudeSummary {
	filter = heatmap.NormalizeFilter(filter)
	all := filter == heatmap.FilterAll
	tag, known := tagging.Lookup(filter)
	if !all && !known {
		return AttitudeSummary{}
	}

	var doubled, dips []float64
	for i := range s.records {
		r := &s.records[i]
		if !all && !r.Tags().Has(tag) {
			continue
		}
		doubled = append(doubled, 2*r.Strike)
		dips = append(dips, r.Dip)
	}

	out := AttitudeSummary{Count: len(dips), Dip: stats.Summarize(dips)}
	if len(doubled) == 0 {
		return out
	}
	out.MeanStrike = spatial.CircularMeanDegrees(doubled, nil) / 2
	out.Concentration = spatial.MeanResultantLength(doubled, nil)
	out.MeanStrikeText = compass.FormatStrike(out.MeanStrike)
	return out
}
