package engine

import (
	"github.com/jengzang/geofield-backend-go/internal/compass"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// ExportRow is a record with its derived values for sharing
type ExportRow struct {
	models.Record
	Projected  *projection.ProjectedPoint `json:"projected,omitempty" msgpack:"projected,omitempty"`
	StrikeText string                     `json:"strikeText" msgpack:"strikeText"`
	Attitude   string                     `json:"attitude" msgpack:"attitude"`
	Tags       []string                   `json:"tags" msgpack:"tags"`
	Length     float64                    `json:"length_m,omitempty" msgpack:"length_m,omitempty"`
	Area       float64                    `json:"area_m2,omitempty" msgpack:"area_m2,omitempty"`
}

// ExportRows derives projected coordinates, notation, tags and geometry
// measures for every record. A record whose coordinate cannot be projected
// is still exported, without Projected.
func (s *Session) ExportRows() []ExportRow {
	out := make([]ExportRow, 0, len(s.records))
	for i := range s.records {
		out = append(out, s.exportRow(&s.records[i]))
	}
	return out
}

func (s *Session) exportRow(r *models.Record) ExportRow {
	row := ExportRow{
		Record:     *r,
		StrikeText: compass.FormatStrike(r.Strike),
		Attitude:   compass.FormatAttitude(r.Strike, r.Dip),
		Tags:       r.Tags().Strings(),
	}
	if p, err := s.cfg.Transformer.ToProjected(r.Coordinate.Lon, r.Coordinate.Lat); err == nil {
		row.Projected = &p
	}

	ring := r.Ring()
	switch r.GeometryKind {
	case models.GeometryPolyline:
		row.Length = spatial.PathLength(ring)
	case models.GeometryPolygon:
		row.Length = spatial.PerimeterLength(ring)
		row.Area = spatial.PolygonAreaWith(s.cfg.Transformer, ring)
	}
	return row
}
