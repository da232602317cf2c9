package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// ErrInvalidRecord is returned by Record.Validate
var ErrInvalidRecord = errors.New("invalid record")

// FieldError names the rejected record field
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid record: %s %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidRecord
}

// GeoPoint is a captured position; altitude is optional
type GeoPoint struct {
	Lat      float64  `json:"lat" msgpack:"lat"`
	Lon      float64  `json:"lon" msgpack:"lon"`
	Altitude *float64 `json:"altitude,omitempty" msgpack:"altitude,omitempty"`
}

// Point drops the altitude
func (g GeoPoint) Point() spatial.Point {
	return spatial.Point{Lat: g.Lat, Lon: g.Lon}
}

// FromPoints converts vertices without altitude
func FromPoints(pts []spatial.Point) []GeoPoint {
	if len(pts) == 0 {
		return nil
	}
	out := make([]GeoPoint, len(pts))
	for i, p := range pts {
		out[i] = GeoPoint{Lat: p.Lat, Lon: p.Lon}
	}
	return out
}

// GeometryKind is the shape of a record's optional geometry
type GeometryKind string

const (
	GeometryNone     GeometryKind = ""
	GeometryPolyline GeometryKind = "polyline"
	GeometryPolygon  GeometryKind = "polygon"
)

// Record is one saved field observation. A polygon geometry is stored as an
// open ring; closure is implied.
type Record struct {
	ID           int64        `json:"id" db:"id" msgpack:"id"`
	Label        string       `json:"label" db:"label" msgpack:"label"`
	Strike       float64      `json:"strike" db:"strike" msgpack:"strike"` // degrees [0,360)
	Dip          float64      `json:"dip" db:"dip" msgpack:"dip"`          // degrees [0,90]
	Coordinate   GeoPoint     `json:"coordinate" msgpack:"coordinate"`
	Note         string       `json:"note" db:"note" msgpack:"note"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at" msgpack:"createdAt"`
	Geometry     []GeoPoint   `json:"geometry,omitempty" msgpack:"geometry,omitempty"`
	GeometryKind GeometryKind `json:"geometryKind,omitempty" db:"geometry_kind" msgpack:"geometryKind,omitempty"`
}

// Tags extracts element tags from the label and note
func (r *Record) Tags() tagging.TagSet {
	return tagging.ExtractAll(r.Label, r.Note)
}

// Ring returns the geometry as plain points
func (r *Record) Ring() []spatial.Point {
	out := make([]spatial.Point, len(r.Geometry))
	for i, g := range r.Geometry {
		out[i] = g.Point()
	}
	return out
}

// Normalize strips a duplicated closing vertex from polygon geometry
func (r *Record) Normalize() {
	if r.GeometryKind != GeometryPolygon || len(r.Geometry) < 2 {
		return
	}
	first, last := r.Geometry[0], r.Geometry[len(r.Geometry)-1]
	if first.Lat == last.Lat && first.Lon == last.Lon {
		r.Geometry = r.Geometry[:len(r.Geometry)-1]
	}
}

// Validate checks ranges and the geometry shape
func (r *Record) Validate() error {
	if err := spatial.ValidatePoint(r.Coordinate.Point()); err != nil {
		return err
	}
	if !finite(r.Strike) || r.Strike < 0 || r.Strike >= 360 {
		return &FieldError{Field: "strike", Reason: "must be in [0,360)"}
	}
	if !finite(r.Dip) || r.Dip < 0 || r.Dip > 90 {
		return &FieldError{Field: "dip", Reason: "must be in [0,90]"}
	}

	switch r.GeometryKind {
	case GeometryNone:
		if len(r.Geometry) > 0 {
			return &FieldError{Field: "geometryKind", Reason: "required when geometry is set"}
		}
	case GeometryPolyline:
		if len(r.Geometry) < 2 {
			return &FieldError{Field: "geometry", Reason: "polyline needs at least 2 vertices"}
		}
	case GeometryPolygon:
		if len(r.Geometry) < 3 {
			return &FieldError{Field: "geometry", Reason: "polygon needs at least 3 vertices"}
		}
	default:
		return &FieldError{Field: "geometryKind", Reason: fmt.Sprintf("unknown kind %q", r.GeometryKind)}
	}

	for _, g := range r.Geometry {
		if !projection.ValidGeographic(g.Lon, g.Lat) {
			return &projection.CoordinateError{Lat: g.Lat, Lon: g.Lon}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
