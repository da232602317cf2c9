// Package spatial holds the planar and spherical geometry used by the
// measurement, grid and density tools.
package spatial

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/jengzang/geofield-backend-go/internal/projection"
)

// Point represents a 2D point with latitude and longitude in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LatLng converts the point for the s2 library
func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// ValidatePoint returns a projection.CoordinateError when p is NaN or out of range
func ValidatePoint(p Point) error {
	if !projection.ValidGeographic(p.Lon, p.Lat) {
		return &projection.CoordinateError{Lat: p.Lat, Lon: p.Lon}
	}
	return nil
}

// Bounds is a geographic bounding box in decimal degrees
type Bounds struct {
	MinLat float64 `json:"min_lat"` // Southern edge
	MinLon float64 `json:"min_lon"` // Western edge
	MaxLat float64 `json:"max_lat"` // Northern edge
	MaxLon float64 `json:"max_lon"` // Eastern edge
}

// Contains returns true if p is within the bounds
func (b Bounds) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Intersects returns true if the given bounds intersects with this bounds
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxLon < b.MinLon ||
		other.MinLon > b.MaxLon ||
		other.MaxLat < b.MinLat ||
		other.MinLat > b.MaxLat)
}

// Center returns the midpoint of the box
func (b Bounds) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// SouthWest returns the lower left corner
func (b Bounds) SouthWest() Point {
	return Point{Lat: b.MinLat, Lon: b.MinLon}
}

// NorthEast returns the upper right corner
func (b Bounds) NorthEast() Point {
	return Point{Lat: b.MaxLat, Lon: b.MaxLon}
}

// BoundingBox calculates the bounding box of a set of points
func BoundingBox(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}

	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}

	return b
}

// Centroid calculates the arithmetic mean of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += HaversineDistance(points[i-1], points[i])
	}

	return totalDist
}

// PerimeterLength is the path length of the ring including the closing edge
func PerimeterLength(ring []Point) float64 {
	ring = stripClosing(ring)
	if len(ring) < 2 {
		return 0
	}
	return PathLength(ring) + HaversineDistance(ring[len(ring)-1], ring[0])
}

// PolygonArea calculates the area of a ring in square meters using the
// legacy projection.
func PolygonArea(ring []Point) float64 {
	return PolygonAreaWith(projection.Legacy(), ring)
}

// PolygonAreaWith projects every vertex into its own zone and applies the
// shoelace formula. Vertices that fail to project are skipped. Rings that
// straddle a zone edge mix zones, which is only accurate for small areas.
func PolygonAreaWith(t *projection.Transformer, ring []Point) float64 {
	ring = stripClosing(ring)
	if len(ring) < 3 {
		return 0
	}

	projected := make([]projection.ProjectedPoint, 0, len(ring))
	for _, p := range ring {
		pp, err := t.ToProjected(p.Lon, p.Lat)
		if err != nil {
			continue
		}
		projected = append(projected, pp)
	}
	if len(projected) < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < len(projected); i++ {
		j := (i + 1) % len(projected)
		sum += (projected[j].Easting + projected[i].Easting) * (projected[j].Northing - projected[i].Northing)
	}

	return math.Abs(sum) / 2.0
}

// PointInPolygon checks if a point is inside a polygon using ray casting.
// Points on an edge land on whichever side the even-odd rule puts them.
func PointInPolygon(point Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		if ((polygon[i].Lat > point.Lat) != (polygon[j].Lat > point.Lat)) &&
			(point.Lon < (polygon[j].Lon-polygon[i].Lon)*(point.Lat-polygon[i].Lat)/(polygon[j].Lat-polygon[i].Lat)+polygon[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// stripClosing drops a trailing vertex that repeats the first one
func stripClosing(ring []Point) []Point {
	if len(ring) >= 2 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}
