package spatial

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	MetersPerDegree   = 111320.0  // length of one degree of latitude, planar approximation
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(a, b Point) float64 {
	return a.LatLng().Distance(b.LatLng()).Radians() * EarthRadiusMeters
}

// Bearing calculates the initial bearing (forward azimuth) from a to b
// Returns bearing in degrees (0-360), where 0 is North, 90 is East, etc.
func Bearing(a, b Point) float64 {
	p1, p2 := a.LatLng(), b.LatLng()
	lat1 := p1.Lat.Radians()
	lat2 := p2.Lat.Radians()
	lonDiff := p2.Lng.Radians() - p1.Lng.Radians()

	y := math.Sin(lonDiff) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lonDiff)
	bearing := s1.Angle(math.Atan2(y, x)).Degrees()

	return math.Mod(bearing+360, 360)
}

// DestinationPoint calculates the point reached from p after travelling
// distance meters on the given bearing (degrees).
func DestinationPoint(p Point, bearing, distance float64) Point {
	ll := p.LatLng()
	bearingRad := bearing * math.Pi / 180
	angularDistance := distance / EarthRadiusMeters

	latRad := ll.Lat.Radians()
	lonRad := ll.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angularDistance) +
		math.Cos(latRad)*math.Sin(angularDistance)*math.Cos(bearingRad))

	lon2 := lonRad + math.Atan2(
		math.Sin(bearingRad)*math.Sin(angularDistance)*math.Cos(latRad),
		math.Cos(angularDistance)-math.Sin(latRad)*math.Sin(lat2))

	out := s2.LatLng{Lat: s1.Angle(lat2), Lng: s1.Angle(lon2)}.Normalized()
	return Point{Lat: out.Lat.Degrees(), Lon: out.Lng.Degrees()}
}

// Segment describes one edge of a path
type Segment struct {
	From    Point   `json:"from"`
	To      Point   `json:"to"`
	Length  float64 `json:"length_m"`
	Bearing float64 `json:"bearing_deg"`
}

// Segments returns the length and bearing of every consecutive vertex pair
func Segments(points []Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		out = append(out, Segment{
			From:    points[i-1],
			To:      points[i],
			Length:  HaversineDistance(points[i-1], points[i]),
			Bearing: Bearing(points[i-1], points[i]),
		})
	}
	return out
}
