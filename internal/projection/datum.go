package projection

import (
	"fmt"
	"math"
	"strings"
)

// Ellipsoid holds the reference ellipsoid parameters
type Ellipsoid struct {
	Name       string
	A          float64 // semi-major axis in meters
	InvFlatten float64 // inverse flattening
}

// Flattening returns f
func (e Ellipsoid) Flattening() float64 {
	return 1 / e.InvFlatten
}

// EccentricitySquared returns e² = f(2-f)
func (e Ellipsoid) EccentricitySquared() float64 {
	f := e.Flattening()
	return f * (2 - f)
}

var (
	// WGS84 is the GPS reference ellipsoid
	WGS84 = Ellipsoid{Name: "WGS84", A: 6378137.0, InvFlatten: 298.257223563}

	// International1924 is the Hayford ellipsoid used by ED50
	International1924 = Ellipsoid{Name: "intl", A: 6378388.0, InvFlatten: 297.0}
)

// Datum is a target ellipsoid plus the geocentric translation that takes
// datum coordinates to WGS84 (proj's towgs84 with three parameters).
type Datum struct {
	Name      string
	Ellipsoid Ellipsoid
	DX        float64
	DY        float64
	DZ        float64
}

var (
	// DatumLegacy reproduces the exported coordinates of the field client:
	// ED50 on the International 1924 ellipsoid with towgs84=-87,-98,-121.
	DatumLegacy = Datum{Name: "legacy", Ellipsoid: International1924, DX: -87, DY: -98, DZ: -121}

	// DatumWGS84 projects directly on WGS84 without any shift
	DatumWGS84 = Datum{Name: "wgs84", Ellipsoid: WGS84}
)

// DatumByName resolves the configuration value for the projection datum
func DatumByName(name string) (Datum, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy", "ed50":
		return DatumLegacy, nil
	case "wgs84":
		return DatumWGS84, nil
	default:
		return Datum{}, fmt.Errorf("unknown datum %q (expected legacy or wgs84)", name)
	}
}

func (d Datum) isWGS84() bool {
	return d.Ellipsoid == WGS84 && d.DX == 0 && d.DY == 0 && d.DZ == 0
}

// geodeticToGeocentric converts radians and ellipsoidal height to ECEF meters
func geodeticToGeocentric(e Ellipsoid, lat, lon, h float64) (x, y, z float64) {
	e2 := e.EccentricitySquared()
	sinLat := math.Sin(lat)
	n := e.A / math.Sqrt(1-e2*sinLat*sinLat)
	x = (n + h) * math.Cos(lat) * math.Cos(lon)
	y = (n + h) * math.Cos(lat) * math.Sin(lon)
	z = (n*(1-e2) + h) * sinLat
	return x, y, z
}

// geocentricToGeodetic inverts geodeticToGeocentric by fixed point iteration
// on latitude. Height is returned but the projection ignores it.
func geocentricToGeodetic(e Ellipsoid, x, y, z float64) (lat, lon, h float64) {
	e2 := e.EccentricitySquared()
	lon = math.Atan2(y, x)
	p := math.Hypot(x, y)
	lat = math.Atan2(z, p*(1-e2))
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(lat)
		n := e.A / math.Sqrt(1-e2*sinLat*sinLat)
		next := math.Atan2(z+e2*n*sinLat, p)
		if math.Abs(next-lat) < 1e-14 {
			lat = next
			break
		}
		lat = next
	}
	sinLat := math.Sin(lat)
	h = p*math.Cos(lat) + z*sinLat - e.A*math.Sqrt(1-e2*sinLat*sinLat)
	return lat, lon, h
}

// fromWGS84 moves a WGS84 geodetic position (radians, h=0) onto the datum.
// The height picked up by the shift is dropped, so a round trip through
// fromWGS84 and toWGS84 drifts by a few nanodegrees.
func (d Datum) fromWGS84(lat, lon float64) (float64, float64) {
	if d.isWGS84() {
		return lat, lon
	}
	x, y, z := geodeticToGeocentric(WGS84, lat, lon, 0)
	lat, lon, _ = geocentricToGeodetic(d.Ellipsoid, x-d.DX, y-d.DY, z-d.DZ)
	return lat, lon
}

// toWGS84 moves a datum geodetic position (radians, h=0) onto WGS84
func (d Datum) toWGS84(lat, lon float64) (float64, float64) {
	if d.isWGS84() {
		return lat, lon
	}
	x, y, z := geodeticToGeocentric(d.Ellipsoid, lat, lon, 0)
	lat, lon, _ = geocentricToGeodetic(WGS84, x+d.DX, y+d.DY, z+d.DZ)
	return lat, lon
}
