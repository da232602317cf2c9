// Package projection converts geographic coordinates to zone based transverse
// Mercator grids and back.
package projection

import (
	"math"
)

const (
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 0.0
	zoneWidth     = 6.0
	zoneCount     = 60
	seriesOrder   = 6
)

// ProjectedPoint is a planar position in a 6° zone
type ProjectedPoint struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
	Zone     int     `json:"zone"`
}

// Transformer projects WGS84 input through a fixed datum. It holds only
// values derived from the datum and is safe for concurrent use.
type Transformer struct {
	datum Datum
	e     float64 // first eccentricity
	e2m   float64 // 1 - e²
	kA    float64 // k0 times the rectifying radius
	alpha [seriesOrder]float64
	beta  [seriesOrder]float64
}

var legacy = NewTransformer(DatumLegacy)

// NewTransformer precomputes the Krüger series for the datum's ellipsoid
func NewTransformer(d Datum) *Transformer {
	f := d.Ellipsoid.Flattening()
	n := f / (2 - f)
	n2 := n * n
	n3 := n2 * n
	n4 := n3 * n
	n5 := n4 * n
	n6 := n5 * n

	e2 := f * (2 - f)
	rect := d.Ellipsoid.A / (1 + n) * (1 + n2/4 + n4/64 + n6/256)

	t := &Transformer{
		datum: d,
		e:     math.Sqrt(e2),
		e2m:   1 - e2,
		kA:    scaleFactor * rect,
	}
	t.alpha = [seriesOrder]float64{
		n/2 - 2*n2/3 + 5*n3/16 + 41*n4/180 - 127*n5/288 + 7891*n6/37800,
		13*n2/48 - 3*n3/5 + 557*n4/1440 + 281*n5/630 - 1983433*n6/1935360,
		61*n3/240 - 103*n4/140 + 15061*n5/26880 + 167603*n6/181440,
		49561*n4/161280 - 179*n5/168 + 6601661*n6/7257600,
		34729*n5/80640 - 3418889*n6/1995840,
		212378941 * n6 / 319334400,
	}
	t.beta = [seriesOrder]float64{
		n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
		n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
		17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
		4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
		4583*n5/161280 - 108847*n6/3991680,
		20648693 * n6 / 638668800,
	}
	return t
}

// Legacy returns the transformer used by default
func Legacy() *Transformer {
	return legacy
}

// Datum returns the datum the transformer projects on
func (t *Transformer) Datum() Datum {
	return t.datum
}

// ZoneFor returns the 6° zone number of a longitude, 1..60
func ZoneFor(lon float64) int {
	zone := int(math.Floor((lon+180)/zoneWidth)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > zoneCount {
		zone = zoneCount
	}
	return zone
}

// CentralMeridian returns the central meridian of a zone in degrees
func CentralMeridian(zone int) float64 {
	return float64(zone-1)*zoneWidth - 180 + zoneWidth/2
}

// ValidGeographic reports whether lon/lat are finite and in range
func ValidGeographic(lon, lat float64) bool {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ToProjected projects lon/lat through the legacy transformer
func ToProjected(lon, lat float64) (ProjectedPoint, error) {
	return legacy.ToProjected(lon, lat)
}

// ToGeographic inverts ToProjected through the legacy transformer
func ToGeographic(easting, northing float64, zone int) (lon, lat float64, err error) {
	return legacy.ToGeographic(easting, northing, zone)
}

// ToProjected converts WGS84 lon/lat in degrees to easting/northing in the
// zone that contains lon.
func (t *Transformer) ToProjected(lon, lat float64) (ProjectedPoint, error) {
	if !ValidGeographic(lon, lat) {
		return ProjectedPoint{}, &CoordinateError{Lat: lat, Lon: lon}
	}

	zone := ZoneFor(lon)
	phi, lam := t.datum.fromWGS84(lat*math.Pi/180, lon*math.Pi/180)
	dl := normalizeRadians(lam - CentralMeridian(zone)*math.Pi/180)

	tau := math.Tan(phi)
	taup := t.conformalTau(tau)
	cosDl := math.Cos(dl)
	xip := math.Atan2(taup, cosDl)
	etap := math.Asinh(math.Sin(dl) / math.Hypot(taup, cosDl))

	xi, eta := xip, etap
	for j := 0; j < seriesOrder; j++ {
		k := float64(2 * (j + 1))
		xi += t.alpha[j] * math.Sin(k*xip) * math.Cosh(k*etap)
		eta += t.alpha[j] * math.Cos(k*xip) * math.Sinh(k*etap)
	}

	p := ProjectedPoint{
		Easting:  falseEasting + t.kA*eta,
		Northing: falseNorthing + t.kA*xi,
		Zone:     zone,
	}
	if !finite(p.Easting) || !finite(p.Northing) {
		return ProjectedPoint{}, &FailureError{Op: "forward", X: lon, Y: lat}
	}
	return p, nil
}

// ToGeographic converts easting/northing in a zone back to WGS84 lon/lat degrees
func (t *Transformer) ToGeographic(easting, northing float64, zone int) (lon, lat float64, err error) {
	if zone < 1 || zone > zoneCount {
		return 0, 0, &GridError{Easting: easting, Northing: northing, Zone: zone, Reason: "zone must be 1..60"}
	}
	if !finite(easting) || !finite(northing) {
		return 0, 0, &GridError{Easting: easting, Northing: northing, Zone: zone, Reason: "not a finite number"}
	}

	xi := (northing - falseNorthing) / t.kA
	eta := (easting - falseEasting) / t.kA

	xip, etap := xi, eta
	for j := 0; j < seriesOrder; j++ {
		k := float64(2 * (j + 1))
		xip -= t.beta[j] * math.Sin(k*xi) * math.Cosh(k*eta)
		etap -= t.beta[j] * math.Cos(k*xi) * math.Sinh(k*eta)
	}

	sinhEtap := math.Sinh(etap)
	cosXip := math.Cos(xip)
	taup := math.Sin(xip) / math.Hypot(sinhEtap, cosXip)
	tau := t.geodeticTau(taup)

	phi := math.Atan(tau)
	lam := math.Atan2(sinhEtap, cosXip) + CentralMeridian(zone)*math.Pi/180
	phi, lam = t.datum.toWGS84(phi, lam)

	lat = phi * 180 / math.Pi
	lon = normalizeRadians(lam) * 180 / math.Pi
	if !finite(lat) || !finite(lon) {
		return 0, 0, &FailureError{Op: "inverse", X: easting, Y: northing}
	}
	return lon, lat, nil
}

// conformalTau maps tan(geodetic latitude) to tan(conformal latitude)
func (t *Transformer) conformalTau(tau float64) float64 {
	tau1 := math.Hypot(1, tau)
	sig := math.Sinh(t.e * math.Atanh(t.e*tau/tau1))
	return math.Hypot(1, sig)*tau - sig*tau1
}

// geodeticTau inverts conformalTau with Newton's method
func (t *Transformer) geodeticTau(taup float64) float64 {
	tau := taup / t.e2m
	for i := 0; i < 10; i++ {
		tp := t.conformalTau(tau)
		dtau := (taup - tp) * (1 + t.e2m*tau*tau) /
			(t.e2m * math.Hypot(1, tau) * math.Hypot(1, tp))
		tau += dtau
		if math.Abs(dtau) < 1e-15*math.Max(1, math.Abs(tau)) {
			break
		}
	}
	return tau
}

func normalizeRadians(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
