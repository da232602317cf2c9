package heatmap

import (
	"math"
)

// earthCircumference is the equatorial circumference in meters used by web
// mercator tile math
const earthCircumference = 40075016.686

// minMetersPerPixel is the ground resolution below which a view is treated
// as degenerate, e.g. a center latitude at a pole
const minMetersPerPixel = 1e-6

// Calibration holds the tunable radius constants. The auto radius is a
// visual heuristic: it keeps density roughly constant across zooms and has
// no physical meaning.
type Calibration struct {
	MinPixels float64 `yaml:"min_px" json:"minPx"`
	AutoBase  float64 `yaml:"auto_base" json:"autoBase"`
	AutoSlope float64 `yaml:"auto_slope" json:"autoSlope"`
	AutoMin   float64 `yaml:"auto_min" json:"autoMin"`
	MaxPixels float64 `yaml:"max_px" json:"maxPx"`
}

// DefaultCalibration returns the legacy constants
func DefaultCalibration() Calibration {
	return Calibration{
		MinPixels: 5,
		AutoBase:  45,
		AutoSlope: 1.5,
		AutoMin:   15,
		MaxPixels: 2048,
	}
}

// View is the part of the map state the radius depends on
type View struct {
	Zoom      float64 `json:"zoom" form:"zoom"`
	CenterLat float64 `json:"centerLat" form:"centerLat"`
}

// MetersPerPixel is the ground resolution of a 256 px tile pyramid at the view
func MetersPerPixel(v View) float64 {
	return earthCircumference * math.Abs(math.Cos(v.CenterLat*math.Pi/180)) / math.Pow(2, v.Zoom+8)
}

// Radius returns the kernel radius in pixels for a physical radius in
// meters. A radius of 0 selects the zoom based heuristic. Negative or
// non-finite radii and degenerate views fall back to MinPixels, and the
// result never exceeds MaxPixels when that is set.
func Radius(radiusMeters float64, v View, c Calibration) int {
	if radiusMeters == 0 {
		return c.clamp(math.Max(c.AutoMin, c.AutoBase-v.Zoom*c.AutoSlope))
	}

	mpp := MetersPerPixel(v)
	if radiusMeters < 0 || math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) ||
		math.IsNaN(mpp) || mpp < minMetersPerPixel {
		return c.clamp(c.MinPixels)
	}
	return c.clamp(math.Max(c.MinPixels, radiusMeters/mpp))
}

func (c Calibration) clamp(px float64) int {
	if math.IsNaN(px) {
		px = c.MinPixels
	}
	if c.MaxPixels > 0 && px > c.MaxPixels {
		px = c.MaxPixels
	}
	if px < c.MinPixels {
		px = c.MinPixels
	}
	return int(math.Round(px))
}
