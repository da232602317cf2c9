// Package grid draws true north grids clipped to a polygon boundary.
package grid

import (
	"fmt"
	"math"

	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// Defaults for Options
const (
	DefaultSamples  = 100
	DefaultMaxLines = 2000
	minSamples      = 2
	polarCosLimit   = 1e-9
)

// Kind tells meridians from parallels
type Kind string

const (
	KindMeridian Kind = "meridian"
	KindParallel Kind = "parallel"
)

// Line is one inside run of a grid line. A grid line that leaves and
// re-enters the boundary yields one Line per run, all with the same Index.
type Line struct {
	Kind   Kind            `json:"kind"`
	Index  int64           `json:"index"` // multiple of the spacing from 0°
	Value  float64         `json:"value"` // constant longitude or latitude
	Color  string          `json:"color"`
	Points []spatial.Point `json:"points"`
}

// Grid is the derived, never persisted result of Generate
type Grid struct {
	Spacing float64        `json:"spacing_m"`
	Color   string         `json:"color"`
	Bounds  spatial.Bounds `json:"bounds"`
	DLat    float64        `json:"dlat"`
	DLon    float64        `json:"dlon"`
	Lines   []Line         `json:"lines"`
}

// Clone returns a copy that shares no slices with g
func (g *Grid) Clone() *Grid {
	out := *g
	out.Lines = make([]Line, len(g.Lines))
	for i, l := range g.Lines {
		l.Points = append([]spatial.Point(nil), l.Points...)
		out.Lines[i] = l
	}
	return &out
}

// Options tunes sampling
type Options struct {
	Samples  int `yaml:"samples"`   // points sampled along each candidate line
	MaxLines int `yaml:"max_lines"` // candidate line budget
}

// DefaultOptions returns the stock sampling settings
func DefaultOptions() Options {
	return Options{Samples: DefaultSamples, MaxLines: DefaultMaxLines}
}

func (o Options) withDefaults() Options {
	if o.Samples < minSamples {
		o.Samples = DefaultSamples
	}
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	return o
}

// Generate builds the grid for boundary at spacingMeters. Degree spacing is
// the planar approximation at the box centre latitude, and line positions
// are multiples of it counted from 0° so neighbouring boundaries share lines.
func Generate(boundary []spatial.Point, spacingMeters float64, color string, opts Options) (*Grid, error) {
	if math.IsNaN(spacingMeters) || math.IsInf(spacingMeters, 0) || spacingMeters <= 0 {
		return nil, &SpacingError{Spacing: spacingMeters}
	}

	ring, err := spatial.NormalizeRing(boundary)
	if err != nil {
		return nil, &BoundaryError{Vertices: len(boundary), Reason: err.Error()}
	}
	if len(ring) < 3 {
		return nil, &BoundaryError{Vertices: len(ring), Reason: "at least 3 vertices required"}
	}

	opts = opts.withDefaults()
	bounds := spatial.BoundingBox(ring)
	cosLat := math.Cos(bounds.Center().Lat * math.Pi / 180)
	if cosLat < polarCosLimit {
		return nil, &BoundaryError{Vertices: len(ring), Reason: "bounding box centre is at a pole"}
	}

	dLat := spacingMeters / spatial.MetersPerDegree
	dLon := spacingMeters / (spatial.MetersPerDegree * cosLat)

	lonFirst, lonLast := indexRange(bounds.MinLon, bounds.MaxLon, dLon)
	latFirst, latLast := indexRange(bounds.MinLat, bounds.MaxLat, dLat)
	candidates := (lonLast - lonFirst + 1) + (latLast - latFirst + 1)
	if candidates > float64(opts.MaxLines) {
		return nil, fmt.Errorf("%w: %.0f candidate lines at %v m exceeds %d",
			ErrGridTooDense, candidates, spacingMeters, opts.MaxLines)
	}

	g := &Grid{
		Spacing: spacingMeters,
		Color:   color,
		Bounds:  bounds,
		DLat:    dLat,
		DLon:    dLon,
	}

	for k := int64(lonFirst); k <= int64(lonLast); k++ {
		lon := float64(k) * dLon
		samples := sampleLine(opts.Samples, func(t float64) spatial.Point {
			return spatial.Point{Lat: lerp(bounds.MinLat, bounds.MaxLat, t), Lon: lon}
		})
		g.Lines = appendRuns(g.Lines, ring, samples, Line{Kind: KindMeridian, Index: k, Value: lon, Color: color})
	}

	for k := int64(latFirst); k <= int64(latLast); k++ {
		lat := float64(k) * dLat
		samples := sampleLine(opts.Samples, func(t float64) spatial.Point {
			return spatial.Point{Lat: lat, Lon: lerp(bounds.MinLon, bounds.MaxLon, t)}
		})
		g.Lines = appendRuns(g.Lines, ring, samples, Line{Kind: KindParallel, Index: k, Value: lat, Color: color})
	}

	return g, nil
}

// indexRange returns the first and last multiples of step inside [lo, hi]
func indexRange(lo, hi, step float64) (float64, float64) {
	return math.Ceil(lo / step), math.Floor(hi / step)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func sampleLine(n int, at func(t float64) spatial.Point) []spatial.Point {
	out := make([]spatial.Point, n)
	for i := range out {
		out[i] = at(float64(i) / float64(n-1))
	}
	return out
}

// appendRuns splits samples into contiguous inside runs. Runs of a single
// sample are not lines and are dropped, as are samples that fail validation.
func appendRuns(lines []Line, ring, samples []spatial.Point, proto Line) []Line {
	var run []spatial.Point
	flush := func() {
		if len(run) >= 2 {
			l := proto
			l.Points = run
			lines = append(lines, l)
		}
		run = nil
	}

	for _, p := range samples {
		if spatial.ValidatePoint(p) != nil || !spatial.PointInPolygon(p, ring) {
			flush()
			continue
		}
		run = append(run, p)
	}
	flush()
	return lines
}

// SegmentCount returns the number of lines of each kind
func (g *Grid) SegmentCount() (meridians, parallels int) {
	for _, l := range g.Lines {
		if l.Kind == KindMeridian {
			meridians++
		} else {
			parallels++
		}
	}
	return meridians, parallels
}
