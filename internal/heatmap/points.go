// Package heatmap turns records and layer features into weighted points and
// sizes the density kernel for the current map view.
package heatmap

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// FilterAll selects every point regardless of tags
const FilterAll = "ALL"

// WeightedPoint is one kernel sample
type WeightedPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Weight float64 `json:"weight"`
}

// Point drops the weight
func (w WeightedPoint) Point() spatial.Point {
	return spatial.Point{Lat: w.Lat, Lon: w.Lon}
}

// NormalizeFilter uppercases a filter and maps "" to FilterAll
func NormalizeFilter(filter string) string {
	f := strings.ToUpper(strings.TrimSpace(filter))
	if f == "" {
		return FilterAll
	}
	return f
}

// BuildWeightedPoints returns one weight 1 point per matching record and
// per matching feature position of every visible layer. Records are tagged
// from their text on the fly; features use the tags computed at import.
// Points that fail validation are skipped. Duplicates are kept.
func BuildWeightedPoints(records []models.Record, layers []models.ExternalLayer, filter string) []WeightedPoint {
	filter = NormalizeFilter(filter)
	all := filter == FilterAll
	tag := tagging.Tag(filter)

	var out []WeightedPoint
	for i := range records {
		r := &records[i]
		if !all && !r.Tags().Has(tag) {
			continue
		}
		out = appendPoint(out, r.Coordinate.Point())
	}

	for i := range layers {
		l := &layers[i]
		if !l.Visible || l.Features == nil {
			continue
		}
		for j, f := range l.Features.Features {
			if !all && !featureHasTag(l, j, f, tag) {
				continue
			}
			for _, p := range featurePositions(f) {
				out = appendPoint(out, p)
			}
		}
	}
	return out
}

// featureHasTag prefers the precomputed tags and scans the feature text when
// the layer was built without them
func featureHasTag(l *models.ExternalLayer, idx int, f *geojson.Feature, tag tagging.Tag) bool {
	if idx < len(l.FeatureTags) {
		return l.FeatureTags[idx].Has(tag)
	}
	return tagging.ExtractTags(tagging.FeatureText(f)).Has(tag)
}

// featurePositions returns a point for each member of a point or multipoint
// and the bound centre of other geometries
func featurePositions(f *geojson.Feature) []spatial.Point {
	if f == nil || f.Geometry == nil {
		return nil
	}
	switch g := f.Geometry.(type) {
	case orb.Point:
		return []spatial.Point{{Lat: g.Lat(), Lon: g.Lon()}}
	case orb.MultiPoint:
		out := make([]spatial.Point, len(g))
		for i, p := range g {
			out[i] = spatial.Point{Lat: p.Lat(), Lon: p.Lon()}
		}
		return out
	default:
		c := g.Bound().Center()
		return []spatial.Point{{Lat: c.Lat(), Lon: c.Lon()}}
	}
}

func appendPoint(out []WeightedPoint, p spatial.Point) []WeightedPoint {
	if spatial.ValidatePoint(p) != nil {
		return out
	}
	return append(out, WeightedPoint{Lat: p.Lat, Lon: p.Lon, Weight: 1})
}
