package spatial

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

const maxRingNesting = 8

// NormalizeRing flattens vertex input of any supported nesting into one
// ordered ring. Accepted shapes:
//
//   - []Point, Point
//   - orb.Point, orb.LineString, orb.Ring, orb.Polygon (outer ring only)
//   - numeric pairs [lon, lat] or triples [lon, lat, alt] in GeoJSON order
//   - maps with "lat" and "lng" or "lon" keys
//   - arrays of any of the above, nested up to eight levels
//
// A trailing vertex equal to the first is removed so the result never
// duplicates its closing vertex. Anything else fails with ErrInvalidGeometry.
func NormalizeRing(raw any) ([]Point, error) {
	var out []Point
	if err := flatten(raw, &out, 0); err != nil {
		return nil, err
	}
	return stripClosing(out), nil
}

// NormalizeRingJSON decodes then normalizes a JSON vertex array
func NormalizeRingJSON(data []byte) ([]Point, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &GeometryError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return NormalizeRing(raw)
}

func flatten(v any, out *[]Point, depth int) error {
	if depth > maxRingNesting {
		return &GeometryError{Reason: "vertex arrays nested too deeply"}
	}

	switch g := v.(type) {
	case nil:
		return &GeometryError{Reason: "null vertex"}
	case Point:
		return appendPoint(out, g)
	case []Point:
		for _, p := range g {
			if err := appendPoint(out, p); err != nil {
				return err
			}
		}
		return nil
	case orb.Point:
		return appendPoint(out, Point{Lat: g.Lat(), Lon: g.Lon()})
	case orb.LineString:
		return flattenOrb(out, g)
	case orb.Ring:
		return flattenOrb(out, g)
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		return flattenOrb(out, g[0])
	case []float64:
		return appendPair(out, g)
	case [][]float64:
		for _, pair := range g {
			if err := appendPair(out, pair); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return appendMap(out, g)
	case []any:
		if pair, ok := numericPair(g); ok {
			return appendPair(out, pair)
		}
		for _, item := range g {
			if err := flatten(item, out, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return &GeometryError{Reason: fmt.Sprintf("unsupported vertex type %T", v)}
	}
}

func flattenOrb(out *[]Point, pts []orb.Point) error {
	for _, p := range pts {
		if err := appendPoint(out, Point{Lat: p.Lat(), Lon: p.Lon()}); err != nil {
			return err
		}
	}
	return nil
}

func appendPoint(out *[]Point, p Point) error {
	if err := ValidatePoint(p); err != nil {
		return &GeometryError{Reason: err.Error()}
	}
	*out = append(*out, p)
	return nil
}

// appendPair reads GeoJSON ordered [lon, lat(, alt)]
func appendPair(out *[]Point, pair []float64) error {
	if len(pair) < 2 || len(pair) > 3 {
		return &GeometryError{Reason: fmt.Sprintf("coordinate needs 2 or 3 numbers, got %d", len(pair))}
	}
	return appendPoint(out, Point{Lat: pair[1], Lon: pair[0]})
}

func appendMap(out *[]Point, m map[string]any) error {
	lat, okLat := toFloat(m["lat"])
	lon, okLon := toFloat(m["lng"])
	if !okLon {
		lon, okLon = toFloat(m["lon"])
	}
	if !okLat || !okLon {
		return &GeometryError{Reason: "vertex object needs lat and lng/lon"}
	}
	return appendPoint(out, Point{Lat: lat, Lon: lon})
}

// numericPair reports whether items is a 2 or 3 element array of numbers
func numericPair(items []any) ([]float64, bool) {
	if len(items) < 2 || len(items) > 3 {
		return nil, false
	}
	pair := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, false
		}
		pair[i] = f
	}
	return pair, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
