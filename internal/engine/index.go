package engine

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// pointEpsilon gives point records a box of about 11 m so the tree accepts them
const pointEpsilon = 0.0001

// indexedRecord wraps a record position for R-tree storage
type indexedRecord struct {
	slot  int
	point spatial.Point
}

// Bounds implements rtreego.Spatial interface.
func (r *indexedRecord) Bounds() rtreego.Rect {
	return boundsRect(spatial.Bounds{
		MinLat: r.point.Lat, MinLon: r.point.Lon,
		MaxLat: r.point.Lat, MaxLon: r.point.Lon,
	})
}

func boundsRect(b spatial.Bounds) rtreego.Rect {
	point := rtreego.Point{b.MinLon, b.MinLat}
	lonLength := b.MaxLon - b.MinLon
	latLength := b.MaxLat - b.MinLat
	if lonLength < pointEpsilon {
		lonLength = pointEpsilon
	}
	if latLength < pointEpsilon {
		latLength = pointEpsilon
	}
	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}

// queryRect pads b so records on its edges still intersect
func queryRect(b spatial.Bounds) rtreego.Rect {
	return boundsRect(spatial.Bounds{
		MinLat: b.MinLat - pointEpsilon, MinLon: b.MinLon - pointEpsilon,
		MaxLat: b.MaxLat + pointEpsilon, MaxLon: b.MaxLon + pointEpsilon,
	})
}

// recordIndex rebuilds the tree after record changes
func (s *Session) recordIndex() *rtreego.Rtree {
	if !s.indexDirty && s.index != nil {
		return s.index
	}
	tree := rtreego.NewTree(2, 25, 50)
	for i := range s.records {
		tree.Insert(&indexedRecord{slot: i, point: s.records[i].Coordinate.Point()})
	}
	s.index = tree
	s.indexDirty = false
	return tree
}

// RecordsInBounds returns records whose coordinate lies in b, ordered by ID
func (s *Session) RecordsInBounds(b spatial.Bounds) []models.Record {
	hits := s.recordIndex().SearchIntersect(queryRect(b))
	slots := make([]int, 0, len(hits))
	for _, h := range hits {
		ir := h.(*indexedRecord)
		if b.Contains(ir.point) {
			slots = append(slots, ir.slot)
		}
	}
	sort.Ints(slots)

	out := make([]models.Record, len(slots))
	for i, slot := range slots {
		out[i] = s.records[slot]
	}
	return out
}

// RecordsWithin returns records whose coordinate lies inside boundary
func (s *Session) RecordsWithin(boundary []spatial.Point) ([]models.Record, error) {
	ring, err := spatial.NormalizeRing(boundary)
	if err != nil {
		return nil, err
	}
	if len(ring) < 3 {
		return nil, &spatial.GeometryError{Reason: "boundary needs at least 3 vertices"}
	}

	var out []models.Record
	for _, r := range s.RecordsInBounds(spatial.BoundingBox(ring)) {
		if spatial.PointInPolygon(r.Coordinate.Point(), ring) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Neighbor is a record and its distance from a query point
type Neighbor struct {
	Record   models.Record `json:"record"`
	Distance float64       `json:"distance_m"`
}

// NearestRecords returns up to k records closest to p by great circle distance
func (s *Session) NearestRecords(p spatial.Point, k int) ([]Neighbor, error) {
	if err := spatial.ValidatePoint(p); err != nil {
		return nil, err
	}
	if k <= 0 || len(s.records) == 0 {
		return nil, nil
	}
	if k > len(s.records) {
		k = len(s.records)
	}

	// the k nearest in degree space bound the search radius; everything
	// within that great circle radius is then ranked on the sphere
	tree := s.recordIndex()
	var radius float64
	for _, h := range tree.NearestNeighbors(k, rtreego.Point{p.Lon, p.Lat}) {
		if h == nil {
			continue
		}
		if d := spatial.HaversineDistance(p, h.(*indexedRecord).point); d > radius {
			radius = d
		}
	}

	hits := tree.SearchIntersect(queryRect(searchBounds(p, radius)))
	out := make([]Neighbor, 0, len(hits))
	for _, h := range hits {
		ir := h.(*indexedRecord)
		out = append(out, Neighbor{
			Record:   s.records[ir.slot],
			Distance: spatial.HaversineDistance(p, ir.point),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Record.ID < out[j].Record.ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// searchBounds is a box covering every point within meters of p. Longitude
// spans the whole globe when the circle reaches a pole or the antimeridian.
func searchBounds(p spatial.Point, meters float64) spatial.Bounds {
	dLat := meters / spatial.EarthRadiusMeters * 180 / math.Pi
	b := spatial.Bounds{
		MinLat: math.Max(-90, p.Lat-dLat),
		MaxLat: math.Min(90, p.Lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}

	edge := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
	cos := math.Cos(edge * math.Pi / 180)
	if edge >= 90 || cos < 1e-9 {
		return b
	}
	dLon := dLat / cos
	if p.Lon-dLon > -180 && p.Lon+dLon < 180 {
		b.MinLon, b.MaxLon = p.Lon-dLon, p.Lon+dLon
	}
	return b
}
