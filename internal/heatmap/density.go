package heatmap

import (
	"sort"

	"github.com/jengzang/geofield-backend-go/internal/spatial"
	"github.com/jengzang/geofield-backend-go/internal/stats"
)

// Density classes by weight rank
const (
	ClassHot  = "HOT"  // top 10%
	ClassWarm = "WARM" // next 20%
	ClassCold = "COLD"
)

// DefaultCellPrecision is the geohash length used when none is given
const DefaultCellPrecision = 6

// Cell is the summed weight of points sharing a geohash cell
type Cell struct {
	Geohash   string         `json:"geohash"`
	Center    spatial.Point  `json:"center"`
	Bounds    spatial.Bounds `json:"bounds"`
	Count     int            `json:"count"`
	Weight    float64        `json:"weight"`
	Intensity float64        `json:"intensity"` // weight / max weight
	Class     string         `json:"class"`
}

// DensityCells groups points by geohash cell and classes each cell against
// the 90th and 70th weight percentiles. Cells are ordered by weight, heaviest
// first, then by geohash.
func DensityCells(points []WeightedPoint, precision int) []Cell {
	if precision <= 0 {
		precision = DefaultCellPrecision
	}

	byHash := make(map[string]*Cell)
	for _, wp := range points {
		p := wp.Point()
		if spatial.ValidatePoint(p) != nil {
			continue
		}
		hash := spatial.EncodeGeohash(p, precision)
		c, ok := byHash[hash]
		if !ok {
			b := spatial.GeohashBounds(hash)
			c = &Cell{Geohash: hash, Bounds: b, Center: b.Center()}
			byHash[hash] = c
		}
		c.Count++
		c.Weight += wp.Weight
	}

	cells := make([]Cell, 0, len(byHash))
	weights := make([]float64, 0, len(byHash))
	var maxWeight float64
	for _, c := range byHash {
		cells = append(cells, *c)
		weights = append(weights, c.Weight)
		if c.Weight > maxWeight {
			maxWeight = c.Weight
		}
	}

	thresholds := stats.Percentiles(weights, []float64{90, 70})
	for i := range cells {
		c := &cells[i]
		if maxWeight > 0 {
			c.Intensity = c.Weight / maxWeight
		}
		switch {
		case c.Weight >= thresholds[0]:
			c.Class = ClassHot
		case c.Weight >= thresholds[1]:
			c.Class = ClassWarm
		default:
			c.Class = ClassCold
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Weight != cells[j].Weight {
			return cells[i].Weight > cells[j].Weight
		}
		return cells[i].Geohash < cells[j].Geohash
	})
	return cells
}
