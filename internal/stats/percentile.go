// Package stats holds the small descriptive statistics used for density
// classes and attitude summaries.
package stats

import (
	"math"
	"sort"
)

// Percentile calculates the p-th percentile (0-100)
// Uses linear interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	return Percentiles(values, []float64{p})[0]
}

// Percentiles calculates multiple percentiles at once
func Percentiles(values []float64, ps []float64) []float64 {
	results := make([]float64, len(ps))
	if len(values) == 0 {
		return results
	}

	// Sort once for efficiency
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	for i, p := range ps {
		results[i] = quantileSorted(sorted, clamp(p, 0, 100)/100.0)
	}
	return results
}

// Median returns the 50th percentile
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

func quantileSorted(sorted []float64, q float64) float64 {
	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	// Linear interpolation
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Summary is the five-number summary plus mean and count
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Summarize returns the Summary of values; NaN entries are skipped
func Summarize(values []float64) Summary {
	clean := make([]float64, 0, len(values))
	var sum float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		clean = append(clean, v)
		sum += v
	}
	if len(clean) == 0 {
		return Summary{}
	}

	q := Percentiles(clean, []float64{0, 25, 50, 75, 100})
	return Summary{
		Count:  len(clean),
		Min:    q[0],
		Q1:     q[1],
		Median: q[2],
		Q3:     q[3],
		Max:    q[4],
		Mean:   sum / float64(len(clean)),
	}
}
