package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentiles(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	got := Percentiles(values, []float64{0, 50, 100, 25, -10, 150})
	assert.Equal(t, []float64{1, 3, 5, 2, 1, 5}, got)

	assert.InDelta(t, 1.4, Percentile([]float64{1, 2}, 40), 1e-12)
	assert.Equal(t, []float64{0, 0}, Percentiles(nil, []float64{10, 90}))
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values, "input must not be reordered")
	assert.Equal(t, 3.0, Median(values))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{10, 20, math.NaN(), 30, 40})
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 40.0, s.Max)
	assert.InDelta(t, 25, s.Median, 1e-12)
	assert.InDelta(t, 25, s.Mean, 1e-12)
	assert.InDelta(t, 17.5, s.Q1, 1e-12)

	assert.Equal(t, Summary{}, Summarize(nil))
}
