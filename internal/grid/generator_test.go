package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

func square() []spatial.Point {
	return []spatial.Point{
		{Lat: 39.00, Lon: 32.00},
		{Lat: 39.00, Lon: 32.01},
		{Lat: 39.01, Lon: 32.01},
		{Lat: 39.01, Lon: 32.00},
	}
}

// U open to the north: arms at lon 0..0.01 and 0.02..0.03
func uShape() []spatial.Point {
	return []spatial.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.03},
		{Lat: 0.03, Lon: 0.03},
		{Lat: 0.03, Lon: 0.02},
		{Lat: 0.01, Lon: 0.02},
		{Lat: 0.01, Lon: 0.01},
		{Lat: 0.03, Lon: 0.01},
		{Lat: 0.03, Lon: 0},
	}
}

func assertContained(t *testing.T, g *Grid, boundary []spatial.Point) {
	t.Helper()
	for _, l := range g.Lines {
		require.GreaterOrEqual(t, len(l.Points), 2)
		for _, p := range l.Points {
			assert.True(t, spatial.PointInPolygon(p, boundary), "%s %d leaked %+v", l.Kind, l.Index, p)
		}
	}
}

func TestGenerateSquare(t *testing.T) {
	g, err := Generate(square(), 100, "#ff0000", DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, g.Lines)

	assert.InDelta(t, 100/spatial.MetersPerDegree, g.DLat, 1e-15)
	assert.Greater(t, g.DLon, g.DLat)
	assertContained(t, g, square())

	meridians, parallels := g.SegmentCount()
	assert.InDelta(t, 8, meridians, 1)
	assert.InDelta(t, 11, parallels, 1)

	for _, l := range g.Lines {
		assert.Equal(t, "#ff0000", l.Color)
		assert.LessOrEqual(t, len(l.Points), DefaultSamples)
		step := g.DLat
		if l.Kind == KindMeridian {
			step = g.DLon
		}
		assert.Equal(t, float64(l.Index)*step, l.Value, "lines sit on global multiples of the spacing")
	}
}

func TestGenerateReentrantBoundary(t *testing.T) {
	boundary := uShape()
	g, err := Generate(boundary, 556.6, "blue", DefaultOptions())
	require.NoError(t, err)
	assertContained(t, g, boundary)

	runs := map[int64]int{}
	for _, l := range g.Lines {
		if l.Kind == KindParallel {
			runs[l.Index]++
		}
	}

	split := 0
	for _, n := range runs {
		if n >= 2 {
			split++
		}
	}
	assert.Positive(t, split, "a parallel crossing both arms must yield separate segments")
	assert.LessOrEqual(t, runs[4], 2)
}

func TestGenerateSharedAlignment(t *testing.T) {
	west := square()
	east := make([]spatial.Point, len(west))
	for i, p := range west {
		east[i] = spatial.Point{Lat: p.Lat, Lon: p.Lon + 0.01}
	}

	gw, err := Generate(west, 200, "", DefaultOptions())
	require.NoError(t, err)
	ge, err := Generate(east, 200, "", DefaultOptions())
	require.NoError(t, err)

	lats := func(g *Grid) map[int64]float64 {
		out := map[int64]float64{}
		for _, l := range g.Lines {
			if l.Kind == KindParallel {
				out[l.Index] = l.Value
			}
		}
		return out
	}
	assert.Equal(t, lats(gw), lats(ge))
}

func TestGenerateAcceptsClosedBoundary(t *testing.T) {
	open, err := Generate(square(), 250, "", DefaultOptions())
	require.NoError(t, err)

	closed, err := Generate(append(square(), square()[0]), 250, "", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, open.Lines, closed.Lines)
}

func TestGenerateSampleCount(t *testing.T) {
	g, err := Generate(square(), 250, "", Options{Samples: 10})
	require.NoError(t, err)
	for _, l := range g.Lines {
		assert.LessOrEqual(t, len(l.Points), 10)
	}
}

func TestGenerateSmallBoundaryHasNoLines(t *testing.T) {
	tiny := []spatial.Point{
		{Lat: 39.0001, Lon: 32.0001},
		{Lat: 39.0001, Lon: 32.0002},
		{Lat: 39.0002, Lon: 32.0002},
	}
	g, err := Generate(tiny, 1000, "", DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, g.Lines)
}

func TestGenerateInvalidSpacing(t *testing.T) {
	for _, s := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := Generate(square(), s, "", DefaultOptions())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSpacing, "spacing=%v", s)

		var serr *SpacingError
		assert.ErrorAs(t, err, &serr)
	}
}

func TestGenerateInvalidBoundary(t *testing.T) {
	_, err := Generate(square()[:2], 100, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	_, err = Generate(nil, 100, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	bad := append(square()[:2], spatial.Point{Lat: 95, Lon: 0})
	_, err = Generate(bad, 100, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidBoundary)

	pole := []spatial.Point{{Lat: 90, Lon: 0}, {Lat: 90, Lon: 1}, {Lat: 90, Lon: 2}}
	_, err = Generate(pole, 100, "", DefaultOptions())
	var berr *BoundaryError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 3, berr.Vertices)
}

func TestGenerateTooDense(t *testing.T) {
	_, err := Generate(square(), 0.5, "", DefaultOptions())
	assert.ErrorIs(t, err, ErrGridTooDense)

	_, err = Generate(square(), 100, "", Options{MaxLines: 5})
	assert.ErrorIs(t, err, ErrGridTooDense)
}
