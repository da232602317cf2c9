package spatial

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangle = []Point{{Lat: 39, Lon: 32}, {Lat: 39, Lon: 32.01}, {Lat: 39.01, Lon: 32.01}}

func TestNormalizeRingJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"pairs", `[[32,39],[32.01,39],[32.01,39.01]]`},
		{"closed pairs", `[[32,39],[32.01,39],[32.01,39.01],[32,39]]`},
		{"triples", `[[32,39,900],[32.01,39,901],[32.01,39.01,902]]`},
		{"grouped", `[[[32,39],[32.01,39]],[[32.01,39.01]]]`},
		{"polygon nesting", `[[[[32,39],[32.01,39],[32.01,39.01],[32,39]]]]`},
		{"objects", `[{"lat":39,"lng":32},{"lat":39,"lon":32.01},{"lat":39.01,"lng":32.01}]`},
		{"mixed pairs and objects", `[[32,39],{"lat":39,"lng":32.01},[32.01,39.01]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRingJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, triangle, got)
		})
	}
}

func TestNormalizeRingRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `[[32,39`},
		{"bare number", `[[32]]`},
		{"string vertex", `["a","b"]`},
		{"too many numbers", `[[1,2,3,4]]`},
		{"out of range", `[[200,39],[32,39],[32,40]]`},
		{"object missing lng", `[{"lat":39}]`},
		{"null vertex", `[null]`},
		{"too deep", strings.Repeat("[", 12) + "[32,39]" + strings.Repeat("]", 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRingJSON([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidGeometry)

			var gerr *GeometryError
			assert.ErrorAs(t, err, &gerr)
		})
	}
}

func TestNormalizeRingTypes(t *testing.T) {
	ring := orb.Ring{{32, 39}, {32.01, 39}, {32.01, 39.01}, {32, 39}}

	got, err := NormalizeRing(orb.Polygon{ring})
	require.NoError(t, err)
	assert.Equal(t, triangle, got)

	got, err = NormalizeRing(orb.LineString(ring[:3]))
	require.NoError(t, err)
	assert.Equal(t, triangle, got)

	got, err = NormalizeRing(append(append([]Point{}, triangle...), triangle[0]))
	require.NoError(t, err)
	assert.Equal(t, triangle, got)

	got, err = NormalizeRing([][]float64{{32, 39}, {32.01, 39}, {32.01, 39.01}})
	require.NoError(t, err)
	assert.Equal(t, triangle, got)

	got, err = NormalizeRing(orb.Polygon{})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = NormalizeRing(42)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
