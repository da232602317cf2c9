package compass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatStrike(t *testing.T) {
	tests := []struct {
		heading float64
		want    string
	}{
		{0, "N0W"},
		{35, "N35E"},
		{325, "N35W"},
		{180, "N0W"},
		{135, "N45W"},
		{225, "N45E"},
		{90, "N90E"},
		{270, "N90W"},
		{359.6, "N0W"},
		{10.4, "N10E"},
		{-35, "N35W"},
		{395, "N35E"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatStrike(tt.heading), "heading=%v", tt.heading)
	}

	assert.Empty(t, FormatStrike(math.NaN()))
	assert.Empty(t, FormatStrike(math.Inf(-1)))
}

func TestParseStrike(t *testing.T) {
	for _, h := range []float64{0, 35, 90, 145, 179} {
		got, err := ParseStrike(FormatStrike(h))
		require.NoError(t, err)
		assert.InDelta(t, 0, math.Mod(got-h+360, 180), 1e-9, "heading=%v", h)
	}

	got, err := ParseStrike(" n35w ")
	require.NoError(t, err)
	assert.Equal(t, 145.0, got)

	for _, bad := range []string{"", "S35E", "N95E", "Nabc", "N35X", "N", "NNaNE", "NInfW"} {
		_, err := ParseStrike(bad)
		assert.ErrorIs(t, err, ErrInvalidStrike, bad)
	}
}

func TestFormatAttitude(t *testing.T) {
	assert.Equal(t, "N35E/20", FormatAttitude(35, 19.6))
	assert.Empty(t, FormatAttitude(math.NaN(), 20))
	assert.Empty(t, FormatAttitude(35, math.Inf(1)))
}

func TestDip(t *testing.T) {
	assert.InDelta(t, 0, DipFromTilt(0, 0), 1e-9)
	assert.InDelta(t, 30, DipFromTilt(30, 0), 1e-9)
	assert.InDelta(t, 45, DipFromTilt(0, -45), 1e-9)
	assert.InDelta(t, 90, DipFromTilt(90, 10), 1e-9)
	assert.InDelta(t, 20, DipFromTilt(160, 0), 1e-9)

	assert.Equal(t, 125.0, DipDirection(35))
	assert.Equal(t, 55.0, DipDirection(325))
}

func TestHeadingSmoother(t *testing.T) {
	s := NewHeadingSmoother(4)
	s.Add(350)
	got := s.Add(10)
	assert.InDelta(t, 0, math.Min(got, 360-got), 1e-9)

	for i := 0; i < 4; i++ {
		got = s.Add(90)
	}
	assert.InDelta(t, 90, got, 1e-9)
	assert.InDelta(t, 1, s.Stability(), 1e-12)
	assert.InDelta(t, 90, s.Add(math.NaN()), 1e-9)

	s.Reset()
	assert.Zero(t, s.Heading())
	assert.Zero(t, s.Stability())
	assert.InDelta(t, 45, s.Add(45), 1e-9)
}
