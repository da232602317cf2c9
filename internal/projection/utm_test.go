package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneFor(t *testing.T) {
	tests := []struct {
		lon  float64
		zone int
	}{
		{-180, 1},
		{-177.5, 1},
		{-174, 2},
		{0, 31},
		{2.999, 31},
		{3, 31},
		{32.0, 36},
		{35.9, 36},
		{36.0, 37},
		{179.9, 60},
		{180, 60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.zone, ZoneFor(tt.lon), "lon=%v", tt.lon)
	}
}

func TestCentralMeridian(t *testing.T) {
	assert.Equal(t, -177.0, CentralMeridian(1))
	assert.Equal(t, 3.0, CentralMeridian(31))
	assert.Equal(t, 33.0, CentralMeridian(36))
	assert.Equal(t, 177.0, CentralMeridian(60))
}

func TestWGS84KnownValues(t *testing.T) {
	tr := NewTransformer(DatumWGS84)

	p, err := tr.ToProjected(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 31, p.Zone)
	assert.InDelta(t, 500000.0, p.Easting, 1e-6)
	assert.InDelta(t, 0.0, p.Northing, 1e-6)

	// meridian arc to 45° on WGS84 is 4984944.38 m
	p, err = tr.ToProjected(3, 45)
	require.NoError(t, err)
	assert.InDelta(t, 500000.0, p.Easting, 1e-6)
	assert.InDelta(t, 4984944.38*scaleFactor, p.Northing, 0.5)

	// east of the central meridian easting grows, symmetric about it
	east, err := tr.ToProjected(4, 45)
	require.NoError(t, err)
	west, err := tr.ToProjected(2, 45)
	require.NoError(t, err)
	assert.Greater(t, east.Easting, 500000.0)
	assert.InDelta(t, east.Easting-500000, 500000-west.Easting, 1e-6)
	assert.InDelta(t, east.Northing, west.Northing, 1e-6)
}

func TestLegacyDatumShift(t *testing.T) {
	wgs, err := NewTransformer(DatumWGS84).ToProjected(3, 0)
	require.NoError(t, err)
	leg, err := ToProjected(3, 0)
	require.NoError(t, err)

	// the shift moves points by tens to a couple of hundred meters, never more
	d := math.Hypot(leg.Easting-wgs.Easting, leg.Northing-wgs.Northing)
	assert.Greater(t, d, 10.0)
	assert.Less(t, d, 300.0)
}

func TestRoundTrip(t *testing.T) {
	for _, tr := range []*Transformer{Legacy(), NewTransformer(DatumWGS84)} {
		for lat := -80.0; lat <= 84.0; lat += 7.3 {
			for lon := -179.5; lon <= 179.5; lon += 5.7 {
				p, err := tr.ToProjected(lon, lat)
				require.NoError(t, err, "lon=%v lat=%v", lon, lat)

				gotLon, gotLat, err := tr.ToGeographic(p.Easting, p.Northing, p.Zone)
				require.NoError(t, err)
				assert.InDelta(t, lon, gotLon, 1e-6, "%s lon=%v lat=%v", tr.Datum().Name, lon, lat)
				assert.InDelta(t, lat, gotLat, 1e-6, "%s lon=%v lat=%v", tr.Datum().Name, lon, lat)
			}
		}
	}
}

func TestRoundTripFieldArea(t *testing.T) {
	lon, lat := 32.0, 39.0
	p, err := ToProjected(lon, lat)
	require.NoError(t, err)
	assert.Equal(t, 36, p.Zone)

	// the datum shift runs at zero height both ways, which leaves a few
	// nanodegrees of residual
	gotLon, gotLat, err := ToGeographic(p.Easting, p.Northing, p.Zone)
	require.NoError(t, err)
	assert.InDelta(t, lon, gotLon, 1e-6)
	assert.InDelta(t, lat, gotLat, 1e-6)

	wgs := NewTransformer(DatumWGS84)
	p, err = wgs.ToProjected(lon, lat)
	require.NoError(t, err)
	gotLon, gotLat, err = wgs.ToGeographic(p.Easting, p.Northing, p.Zone)
	require.NoError(t, err)
	assert.InDelta(t, lon, gotLon, 1e-8)
	assert.InDelta(t, lat, gotLat, 1e-8)
}

func TestSouthernHemisphereNorthingIsNegative(t *testing.T) {
	p, err := ToProjected(-47.9, -15.8)
	require.NoError(t, err)
	assert.Less(t, p.Northing, 0.0)

	lon, lat, err := ToGeographic(p.Easting, p.Northing, p.Zone)
	require.NoError(t, err)
	assert.InDelta(t, -47.9, lon, 1e-6)
	assert.InDelta(t, -15.8, lat, 1e-6)
}

func TestInvalidCoordinate(t *testing.T) {
	inputs := [][2]float64{
		{math.NaN(), 10},
		{10, math.NaN()},
		{181, 0},
		{-180.5, 0},
		{0, 90.1},
		{0, -91},
		{math.Inf(1), 0},
	}

	for _, in := range inputs {
		_, err := ToProjected(in[0], in[1])
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCoordinate)

		var ce *CoordinateError
		assert.ErrorAs(t, err, &ce)
	}
}

func TestToGeographicRejectsBadZone(t *testing.T) {
	_, _, err := ToGeographic(500000, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	_, _, err = ToGeographic(500000, 0, 61)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)

	_, _, err = ToGeographic(math.NaN(), 0, 31)
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestDatumByName(t *testing.T) {
	d, err := DatumByName("")
	require.NoError(t, err)
	assert.Equal(t, DatumLegacy, d)

	d, err = DatumByName("WGS84")
	require.NoError(t, err)
	assert.Equal(t, DatumWGS84, d)

	_, err = DatumByName("nad27")
	assert.Error(t, err)
}
