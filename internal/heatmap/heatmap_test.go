package heatmap

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

func fieldRecords() []models.Record {
	return []models.Record{
		{ID: 1, Label: "Pirit-1", Coordinate: models.GeoPoint{Lat: 39.0, Lon: 32.0}},
		{ID: 2, Label: "Galen-2", Coordinate: models.GeoPoint{Lat: 39.001, Lon: 32.001}},
	}
}

func TestBuildWeightedPointsFilter(t *testing.T) {
	got := BuildWeightedPoints(fieldRecords(), nil, "FE")
	require.Len(t, got, 1)
	assert.Equal(t, WeightedPoint{Lat: 39.0, Lon: 32.0, Weight: 1.0}, got[0])

	got = BuildWeightedPoints(fieldRecords(), nil, "pb")
	require.Len(t, got, 1)
	assert.Equal(t, 39.001, got[0].Lat)

	assert.Len(t, BuildWeightedPoints(fieldRecords(), nil, FilterAll), 2)
	assert.Len(t, BuildWeightedPoints(fieldRecords(), nil, ""), 2)
	assert.Empty(t, BuildWeightedPoints(fieldRecords(), nil, "AU"))
}

func TestBuildWeightedPointsKeepsDuplicates(t *testing.T) {
	records := append(fieldRecords(), models.Record{ID: 3, Label: "pirit", Coordinate: models.GeoPoint{Lat: 39.0, Lon: 32.0}})
	got := BuildWeightedPoints(records, nil, "FE")
	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
}

func TestBuildWeightedPointsSkipsInvalid(t *testing.T) {
	records := append(fieldRecords(), models.Record{ID: 3, Label: "pirit", Coordinate: models.GeoPoint{Lat: 120, Lon: 32.0}})
	assert.Len(t, BuildWeightedPoints(records, nil, "FE"), 1)
}

func surveyLayer(visible bool) models.ExternalLayer {
	fc := geojson.NewFeatureCollection()

	pt := geojson.NewFeature(orb.Point{32.2, 39.2})
	pt.Properties["name"] = "Cu showing"
	fc.Append(pt)

	mp := geojson.NewFeature(orb.MultiPoint{{32.3, 39.3}, {32.4, 39.4}})
	mp.Properties["description"] = "malahit ve azurit"
	fc.Append(mp)

	poly := geojson.NewFeature(orb.Polygon{{{32, 39}, {32.2, 39}, {32.2, 39.2}, {32, 39.2}, {32, 39}}})
	poly.Properties["name"] = "Altın zonu"
	fc.Append(poly)

	l := models.ExternalLayer{ID: "survey", Features: fc, Visible: visible}
	l.RefreshTags()
	return l
}

func TestBuildWeightedPointsLayers(t *testing.T) {
	layers := []models.ExternalLayer{surveyLayer(true)}

	cu := BuildWeightedPoints(nil, layers, "CU")
	require.Len(t, cu, 3, "point plus both multipoint members")

	au := BuildWeightedPoints(nil, layers, "AU")
	require.Len(t, au, 1)
	assert.InDelta(t, 39.1, au[0].Lat, 1e-12)
	assert.InDelta(t, 32.1, au[0].Lon, 1e-12)

	assert.Len(t, BuildWeightedPoints(nil, layers, FilterAll), 4)
	assert.Empty(t, BuildWeightedPoints(nil, []models.ExternalLayer{surveyLayer(false)}, FilterAll))
}

func TestBuildWeightedPointsUnscannedLayer(t *testing.T) {
	l := surveyLayer(true)
	l.FeatureTags = nil
	assert.Len(t, BuildWeightedPoints(nil, []models.ExternalLayer{l}, "CU"), 3)
}

func TestRadius(t *testing.T) {
	cal := DefaultCalibration()

	assert.Equal(t, 7, Radius(1000, View{Zoom: 10, CenterLat: 0}, cal))
	assert.Equal(t, 5, Radius(10, View{Zoom: 10, CenterLat: 0}, cal))
	assert.Equal(t, 30, Radius(0, View{Zoom: 10}, cal))
	assert.Equal(t, 15, Radius(0, View{Zoom: 20}, cal))
	assert.Equal(t, 45, Radius(0, View{Zoom: 0}, cal))
	assert.Equal(t, 5, Radius(1000, View{Zoom: 10, CenterLat: 90}, cal))
	assert.Equal(t, 5, Radius(1e6, View{Zoom: 10, CenterLat: 90}, cal))
	assert.Equal(t, 5, Radius(-100, View{Zoom: 10}, cal))
	assert.Equal(t, 5, Radius(math.Inf(1), View{Zoom: 10}, cal))
	assert.Equal(t, 2048, Radius(1e30, View{Zoom: 22}, cal))

	tuned := Calibration{MinPixels: 1, AutoBase: 60, AutoSlope: 2, AutoMin: 10, MaxPixels: 100}
	assert.Equal(t, 40, Radius(0, View{Zoom: 10}, tuned))
	assert.Equal(t, 100, Radius(1e5, View{Zoom: 10}, tuned))
}

func TestMetersPerPixel(t *testing.T) {
	assert.InDelta(t, 156543.03, MetersPerPixel(View{Zoom: 0}), 0.01)
	assert.InDelta(t, MetersPerPixel(View{Zoom: 10})/2, MetersPerPixel(View{Zoom: 10, CenterLat: 60}), 1e-6)
}

func TestDensityCells(t *testing.T) {
	// cell i holds i points, i = 1..10
	var points []WeightedPoint
	for i := 1; i <= 10; i++ {
		for j := 0; j < i; j++ {
			points = append(points, WeightedPoint{Lat: 39 + 0.1*float64(i), Lon: 32.0001, Weight: 1})
		}
	}
	points = append(points, WeightedPoint{Lat: 91, Lon: 0, Weight: 1})

	cells := DensityCells(points, 6)
	require.Len(t, cells, 10)

	assert.Equal(t, 10, cells[0].Count)
	assert.Equal(t, 1.0, cells[0].Intensity)
	assert.Equal(t, ClassHot, cells[0].Class)
	assert.Equal(t, ClassWarm, cells[1].Class)
	assert.Equal(t, ClassWarm, cells[2].Class)
	for _, c := range cells[3:] {
		assert.Equal(t, ClassCold, c.Class, "weight %v", c.Weight)
	}
	assert.InDelta(t, 0.1, cells[9].Intensity, 1e-12)
	assert.True(t, cells[0].Bounds.Contains(spatial.Point{Lat: 40, Lon: 32.0001}))
	assert.Len(t, cells[0].Geohash, 6)

	assert.Empty(t, DensityCells(nil, 0))
}
