package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/geofield-backend-go/internal/database"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

type stores struct {
	records RecordRepository
	layers  LayerRepository
}

func openStores(t *testing.T) map[string]stores {
	t.Helper()
	dir := t.TempDir()

	sqlDB, err := database.Open(database.Config{Path: filepath.Join(dir, "field.db")})
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	boltDB, err := OpenBolt(filepath.Join(dir, "field.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { boltDB.Close() })

	return map[string]stores{
		"sqlite": {NewSQLiteRecordRepository(sqlDB), NewSQLiteLayerRepository(sqlDB)},
		"bolt":   {NewBoltRecordRepository(boltDB), NewBoltLayerRepository(boltDB)},
	}
}

func sampleRecord() models.Record {
	alt := 1250.5
	return models.Record{
		Label:      "Pirit-1",
		Strike:     35,
		Dip:        20,
		Coordinate: models.GeoPoint{Lat: 39, Lon: 32, Altitude: &alt},
		Note:       "galen izleri",
		CreatedAt:  time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestRecordRepositories(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleRecord()
			require.NoError(t, s.records.Create(ctx, &rec))
			assert.Equal(t, int64(1), rec.ID)

			poly := sampleRecord()
			poly.Label = "Zone"
			poly.Coordinate.Altitude = nil
			poly.GeometryKind = models.GeometryPolygon
			poly.Geometry = []models.GeoPoint{{Lat: 39, Lon: 32}, {Lat: 39, Lon: 32.001}, {Lat: 39.001, Lon: 32.001}}
			require.NoError(t, s.records.Create(ctx, &poly))
			assert.Equal(t, int64(2), poly.ID)

			got, err := s.records.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, "Pirit-1", got.Label)
			require.NotNil(t, got.Coordinate.Altitude)
			assert.InDelta(t, 1250.5, *got.Coordinate.Altitude, 1e-9)
			assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))
			assert.Empty(t, got.Geometry)

			got, err = s.records.Get(ctx, poly.ID)
			require.NoError(t, err)
			assert.Nil(t, got.Coordinate.Altitude)
			assert.Equal(t, models.GeometryPolygon, got.GeometryKind)
			assert.Equal(t, poly.Geometry, got.Geometry)

			rec.Note = "updated"
			rec.CreatedAt = time.Time{}
			require.NoError(t, s.records.Update(ctx, &rec))
			got, err = s.records.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, "updated", got.Note)
			assert.True(t, got.CreatedAt.Equal(sampleRecord().CreatedAt))

			all, err := s.records.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, int64(1), all[0].ID)
			assert.Equal(t, int64(2), all[1].ID)

			require.NoError(t, s.records.Delete(ctx, rec.ID))
			_, err = s.records.Get(ctx, rec.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.records.Delete(ctx, rec.ID), ErrNotFound)

			missing := sampleRecord()
			missing.ID = 99
			assert.ErrorIs(t, s.records.Update(ctx, &missing), ErrNotFound)

			// deleted IDs are not handed out again
			next := sampleRecord()
			require.NoError(t, s.records.Create(ctx, &next))
			assert.Equal(t, int64(3), next.ID)
		})
	}
}

func TestLayerRepositories(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			fc := geojson.NewFeatureCollection()
			f := geojson.NewFeature(orb.Point{32.5, 39.5})
			f.Properties["name"] = "Galen ocağı"
			fc.Append(f)

			first := models.ExternalLayer{
				ID:        "b-layer",
				Name:      "Survey",
				Features:  fc,
				Visible:   true,
				Style:     models.LayerStyle{Color: "#ff0000", Opacity: 0.5, ShowLabels: true},
				CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}
			first.RefreshTags()
			require.True(t, first.Tags.Has(tagging.Tag("PB")))
			require.NoError(t, s.layers.Save(ctx, &first))

			second := models.ExternalLayer{
				ID:        "a-layer",
				Name:      "Later",
				Features:  geojson.NewFeatureCollection(),
				CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			}
			second.RefreshTags()
			require.NoError(t, s.layers.Save(ctx, &second))

			got, err := s.layers.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "Survey", got.Name)
			assert.Equal(t, first.Style, got.Style)
			assert.Equal(t, 1, got.FeatureCount())
			assert.True(t, got.Tags.Has(tagging.Tag("PB")))
			require.Len(t, got.FeatureTags, 1)
			assert.True(t, got.FeatureTags[0].Has(tagging.Tag("PB")))

			first.Visible = false
			require.NoError(t, s.layers.Save(ctx, &first))

			all, err := s.layers.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "b-layer", all[0].ID)
			assert.False(t, all[0].Visible)
			assert.Equal(t, "a-layer", all[1].ID)

			require.NoError(t, s.layers.Delete(ctx, first.ID))
			_, err = s.layers.Get(ctx, first.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.layers.Delete(ctx, "nope"), ErrNotFound)
		})
	}
}
