package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultsReproduceLegacyConstants(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, projection.DatumLegacy, ec.Transformer.Datum())
	assert.Equal(t, spatial.DefaultSnapTolerance, ec.SnapTolerance)
	assert.Equal(t, grid.DefaultOptions(), ec.Grid)
	assert.Equal(t, grid.DefaultCacheSize, ec.GridCacheSize)
	assert.Equal(t, heatmap.DefaultCalibration(), ec.Calibration)
	assert.Equal(t, engine.DefaultMaxMeasurements, ec.MaxMeasurements)
	assert.Equal(t, engine.DefaultMeasurementIdle, ec.MeasurementIdle)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeFile(t, `
projection:
  datum: wgs84
grid:
  max_lines: 500
measurement:
  idle_timeout: 30m
heatmap:
  min_px: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wgs84", cfg.Projection.Datum)
	assert.Equal(t, 500, cfg.Grid.MaxLines)
	assert.Equal(t, grid.DefaultSamples, cfg.Grid.Samples)
	assert.Equal(t, 8.0, cfg.Heatmap.MinPixels)
	assert.Equal(t, 30*time.Minute, cfg.Measurement.IdleTimeout)
	assert.Equal(t, engine.DefaultMaxMeasurements, cfg.Measurement.MaxOpen)
	assert.Equal(t, 45.0, cfg.Heatmap.AutoBase)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, projection.DatumWGS84, ec.Transformer.Datum())
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"unknown datum": "projection:\n  datum: nad27\n",
		"bad snap":      "measurement:\n  snap_tolerance_m: -1\n",
		"few samples":   "grid:\n  samples: 1\n",
		"max below min": "heatmap:\n  min_px: 10\n  max_px: 4\n",
		"no open slots": "measurement:\n  max_open: 0\n",
		"bad yaml":      "grid: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "snap_tolerance_m: 30")

	path := writeFile(t, string(data))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", Options{Addr: "127.0.0.1", Port: 8080}.ListenAddr())
}
