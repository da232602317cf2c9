// Package config holds the command line options of the server and the YAML
// calibration file that tunes the engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/grid"
	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/logger"
	"github.com/jengzang/geofield-backend-go/internal/projection"
	"github.com/jengzang/geofield-backend-go/internal/spatial"
)

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

// Options are the server flags
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Addr            string  `short:"a" long:"addr"        env:"LISTEN_ADDRESS"   description:"Address to listen on"                  default:"127.0.0.1"`
	Port            int     `short:"p" long:"port"        env:"LISTEN_PORT"      description:"Port to listen on"                     default:"8080"`
	Store           string  `short:"s" long:"store"       env:"STORE"            description:"Storage backend" choice:"sqlite" choice:"bolt" default:"sqlite"`
	DBPath          string  `long:"db"                    env:"DB_PATH"          description:"SQLite database path"                  default:"./data/geofield.db"`
	BoltPath        string  `long:"bolt"                  env:"BOLT_PATH"        description:"bbolt store path"                      default:"./data/geofield.bolt"`
	CalibrationFile string  `short:"c" long:"calibration" env:"CALIBRATION_FILE" description:"YAML calibration file, defaults apply when empty"`
	RateLimit       float64 `long:"rate-limit"            env:"RATE_LIMIT"       description:"Requests per second per client, 0 disables" default:"50"`
	RateBurst       int     `long:"rate-burst"            env:"RATE_BURST"       description:"Burst size of the rate limiter"         default:"100"`
}

// ListenAddr joins the address and port
func (o Options) ListenAddr() string {
	return fmt.Sprintf("%s:%d", o.Addr, o.Port)
}

// Calibration is the YAML file structure
type Calibration struct {
	Projection  ProjectionConfig    `yaml:"projection"`
	Measurement MeasurementConfig   `yaml:"measurement"`
	Grid        GridConfig          `yaml:"grid"`
	Heatmap     heatmap.Calibration `yaml:"heatmap"`
}

// ProjectionConfig selects the datum used for projected output
type ProjectionConfig struct {
	Datum string `yaml:"datum"` // legacy or wgs84
}

// MeasurementConfig tunes the measurement tool
type MeasurementConfig struct {
	SnapTolerance float64       `yaml:"snap_tolerance_m"`
	MaxOpen       int           `yaml:"max_open"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"` // 0 keeps idle measurements
}

// GridConfig tunes grid generation
type GridConfig struct {
	grid.Options `yaml:",inline"`
	CacheSize    int `yaml:"cache_size"`
}

// Default returns the calibration reproducing the legacy constants
func Default() *Calibration {
	return &Calibration{
		Projection:  ProjectionConfig{Datum: projection.DatumLegacy.Name},
		Measurement: MeasurementConfig{
			SnapTolerance: spatial.DefaultSnapTolerance,
			MaxOpen:       engine.DefaultMaxMeasurements,
			IdleTimeout:   engine.DefaultMeasurementIdle,
		},
		Grid:        GridConfig{Options: grid.DefaultOptions(), CacheSize: grid.DefaultCacheSize},
		Heatmap:     heatmap.DefaultCalibration(),
	}
}

// Load reads the calibration file at path over the defaults. Keys missing
// from the file keep their default value. An empty path returns the defaults.
func Load(path string) (*Calibration, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse calibration %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid calibration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot work with
func (c *Calibration) Validate() error {
	if _, err := projection.DatumByName(c.Projection.Datum); err != nil {
		return err
	}
	if c.Measurement.SnapTolerance <= 0 {
		return errors.New("measurement.snap_tolerance_m must be positive")
	}
	if c.Measurement.MaxOpen <= 0 {
		return errors.New("measurement.max_open must be positive")
	}
	if c.Measurement.IdleTimeout < 0 {
		return errors.New("measurement.idle_timeout must not be negative")
	}
	if c.Grid.Samples < 2 {
		return errors.New("grid.samples must be at least 2")
	}
	if c.Grid.MaxLines <= 0 {
		return errors.New("grid.max_lines must be positive")
	}
	if c.Heatmap.MinPixels < 0 || c.Heatmap.AutoMin < 0 {
		return errors.New("heatmap radii must not be negative")
	}
	if c.Heatmap.MaxPixels < c.Heatmap.MinPixels {
		return errors.New("heatmap.max_px must be at least heatmap.min_px")
	}
	return nil
}

// EngineConfig converts the calibration for a session
func (c *Calibration) EngineConfig() (engine.Config, error) {
	datum, err := projection.DatumByName(c.Projection.Datum)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Transformer:     projection.NewTransformer(datum),
		SnapTolerance:   c.Measurement.SnapTolerance,
		MaxMeasurements: c.Measurement.MaxOpen,
		MeasurementIdle: c.Measurement.IdleTimeout,
		Grid:            c.Grid.Options,
		GridCacheSize:   c.Grid.CacheSize,
		Calibration:     c.Heatmap,
	}, nil
}

// Marshal encodes the calibration as YAML
func (c *Calibration) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
