package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

// SQLiteLayerRepository handles database operations for imported layers
type SQLiteLayerRepository struct {
	db *sql.DB
}

// NewSQLiteLayerRepository creates a new layer repository
func NewSQLiteLayerRepository(db *sql.DB) *SQLiteLayerRepository {
	return &SQLiteLayerRepository{db: db}
}

const layerColumns = `id, name, features, visible, style, tags, feature_tags, created_at`

// List returns layers in import order
func (r *SQLiteLayerRepository) List(ctx context.Context) ([]models.ExternalLayer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+layerColumns+` FROM layers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query layers: %w", err)
	}
	defer rows.Close()

	var layers []models.ExternalLayer
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, err
		}
		layers = append(layers, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating layers: %w", err)
	}

	return layers, nil
}

// Get retrieves a layer by ID
func (r *SQLiteLayerRepository) Get(ctx context.Context, id string) (*models.ExternalLayer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+layerColumns+` FROM layers WHERE id = ?`, id)
	l, err := scanLayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("layer %s: %w", id, ErrNotFound)
	}
	return l, err
}

// Save inserts or replaces a layer
func (r *SQLiteLayerRepository) Save(ctx context.Context, l *models.ExternalLayer) error {
	features, err := json.Marshal(l.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	style, err := json.Marshal(l.Style)
	if err != nil {
		return fmt.Errorf("failed to encode style: %w", err)
	}
	tags, err := json.Marshal(l.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	featureTags, err := json.Marshal(l.FeatureTags)
	if err != nil {
		return fmt.Errorf("failed to encode feature tags: %w", err)
	}

	query := `
		INSERT INTO layers (id, name, features, visible, style, tags, feature_tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			features = excluded.features,
			visible = excluded.visible,
			style = excluded.style,
			tags = excluded.tags,
			feature_tags = excluded.feature_tags
	`
	_, err = r.db.ExecContext(ctx, query,
		l.ID,
		l.Name,
		string(features),
		l.Visible,
		string(style),
		string(tags),
		string(featureTags),
		l.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save layer: %w", err)
	}
	return nil
}

// Delete removes a layer
func (r *SQLiteLayerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM layers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete layer: %w", err)
	}
	return requireAffected(result, "layer "+id)
}

func scanLayer(s rowScanner) (*models.ExternalLayer, error) {
	var (
		l                                  models.ExternalLayer
		features, style, tags, featureTags string
		createdAt                          string
	)
	err := s.Scan(&l.ID, &l.Name, &features, &l.Visible, &style, &tags, &featureTags, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan layer: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection([]byte(features))
	if err != nil {
		return nil, fmt.Errorf("failed to decode features of layer %s: %w", l.ID, err)
	}
	l.Features = fc
	if err := json.Unmarshal([]byte(style), &l.Style); err != nil {
		return nil, fmt.Errorf("failed to decode style of layer %s: %w", l.ID, err)
	}
	l.Tags = tagging.NewTagSet()
	if err := json.Unmarshal([]byte(tags), &l.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of layer %s: %w", l.ID, err)
	}
	if err := json.Unmarshal([]byte(featureTags), &l.FeatureTags); err != nil {
		return nil, fmt.Errorf("failed to decode feature tags of layer %s: %w", l.ID, err)
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at of layer %s: %w", l.ID, err)
	}
	return &l, nil
}
