// Package repository persists records and layers. Two stores implement the
// same interfaces: SQLite for the default deployment and bbolt for a single
// file key/value store.
package repository

import (
	"context"
	"errors"

	"github.com/jengzang/geofield-backend-go/internal/models"
)

// ErrNotFound is returned when a row or key does not exist
var ErrNotFound = errors.New("not found")

// RecordRepository stores field records. Create assigns a new monotonic ID;
// IDs are never reused after deletion.
type RecordRepository interface {
	List(ctx context.Context) ([]models.Record, error)
	Get(ctx context.Context, id int64) (*models.Record, error)
	Create(ctx context.Context, r *models.Record) error
	Update(ctx context.Context, r *models.Record) error
	Delete(ctx context.Context, id int64) error
}

// LayerRepository stores imported layers keyed by their string ID
type LayerRepository interface {
	List(ctx context.Context) ([]models.ExternalLayer, error)
	Get(ctx context.Context, id string) (*models.ExternalLayer, error)
	Save(ctx context.Context, l *models.ExternalLayer) error
	Delete(ctx context.Context, id string) error
}
