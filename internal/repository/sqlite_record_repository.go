package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/geofield-backend-go/internal/models"
)

// SQLiteRecordRepository handles database operations for records
type SQLiteRecordRepository struct {
	db *sql.DB
}

// NewSQLiteRecordRepository creates a new record repository
func NewSQLiteRecordRepository(db *sql.DB) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{db: db}
}

const recordColumns = `id, label, strike, dip, latitude, longitude, altitude, note, geometry, geometry_kind, created_at`

// List returns all records ordered by ID
func (r *SQLiteRecordRepository) List(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Get retrieves a record by ID
func (r *SQLiteRecordRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return rec, err
}

// Create inserts a record and sets its ID
func (r *SQLiteRecordRepository) Create(ctx context.Context, rec *models.Record) error {
	geometry, err := encodeGeometry(rec.Geometry)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO records (
			label, strike, dip, latitude, longitude, altitude, note,
			geometry, geometry_kind, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.Label,
		rec.Strike,
		rec.Dip,
		rec.Coordinate.Lat,
		rec.Coordinate.Lon,
		nullFloat(rec.Coordinate.Altitude),
		rec.Note,
		geometry,
		string(rec.GeometryKind),
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rec.ID = id
	return nil
}

// Update overwrites every column except created_at
func (r *SQLiteRecordRepository) Update(ctx context.Context, rec *models.Record) error {
	geometry, err := encodeGeometry(rec.Geometry)
	if err != nil {
		return err
	}

	query := `
		UPDATE records SET
			label = ?, strike = ?, dip = ?, latitude = ?, longitude = ?,
			altitude = ?, note = ?, geometry = ?, geometry_kind = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		rec.Label,
		rec.Strike,
		rec.Dip,
		rec.Coordinate.Lat,
		rec.Coordinate.Lon,
		nullFloat(rec.Coordinate.Altitude),
		rec.Note,
		geometry,
		string(rec.GeometryKind),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return requireAffected(result, fmt.Sprintf("record %d", rec.ID))
}

// Delete removes a record
func (r *SQLiteRecordRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return requireAffected(result, fmt.Sprintf("record %d", id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (*models.Record, error) {
	var (
		rec       models.Record
		altitude  sql.NullFloat64
		geometry  sql.NullString
		kind      string
		createdAt string
	)
	err := s.Scan(
		&rec.ID,
		&rec.Label,
		&rec.Strike,
		&rec.Dip,
		&rec.Coordinate.Lat,
		&rec.Coordinate.Lon,
		&altitude,
		&rec.Note,
		&geometry,
		&kind,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}

	if altitude.Valid {
		a := altitude.Float64
		rec.Coordinate.Altitude = &a
	}
	if geometry.Valid && geometry.String != "" {
		if err := json.Unmarshal([]byte(geometry.String), &rec.Geometry); err != nil {
			return nil, fmt.Errorf("failed to decode geometry of record %d: %w", rec.ID, err)
		}
	}
	rec.GeometryKind = models.GeometryKind(kind)
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at of record %d: %w", rec.ID, err)
	}
	return &rec, nil
}

func encodeGeometry(g []models.GeoPoint) (sql.NullString, error) {
	if len(g) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(g)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func requireAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
