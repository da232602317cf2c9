package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/heatmap"
	"github.com/jengzang/geofield-backend-go/internal/models"
	"github.com/jengzang/geofield-backend-go/internal/repository"
	"github.com/jengzang/geofield-backend-go/internal/tagging"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// RecordService handles business logic for field records
type RecordService struct {
	ws   *Workspace
	repo repository.RecordRepository
	now  func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(ws *Workspace, repo repository.RecordRepository) *RecordService {
	return &RecordService{ws: ws, repo: repo, now: time.Now}
}

// List returns one page of records matching filter, ordered by ID
func (s *RecordService) List(filter models.RecordFilter) (*models.RecordsResponse, error) {
	var tag tagging.Tag
	if f := heatmap.NormalizeFilter(filter.Tag); f != heatmap.FilterAll {
		t, ok := tagging.Lookup(f)
		if !ok {
			return nil, fmt.Errorf("%w: %q", engine.ErrUnknownTag, filter.Tag)
		}
		tag = t
	}

	var records []models.Record
	s.ws.Do(func(sess *engine.Session) error {
		records = sess.Records()
		return nil
	})

	matched := records[:0]
	for _, r := range records {
		if tag != "" && !r.Tags().Has(tag) {
			continue
		}
		if filter.Since > 0 && r.CreatedAt.Unix() < filter.Since {
			continue
		}
		if filter.Until > 0 && r.CreatedAt.Unix() > filter.Until {
			continue
		}
		matched = append(matched, r)
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &models.RecordsResponse{
		Data:       append([]models.Record{}, matched[start:end]...),
		Total:      int64(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Get retrieves a record by ID
func (s *RecordService) Get(id int64) (models.Record, error) {
	var rec models.Record
	err := s.ws.Do(func(sess *engine.Session) error {
		r, ok := sess.Record(id)
		if !ok {
			return fmt.Errorf("%w: %d", engine.ErrRecordNotFound, id)
		}
		rec = r
		return nil
	})
	return rec, err
}

// Tags returns the element tags of a record
func (s *RecordService) Tags(id int64) ([]string, error) {
	rec, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return rec.Tags().Strings(), nil
}

// Create validates r, stores it and adds it to the session. The store
// assigns the ID.
func (s *RecordService) Create(ctx context.Context, r models.Record) (models.Record, error) {
	var out models.Record
	err := s.ws.Do(func(sess *engine.Session) error {
		rec, err := s.create(ctx, sess, r)
		out = rec
		return err
	})
	return out, err
}

func (s *RecordService) create(ctx context.Context, sess *engine.Session, r models.Record) (models.Record, error) {
	r.ID = 0
	r.Normalize()
	if err := r.Validate(); err != nil {
		return models.Record{}, err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	if err := s.repo.Create(ctx, &r); err != nil {
		return models.Record{}, err
	}
	rec, err := sess.AddRecord(r)
	if err != nil {
		// the store handed out an ID the session already holds
		if derr := s.repo.Delete(ctx, r.ID); derr != nil {
			log.Error().Err(derr).Int64("id", r.ID).Msg("Failed to remove record the session rejected")
		}
		return models.Record{}, fmt.Errorf("%w: %v", ErrRecordStoreOutOfSync, err)
	}

	log.Debug().Int64("id", rec.ID).Str("label", rec.Label).Msg("Record created")
	return rec, nil
}

// ImportResult reports a batch import
type ImportResult struct {
	Created []models.Record `json:"created"`
	Skipped int             `json:"skipped"`
}

// Import creates every valid record and skips the rest
func (s *RecordService) Import(ctx context.Context, records []models.Record) (*ImportResult, error) {
	result := &ImportResult{Created: []models.Record{}}
	err := s.ws.Do(func(sess *engine.Session) error {
		for i, r := range records {
			rec, err := s.create(ctx, sess, r)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Debug().Int("index", i).Err(err).Msg("Skipped record in batch")
				result.Skipped++
				continue
			}
			result.Created = append(result.Created, rec)
		}
		return nil
	})
	return result, err
}

// Update replaces a record. CreatedAt is never changed.
func (s *RecordService) Update(ctx context.Context, r models.Record) (models.Record, error) {
	var out models.Record
	err := s.ws.Do(func(sess *engine.Session) error {
		prev, ok := sess.Record(r.ID)
		if !ok {
			return fmt.Errorf("%w: %d", engine.ErrRecordNotFound, r.ID)
		}
		r.CreatedAt = prev.CreatedAt
		r.Normalize()
		if err := r.Validate(); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, &r); err != nil {
			return err
		}
		rec, err := sess.UpdateRecord(r)
		if err != nil {
			return err
		}
		log.Debug().Int64("id", rec.ID).Msg("Record updated")
		out = rec
		return nil
	})
	return out, err
}

// Delete removes a record from the store and the session
func (s *RecordService) Delete(ctx context.Context, id int64) error {
	return s.ws.Do(func(sess *engine.Session) error {
		if _, ok := sess.Record(id); !ok {
			return fmt.Errorf("%w: %d", engine.ErrRecordNotFound, id)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if err := sess.DeleteRecord(id); err != nil {
			return err
		}
		log.Debug().Int64("id", id).Msg("Record deleted")
		return nil
	})
}

// Export formats
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Export encodes every record with its derived values. It returns the
// payload and its content type.
func (s *RecordService) Export(format string) ([]byte, string, error) {
	var rows []engine.ExportRow
	s.ws.Do(func(sess *engine.Session) error {
		rows = sess.ExportRows()
		return nil
	})

	switch format {
	case "", FormatJSON:
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode export: %w", err)
		}
		return data, "application/json", nil
	case FormatMsgpack:
		data, err := msgpack.Marshal(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode export: %w", err)
		}
		return data, "application/msgpack", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
