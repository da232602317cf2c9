package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/jengzang/geofield-backend-go/internal/models"
)

var (
	recordsBucket = []byte("records")
	layersBucket  = []byte("layers")
)

// OpenBolt opens (or creates) a bbolt file and its buckets
func OpenBolt(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{recordsBucket, layersBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("path", path).Msg("Bolt store initialized")
	return db, nil
}

// BoltRecordRepository keeps msgpack encoded records under big-endian ID keys
type BoltRecordRepository struct {
	db *bolt.DB
}

// NewBoltRecordRepository creates a record repository over an open store
func NewBoltRecordRepository(db *bolt.DB) *BoltRecordRepository {
	return &BoltRecordRepository{db: db}
}

func idKey(id int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

// List returns records in key order, which is ID order
func (r *BoltRecordRepository) List(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec models.Record
			if err := msgpack.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to decode record %d: %w", binary.BigEndian.Uint64(k), err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Get retrieves a record by ID
func (r *BoltRecordRepository) Get(ctx context.Context, id int64) (*models.Record, error) {
	var rec models.Record
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(recordsBucket).Get(idKey(id))
		if v == nil {
			return fmt.Errorf("record %d: %w", id, ErrNotFound)
		}
		return msgpack.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create assigns the bucket's next sequence as the ID
func (r *BoltRecordRepository) Create(ctx context.Context, rec *models.Record) error {
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		next := *rec
		next.ID = int64(seq)
		data, err := msgpack.Marshal(&next)
		if err != nil {
			return err
		}
		if err := b.Put(idKey(next.ID), data); err != nil {
			return err
		}
		rec.ID = next.ID
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// Update replaces an existing record, keeping its stored CreatedAt
func (r *BoltRecordRepository) Update(ctx context.Context, rec *models.Record) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		key := idKey(rec.ID)
		old := b.Get(key)
		if old == nil {
			return fmt.Errorf("record %d: %w", rec.ID, ErrNotFound)
		}
		var prev models.Record
		if err := msgpack.Unmarshal(old, &prev); err != nil {
			return fmt.Errorf("failed to decode record %d: %w", rec.ID, err)
		}
		next := *rec
		next.CreatedAt = prev.CreatedAt
		data, err := msgpack.Marshal(&next)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return b.Put(key, data)
	})
}

// Delete removes a record
func (r *BoltRecordRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucket)
		key := idKey(id)
		if b.Get(key) == nil {
			return fmt.Errorf("record %d: %w", id, ErrNotFound)
		}
		return b.Delete(key)
	})
}

// BoltLayerRepository keeps JSON encoded layers under their string ID
type BoltLayerRepository struct {
	db *bolt.DB
}

// NewBoltLayerRepository creates a layer repository over an open store
func NewBoltLayerRepository(db *bolt.DB) *BoltLayerRepository {
	return &BoltLayerRepository{db: db}
}

// List returns layers in import order
func (r *BoltLayerRepository) List(ctx context.Context) ([]models.ExternalLayer, error) {
	var layers []models.ExternalLayer
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(layersBucket).ForEach(func(k, v []byte) error {
			var l models.ExternalLayer
			if err := json.Unmarshal(v, &l); err != nil {
				return fmt.Errorf("failed to decode layer %s: %w", k, err)
			}
			layers = append(layers, l)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list layers: %w", err)
	}
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].CreatedAt.Before(layers[j].CreatedAt)
	})
	return layers, nil
}

// Get retrieves a layer by ID
func (r *BoltLayerRepository) Get(ctx context.Context, id string) (*models.ExternalLayer, error) {
	var l models.ExternalLayer
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(layersBucket).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("layer %s: %w", id, ErrNotFound)
		}
		return json.Unmarshal(v, &l)
	})
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Save inserts or replaces a layer
func (r *BoltLayerRepository) Save(ctx context.Context, l *models.ExternalLayer) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode layer: %w", err)
	}
	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(layersBucket).Put([]byte(l.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save layer: %w", err)
	}
	return nil
}

// Delete removes a layer
func (r *BoltLayerRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(layersBucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("layer %s: %w", id, ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
}
