package archive

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const harvestBucket = "harvests"

// boltStore keeps each harvest as one JSON value keyed by its big-endian
// sequence number, so cursor order is insertion order.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(harvestBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Save appends h under the bucket's next sequence number.
func (b *boltStore) Save(ctx context.Context, h Harvest) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var id int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(harvestBucket))
		if bucket == nil {
			return fmt.Errorf("harvest bucket missing")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		id = int64(seq)
		h.ID = id
		h.HarvestedAt = h.HarvestedAt.UTC()

		value, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("encode harvest: %w", err)
		}
		return bucket.Put(encodeKey(seq), value)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List decodes every harvest in key order.
func (b *boltStore) List(ctx context.Context) ([]Harvest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var harvests []Harvest
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(harvestBucket))
		if bucket == nil {
			return fmt.Errorf("harvest bucket missing")
		}
		return bucket.ForEach(func(k, v []byte) error {
			var h Harvest
			if err := json.Unmarshal(v, &h); err != nil {
				return fmt.Errorf("decode harvest %d: %w", decodeKey(k), err)
			}
			harvests = append(harvests, h)
			return nil
		})
	})
	return harvests, err
}

func encodeKey(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

func decodeKey(k []byte) uint64 {
	if len(k) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(k)
}
