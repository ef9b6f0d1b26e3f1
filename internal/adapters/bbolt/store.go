// Package bbolt implements ports.HistoryStore using bbolt (embedded B+ tree).
// Entries live in a single "history" bucket as JSON values under
// chronologically sortable keys. Writes are transactional.
package bbolt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fontpreview/fontpreview/internal/ports"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucketHistory = []byte("history")

// Store implements ports.HistoryStore backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

var _ ports.HistoryStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
// The parent directory is created when missing.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one entry, assigning ID and CreatedAt when empty.
func (s *Store) Record(entry *ports.HistoryEntry) error {
	if entry == nil {
		return fmt.Errorf("nil history entry")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	key, err := encodeKey(entry.CreatedAt, entry.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketHistory)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]ports.HistoryEntry, error) {
	var out []ports.HistoryEntry

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var e ports.HistoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal history entry: %w", err)
			}
			if e.ID == "" || e.CreatedAt.IsZero() {
				createdAt, id, err := decodeKey(k)
				if err != nil {
					return err
				}
				e.ID, e.CreatedAt = id, createdAt
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes all entries. Idempotent.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketHistory) == nil {
			return nil
		}
		return tx.DeleteBucket(bucketHistory)
	})
}
