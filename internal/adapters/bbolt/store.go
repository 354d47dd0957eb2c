// Package bbolt persists hint settings and usage counters using bbolt
// (embedded B+ tree). Each project gets its own top-level bucket with
// "hints" and "usage" sub-buckets. Writes are transactional — a crash
// mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/treegrep/internal/ports"
)

// Bucket keys
var (
	bucketHints = []byte("hints")
	bucketUsage = []byte("usage")
	keySettings = []byte("settings")
)

// Store implements ports.HintStore, ports.EventSink and ports.EventCounter
// backed by a single bbolt database.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveHints persists the full hint configuration for a project.
func (s *Store) SaveHints(projectID string, h *ports.ProjectHints) error {
	if h == nil {
		return fmt.Errorf("nil hint settings")
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal hints: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		hb, err := proj.CreateBucketIfNotExists(bucketHints)
		if err != nil {
			return err
		}
		return hb.Put(keySettings, data)
	})
}

// LoadHints retrieves the hint configuration for a project.
// Returns nil, nil if none has been saved (fresh project).
func (s *Store) LoadHints(projectID string) (*ports.ProjectHints, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		hb := proj.Bucket(bucketHints)
		if hb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := hb.Get(keySettings); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var h ports.ProjectHints
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("unmarshal hints: %w", err)
	}
	return &h, nil
}

// DeleteHints removes the hint configuration for a project.
// Idempotent: deleting absent configuration is not an error.
func (s *Store) DeleteHints(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		if err := proj.DeleteBucket(bucketHints); err == bolt.ErrBucketNotFound {
			return nil
		} else {
			return err
		}
	})
}

// usageKey is the counter key within a project's usage bucket.
func usageKey(group, event string) []byte {
	return []byte(group + "/" + event)
}

// Record increments the counter for the event's (group, event) pair.
func (s *Store) Record(e ports.UsageEvent) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(e.Project))
		if err != nil {
			return err
		}
		ub, err := proj.CreateBucketIfNotExists(bucketUsage)
		if err != nil {
			return err
		}
		key := usageKey(e.Group, e.Event)
		count := decodeCount(ub.Get(key)) + 1
		return ub.Put(key, encodeCount(count))
	})
}

// Counters returns total event counts for a project, keyed "group/event".
// A project with no recorded events yields an empty map.
func (s *Store) Counters(projectID string) (map[string]uint64, error) {
	out := make(map[string]uint64)

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		ub := proj.Bucket(bucketUsage)
		if ub == nil {
			return nil
		}
		return ub.ForEach(func(k, v []byte) error {
			out[string(k)] = decodeCount(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteProject removes all data (hints + usage counters) for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteProject(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(projectID)); err == bolt.ErrBucketNotFound {
			return nil
		} else {
			return err
		}
	})
}

// encodeCount encodes a counter as 8 little-endian bytes.
func encodeCount(n uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	return buf
}

// decodeCount decodes a counter value; nil or short data counts as zero.
func decodeCount(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(data)
}
