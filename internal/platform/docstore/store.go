// Package docstore wraps an embedded bbolt file as a small JSON document
// store. Documents are grouped into named buckets and addressed by string
// key; values are JSON-encoded. bbolt serializes writers internally, so a
// single *Store handle is safe for concurrent use.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrKeyNotFound is returned by Get when no document exists under the key.
var ErrKeyNotFound = errors.New("document not found")

// Store is an explicitly owned handle to the embedded document file. It is
// constructed once at startup and closed on shutdown; there is no package
// level singleton.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the document file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open document store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the handle is still usable with a no-op read transaction.
func (s *Store) Ping() error {
	return s.db.View(func(*bolt.Tx) error { return nil })
}

// Path returns the filesystem path of the document file.
func (s *Store) Path() string {
	return s.db.Path()
}

// EnsureBucket creates the named bucket if it does not exist.
func (s *Store) EnsureBucket(bucket string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
}

// Put JSON-encodes doc and stores it under key, replacing any existing value.
func (s *Store) Put(bucket, key string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", bucket, key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %s does not exist", bucket)
		}
		return b.Put([]byte(key), data)
	})
}

// Get decodes the document under key into out. Returns ErrKeyNotFound when
// the key is absent.
func (s *Store) Get(bucket, key string, out interface{}) error {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrKeyNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes the document under key. The bool reports whether a document
// was present; deleting an absent key is not an error.
func (s *Store) Delete(bucket, key string) (bool, error) {
	found := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		if b.Get([]byte(key)) == nil {
			return nil
		}
		found = true
		return b.Delete([]byte(key))
	})
	return found, err
}

// ForEach invokes fn for every document in the bucket. The value slice is
// only valid for the duration of the callback.
func (s *Store) ForEach(bucket string, fn func(key string, value []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// Count returns the number of documents in the bucket.
func (s *Store) Count(bucket string) (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}
