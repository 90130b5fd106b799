package store

import (
	"context"
	"time"

	contextutils "studyapp/internal/utils"

	bolt "go.etcd.io/bbolt"
)

const bucketPreferences = "preferences"

// BoltStore keeps preferences in a local bbolt file, one nested bucket per
// owner.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database file at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, contextutils.WrapErrorf(err, "failed to open bolt store %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPreferences))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, contextutils.WrapError(err, "failed to initialize preferences bucket")
	}
	return &BoltStore{db: db}, nil
}

// Get implements Store.
func (s *BoltStore) Get(_ context.Context, owner, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPreferences)).Bucket([]byte(owner))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, unavailable("bolt", err)
	}
	return value, found, nil
}

// Set implements Store.
func (s *BoltStore) Set(_ context.Context, owner, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketPreferences)).CreateBucketIfNotExists([]byte(owner))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return unavailable("bolt", err)
	}
	return nil
}

// SetMany implements Batcher with one transaction.
func (s *BoltStore) SetMany(_ context.Context, owner string, values map[string]string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(bucketPreferences)).CreateBucketIfNotExists([]byte(owner))
		if err != nil {
			return err
		}
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("bolt", err)
	}
	return nil
}

// Close implements Store.
func (s *BoltStore) Close() error { return s.db.Close() }
