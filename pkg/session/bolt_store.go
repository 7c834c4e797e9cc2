package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const sessionBucket = "session"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
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

func (b *boltStore) Token() (string, error) {
	raw, err := b.get(KeyToken)
	return string(raw), err
}

func (b *boltStore) SetToken(token string) error {
	if token == "" {
		return b.delete(KeyToken)
	}
	return b.put(KeyToken, []byte(token))
}

func (b *boltStore) ClearToken() error {
	return b.delete(KeyToken)
}

func (b *boltStore) CurrentUser() ([]byte, error) {
	return b.get(KeyCurrentUser)
}

func (b *boltStore) SetCurrentUser(raw []byte) error {
	if len(raw) == 0 {
		return b.delete(KeyCurrentUser)
	}
	return b.put(KeyCurrentUser, raw)
}

func (b *boltStore) ClearCurrentUser() error {
	return b.delete(KeyCurrentUser)
}

// get copies the value out; bbolt memory is only valid inside the tx.
func (b *boltStore) get(key string) ([]byte, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		if v := bucket.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return out, nil
}

func (b *boltStore) put(key string, value []byte) error {
	if b == nil || b.db == nil {
		return nil
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		return bucket.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (b *boltStore) delete(key string) error {
	if b == nil || b.db == nil {
		return nil
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		if bucket == nil {
			return fmt.Errorf("session bucket missing")
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
