package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const cacheBucketName = "prices"

// BoltCache wraps a Looker with a bbolt-backed cache keyed by normalized item
// name. A hit skips the network entirely, so repeated purchases of the same
// item cost one lookup across process restarts. Error results are not cached;
// they are presumed transient.
type BoltCache struct {
	db   *bbolt.DB
	next Looker
}

// NewBoltCache opens (or creates) the cache database at path
func NewBoltCache(path string, next Looker) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(cacheBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache bucket: %w", err)
	}

	return &BoltCache{db: db, next: next}, nil
}

// LookupPrice returns the cached Result for the item when present, otherwise
// delegates to the wrapped Looker and caches any non-error outcome
func (c *BoltCache) LookupPrice(ctx context.Context, itemName string) Result {
	key := []byte(cacheKey(itemName))

	var cached *Result
	c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(cacheBucketName)).Get(key)
		if data == nil {
			return nil
		}
		var res Result
		if err := json.Unmarshal(data, &res); err != nil {
			return nil // treat a corrupt entry as a miss
		}
		cached = &res
		return nil
	})
	if cached != nil {
		return *cached
	}

	res := c.next.LookupPrice(ctx, itemName)
	if res.Status == StatusError {
		return res
	}

	if data, err := json.Marshal(res); err == nil {
		c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket([]byte(cacheBucketName)).Put(key, data)
		})
	}

	return res
}

// Close closes the cache database
func (c *BoltCache) Close() error {
	return c.db.Close()
}

func cacheKey(itemName string) string {
	return strings.ToLower(strings.TrimSpace(itemName))
}
