package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no cached ranking exists.
var ErrMiss = errors.New("cache miss")

// KV is the key-value subset of RedisClient used by the caches.
type KV interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// SimilarCache stores similar-product rankings as ordered id lists.
// Keys embed the catalog fingerprint, so processes sharing one Redis only
// share rankings computed on identical catalogs.
type SimilarCache struct {
	kv  KV
	ttl time.Duration
}

// NewSimilarCache creates a SimilarCache with the given entry TTL.
func NewSimilarCache(kv KV, ttl time.Duration) *SimilarCache {
	return &SimilarCache{kv: kv, ttl: ttl}
}

// key returns: similar:{fingerprint}:{productId}:{count}
func (c *SimilarCache) key(fingerprint, productID string, count int) string {
	return fmt.Sprintf("similar:%s:%s:%d", fingerprint, productID, count)
}

// Get returns the cached ranking or ErrMiss.
func (c *SimilarCache) Get(ctx context.Context, fingerprint, productID string, count int) ([]string, error) {
	raw, err := c.kv.Get(ctx, c.key(fingerprint, productID, count))
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal similar products: %w", err)
	}
	return ids, nil
}

// Set stores the ranking.
func (c *SimilarCache) Set(ctx context.Context, fingerprint, productID string, count int, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal similar products: %w", err)
	}
	return c.kv.Set(ctx, c.key(fingerprint, productID, count), string(data), c.ttl)
}
