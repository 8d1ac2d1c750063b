// Package cache stores read models in Redis as JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"loan-origination/internal/domain/readmodel"

	"github.com/redis/go-redis/v9"
)

var _ readmodel.Cache = (*ReadModelCache)(nil)

type ReadModelCache struct {
	rdb    redis.Cmdable
	prefix string
}

func NewReadModelCache(rdb redis.Cmdable, prefix string) *ReadModelCache {
	return &ReadModelCache{rdb: rdb, prefix: prefix}
}

func (c *ReadModelCache) key(k string) string { return c.prefix + k }

func (c *ReadModelCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// stale shape after a deploy; treat as a miss
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (c *ReadModelCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), b, ttl).Err()
}

func (c *ReadModelCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}
