// Package cache is a small JSON read-cache over Redis, used by the catalog
// for property views. Lifecycle writes never go through it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewWithClient wraps an existing client; tests pass a miniredis-backed one.
func NewWithClient(c *redis.Client) *Cache {
	return &Cache{c: c}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return r.c.Set(ctx, key, b, ttl).Err()
}

func (r *Cache) Del(ctx context.Context, keys ...string) error {
	return r.c.Del(ctx, keys...).Err()
}
