package server

import (
	"context"
	"time"
)

// CacheHelper reads T from the cache or computes and stores it. A nil cache
// always computes.
type CacheHelper[T any] struct {
	Cache *Cache
}

func NewCacheHelper[T any](cache *Cache) *CacheHelper[T] {
	return &CacheHelper[T]{Cache: cache}
}

// Handle fills out and reports whether it came from the cache. Failing to
// store a computed value is not an error.
func (c *CacheHelper[T]) Handle(ctx context.Context, key string, out *T, fn func() (T, error), expiration time.Duration) (bool, error) {
	if c.Cache != nil && c.Cache.Get(ctx, key, out) == nil {
		return true, nil
	}
	value, err := fn()
	if err != nil {
		return false, err
	}
	*out = value
	if c.Cache != nil {
		_ = c.Cache.Set(ctx, key, value, expiration)
	}
	return false, nil
}
