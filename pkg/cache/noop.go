package cache

import (
	"context"
	"sync/atomic"
)

// NoopCache never stores anything; every Get is a miss. Used when
// caching is disabled or as a safe default for an unrecognized backend.
type NoopCache struct {
	misses atomic.Uint64
}

// NewNoopCache builds a NoopCache.
func NewNoopCache() *NoopCache { return &NoopCache{} }

func (c *NoopCache) Get(ctx context.Context, key CacheKey) ([]byte, bool, error) {
	c.misses.Add(1)
	return nil, false, nil
}

func (c *NoopCache) Set(ctx context.Context, key CacheKey, value []byte, ttl *int64) error {
	return nil
}

func (c *NoopCache) Delete(ctx context.Context, key CacheKey) (bool, error) { return false, nil }

func (c *NoopCache) Exists(ctx context.Context, key CacheKey) (bool, error) { return false, nil }

func (c *NoopCache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) { return 0, nil }

func (c *NoopCache) Metadata(ctx context.Context, key CacheKey) (*EntryMeta, error) { return nil, nil }

func (c *NoopCache) Clear(ctx context.Context) error { return nil }

func (c *NoopCache) HealthCheck(ctx context.Context) error { return nil }

func (c *NoopCache) Stats() Stats {
	return Stats{Misses: c.misses.Load()}
}
