package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	hasExpiry bool
}

func (e memoryEntry) isExpired(now time.Time) bool {
	return e.hasExpiry && now.After(e.expiresAt)
}

func (e memoryEntry) ttlRemaining(now time.Time) (float64, bool) {
	if !e.hasExpiry {
		return 0, false
	}
	remaining := e.expiresAt.Sub(now)
	if remaining <= 0 {
		return 0, false
	}
	return remaining.Seconds(), true
}

// MemoryOptions configures a MemoryCache.
type MemoryOptions struct {
	DefaultTTLSeconds int64
	MaxValueSize      int
	MaxEntries        *int
}

// MemoryCache is a thread-safe in-process cache with per-entry TTL.
//
// Eviction, when MaxEntries is reached, removes an arbitrary entry (Go
// map iteration order is unspecified) rather than true LRU/FIFO order —
// this mirrors the original's HashMap-based eviction, which makes the
// same tradeoff for the same reason (no extra bookkeeping for order).
// Statistics are updated after the primary operation completes, so they
// may be briefly stale under concurrent access; that's acceptable for
// metrics.
type MemoryCache struct {
	mu         sync.RWMutex
	store      map[string]memoryEntry
	hits       uint64
	misses     uint64
	sets       uint64
	deletes    uint64
	maxEntries *int
	maxValue   int
	defaultTTL time.Duration
	hasDefault bool
}

// NewMemoryCache builds a MemoryCache from opts. A zero MaxValueSize
// falls back to DefaultMaxValueSize.
func NewMemoryCache(opts MemoryOptions) *MemoryCache {
	maxValue := opts.MaxValueSize
	if maxValue == 0 {
		maxValue = DefaultMaxValueSize
	}
	c := &MemoryCache{
		store:      make(map[string]memoryEntry),
		maxEntries: opts.MaxEntries,
		maxValue:   maxValue,
	}
	if opts.DefaultTTLSeconds > 0 {
		c.defaultTTL = time.Duration(opts.DefaultTTLSeconds) * time.Second
		c.hasDefault = true
	}
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key CacheKey) ([]byte, bool, error) {
	keyStr := key.String()
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.store[keyStr]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false, nil
	}
	if entry.isExpired(now) {
		c.mu.Lock()
		c.misses++
		delete(c.store, keyStr)
		c.mu.Unlock()
		return nil, false, nil
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key CacheKey, value []byte, ttl *int64) error {
	if len(value) > c.maxValue {
		return errs.New(errs.KindCache, fmt.Sprintf("value too large: %d bytes (max %d)", len(value), c.maxValue)).
			WithDetail("size_bytes", len(value)).
			WithDetail("max_bytes", c.maxValue)
	}

	keyStr := key.String()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	switch {
	case ttl != nil:
		entry.expiresAt, entry.hasExpiry = time.Now().Add(time.Duration(*ttl)*time.Second), true
	case c.hasDefault:
		entry.expiresAt, entry.hasExpiry = time.Now().Add(c.defaultTTL), true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries != nil {
		if _, exists := c.store[keyStr]; !exists && len(c.store) >= *c.maxEntries {
			for k := range c.store {
				delete(c.store, k)
				break
			}
		}
	}

	c.store[keyStr] = entry
	c.sets++
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key CacheKey) (bool, error) {
	keyStr := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store[keyStr]; !ok {
		return false, nil
	}
	delete(c.store, keyStr)
	c.deletes++
	return true, nil
}

func (c *MemoryCache) Exists(ctx context.Context, key CacheKey) (bool, error) {
	keyStr := key.String()
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[keyStr]
	return ok && !entry.isExpired(now), nil
}

func (c *MemoryCache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for k := range c.store {
		if strings.HasPrefix(k, prefix) {
			delete(c.store, k)
			deleted++
		}
	}
	if deleted > 0 {
		c.deletes += uint64(deleted)
	}
	return deleted, nil
}

func (c *MemoryCache) Metadata(ctx context.Context, key CacheKey) (*EntryMeta, error) {
	keyStr := key.String()
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[keyStr]
	if !ok || entry.isExpired(now) {
		return nil, nil
	}

	size := len(entry.value)
	meta := &EntryMeta{SizeBytes: &size}
	if remaining, hasTTL := entry.ttlRemaining(now); hasTTL {
		meta.TTLRemainingS = &remaining
	}
	return meta, nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]memoryEntry)
	return nil
}

func (c *MemoryCache) HealthCheck(ctx context.Context) error { return nil }

func (c *MemoryCache) Stats() Stats {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	var sizeBytes uint64
	var entryCount uint64
	for _, e := range c.store {
		if !e.isExpired(now) {
			sizeBytes += uint64(len(e.value))
			entryCount++
		}
	}

	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Sets:       c.sets,
		Deletes:    c.deletes,
		SizeBytes:  &sizeBytes,
		EntryCount: &entryCount,
	}
}
