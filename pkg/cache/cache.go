// Package cache provides a pluggable cache abstraction for MCP tool
// results: table/procedure metadata and query results.
//
// Two backends are provided: Noop (caching disabled) and Memory (a
// thread-safe in-process cache with per-entry TTL, built on a plain map
// guarded by a sync.RWMutex). Either can be wrapped in a
// TracedCache decorator to emit structured logs for cache operations.
//
// # Per-user cache isolation
//
// Query-result keys hash the SQL text together with a user ID, so one
// user can never read another user's cached results. Single-tenant
// deployments (stdio transport, no auth) use the conventional "_system"
// user ID. Schema metadata keys carry no user ID since table/column
// definitions are the same for every caller.
//
// Grounded on hdbconnect-mcp's cache module (config.rs, key.rs,
// memory.rs, noop.rs, provider.rs, traced.rs, mod.rs).
package cache

import "context"

// Provider is the storage interface every cache backend implements.
type Provider interface {
	Get(ctx context.Context, key CacheKey) ([]byte, bool, error)
	Set(ctx context.Context, key CacheKey, value []byte, ttl *int64) error
	Delete(ctx context.Context, key CacheKey) (bool, error)
	Exists(ctx context.Context, key CacheKey) (bool, error)
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
	Metadata(ctx context.Context, key CacheKey) (*EntryMeta, error)
	Clear(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Stats() Stats
}

// EntryMeta describes a cache entry without retrieving its value.
type EntryMeta struct {
	SizeBytes     *int
	TTLRemainingS *float64
	Compressed    bool
}

// Stats exposes cache hit/miss counters for observability.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Sets       uint64
	Deletes    uint64
	Errors     uint64
	SizeBytes  *uint64
	EntryCount *uint64
}

// New builds a Provider from config, wrapping the Memory backend in a
// TracedCache the way create_cache does in the original.
func New(cfg Config) Provider {
	if !cfg.Enabled {
		return NewNoopCache()
	}

	switch cfg.Backend {
	case BackendMemory:
		inner := NewMemoryCache(MemoryOptions{
			DefaultTTLSeconds: cfg.TTL.Default,
			MaxValueSize:      cfg.MaxValueSize,
			MaxEntries:        cfg.MaxEntries,
		})
		return NewTracedCache(inner, "hdbconnect-mcp")
	default:
		return NewNoopCache()
	}
}
