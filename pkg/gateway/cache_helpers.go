package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SAP/hdbconnect-mcp/pkg/cache"
)

// cacheLookup decodes a cached JSON value for key, if present. Decode
// errors are treated as a miss (logged, not propagated) so a corrupt or
// stale cache entry never fails a tool call outright.
func cacheLookup[T any](ctx context.Context, provider cache.Provider, key cache.CacheKey) (*T, bool) {
	if provider == nil {
		return nil, false
	}
	raw, ok, err := provider.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("discarding unparsable cache entry", "key", key.String(), "error", err)
		return nil, false
	}
	return &v, true
}

// cacheStore JSON-encodes value and stores it under key with ttlSeconds
// (nil means the backend's default TTL). Store failures are logged, not
// propagated: a cache-write failure must never fail the tool call that
// produced the value.
func cacheStore(ctx context.Context, provider cache.Provider, key cache.CacheKey, value any, ttlSeconds *int64) {
	if provider == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("failed to encode cache value", "key", key.String(), "error", err)
		return
	}
	if err := provider.Set(ctx, key, raw, ttlSeconds); err != nil {
		slog.Warn("failed to store cache entry", "key", key.String(), "error", err)
	}
}
