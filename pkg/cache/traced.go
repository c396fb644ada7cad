package cache

import (
	"context"
	"log/slog"
)

// TracedCache wraps a Provider with structured logging. Cache keys may
// embed schema or table names, so no log line here carries a key string:
// successful operations log at Debug, and error paths log at Warn with
// only the namespace (or prefix) and the error.
type TracedCache struct {
	inner       Provider
	serviceName string
}

// NewTracedCache wraps inner, tagging every log line with serviceName.
func NewTracedCache(inner Provider, serviceName string) *TracedCache {
	return &TracedCache{inner: inner, serviceName: serviceName}
}

func (t *TracedCache) Get(ctx context.Context, key CacheKey) ([]byte, bool, error) {
	value, ok, err := t.inner.Get(ctx, key)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "cache.get", "service", t.serviceName, "namespace", key.Namespace().String(), "result", "error", "error", err)
	case ok:
		slog.DebugContext(ctx, "cache.get", "service", t.serviceName, "namespace", key.Namespace().String(), "result", "hit", "size_bytes", len(value))
	default:
		slog.DebugContext(ctx, "cache.get", "service", t.serviceName, "namespace", key.Namespace().String(), "result", "miss")
	}
	return value, ok, err
}

func (t *TracedCache) Set(ctx context.Context, key CacheKey, value []byte, ttl *int64) error {
	err := t.inner.Set(ctx, key, value, ttl)
	if err != nil {
		slog.WarnContext(ctx, "cache.set", "service", t.serviceName, "namespace", key.Namespace().String(), "error", err)
	} else {
		slog.DebugContext(ctx, "cache.set", "service", t.serviceName, "namespace", key.Namespace().String(), "value_size", len(value))
	}
	return err
}

func (t *TracedCache) Delete(ctx context.Context, key CacheKey) (bool, error) {
	deleted, err := t.inner.Delete(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "cache.delete", "service", t.serviceName, "namespace", key.Namespace().String(), "error", err)
	} else {
		slog.DebugContext(ctx, "cache.delete", "service", t.serviceName, "namespace", key.Namespace().String(), "deleted", deleted)
	}
	return deleted, err
}

func (t *TracedCache) Exists(ctx context.Context, key CacheKey) (bool, error) {
	return t.inner.Exists(ctx, key)
}

func (t *TracedCache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	deleted, err := t.inner.DeleteByPrefix(ctx, prefix)
	if err != nil {
		slog.WarnContext(ctx, "cache.delete_by_prefix", "service", t.serviceName, "prefix", prefix, "error", err)
	} else {
		slog.DebugContext(ctx, "cache.delete_by_prefix", "service", t.serviceName, "prefix", prefix, "deleted_count", deleted)
	}
	return deleted, err
}

func (t *TracedCache) Metadata(ctx context.Context, key CacheKey) (*EntryMeta, error) {
	return t.inner.Metadata(ctx, key)
}

func (t *TracedCache) Clear(ctx context.Context) error {
	err := t.inner.Clear(ctx)
	if err != nil {
		slog.WarnContext(ctx, "cache.clear", "service", t.serviceName, "error", err)
	} else {
		slog.DebugContext(ctx, "cache.clear", "service", t.serviceName)
	}
	return err
}

func (t *TracedCache) HealthCheck(ctx context.Context) error {
	return t.inner.HealthCheck(ctx)
}

func (t *TracedCache) Stats() Stats { return t.inner.Stats() }
