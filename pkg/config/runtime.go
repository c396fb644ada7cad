package config

import (
	"fmt"
	"sync/atomic"
	"time"
)

// RuntimeConfig holds the subset of configuration that is safe to
// reload without a restart: it's applied per-request, never affects
// resource allocation (pool size), and never changes a security
// boundary (schema filter).
type RuntimeConfig struct {
	RowLimit        *uint32
	QueryTimeout    time.Duration
	LogLevel        string
	CacheDefaultTTL time.Duration
	CacheSchemaTTL  time.Duration
	CacheQueryTTL   time.Duration
}

// RuntimeConfigFromConfig extracts the reloadable fields from a fully
// resolved Config.
func RuntimeConfigFromConfig(cfg *Config) RuntimeConfig {
	return RuntimeConfig{
		RowLimit:        cfg.RowLimit,
		QueryTimeout:    cfg.QueryTimeout,
		LogLevel:        cfg.Telemetry.LogLevel,
		CacheDefaultTTL: time.Duration(cfg.Cache.TTL.Default) * time.Second,
		CacheSchemaTTL:  time.Duration(cfg.Cache.TTL.Schema) * time.Second,
		CacheQueryTTL:   time.Duration(cfg.Cache.TTL.Query) * time.Second,
	}
}

// RuntimeConfigHolder is a thread-safe, lock-free-read holder for
// RuntimeConfig, built on atomic.Pointer the way the original uses
// arc_swap::ArcSwap: in-flight requests keep the reference they
// captured, readers never block a concurrent Store.
type RuntimeConfigHolder struct {
	inner atomic.Pointer[RuntimeConfig]
}

// NewRuntimeConfigHolder builds a holder seeded with cfg.
func NewRuntimeConfigHolder(cfg RuntimeConfig) *RuntimeConfigHolder {
	h := &RuntimeConfigHolder{}
	h.inner.Store(&cfg)
	return h
}

// Load returns the current runtime config.
func (h *RuntimeConfigHolder) Load() *RuntimeConfig { return h.inner.Load() }

// Store atomically publishes a new runtime config.
func (h *RuntimeConfigHolder) Store(cfg RuntimeConfig) { h.inner.Store(&cfg) }

// RowLimit returns the row limit from the current config.
func (h *RuntimeConfigHolder) RowLimit() *uint32 { return h.inner.Load().RowLimit }

// QueryTimeout returns the query timeout from the current config.
func (h *RuntimeConfigHolder) QueryTimeout() time.Duration { return h.inner.Load().QueryTimeout }

// ReloadTrigger records what prompted a configuration reload, for audit
// logging.
type ReloadTrigger struct {
	kind       reloadTriggerKind
	remoteAddr string
}

type reloadTriggerKind int

const (
	reloadTriggerSignal reloadTriggerKind = iota
	reloadTriggerHTTP
	reloadTriggerManual
)

// ReloadTriggerSignal records a SIGHUP-initiated reload.
func ReloadTriggerSignal() ReloadTrigger { return ReloadTrigger{kind: reloadTriggerSignal} }

// ReloadTriggerHTTP records an HTTP /admin/reload-initiated reload,
// optionally carrying the caller's remote address.
func ReloadTriggerHTTP(remoteAddr string) ReloadTrigger {
	return ReloadTrigger{kind: reloadTriggerHTTP, remoteAddr: remoteAddr}
}

// ReloadTriggerManual records a programmatic reload.
func ReloadTriggerManual() ReloadTrigger { return ReloadTrigger{kind: reloadTriggerManual} }

func (t ReloadTrigger) String() string {
	switch t.kind {
	case reloadTriggerSignal:
		return "SIGHUP"
	case reloadTriggerHTTP:
		if t.remoteAddr != "" {
			return fmt.Sprintf("HTTP /admin/reload from %s", t.remoteAddr)
		}
		return "HTTP /admin/reload"
	default:
		return "manual"
	}
}

// ReloadResult reports the outcome of a configuration reload attempt.
type ReloadResult struct {
	Success bool
	Error   string
	Changed []string
}

// ReloadSuccess builds a successful ReloadResult naming which fields changed.
func ReloadSuccess(changed []string) ReloadResult {
	return ReloadResult{Success: true, Changed: changed}
}

// ReloadFailure builds a failed ReloadResult.
func ReloadFailure(err string) ReloadResult {
	return ReloadResult{Success: false, Error: err}
}
