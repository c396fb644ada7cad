// Package metrics exposes Prometheus counters, histograms, and gauges
// for the gateway: request counts, query/DML durations, cache hit
// rates, and connection pool occupancy. Grounded on
// github.com/prometheus/client_golang (present in storj-storj's go.mod)
// and the promauto/Vec construction style used by
// cdc-sink-redshift's internal/staging/stage/metrics.go, adapted here
// from the original's observability/metrics.rs (metrics/metrics_exporter_prometheus
// crates) — same metric families and label shapes, Go idiom throughout.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hdbconnect_mcp"

// Registry bundles every metric the gateway records. A nil *Registry is
// safe to call methods on — every recording method is a no-op in that
// case — so callers that construct a Gateway without metrics wiring
// (e.g. unit tests) don't need a stub implementation.
type Registry struct {
	reg *prometheus.Registry

	info         *prometheus.GaugeVec
	requestsTotal *prometheus.CounterVec

	queryDuration *prometheus.HistogramVec
	queryTotal    *prometheus.CounterVec
	queryErrors   *prometheus.CounterVec
	queryRows     *prometheus.CounterVec

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheSize      *prometheus.GaugeVec

	poolSize      *prometheus.GaugeVec
	poolWaitTime  prometheus.Histogram
	poolErrors    *prometheus.CounterVec
}

// New builds a Registry with its own prometheus.Registry (not the
// global DefaultRegisterer), so multiple gateways in the same process
// (tests, multi-tenant hosting) never collide on metric registration.
func New(version string) *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Registry{
		reg: reg,
		info: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "info", Help: "Server information (always 1)",
		}, []string{"version"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "requests_total", Help: "Total MCP requests processed",
		}, []string{"method"}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "query_duration_seconds", Help: "Query execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool", "cached"}),
		queryTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "queries_total", Help: "Total queries executed",
		}, []string{"tool", "status", "cached"}),
		queryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "query_errors_total", Help: "Total query errors",
		}, []string{"tool", "error_type"}),
		queryRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "query_rows_total", Help: "Total rows returned by queries",
		}, []string{"tool"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total", Help: "Total cache hits",
		}, []string{"type"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total", Help: "Total cache misses",
		}, []string{"type"}),
		cacheEvictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_evictions_total", Help: "Total cache evictions",
		}, []string{"type"}),
		cacheSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cache_size", Help: "Current cache size (entries)",
		}, []string{"type"}),
		poolSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pool_connections", Help: "Connection pool size by state",
		}, []string{"state"}),
		poolWaitTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "pool_wait_seconds", Help: "Time waiting for a connection from pool",
			Buckets: prometheus.DefBuckets,
		}),
		poolErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "pool_errors_total", Help: "Total pool connection errors",
		}, []string{"type"}),
	}
	r.info.WithLabelValues(version).Set(1)
	return r
}

// Gatherer exposes the underlying prometheus.Gatherer for the HTTP
// /metrics handler to render, without leaking the concrete
// *prometheus.Registry type into pkg/httpapi.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

func (r *Registry) RecordRequest(method string) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(method).Inc()
}

// RecordQuery records a successful tool invocation.
func (r *Registry) RecordQuery(tool string, duration time.Duration, rowCount uint64, cached bool) {
	if r == nil {
		return
	}
	cachedLabel := cachedLabel(cached)
	r.queryDuration.WithLabelValues(tool, cachedLabel).Observe(duration.Seconds())
	r.queryTotal.WithLabelValues(tool, "success", cachedLabel).Inc()
	r.queryRows.WithLabelValues(tool).Add(float64(rowCount))
}

// RecordQueryError records a failed tool invocation.
func (r *Registry) RecordQueryError(tool, errorType string) {
	if r == nil {
		return
	}
	r.queryErrors.WithLabelValues(tool, errorType).Inc()
	r.queryTotal.WithLabelValues(tool, "error", "miss").Inc()
}

func (r *Registry) RecordCacheHit(cacheType string) {
	if r == nil {
		return
	}
	r.cacheHits.WithLabelValues(cacheType).Inc()
}

func (r *Registry) RecordCacheMiss(cacheType string) {
	if r == nil {
		return
	}
	r.cacheMisses.WithLabelValues(cacheType).Inc()
}

func (r *Registry) RecordCacheEviction(cacheType string) {
	if r == nil {
		return
	}
	r.cacheEvictions.WithLabelValues(cacheType).Inc()
}

func (r *Registry) SetCacheSize(cacheType string, size int) {
	if r == nil {
		return
	}
	r.cacheSize.WithLabelValues(cacheType).Set(float64(size))
}

// SetPoolStats publishes a pool occupancy snapshot across the
// max/available/in_use/waiting state labels.
func (r *Registry) SetPoolStats(max, available, waiting int) {
	if r == nil {
		return
	}
	r.poolSize.WithLabelValues("max").Set(float64(max))
	r.poolSize.WithLabelValues("available").Set(float64(available))
	r.poolSize.WithLabelValues("in_use").Set(float64(max - available))
	r.poolSize.WithLabelValues("waiting").Set(float64(waiting))
}

func (r *Registry) RecordPoolWaitTime(d time.Duration) {
	if r == nil {
		return
	}
	r.poolWaitTime.Observe(d.Seconds())
}

func (r *Registry) RecordPoolError(errorType string) {
	if r == nil {
		return
	}
	r.poolErrors.WithLabelValues(errorType).Inc()
}

func cachedLabel(cached bool) string {
	if cached {
		return "hit"
	}
	return "miss"
}
