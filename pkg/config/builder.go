package config

import (
	"fmt"
	"net"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// Builder assembles a Config with a fluent API, mirroring the original's
// ConfigBuilder: a struct of settable fields with sane defaults, built
// out via Build once a connection URL has been supplied.
type Builder struct {
	connectionURL string
	poolSize      int
	readOnly      bool
	rowLimit      *uint32
	queryTimeout  time.Duration
	schemaFilter  sqlsafety.SchemaFilter
	transport     TransportConfig
	telemetry     TelemetryConfig
	dml           DmlConfig
	procedure     ProcedureConfig
	cache         cache.Config
}

// NewBuilder returns a Builder pre-populated with the server's defaults:
// read-only, pool size 4, 30s query timeout, DML and procedures both
// disabled, caching disabled.
func NewBuilder() *Builder {
	return &Builder{
		poolSize:     4,
		readOnly:     true,
		queryTimeout: 30 * time.Second,
		schemaFilter: sqlsafety.AllowAllSchemas(),
		transport:    defaultTransportConfig(),
		dml:          defaultDmlConfig(),
		procedure:    defaultProcedureConfig(),
		cache:        cache.DefaultConfig(),
	}
}

func (b *Builder) ConnectionURL(url string) *Builder { b.connectionURL = url; return b }
func (b *Builder) PoolSize(size int) *Builder         { b.poolSize = size; return b }
func (b *Builder) ReadOnly(readOnly bool) *Builder    { b.readOnly = readOnly; return b }
func (b *Builder) RowLimit(limit *uint32) *Builder    { b.rowLimit = limit; return b }
func (b *Builder) QueryTimeout(d time.Duration) *Builder { b.queryTimeout = d; return b }
func (b *Builder) SchemaFilter(f sqlsafety.SchemaFilter) *Builder { b.schemaFilter = f; return b }
func (b *Builder) TransportMode(m TransportMode) *Builder { b.transport.Mode = m; return b }
func (b *Builder) HTTPHost(host net.IP) *Builder { b.transport.HTTPHost = host; return b }
func (b *Builder) HTTPPort(port uint16) *Builder { b.transport.HTTPPort = port; return b }
func (b *Builder) CORSOrigin(origin string) *Builder { b.transport.CORSOrigin = &origin; return b }
func (b *Builder) OTLPEndpoint(endpoint string) *Builder { b.telemetry.OTLPEndpoint = endpoint; return b }
func (b *Builder) ServiceName(name string) *Builder       { b.telemetry.ServiceName = name; return b }
func (b *Builder) LogLevel(level string) *Builder         { b.telemetry.LogLevel = level; return b }
func (b *Builder) JSONLogs(enabled bool) *Builder         { b.telemetry.JSONLogs = enabled; return b }

func (b *Builder) AllowDML(allow bool) *Builder               { b.dml.AllowDML = allow; return b }
func (b *Builder) RequireDMLConfirmation(require bool) *Builder {
	b.dml.RequireConfirmation = require
	return b
}
func (b *Builder) MaxAffectedRows(limit *uint32) *Builder { b.dml.MaxAffectedRows = limit; return b }
func (b *Builder) RequireWhereClause(require bool) *Builder {
	b.dml.RequireWhereClause = require
	return b
}
func (b *Builder) AllowedOperations(ops sqlsafety.AllowedOperations) *Builder {
	b.dml.AllowedOperations = ops
	return b
}

func (b *Builder) AllowProcedures(allow bool) *Builder { b.procedure.AllowProcedures = allow; return b }
func (b *Builder) RequireProcedureConfirmation(require bool) *Builder {
	b.procedure.RequireConfirmation = require
	return b
}
func (b *Builder) MaxResultSets(limit *uint32) *Builder { b.procedure.MaxResultSets = limit; return b }
func (b *Builder) MaxRowsPerResultSet(limit *uint32) *Builder {
	b.procedure.MaxRowsPerResultSet = limit
	return b
}

func (b *Builder) CacheEnabled(enabled bool) *Builder    { b.cache.Enabled = enabled; return b }
func (b *Builder) CacheBackend(backend cache.Backend) *Builder { b.cache.Backend = backend; return b }
func (b *Builder) CacheTTL(ttl cache.TTLConfig) *Builder { b.cache.TTL = ttl; return b }
func (b *Builder) CacheMaxEntries(max *int) *Builder     { b.cache.MaxEntries = max; return b }
func (b *Builder) CacheMaxValueSize(max int) *Builder    { b.cache.MaxValueSize = max; return b }

// Build validates and assembles the final Config, applying the same
// fill-in-defaults pass the original's build() does for row limit,
// telemetry service name/log level, and DML/procedure ceilings.
func (b *Builder) Build() (*Config, error) {
	if b.connectionURL == "" {
		return nil, fmt.Errorf("config: connection_url is required")
	}

	rowLimit := b.rowLimit
	if rowLimit == nil {
		limit := uint32(10000)
		rowLimit = &limit
	}

	serviceName := b.telemetry.ServiceName
	if serviceName == "" {
		serviceName = "hdbconnect-mcp"
	}
	logLevel := b.telemetry.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}

	dml := b.dml
	if dml.MaxAffectedRows == nil {
		limit := uint32(DefaultMaxAffectedRows)
		dml.MaxAffectedRows = &limit
	}

	procedure := b.procedure
	if procedure.MaxResultSets == nil {
		limit := uint32(DefaultMaxResultSets)
		procedure.MaxResultSets = &limit
	}
	if procedure.MaxRowsPerResultSet == nil {
		limit := uint32(DefaultMaxRowsPerResultSet)
		procedure.MaxRowsPerResultSet = &limit
	}

	return &Config{
		ConnectionURL: b.connectionURL,
		PoolSize:      b.poolSize,
		ReadOnly:      b.readOnly,
		RowLimit:      rowLimit,
		QueryTimeout:  b.queryTimeout,
		SchemaFilter:  b.schemaFilter,
		Transport:     b.transport,
		Telemetry: TelemetryConfig{
			OTLPEndpoint: b.telemetry.OTLPEndpoint,
			ServiceName:  serviceName,
			LogLevel:     logLevel,
			JSONLogs:     b.telemetry.JSONLogs,
		},
		DML:       dml,
		Procedure: procedure,
		Cache:     b.cache,
	}, nil
}
