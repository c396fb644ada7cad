// Package config composes the server's configuration from a YAML file,
// environment variable overrides, and built-in defaults — env wins over
// file, file wins over defaults — the same precedence the teacher's
// pkg/config uses for tarsy.yaml. cache.ttl is merged onto the builder's
// defaults with dario.cat/mergo, the same "defaults, then mergo.Merge a
// user-supplied partial on top with WithOverride" shape the teacher's
// loader.go uses for its queue config; the rest of this package's config
// sections use explicit per-field nil checks instead (see file.go).
//
// Grounded on hdbconnect-mcp's config module (config.rs, config/{builder,
// dml,env,file,procedure,runtime}.rs).
package config

import (
	"net"
	"strings"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// TransportMode selects how the MCP gateway is exposed.
type TransportMode int

const (
	TransportStdio TransportMode = iota
	TransportHTTP
)

// ParseTransportMode parses leniently: anything other than "http"/"sse"
// falls back to Stdio, matching the original's forgiving FromStr.
func ParseTransportMode(s string) TransportMode {
	switch strings.ToLower(s) {
	case "http", "sse":
		return TransportHTTP
	default:
		return TransportStdio
	}
}

func (m TransportMode) String() string {
	if m == TransportHTTP {
		return "http"
	}
	return "stdio"
}

// TransportConfig configures how the gateway listens.
type TransportConfig struct {
	Mode     TransportMode
	HTTPHost net.IP
	HTTPPort uint16
	// CORSOrigin is the single allowed Origin header value for the HTTP
	// transport. nil means MCP_CORS_ORIGIN was not set; pkg/httpapi then
	// falls back to a restrictive http://localhost:3000 default.
	CORSOrigin *string
}

func defaultTransportConfig() TransportConfig {
	return TransportConfig{Mode: TransportStdio, HTTPHost: net.IPv4(127, 0, 0, 1), HTTPPort: 8080}
}

// TelemetryConfig configures logging and tracing export.
type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
	LogLevel     string
	JSONLogs     bool
}

// Config is the fully resolved, immutable server configuration produced
// by a Builder.
type Config struct {
	ConnectionURL string
	PoolSize      int
	ReadOnly      bool
	RowLimit      *uint32
	QueryTimeout  time.Duration
	SchemaFilter  sqlsafety.SchemaFilter
	Transport     TransportConfig
	Telemetry     TelemetryConfig
	DML           DmlConfig
	Procedure     ProcedureConfig
	Cache         cache.Config
}
