package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// Environment variable names consulted by LoadFromEnv.
const (
	envHanaURL            = "HANA_URL"
	envHanaUser            = "HANA_USER"
	envHanaPassword        = "HANA_PASSWORD"
	envHanaPoolSize        = "HANA_POOL_SIZE"
	envReadOnly            = "MCP_READ_ONLY"
	envRowLimit            = "MCP_ROW_LIMIT"
	envQueryTimeoutSecs    = "MCP_QUERY_TIMEOUT_SECS"
	envSchemaFilterMode    = "MCP_SCHEMA_FILTER_MODE"
	envSchemaFilterSchemas = "MCP_SCHEMA_FILTER_SCHEMAS"
	envTransport           = "MCP_TRANSPORT"
	envHTTPHost            = "MCP_HTTP_HOST"
	envHTTPPort            = "MCP_HTTP_PORT"
	envCORSOrigin          = "MCP_CORS_ORIGIN"
	envOTLPEndpoint        = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envServiceName         = "OTEL_SERVICE_NAME"
	envLogLevel            = "RUST_LOG" // kept for operational parity with the original deployment tooling
	envJSONLogs            = "MCP_JSON_LOGS"
)

// LoadFromEnv overrides b's fields from environment variables, in the
// same precedence position the original gives env vars: applied after
// the config file, so env always wins.
func LoadFromEnv(b *Builder) (*Builder, error) {
	if urlStr, ok := os.LookupEnv(envHanaURL); ok {
		url := urlStr
		if user, ok := os.LookupEnv(envHanaUser); ok {
			url = setURLUser(url, user)
		}
		if pass, ok := os.LookupEnv(envHanaPassword); ok {
			url = setURLPassword(url, pass)
		}
		b.ConnectionURL(url)
	}

	if sizeStr, ok := os.LookupEnv(envHanaPoolSize); ok {
		if size, err := strconv.Atoi(sizeStr); err == nil && size > 0 {
			b.PoolSize(size)
		}
	}

	if val, ok := os.LookupEnv(envReadOnly); ok {
		b.ReadOnly(parseBool(val))
	}

	if limitStr, ok := os.LookupEnv(envRowLimit); ok {
		if limit, err := strconv.ParseUint(limitStr, 10, 32); err == nil {
			l := uint32(limit)
			b.RowLimit(&l)
		}
	}

	if timeoutStr, ok := os.LookupEnv(envQueryTimeoutSecs); ok {
		if secs, err := strconv.ParseUint(timeoutStr, 10, 64); err == nil {
			b.QueryTimeout(time.Duration(secs) * time.Second)
		}
	}

	if mode, ok := os.LookupEnv(envSchemaFilterMode); ok {
		var schemas []string
		if raw, ok := os.LookupEnv(envSchemaFilterSchemas); ok {
			for _, s := range strings.Split(raw, ",") {
				schemas = append(schemas, strings.ToUpper(strings.TrimSpace(s)))
			}
		}
		filter, err := sqlsafety.SchemaFilterFromConfig(mode, schemas)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", envSchemaFilterMode, err)
		}
		b.SchemaFilter(filter)
	}

	if transport, ok := os.LookupEnv(envTransport); ok {
		b.TransportMode(ParseTransportMode(transport))
	}

	if hostStr, ok := os.LookupEnv(envHTTPHost); ok {
		if host := net.ParseIP(hostStr); host != nil {
			b.HTTPHost(host)
		}
	}

	if portStr, ok := os.LookupEnv(envHTTPPort); ok {
		if port, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			b.HTTPPort(uint16(port))
		}
	}

	if origin, ok := os.LookupEnv(envCORSOrigin); ok {
		b.CORSOrigin(origin)
	}

	if endpoint, ok := os.LookupEnv(envOTLPEndpoint); ok {
		b.OTLPEndpoint(endpoint)
	}
	if name, ok := os.LookupEnv(envServiceName); ok {
		b.ServiceName(name)
	}
	if level, ok := os.LookupEnv(envLogLevel); ok {
		b.LogLevel(level)
	}
	if val, ok := os.LookupEnv(envJSONLogs); ok {
		b.JSONLogs(parseBool(val))
	}

	return b, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func setURLUser(rawURL, user string) string {
	at := strings.Index(rawURL, "://")
	if at < 0 {
		return rawURL
	}
	rest := rawURL[at+3:]
	if host := strings.IndexAny(rest, "@"); host >= 0 {
		rest = rest[host+1:]
	}
	return rawURL[:at+3] + user + "@" + rest
}

func setURLPassword(rawURL, password string) string {
	at := strings.Index(rawURL, "://")
	if at < 0 {
		return rawURL
	}
	prefix := rawURL[:at+3]
	rest := rawURL[at+3:]
	atIdx := strings.Index(rest, "@")
	if atIdx < 0 {
		return rawURL
	}
	userinfo, hostpart := rest[:atIdx], rest[atIdx+1:]
	user := userinfo
	if colon := strings.Index(userinfo, ":"); colon >= 0 {
		user = userinfo[:colon]
	}
	return prefix + user + ":" + password + "@" + hostpart
}
