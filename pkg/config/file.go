package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// configPaths lists candidate configuration file locations, checked in
// order, matching the original's CONFIG_PATHS.
var configPaths = []string{
	"./hdbconnect-mcp.yaml",
	"~/.config/hdbconnect-mcp/config.yaml",
	"/etc/hdbconnect-mcp/config.yaml",
}

// FindConfigFile returns the first existing configuration file from
// configPaths, expanding a leading "~" to $HOME.
func FindConfigFile() (string, bool) {
	home, _ := os.UserHomeDir()
	for _, p := range configPaths {
		path := p
		if len(path) > 0 && path[0] == '~' {
			if home == "" {
				continue
			}
			path = filepath.Join(home, path[1:])
		}
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// fileConfig mirrors the YAML document shape: connection/security/
// transport/observability sections, each entirely optional so a file
// may override just one concern.
type fileConfig struct {
	Connection    *fileConnection    `yaml:"connection"`
	Security      *fileSecurity      `yaml:"security"`
	Transport     *fileTransport     `yaml:"transport"`
	Observability *fileObservability `yaml:"observability"`
	Cache         *fileCache         `yaml:"cache"`
}

type fileConnection struct {
	URL      *string `yaml:"url"`
	PoolSize *int    `yaml:"pool_size"`
}

type fileSchemaFilter struct {
	Mode    *string  `yaml:"mode"`
	Schemas []string `yaml:"schemas"`
}

type fileSecurity struct {
	ReadOnly        *bool             `yaml:"read_only"`
	RowLimit        *uint32           `yaml:"row_limit"`
	QueryTimeoutSecs *uint64          `yaml:"query_timeout_secs"`
	SchemaFilter    *fileSchemaFilter `yaml:"schema_filter"`
}

type fileTransport struct {
	Mode     *string `yaml:"mode"`
	HTTPHost *string `yaml:"http_host"`
	HTTPPort *uint16 `yaml:"http_port"`
}

type fileObservability struct {
	OTLPEndpoint *string `yaml:"otlp_endpoint"`
	ServiceName  *string `yaml:"service_name"`
	LogLevel     *string `yaml:"log_level"`
	JSONLogs     *bool   `yaml:"json_logs"`
}

type fileCacheTTL struct {
	DefaultSecs *int64 `yaml:"default_secs"`
	SchemaSecs  *int64 `yaml:"schema_secs"`
	QuerySecs   *int64 `yaml:"query_secs"`
}

type fileCache struct {
	Enabled      *bool         `yaml:"enabled"`
	Backend      *string       `yaml:"backend"`
	TTL          *fileCacheTTL `yaml:"ttl"`
	MaxEntries   *int          `yaml:"max_entries"`
	MaxValueSize *int          `yaml:"max_value_size"`
}

// LoadFromFile reads a YAML configuration file at path and applies its
// settings onto b.
func LoadFromFile(path string, b *Builder) (*Builder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return applyFileConfig(b, fc)
}

func applyFileConfig(b *Builder, fc fileConfig) (*Builder, error) {
	if conn := fc.Connection; conn != nil {
		if conn.URL != nil {
			b.ConnectionURL(*conn.URL)
		}
		if conn.PoolSize != nil && *conn.PoolSize > 0 {
			b.PoolSize(*conn.PoolSize)
		}
	}

	if sec := fc.Security; sec != nil {
		if sec.ReadOnly != nil {
			b.ReadOnly(*sec.ReadOnly)
		}
		if sec.RowLimit != nil {
			b.RowLimit(sec.RowLimit)
		}
		if sec.QueryTimeoutSecs != nil {
			b.QueryTimeout(time.Duration(*sec.QueryTimeoutSecs) * time.Second)
		}
		if sec.SchemaFilter != nil {
			mode := "none"
			if sec.SchemaFilter.Mode != nil {
				mode = *sec.SchemaFilter.Mode
			}
			filter, err := sqlsafety.SchemaFilterFromConfig(mode, sec.SchemaFilter.Schemas)
			if err != nil {
				return nil, fmt.Errorf("config: security.schema_filter: %w", err)
			}
			b.SchemaFilter(filter)
		}
	}

	if t := fc.Transport; t != nil {
		if t.Mode != nil {
			b.TransportMode(ParseTransportMode(*t.Mode))
		}
		if t.HTTPHost != nil {
			if host := net.ParseIP(*t.HTTPHost); host != nil {
				b.HTTPHost(host)
			}
		}
		if t.HTTPPort != nil {
			b.HTTPPort(*t.HTTPPort)
		}
	}

	if obs := fc.Observability; obs != nil {
		if obs.OTLPEndpoint != nil {
			b.OTLPEndpoint(*obs.OTLPEndpoint)
		}
		if obs.ServiceName != nil {
			b.ServiceName(*obs.ServiceName)
		}
		if obs.LogLevel != nil {
			b.LogLevel(*obs.LogLevel)
		}
		if obs.JSONLogs != nil {
			b.JSONLogs(*obs.JSONLogs)
		}
	}

	if c := fc.Cache; c != nil {
		if c.Enabled != nil {
			b.CacheEnabled(*c.Enabled)
		}
		if c.Backend != nil {
			b.CacheBackend(cache.ParseBackend(*c.Backend))
		}
		if c.TTL != nil {
			// Same shape as the teacher's loader.go queue-config merge:
			// start from the builder's default TTLConfig and merge the
			// YAML-supplied partial on top, so an override naming only
			// one field leaves the others at their built-in values.
			ttl := b.cache.TTL
			overlay := cache.TTLConfig{}
			if c.TTL.DefaultSecs != nil {
				overlay.Default = *c.TTL.DefaultSecs
			}
			if c.TTL.SchemaSecs != nil {
				overlay.Schema = *c.TTL.SchemaSecs
			}
			if c.TTL.QuerySecs != nil {
				overlay.Query = *c.TTL.QuerySecs
			}
			if err := mergo.Merge(&ttl, overlay, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("config: cache.ttl: %w", err)
			}
			b.CacheTTL(ttl)
		}
		if c.MaxEntries != nil {
			b.CacheMaxEntries(c.MaxEntries)
		}
		if c.MaxValueSize != nil {
			b.CacheMaxValueSize(*c.MaxValueSize)
		}
	}

	return b, nil
}
