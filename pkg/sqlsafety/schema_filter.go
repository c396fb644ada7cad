// Package sqlsafety enforces read-only boundaries around SQL text and
// schema access: comment-stripped statement classification, a
// whitelist/blacklist schema filter, and DML/procedure-name validation.
//
// Grounded on hdbconnect-mcp's security module (schema_filter.rs,
// query_guard.rs) and, for the "small pure-function matcher over text"
// style, the teacher's pkg/masking/pattern.go.
package sqlsafety

import (
	"fmt"
	"strings"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// SchemaFilterMode selects how SchemaFilter decides access.
type SchemaFilterMode int

const (
	// FilterAllowAll permits every schema (the default, backward compatible).
	FilterAllowAll SchemaFilterMode = iota
	// FilterWhitelist permits only the listed schemas.
	FilterWhitelist
	// FilterBlacklist permits every schema except the listed ones.
	FilterBlacklist
)

// SchemaFilter decides whether a schema name may be accessed.
type SchemaFilter struct {
	mode    SchemaFilterMode
	schemas map[string]struct{}
}

// AllowAllSchemas builds a filter that permits everything.
func AllowAllSchemas() SchemaFilter {
	return SchemaFilter{mode: FilterAllowAll}
}

// WhitelistSchemas builds a filter permitting only the given schemas
// (case-insensitive; names are upper-cased for comparison).
func WhitelistSchemas(schemas []string) SchemaFilter {
	return SchemaFilter{mode: FilterWhitelist, schemas: upperSet(schemas)}
}

// BlacklistSchemas builds a filter denying only the given schemas.
func BlacklistSchemas(schemas []string) SchemaFilter {
	return SchemaFilter{mode: FilterBlacklist, schemas: upperSet(schemas)}
}

func upperSet(schemas []string) map[string]struct{} {
	set := make(map[string]struct{}, len(schemas))
	for _, s := range schemas {
		set[strings.ToUpper(s)] = struct{}{}
	}
	return set
}

// IsAllowed reports whether schema may be accessed under this filter.
func (f SchemaFilter) IsAllowed(schema string) bool {
	upper := strings.ToUpper(schema)
	switch f.mode {
	case FilterWhitelist:
		_, ok := f.schemas[upper]
		return ok
	case FilterBlacklist:
		_, ok := f.schemas[upper]
		return !ok
	default:
		return true
	}
}

// Validate returns a KindSchemaAccess error if schema is not allowed.
func (f SchemaFilter) Validate(schema string) error {
	if f.IsAllowed(schema) {
		return nil
	}
	return errs.New(errs.KindSchemaAccess, fmt.Sprintf("schema access denied: %s", schema)).
		WithDetail("schema", schema)
}

// SchemaFilterFromConfig builds a filter from config-file-style strings:
// mode is one of "whitelist"/"allow", "blacklist"/"deny", or
// "none"/"all"/"" (all map to AllowAll). Whitelist mode requires at
// least one schema.
func SchemaFilterFromConfig(mode string, schemas []string) (SchemaFilter, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "whitelist", "allow":
		if len(schemas) == 0 {
			return SchemaFilter{}, errs.New(errs.KindConfiguration, "whitelist schema filter mode requires at least one schema")
		}
		return WhitelistSchemas(schemas), nil
	case "blacklist", "deny":
		return BlacklistSchemas(schemas), nil
	case "none", "all", "":
		return AllowAllSchemas(), nil
	default:
		return SchemaFilter{}, errs.New(errs.KindConfiguration, fmt.Sprintf("invalid schema filter mode %q: use 'whitelist', 'blacklist', or 'none'", mode))
	}
}
