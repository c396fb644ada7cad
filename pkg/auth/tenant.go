package auth

import (
	"strings"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// TenantResolver derives a database schema from a tenant claim.
type TenantResolver struct {
	config TenantConfig
}

// NewTenantResolver wraps config for schema resolution.
func NewTenantResolver(config TenantConfig) *TenantResolver {
	return &TenantResolver{config: config}
}

// Resolve returns the schema for claims, or nil if multi-tenancy is disabled.
func (r *TenantResolver) Resolve(claims *Claims) (*string, error) {
	if !r.config.Enabled {
		return nil, nil
	}

	tenantID, err := r.extractTenantID(claims)
	if err != nil {
		return nil, err
	}
	schema := r.mapToSchema(tenantID)
	return &schema, nil
}

func (r *TenantResolver) extractTenantID(claims *Claims) (string, error) {
	if claims.TenantID != nil {
		return *claims.TenantID, nil
	}
	if r.config.DefaultSchema != nil {
		return *r.config.DefaultSchema, nil
	}
	return "", errs.New(errs.KindAuthentication, "missing tenant claim")
}

func (r *TenantResolver) mapToSchema(tenantID string) string {
	switch r.config.SchemaMapping.kind {
	case mappingPrefix:
		return strings.ToUpper(r.config.SchemaMapping.text + "_" + tenantID)
	case mappingSuffix:
		return strings.ToUpper(tenantID + "_" + r.config.SchemaMapping.text)
	case mappingLookup:
		if schema, ok := r.config.SchemaMapping.lookup[tenantID]; ok {
			return schema
		}
		return strings.ToUpper(tenantID)
	default:
		return strings.ToUpper(tenantID)
	}
}

// CreateSchemaFilter builds a whitelist filter scoped to a single tenant schema.
func (r *TenantResolver) CreateSchemaFilter(tenantSchema string) sqlsafety.SchemaFilter {
	return sqlsafety.WhitelistSchemas([]string{tenantSchema})
}

// EffectiveSchemaFilter narrows serverFilter to a single tenant's schema,
// unless the caller is an admin (who sees the server-wide filter) or no
// tenant schema was resolved.
func EffectiveSchemaFilter(serverFilter sqlsafety.SchemaFilter, tenantSchema *string, isAdmin bool) sqlsafety.SchemaFilter {
	if isAdmin || tenantSchema == nil {
		return serverFilter
	}
	return sqlsafety.WhitelistSchemas([]string{*tenantSchema})
}
