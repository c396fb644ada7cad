package auth

import (
	"testing"

	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsWithTenant(tenantID *string) *Claims {
	return &Claims{TenantID: tenantID}
}

func TestTenantResolver_Disabled(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{Enabled: false})
	tenant := "tenant1"
	schema, err := resolver.Resolve(claimsWithTenant(&tenant))
	require.NoError(t, err)
	assert.Nil(t, schema)
}

func TestTenantResolver_DirectMapping(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{Enabled: true, SchemaMapping: DirectMapping()})
	tenant := "tenant1"
	schema, err := resolver.Resolve(claimsWithTenant(&tenant))
	require.NoError(t, err)
	assert.Equal(t, "TENANT1", *schema)
}

func TestTenantResolver_PrefixMapping(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{Enabled: true, SchemaMapping: PrefixMapping("APP")})
	tenant := "tenant1"
	schema, err := resolver.Resolve(claimsWithTenant(&tenant))
	require.NoError(t, err)
	assert.Equal(t, "APP_TENANT1", *schema)
}

func TestTenantResolver_SuffixMapping(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{Enabled: true, SchemaMapping: SuffixMapping("DATA")})
	tenant := "tenant1"
	schema, err := resolver.Resolve(claimsWithTenant(&tenant))
	require.NoError(t, err)
	assert.Equal(t, "TENANT1_DATA", *schema)
}

func TestTenantResolver_LookupMapping(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{
		Enabled:       true,
		SchemaMapping: LookupMapping(map[string]string{"tenant1": "CUSTOM_SCHEMA"}),
	})
	tenant := "tenant1"
	schema, err := resolver.Resolve(claimsWithTenant(&tenant))
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM_SCHEMA", *schema)
}

func TestTenantResolver_LookupFallback(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{Enabled: true, SchemaMapping: LookupMapping(map[string]string{})})
	tenant := "unknown_tenant"
	schema, err := resolver.Resolve(claimsWithTenant(&tenant))
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN_TENANT", *schema)
}

func TestTenantResolver_MissingClaimWithDefault(t *testing.T) {
	defaultSchema := "DEFAULT"
	resolver := NewTenantResolver(TenantConfig{Enabled: true, DefaultSchema: &defaultSchema})
	schema, err := resolver.Resolve(claimsWithTenant(nil))
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", *schema)
}

func TestTenantResolver_MissingClaimWithoutDefault(t *testing.T) {
	resolver := NewTenantResolver(TenantConfig{Enabled: true})
	_, err := resolver.Resolve(claimsWithTenant(nil))
	assert.Error(t, err)
}

func TestEffectiveSchemaFilter_AdminBypass(t *testing.T) {
	tenant := "TENANT1"
	result := EffectiveSchemaFilter(sqlsafety.AllowAllSchemas(), &tenant, true)
	assert.True(t, result.IsAllowed("ANYTHING"))
}

func TestEffectiveSchemaFilter_TenantIsolation(t *testing.T) {
	tenant := "TENANT1"
	result := EffectiveSchemaFilter(sqlsafety.AllowAllSchemas(), &tenant, false)
	assert.True(t, result.IsAllowed("TENANT1"))
	assert.False(t, result.IsAllowed("OTHER"))
}

func TestEffectiveSchemaFilter_NoTenant(t *testing.T) {
	result := EffectiveSchemaFilter(sqlsafety.AllowAllSchemas(), nil, false)
	assert.True(t, result.IsAllowed("ANYTHING"))
}
