// Package auth implements JWT/OIDC authentication, JWKS key caching,
// multi-tenant schema mapping, and role-based access control for the
// gateway's HTTP transport.
//
// Grounded on hdbconnect-mcp's auth module (config.rs, claims.rs, jwt.rs,
// jwks.rs, tenant.rs, rbac.rs, middleware.rs).
package auth

import (
	"net/url"
	"time"
)

// Mode selects how (or whether) requests are authenticated.
type Mode int

const (
	// ModeNone disables authentication entirely (default, backward compatible).
	ModeNone Mode = iota
	// ModeBearerToken checks for a single static bearer token.
	ModeBearerToken
	// ModeJWT validates a signed JWT, optionally against a JWKS/OIDC issuer.
	ModeJWT
)

// JWTConfig configures JWT validation.
type JWTConfig struct {
	// Issuer is the expected `iss` claim (also the OIDC discovery base, if used).
	Issuer *url.URL
	// Audience lists acceptable `aud` values; empty disables audience checks.
	Audience []string
	// JWKSURI is the JWKS endpoint, if not discovered via OIDC.
	JWKSURI *url.URL
	// ClockSkew tolerates drift in exp/nbf validation.
	ClockSkew time.Duration
	// HSSecret is an HMAC secret for HS256/384/512, intended for testing.
	HSSecret string
	// JWKSCacheTTL controls how long a fetched JWKS entry is trusted.
	JWKSCacheTTL time.Duration
	// JWKSRefreshInterval controls the background refresh cadence.
	JWKSRefreshInterval time.Duration
}

// DefaultJWTConfig mirrors the original's Default impl.
func DefaultJWTConfig(issuer *url.URL) JWTConfig {
	return JWTConfig{
		Issuer:              issuer,
		ClockSkew:           60 * time.Second,
		JWKSCacheTTL:        time.Hour,
		JWKSRefreshInterval: 5 * time.Minute,
	}
}

// SchemaMappingStrategy selects how a tenant ID maps to a schema name.
type SchemaMappingStrategy struct {
	kind   schemaMappingKind
	text   string            // Prefix/Suffix value
	lookup map[string]string // Lookup table
}

type schemaMappingKind int

const (
	mappingDirect schemaMappingKind = iota
	mappingPrefix
	mappingSuffix
	mappingLookup
)

// DirectMapping uses the tenant ID itself, upper-cased, as the schema name.
func DirectMapping() SchemaMappingStrategy { return SchemaMappingStrategy{kind: mappingDirect} }

// PrefixMapping produces "{prefix}_{tenant}", upper-cased.
func PrefixMapping(prefix string) SchemaMappingStrategy {
	return SchemaMappingStrategy{kind: mappingPrefix, text: prefix}
}

// SuffixMapping produces "{tenant}_{suffix}", upper-cased.
func SuffixMapping(suffix string) SchemaMappingStrategy {
	return SchemaMappingStrategy{kind: mappingSuffix, text: suffix}
}

// LookupMapping maps a tenant ID through an explicit table, falling back
// to the upper-cased tenant ID for unknown entries.
func LookupMapping(table map[string]string) SchemaMappingStrategy {
	return SchemaMappingStrategy{kind: mappingLookup, lookup: table}
}

// TenantConfig configures multi-tenant schema isolation.
type TenantConfig struct {
	Enabled bool
	// TenantClaim is the JWT claim carrying the tenant ID.
	TenantClaim string
	SchemaMapping SchemaMappingStrategy
	// DefaultSchema is used when the tenant claim is absent; nil rejects
	// the request instead.
	DefaultSchema *string
}

// DefaultTenantConfig mirrors the original's Default impl.
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{TenantClaim: "tenant_id", SchemaMapping: DirectMapping()}
}

// RBACConfig configures role-based access control.
type RBACConfig struct {
	Enabled bool
	// RolesClaim is the JWT claim carrying the caller's roles.
	RolesClaim string
	ReadRole    *string
	WriteRole   *string
	ExecuteRole *string
	AdminRole   *string
}

// DefaultRBACConfig mirrors the original's Default impl.
func DefaultRBACConfig() RBACConfig { return RBACConfig{RolesClaim: "roles"} }

// Config is the complete authentication configuration.
type Config struct {
	Mode      Mode
	BearerToken string
	JWT       *JWTConfig
	Tenant    TenantConfig
	RBAC      RBACConfig
}

// DefaultConfig disables authentication, matching the original's backward
// compatible default.
func DefaultConfig() Config {
	return Config{Mode: ModeNone, Tenant: DefaultTenantConfig(), RBAC: DefaultRBACConfig()}
}

// IsEnabled reports whether any authentication mode is active.
func (c Config) IsEnabled() bool { return c.Mode != ModeNone }

// IsJWTMode reports whether JWT validation is configured.
func (c Config) IsJWTMode() bool { return c.Mode == ModeJWT }
