package auth

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsEnabled())
	assert.False(t, cfg.IsJWTMode())
}

func TestConfig_IsEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeBearerToken
	assert.True(t, cfg.IsEnabled())
}

func TestConfig_IsJWTMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeJWT
	assert.True(t, cfg.IsJWTMode())
}

func TestDefaultJWTConfig(t *testing.T) {
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)

	assert.Empty(t, cfg.Audience)
	assert.Nil(t, cfg.JWKSURI)
	assert.Empty(t, cfg.HSSecret)
	assert.Equal(t, 60*time.Second, cfg.ClockSkew)
	assert.Equal(t, time.Hour, cfg.JWKSCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.JWKSRefreshInterval)
}

func TestDefaultTenantConfig(t *testing.T) {
	cfg := DefaultTenantConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "tenant_id", cfg.TenantClaim)
}

func TestDefaultRBACConfig(t *testing.T) {
	cfg := DefaultRBACConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "roles", cfg.RolesClaim)
}

func TestSchemaMappingStrategies(t *testing.T) {
	assert.Equal(t, mappingDirect, DirectMapping().kind)
	assert.Equal(t, mappingPrefix, PrefixMapping("APP").kind)
	assert.Equal(t, mappingSuffix, SuffixMapping("DATA").kind)
	assert.Equal(t, mappingLookup, LookupMapping(map[string]string{"a": "B"}).kind)
}
