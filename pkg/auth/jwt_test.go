package auth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(issuer string, expIn time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user123",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expIn)),
		},
	}
}

func TestJWTValidator_ValidToken(t *testing.T) {
	secret := "test-secret-key-at-least-32-bytes-long"
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = secret

	claims := baseClaims("https://auth.example.com", time.Hour)
	tenant := "tenant1"
	claims.TenantID = &tenant
	claims.Roles = []string{"admin"}

	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, secret)

	validated, err := validator.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user123", validated.Subject)
	assert.Equal(t, "tenant1", *validated.TenantID)
	assert.Equal(t, []string{"admin"}, validated.Roles)
}

func TestJWTValidator_ExpiredToken(t *testing.T) {
	secret := "test-secret-key-at-least-32-bytes-long"
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = secret

	claims := baseClaims("https://auth.example.com", -time.Hour)
	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, secret)

	_, err := validator.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTValidator_WrongIssuer(t *testing.T) {
	secret := "test-secret-key-at-least-32-bytes-long"
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = secret

	claims := baseClaims("https://wrong-issuer.com", time.Hour)
	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, secret)

	_, err := validator.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTValidator_WrongSecret(t *testing.T) {
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = "correct-secret-key-at-least-32-bytes"

	claims := baseClaims("https://auth.example.com", time.Hour)
	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, "wrong-secret-key-at-least-32-bytes")

	_, err := validator.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTValidator_AudienceMatch(t *testing.T) {
	secret := "test-secret-key-at-least-32-bytes-long"
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = secret
	cfg.Audience = []string{"api"}

	claims := baseClaims("https://auth.example.com", time.Hour)
	claims.Audience = jwt.ClaimStrings{"api"}
	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, secret)

	_, err := validator.Validate(context.Background(), token)
	assert.NoError(t, err)
}

func TestJWTValidator_AudienceMismatch(t *testing.T) {
	secret := "test-secret-key-at-least-32-bytes-long"
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = secret
	cfg.Audience = []string{"api"}

	claims := baseClaims("https://auth.example.com", time.Hour)
	claims.Audience = jwt.ClaimStrings{"other"}
	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, secret)

	_, err := validator.Validate(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTValidator_MalformedToken(t *testing.T) {
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)
	cfg.HSSecret = "secret"
	validator := NewJWTValidator(cfg, nil)

	_, err := validator.Validate(context.Background(), "not.a.valid.token")
	assert.Error(t, err)
}

func TestJWTValidator_MissingHSSecret(t *testing.T) {
	issuer, _ := url.Parse("https://auth.example.com")
	cfg := DefaultJWTConfig(issuer)

	claims := baseClaims("https://auth.example.com", time.Hour)
	validator := NewJWTValidator(cfg, nil)
	token := signTestToken(t, claims, "any-secret")

	_, err := validator.Validate(context.Background(), token)
	assert.Error(t, err)
}
