package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// JWTValidator validates and decodes bearer tokens against a configured
// issuer, audience, and key source (HMAC secret or JWKS).
type JWTValidator struct {
	config JWTConfig
	jwks   *JWKSCache
}

// NewJWTValidator builds a validator. jwks may be nil when only HS256/384/512
// is configured.
func NewJWTValidator(config JWTConfig, jwks *JWKSCache) *JWTValidator {
	return &JWTValidator{config: config, jwks: jwks}
}

// Validate parses, verifies, and returns the claims of token.
func (v *JWTValidator) Validate(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.keyFor(ctx, t)
	},
		jwt.WithIssuer(strings.TrimSuffix(v.config.Issuer.String(), "/")),
		jwt.WithLeeway(v.config.ClockSkew),
	)
	if err != nil {
		return nil, classifyJWTError(err)
	}
	if !parsed.Valid {
		return nil, errs.New(errs.KindAuthentication, "invalid token")
	}

	// Audience is checked manually rather than via a parser option: this
	// gateway accepts a token whose `aud` contains *any* configured value,
	// not all of them.
	if len(v.config.Audience) > 0 && !v.hasValidAudience(claims) {
		return nil, errs.New(errs.KindAuthentication, "invalid audience")
	}

	return claims, nil
}

func (v *JWTValidator) hasValidAudience(claims *Claims) bool {
	tokenAud, err := claims.GetAudience()
	if err != nil {
		return false
	}
	for _, want := range v.config.Audience {
		for _, got := range tokenAud {
			if got == want {
				return true
			}
		}
	}
	return false
}

func (v *JWTValidator) keyFor(ctx context.Context, t *jwt.Token) (any, error) {
	switch t.Method.Alg() {
	case "HS256", "HS384", "HS512":
		if v.config.HSSecret == "" {
			return nil, errs.New(errs.KindConfiguration, "HS secret not configured")
		}
		return []byte(v.config.HSSecret), nil
	default:
		if v.jwks == nil {
			return nil, errs.New(errs.KindConfiguration, "JWKS not configured for asymmetric algorithm")
		}
		kid, _ := t.Header["kid"].(string)
		return v.jwks.GetKey(ctx, kid, t.Method.Alg())
	}
}

func classifyJWTError(err error) error {
	switch {
	case strings.Contains(err.Error(), "token is expired"):
		return errs.Wrap(errs.KindAuthentication, "token expired", err)
	case strings.Contains(err.Error(), "issuer"):
		return errs.Wrap(errs.KindAuthentication, "invalid issuer", err)
	case strings.Contains(err.Error(), "audience"):
		return errs.Wrap(errs.KindAuthentication, "invalid audience", err)
	case strings.Contains(err.Error(), "signature is invalid"):
		return errs.Wrap(errs.KindAuthentication, "invalid signature", err)
	default:
		return errs.Wrap(errs.KindAuthentication, "invalid token", err)
	}
}
