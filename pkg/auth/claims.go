package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload this gateway validates and extracts.
// jwt.RegisteredClaims already accepts `aud` as either a bare string or
// an array (jwt.ClaimStrings' UnmarshalJSON), matching the original's
// hand-rolled OneOrMany type.
type Claims struct {
	jwt.RegisteredClaims
	TenantID *string  `json:"tenant_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Name     *string  `json:"name,omitempty"`
}

// AuthenticatedUser is the authenticated caller's context, derived from
// validated claims plus tenant resolution.
type AuthenticatedUser struct {
	Sub          string
	Email        *string
	Name         *string
	TenantID     *string
	TenantSchema *string
	Roles        []string
}

// NewAuthenticatedUser builds a user context from validated claims and
// the tenant schema resolved for them (nil when multi-tenancy is disabled).
func NewAuthenticatedUser(claims *Claims, tenantSchema *string) AuthenticatedUser {
	return AuthenticatedUser{
		Sub:          claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		TenantID:     claims.TenantID,
		TenantSchema: tenantSchema,
		Roles:        claims.Roles,
	}
}

// HasRole reports whether the user carries the given role.
func (u AuthenticatedUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
