package auth

import (
	"context"

	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// UserContext is the request-scoped authentication/authorization context
// threaded through context.Context for the lifetime of one MCP call or
// HTTP request: the authenticated principal (nil when auth is disabled),
// the schema filter narrowed for that principal's tenant, and a
// correlation ID for log/trace correlation. This supplements the bare
// "authenticated principal" the original tracks by bundling it with the
// per-request effective schema filter, since both are resolved together
// at the top of the request and consumed together at the query boundary.
type UserContext struct {
	User          *AuthenticatedUser
	SchemaFilter  sqlsafety.SchemaFilter
	CorrelationID string
}

type userContextKey struct{}

// WithUserContext attaches uc to ctx.
func WithUserContext(ctx context.Context, uc UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// FromContext returns the UserContext attached to ctx, if any.
func FromContext(ctx context.Context) (UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(UserContext)
	return uc, ok
}

// UserID returns the cache-key identity for ctx: the authenticated
// subject if present, else cache.SystemUser for single-tenant/auth-
// disabled deployments.
func UserID(ctx context.Context) string {
	uc, ok := FromContext(ctx)
	if !ok || uc.User == nil {
		return cache.SystemUser
	}
	return uc.User.Sub
}
