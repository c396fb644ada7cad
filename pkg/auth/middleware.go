package auth

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v5"

	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

// State bundles the pieces an HTTP request needs to authenticate a
// caller and resolve their effective schema filter.
type State struct {
	Config         Config
	JWTValidator   *JWTValidator
	TenantResolver *TenantResolver
	RBACEnforcer   *RBACEnforcer
	ServerSchema   sqlsafety.SchemaFilter
}

// NewState builds a State with no JWT/tenant wiring; use the fluent
// setters below to attach them when JWT mode is configured.
func NewState(cfg Config, serverSchema sqlsafety.SchemaFilter) State {
	return State{Config: cfg, ServerSchema: serverSchema, RBACEnforcer: NewRBACEnforcer(cfg.RBAC)}
}

// WithJWTValidator attaches the validator used for ModeJWT.
func (s State) WithJWTValidator(v *JWTValidator) State {
	s.JWTValidator = v
	return s
}

// WithTenantResolver attaches the resolver used for ModeJWT.
func (s State) WithTenantResolver(r *TenantResolver) State {
	s.TenantResolver = r
	return s
}

// Middleware returns echo middleware that authenticates each request per
// state.Config.Mode, attaching a UserContext to the request context on
// success.
func Middleware(state State) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if !state.Config.IsEnabled() {
				return next(c)
			}

			switch state.Config.Mode {
			case ModeBearerToken:
				if err := validateBearerToken(c, state.Config.BearerToken); err != nil {
					return err
				}
				return next(c)

			case ModeJWT:
				uc, err := validateJWT(c, state)
				if err != nil {
					return err
				}
				ctx := WithUserContext(c.Request().Context(), uc)
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)

			default:
				return next(c)
			}
		}
	}
}

func validateBearerToken(c *echo.Context, expected string) error {
	header := c.Request().Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token != expected {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
	}
	return nil
}

func validateJWT(c *echo.Context, state State) (UserContext, error) {
	header := c.Request().Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return UserContext{}, echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	if state.JWTValidator == nil {
		return UserContext{}, echo.NewHTTPError(http.StatusInternalServerError, "JWT validator not configured")
	}

	claims, err := state.JWTValidator.Validate(c.Request().Context(), token)
	if err != nil {
		// Do not surface validation details: avoids leaking token structure.
		return UserContext{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var tenantSchema *string
	if state.TenantResolver != nil {
		tenantSchema, _ = state.TenantResolver.Resolve(claims)
	}

	user := NewAuthenticatedUser(claims, tenantSchema)
	isAdmin := state.Config.RBAC.AdminRole != nil && user.HasRole(*state.Config.RBAC.AdminRole)

	return UserContext{
		User:          &user,
		SchemaFilter:  EffectiveSchemaFilter(state.ServerSchema, tenantSchema, isAdmin),
		CorrelationID: c.Request().Header.Get("X-Correlation-Id"),
	}, nil
}
