package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"

	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
)

func newTestEcho(state State) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(state))
	e.GET("/test", func(c *echo.Context) error {
		uc, ok := FromContext(c.Request().Context())
		if ok && uc.User != nil {
			return c.String(http.StatusOK, uc.User.Sub)
		}
		return c.String(http.StatusOK, "anonymous")
	})
	return e
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	state := NewState(DefaultConfig(), sqlsafety.AllowAllSchemas())
	e := newTestEcho(state)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestMiddleware_BearerToken_Success(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeBearerToken
	cfg.BearerToken = "secret-token"
	e := newTestEcho(NewState(cfg, sqlsafety.AllowAllSchemas()))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_BearerToken_WrongToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeBearerToken
	cfg.BearerToken = "secret-token"
	e := newTestEcho(NewState(cfg, sqlsafety.AllowAllSchemas()))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_BearerToken_MissingHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeBearerToken
	cfg.BearerToken = "secret-token"
	e := newTestEcho(NewState(cfg, sqlsafety.AllowAllSchemas()))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_JWT_MissingValidatorIsInternalError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeJWT
	e := newTestEcho(NewState(cfg, sqlsafety.AllowAllSchemas()))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_JWT_MissingHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeJWT
	e := newTestEcho(NewState(cfg, sqlsafety.AllowAllSchemas()))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
