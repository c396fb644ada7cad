package httpapi

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP/hdbconnect-mcp/pkg/hana"
)

type fakePoolStats struct{ stats hana.Stats }

func (f fakePoolStats) Stats() hana.Stats { return f.stats }

func TestHealthHandler_WithoutPool(t *testing.T) {
	e := echo.New()
	s := &Server{echo: e}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.healthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotContains(t, rec.Body.String(), "pool")
}

func TestHealthHandler_WithPool(t *testing.T) {
	e := echo.New()
	s := &Server{echo: e, pool: fakePoolStats{stats: hana.Stats{Size: 4, Idle: 3, Borrowed: 1}}}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.healthHandler(c))
	assert.Contains(t, rec.Body.String(), `"borrowed":1`)
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(securityHeaders())
	e.GET("/test", func(c *echo.Context) error { return c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestCorsOrigin_DefaultsWhenUnconfigured(t *testing.T) {
	assert.Equal(t, defaultCORSOrigin, corsOrigin(nil))
}

func TestCorsOrigin_UsesConfiguredValue(t *testing.T) {
	origin := "https://dashboard.example.com"
	assert.Equal(t, origin, corsOrigin(&origin))
}

func TestEmitSecurityWarnings_DoesNotPanic(t *testing.T) {
	emitSecurityWarnings(net.IPv4(127, 0, 0, 1), nil, true)
	emitSecurityWarnings(net.IPv4zero, nil, false)
	origin := "https://dashboard.example.com"
	emitSecurityWarnings(net.IPv4(10, 0, 0, 5), &origin, false)
}

func TestMetricsHandler_RendersWithoutPanickingWhenRegistryNil(t *testing.T) {
	e := echo.New()
	s := &Server{echo: e, metrics: nil}
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, s.metricsHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
