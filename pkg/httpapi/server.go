// Package httpapi is the gateway's HTTP transport: it exposes /health,
// /metrics, and /admin/reload, and mounts the MCP server's streamable-HTTP
// endpoint at /mcp. Grounded on the teacher's pkg/api/server.go for the
// Echo v5 server-construction idiom (one constructor, setupRoutes,
// Start/StartWithListener/Shutdown) and on the original's
// transport/http.rs for this gateway's specific route set, CORS
// defaulting, and startup security warnings.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/SAP/hdbconnect-mcp/pkg/auth"
	"github.com/SAP/hdbconnect-mcp/pkg/config"
	"github.com/SAP/hdbconnect-mcp/pkg/hana"
	"github.com/SAP/hdbconnect-mcp/pkg/metrics"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// requestBodyLimit caps incoming request bodies, set generously above a
// realistic CALL PROCEDURE payload with several large JSON parameters,
// while still rejecting multi-MB/GB bodies at the HTTP read level.
// Mirrors pkg/api/server.go's BodyLimit(2MB) sizing rationale.
const requestBodyLimit = 4 * 1024 * 1024

// requestTimeout bounds how long any single HTTP request may run,
// matching http.rs's TimeoutLayer(60s).
const requestTimeout = 60 * time.Second

// PoolStats is the subset of hana.Pool the health handler needs to
// report connection occupancy. A nil PoolStats omits the field from
// the health response rather than erroring.
type PoolStats interface {
	Stats() hana.Stats
}

// Server is the gateway's HTTP transport.
type Server struct {
	echo        *echo.Echo
	httpServer  *http.Server
	cfg         config.Config
	pool        PoolStats
	metrics     *metrics.Registry
	authEnabled bool
}

// NewServer builds an HTTP server exposing /health, /metrics,
// /admin/reload, and the MCP server's streamable-HTTP endpoint at
// /mcp. authState configures the auth.Middleware wrapping every route;
// pool and reg are optional (nil disables their respective health/
// metrics enrichment).
func NewServer(cfg config.Config, authState auth.State, mcpServer *mcpsdk.Server, pool PoolStats, reg *metrics.Registry) *Server {
	e := echo.New()
	s := &Server{echo: e, cfg: cfg, pool: pool, metrics: reg, authEnabled: authState.Config.IsEnabled()}
	s.setupRoutes(authState, mcpServer)
	return s
}

func (s *Server) setupRoutes(authState auth.State, mcpServer *mcpsdk.Server) {
	s.echo.Use(middleware.BodyLimit(requestBodyLimit))
	s.echo.Use(securityHeaders())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{corsOrigin(s.cfg.Transport.CORSOrigin)},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: requestTimeout}))
	s.echo.Use(auth.Middleware(authState))

	s.echo.GET("/health", s.healthHandler)
	s.echo.GET("/metrics", s.metricsHandler)
	s.echo.POST("/admin/reload", s.adminReloadHandler)

	mcpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server { return mcpServer }, nil)
	strippedMCPHandler := http.StripPrefix("/mcp", mcpHandler)
	s.echo.Any("/mcp", echo.WrapHandler(mcpHandler))
	s.echo.Any("/mcp/*", echo.WrapHandler(strippedMCPHandler))
}

// Start starts the HTTP server on host:port (blocking), after logging
// the same startup security warnings the original emits.
func (s *Server) Start() error {
	host := s.cfg.Transport.HTTPHost
	port := s.cfg.Transport.HTTPPort
	emitSecurityWarnings(host, s.cfg.Transport.CORSOrigin, s.authEnabled)

	addr := net.JoinHostPort(host.String(), strconv.Itoa(int(port)))
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
