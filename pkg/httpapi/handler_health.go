package httpapi

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/SAP/hdbconnect-mcp/pkg/version"
)

// healthHandler handles GET /health. Deliberately minimal, matching
// http.rs's health_handler: it reports process liveness, not database
// reachability — a database round-trip belongs to the "ping" MCP tool,
// which callers can invoke over the same /mcp endpoint.
func (s *Server) healthHandler(c *echo.Context) error {
	resp := HealthResponse{Status: "ok", Version: version.Full()}
	if s.pool != nil {
		stats := s.pool.Stats()
		resp.Pool = &PoolStatus{Size: stats.Size, Idle: stats.Idle, Borrowed: stats.Borrowed}
	}
	return c.JSON(http.StatusOK, resp)
}
