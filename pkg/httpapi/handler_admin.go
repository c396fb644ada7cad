package httpapi

import (
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/SAP/hdbconnect-mcp/pkg/config"
)

// adminReloadHandler handles POST /admin/reload. Grounded on http.rs's
// admin_reload_handler: for now it only acknowledges the request and
// logs who triggered it, the same stub behavior the original's comment
// documents ("Full implementation would reload config from file/env and
// update RuntimeConfigHolder").
//
// TODO: actually reload pkg/config from its source (file + env) and
// publish the result through a RuntimeConfigHolder, diffing against the
// currently held RuntimeConfig to populate ReloadResult.Changed.
func (s *Server) adminReloadHandler(c *echo.Context) error {
	var req ReloadRequest
	if err := c.Bind(&req); err != nil {
		req = ReloadRequest{}
	}

	trigger := config.ReloadTriggerHTTP(c.RealIP())
	slog.Info("configuration reload requested", "trigger", trigger.String(), "force", req.Force)

	result := config.ReloadSuccess(nil)
	resp := ReloadResponse{Success: result.Success, Changed: result.Changed}
	if result.Success {
		resp.Message = "configuration reload acknowledged"
		return c.JSON(http.StatusOK, resp)
	}
	resp.Message = result.Error
	return c.JSON(http.StatusInternalServerError, resp)
}
