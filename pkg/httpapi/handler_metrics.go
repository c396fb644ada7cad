package httpapi

import (
	echo "github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsHandler handles GET /metrics, rendering the gateway's
// Prometheus registry in text exposition format. The original gates
// this route behind a build feature flag; here it's always mounted —
// an empty/default registry renders an (almost) empty body rather than
// needing a compile-time switch, and the route still sits behind the
// same auth middleware as everything else.
func (s *Server) metricsHandler(c *echo.Context) error {
	handler := promhttp.HandlerFor(s.metrics.Gatherer(), promhttp.HandlerOpts{})
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
