package httpapi

import (
	"log/slog"
	"net"

	echo "github.com/labstack/echo/v5"
)

// securityHeaders returns middleware that sets standard security
// response headers, the same set and values as the teacher's
// pkg/api/middleware.go.
func securityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			h := c.Response().Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			return next(c)
		}
	}
}

const defaultCORSOrigin = "http://localhost:3000"

// corsOrigin resolves the allowed Origin header value: the configured
// MCP_CORS_ORIGIN value, or the restrictive localhost default when
// unset. Grounded on http.rs's build_cors_layer.
func corsOrigin(configured *string) string {
	if configured != nil && *configured != "" {
		return *configured
	}
	return defaultCORSOrigin
}

// emitSecurityWarnings logs the same three checks http.rs's
// emit_security_warnings performs at startup: binding to all
// interfaces, binding to a non-loopback address, and running without
// authentication while reachable from the network.
func emitSecurityWarnings(host net.IP, configuredOrigin *string, authEnabled bool) {
	isAllInterfaces := host.Equal(net.IPv4zero) || host.Equal(net.IPv6unspecified)
	isNonLoopback := !host.IsLoopback()

	switch {
	case isAllInterfaces:
		slog.Warn("HTTP server binding to all interfaces (0.0.0.0); this exposes the server to all network interfaces")
	case isNonLoopback:
		slog.Warn("HTTP server binding to non-loopback address; ensure network security policies are in place", "host", host.String())
	}

	if !authEnabled && isNonLoopback {
		slog.Warn("SECURITY WARNING: HTTP server accessible from network without authentication; set MCP_HTTP_BEARER_TOKEN or configure JWT mode to enable authentication")
	}

	if configuredOrigin == nil {
		slog.Info("CORS origin not configured (MCP_CORS_ORIGIN); using restrictive default", "default", defaultCORSOrigin)
	}
}
