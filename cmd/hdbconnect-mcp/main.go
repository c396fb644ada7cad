// Command hdbconnect-mcp is the gateway's entrypoint: it loads
// configuration, builds the connection pool, cache, and auth state, wires
// the MCP tool surface onto an SDK server, and serves it over stdio or
// HTTP depending on the resolved transport.
//
// Grounded on the teacher's cmd/tarsy/main.go for the flag/env/config.
// Initialize wiring shape, and on the original's main.rs for the
// domain-specific startup sequence (parse connection URL, build the
// pool, log read-only mode and row limit, serve).
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/SAP/hdbconnect-mcp/pkg/auth"
	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/config"
	"github.com/SAP/hdbconnect-mcp/pkg/gateway"
	"github.com/SAP/hdbconnect-mcp/pkg/hana"
	"github.com/SAP/hdbconnect-mcp/pkg/httpapi"
	"github.com/SAP/hdbconnect-mcp/pkg/metrics"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"
	"github.com/SAP/hdbconnect-mcp/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func rowLimitString(limit *uint32) string {
	if limit == nil {
		return "unlimited"
	}
	return strconv.FormatUint(uint64(*limit), 10)
}

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", ""),
		"Path to hdbconnect-mcp.yaml (defaults to the first of the built-in search locations)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, continuing with existing environment", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configPath)
	if err != nil {
		slog.Error("failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting hdbconnect-mcp",
		"version", version.Full(),
		"transport", cfg.Transport.Mode,
		"read_only", cfg.ReadOnly,
		"row_limit", rowLimitString(cfg.RowLimit),
		"pool_size", cfg.PoolSize,
	)

	poolCfg := hana.DefaultPoolConfig(hana.DefaultOptions(cfg.ConnectionURL))
	if cfg.PoolSize > 0 {
		poolCfg.Size = cfg.PoolSize
	}
	coopPool := hana.NewCooperativePool(poolCfg)
	pool := coopPool.Pool
	defer func() {
		if err := pool.Close(); err != nil {
			slog.Error("error closing connection pool", "error", err)
		}
	}()

	cacheProvider := cache.New(cfg.Cache)
	reg := metrics.New(version.Full())

	gw := gateway.NewGateway(*cfg, coopPool, cacheProvider)
	mcpServer := gateway.NewServer(gw, version.AppName, version.Full())

	switch cfg.Transport.Mode {
	case config.TransportHTTP:
		runHTTP(ctx, *cfg, pool, mcpServer, reg)
	default:
		runStdio(ctx, mcpServer)
	}
}

// runStdio serves the gateway over stdin/stdout, the transport the
// original's main.rs uses exclusively. *mcp.StdioTransport is authored
// from the published SDK surface: the example pack's only SDK usage is
// client-side (pkg/mcp/transport.go builds CommandTransport/
// StreamableClientTransport/SSEClientTransport to dial a server), never a
// server hosting tools serving over stdio — see DESIGN.md's httpapi entry
// for the sibling gap on the HTTP side.
func runStdio(ctx context.Context, mcpServer *mcpsdk.Server) {
	slog.Info("serving over stdio")
	if err := mcpServer.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		slog.Error("stdio transport exited with error", "error", err)
		os.Exit(1)
	}
}

// runHTTP builds the auth state for the HTTP transport and serves the
// gateway until ctx is cancelled (SIGINT/SIGTERM), then drains in-flight
// requests before returning.
func runHTTP(ctx context.Context, cfg config.Config, pool *hana.Pool, mcpServer *mcpsdk.Server, reg *metrics.Registry) {
	authState := buildAuthState(cfg.SchemaFilter)

	srv := httpapi.NewServer(cfg, authState, mcpServer, pool, reg)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server exited with error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("error during HTTP server shutdown", "error", err)
		}
	}
}

// buildAuthState loads the bearer-token setting the original's HTTP
// transport reads from the environment (MCP_HTTP_BEARER_TOKEN); richer
// JWT/tenant/RBAC authentication has no environment-loading counterpart
// in either the original or this port and must be wired programmatically
// by an embedder, so it stays at auth.LoadFromEnv's defaults here.
func buildAuthState(serverSchema sqlsafety.SchemaFilter) auth.State {
	authCfg := auth.LoadFromEnv()
	return auth.NewState(authCfg, serverSchema)
}
