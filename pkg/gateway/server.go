package gateway

import (
	"context"
	"fmt"

	"github.com/SAP/hdbconnect-mcp/pkg/auth"
	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/config"
	"github.com/SAP/hdbconnect-mcp/pkg/hana"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Borrower is the subset of hana.Pool/hana.CooperativePool the gateway
// needs, so tests can substitute a pool built over a fake Conn without a
// real HANA instance.
type Borrower interface {
	Borrow(ctx context.Context) (*hana.Handle, error)
}

// ElicitAction mirrors the three outcomes a server-initiated elicitation
// request can have, the Go stand-in for the original's
// context.peer.elicit::<T> response enum (Accepted/Declined/Cancelled).
type ElicitAction string

const (
	ElicitAccept  ElicitAction = "accept"
	ElicitDecline ElicitAction = "decline"
	ElicitCancel  ElicitAction = "cancel"
)

// ElicitResult is what an elicitation round-trip returns: the action the
// client took and, on accept, the content it supplied.
type ElicitResult struct {
	Action  ElicitAction
	Content map[string]any
}

// Elicitor sends a server-initiated elicitation request to the connected
// MCP client and waits for its response. A nil Elicitor on Gateway means
// the client/transport doesn't support elicitation (e.g. stdio without a
// capability handshake); tools fall back to requiring parameters to be
// supplied explicitly rather than prompting.
//
// This is a seam over mcp.ServerSession's elicitation primitive: the
// example pack only shows this SDK's *client*-side usage (pkg/mcp/
// client.go), never a server hosting tools and issuing elicitations, so
// this interface is authored from the published SDK surface rather than
// ported from an in-pack caller — see DESIGN.md's gateway entry.
type Elicitor interface {
	Elicit(ctx context.Context, message string, requestedSchema map[string]any) (ElicitResult, error)
}

// Gateway bundles everything a tool call needs: a connection pool, the
// resolved configuration, the cache, the query guard, and RBAC/
// elicitation collaborators. The Go stand-in for the original's
// ServerHandler — see server.rs's struct and tool_router.
type Gateway struct {
	Pool      Borrower
	Config    config.Config
	Cache     cache.Provider
	Guard     *Guard
	DML       config.DmlConfig
	Procedure config.ProcedureConfig
	RBAC      *auth.RBACEnforcer
	Elicitor  Elicitor
}

// NewGateway wires a Gateway from its resolved configuration, a pool
// (blocking or cooperative — both satisfy Borrower), and a cache
// provider. RBAC and Elicitor are optional and may be attached
// afterward.
func NewGateway(cfg config.Config, pool Borrower, cacheProvider cache.Provider) *Gateway {
	return &Gateway{
		Pool:      pool,
		Config:    cfg,
		Cache:     cacheProvider,
		Guard:     NewGuard(cfg.QueryTimeout, cfg.SchemaFilter),
		DML:       cfg.DML,
		Procedure: cfg.Procedure,
	}
}

// RegisterTools mounts the gateway's fixed tool surface onto server,
// following the teacher's wiring idiom of one top-level constructor that
// attaches every collaborator before Serve is called (pkg/api/server.go's
// NewServer + Set* pattern), adapted here to MCP tool registration
// instead of HTTP route registration.
func (g *Gateway) RegisterTools(server *mcpsdk.Server) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "ping",
		Description: "Check gateway and database liveness.",
	}, g.handlePing)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_tables",
		Description: "List tables and views in a schema.",
	}, g.handleListTables)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "describe_table",
		Description: "Describe the columns of one table.",
	}, g.handleDescribeTable)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "execute_sql",
		Description: "Run a read-only SELECT query.",
	}, g.handleExecuteSQL)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "execute_dml",
		Description: "Run a guarded INSERT/UPDATE/DELETE statement.",
	}, g.handleExecuteDML)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "list_procedures",
		Description: "List stored procedures in a schema.",
	}, g.handleListProcedures)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "describe_procedure",
		Description: "Describe the parameters of one stored procedure.",
	}, g.handleDescribeProcedure)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "call_procedure",
		Description: "Call a stored procedure with literal-bound parameters.",
	}, g.handleCallProcedure)
}

// NewServer builds an mcp.Server carrying the gateway's name/version
// identity and the tool surface registered against it.
func NewServer(g *Gateway, name, version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: name, Version: version}, nil)
	g.RegisterTools(server)
	return server
}

// borrow acquires a pooled connection under the caller's context (the
// pool applies its own wait timeout), wrapping pool exhaustion/timeout
// uniformly for every tool.
func (g *Gateway) borrow(ctx context.Context) (*hana.Handle, error) {
	h, err := g.Pool.Borrow(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring HANA connection: %w", err)
	}
	return h, nil
}
