package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/auth"
	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/config"
	"github.com/SAP/hdbconnect-mcp/pkg/errs"
	"github.com/SAP/hdbconnect-mcp/pkg/hana"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// handlePing answers a liveness check against both the gateway and the
// database, reporting round-trip latency. Grounded on server.rs's ping.
func (g *Gateway) handlePing(ctx context.Context, _ *mcpsdk.CallToolRequest, _ PingInput) (*mcpsdk.CallToolResult, PingOutput, error) {
	start := time.Now()
	out, err := Execute(ctx, g.Guard, func(ctx context.Context) (PingOutput, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return PingOutput{}, err
		}
		defer h.Close()
		if err := h.Ping(ctx); err != nil {
			return PingOutput{}, err
		}
		return PingOutput{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}, nil
	})
	return nil, out, err
}

// handleListTables lists tables/views in a schema, subject to schema
// authorization and the metadata cache. Grounded on server.rs's
// list_tables.
func (g *Gateway) handleListTables(ctx context.Context, _ *mcpsdk.CallToolRequest, in ListTablesInput) (*mcpsdk.CallToolResult, []TableInfo, error) {
	if err := g.checkSchemaAccess(ctx, in.Schema); err != nil {
		return nil, nil, err
	}

	key := cache.TableList(in.Schema)
	if cached, ok := cacheLookup[[]TableInfo](ctx, g.Cache, key); ok {
		return nil, *cached, nil
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) ([]TableInfo, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return nil, err
		}
		defer h.Close()
		return fetchTables(ctx, h, in.Schema)
	})
	if err != nil {
		return nil, nil, err
	}
	cacheStore(ctx, g.Cache, key, out, nil)
	return nil, out, nil
}

// handleDescribeTable describes one table's columns. Grounded on
// server.rs's describe_table.
func (g *Gateway) handleDescribeTable(ctx context.Context, _ *mcpsdk.CallToolRequest, in DescribeTableInput) (*mcpsdk.CallToolResult, TableSchema, error) {
	if err := sqlsafety.ValidateIdentifier(in.Table, "table name"); err != nil {
		return nil, TableSchema{}, err
	}
	if err := g.checkSchemaAccess(ctx, in.Schema); err != nil {
		return nil, TableSchema{}, err
	}

	key := cache.TableSchema(in.Schema, in.Table)
	if cached, ok := cacheLookup[TableSchema](ctx, g.Cache, key); ok {
		return nil, *cached, nil
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) (TableSchema, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return TableSchema{}, err
		}
		defer h.Close()
		schema, err := fetchTableSchema(ctx, h, in.Schema, in.Table)
		if err != nil {
			return TableSchema{}, err
		}
		return *schema, nil
	})
	if err != nil {
		return nil, TableSchema{}, err
	}
	cacheStore(ctx, g.Cache, key, out, nil)
	return nil, out, nil
}

// handleExecuteSQL runs a read-only SELECT, applying the configured row
// limit and caching the result per-caller. Grounded on server.rs's
// execute_sql (read path only; the write path is execute_dml below).
func (g *Gateway) handleExecuteSQL(ctx context.Context, _ *mcpsdk.CallToolRequest, in ExecuteSQLInput) (*mcpsdk.CallToolResult, QueryResult, error) {
	if g.Config.ReadOnly {
		if err := sqlsafety.ValidateReadOnlySQL(in.SQL); err != nil {
			return nil, QueryResult{}, err
		}
	}

	limit := g.effectiveRowLimit(in.Limit)
	cacheEnabled := g.Config.ReadOnly && g.Config.Cache.Enabled
	var key cache.CacheKey
	if cacheEnabled {
		userID := auth.UserID(ctx)
		key = cache.QueryResult(in.SQL, &limit, userID)
		if cached, ok := cacheLookup[QueryResult](ctx, g.Cache, key); ok {
			return nil, *cached, nil
		}
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) (QueryResult, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return QueryResult{}, err
		}
		defer h.Close()
		rows, err := h.Query(ctx, in.SQL)
		if err != nil {
			return QueryResult{}, err
		}
		cols, values, truncated, err := scanRows(h, rows, limit)
		if err != nil {
			return QueryResult{}, err
		}
		result := QueryResult{Columns: cols, Rows: values, RowCount: len(values)}
		if truncated {
			result.RowCount = len(values)
		}
		return result, nil
	})
	if err != nil {
		return nil, QueryResult{}, err
	}
	if cacheEnabled {
		cacheStore(ctx, g.Cache, key, out, nil)
	}
	return nil, out, nil
}

// handleExecuteDML validates, optionally confirms, and runs a single
// INSERT/UPDATE/DELETE statement under the configured row cap, rolling
// back if the cap is exceeded. Grounded on server.rs's execute_dml,
// including its transaction discipline around MaxAffectedRows.
func (g *Gateway) handleExecuteDML(ctx context.Context, _ *mcpsdk.CallToolRequest, in ExecuteDMLInput) (*mcpsdk.CallToolResult, DMLResult, error) {
	if !g.DML.AllowDML {
		return nil, DMLResult{}, errs.New(errs.KindDMLDisabled, "DML execution is disabled")
	}

	op, err := sqlsafety.ValidateDMLSQL(in.SQL)
	if err != nil {
		return nil, DMLResult{}, err
	}
	if !g.DML.AllowedOperations.IsAllowed(op) {
		return nil, DMLResult{}, errs.New(errs.KindDMLOpNotAllowed, fmt.Sprintf("operation not allowed: %s", op))
	}
	if g.DML.RequireWhereClause && op.RequiresWhereClause() {
		if err := sqlsafety.ValidateWhereClause(in.SQL, op); err != nil {
			return nil, DMLResult{}, err
		}
	}
	if err := g.checkSchemaAccess(ctx, in.Schema); err != nil {
		return nil, DMLResult{}, err
	}

	if g.DML.RequireConfirmation && !in.Force {
		confirmed, err := g.confirm(ctx, fmt.Sprintf(elicitConfirmDML, op, schemaOrCurrent(in.Schema)))
		if err != nil {
			return nil, DMLResult{}, err
		}
		if !confirmed {
			return nil, DMLResult{}, errs.New(errs.KindDMLCancelled, "DML execution was not confirmed")
		}
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) (DMLResult, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return DMLResult{}, err
		}
		defer h.Close()
		return runGuardedDML(ctx, h, in.SQL, op, g.DML.MaxAffectedRows)
	})
	if err != nil {
		return nil, DMLResult{}, err
	}
	g.invalidateQueryCache(ctx)
	return nil, out, nil
}

// runGuardedDML executes sqlText directly when no row cap is configured,
// else inside an explicit transaction so an over-cap result can be
// rolled back instead of left committed. Grounded on server.rs's
// execute_dml transaction discipline around MaxAffectedRows.
func runGuardedDML(ctx context.Context, h *hana.Handle, sqlText string, op sqlsafety.DMLOperation, maxAffected *uint32) (DMLResult, error) {
	if maxAffected == nil {
		affected, err := h.DML(ctx, sqlText)
		if err != nil {
			return DMLResult{}, err
		}
		return DMLResult{Operation: op.String(), AffectedRows: uint64(affected), Status: "committed"}, nil
	}

	tx, err := h.BeginTx(ctx)
	if err != nil {
		return DMLResult{}, err
	}

	res, err := tx.ExecContext(ctx, sqlText)
	if err != nil {
		rollback(tx)
		return DMLResult{}, errs.Wrap(errs.KindConnection, "dml failed", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		rollback(tx)
		return DMLResult{}, errs.Wrap(errs.KindConnection, "failed to read affected rows", err)
	}

	if affected > int64(*maxAffected) {
		rollback(tx)
		return DMLResult{}, errs.New(errs.KindRowLimitExceeded, fmt.Sprintf(
			"statement would affect %d rows, exceeding the configured limit of %d", affected, *maxAffected)).
			WithDetail("affected_rows", affected).WithDetail("max_affected_rows", *maxAffected)
	}

	if err := tx.Commit(); err != nil {
		return DMLResult{}, errs.Wrap(errs.KindConnection, "failed to commit DML transaction", err)
	}
	return DMLResult{Operation: op.String(), AffectedRows: uint64(affected), Status: "committed"}, nil
}

// rollback rolls back tx and logs, rather than propagates, a failure to
// do so: the original statement's error already explains the outcome to
// the caller, and a rollback failure here would only obscure it.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		slog.Warn("failed to roll back DML transaction", "error", err)
	}
}

// handleListProcedures lists stored procedures in a schema, optionally
// narrowed by a validated LIKE name pattern. Grounded on server.rs's
// list_procedures.
func (g *Gateway) handleListProcedures(ctx context.Context, _ *mcpsdk.CallToolRequest, in ListProceduresInput) (*mcpsdk.CallToolResult, []ProcedureInfo, error) {
	if in.NamePattern != nil {
		if err := sqlsafety.ValidateLIKEPattern(*in.NamePattern); err != nil {
			return nil, nil, err
		}
	}
	if err := g.checkSchemaAccess(ctx, in.Schema); err != nil {
		return nil, nil, err
	}

	key := cache.ProcedureList(in.Schema, in.NamePattern)
	if cached, ok := cacheLookup[[]ProcedureInfo](ctx, g.Cache, key); ok {
		return nil, *cached, nil
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) ([]ProcedureInfo, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return nil, err
		}
		defer h.Close()
		return fetchProcedures(ctx, h, in.Schema, in.NamePattern)
	})
	if err != nil {
		return nil, nil, err
	}
	cacheStore(ctx, g.Cache, key, out, nil)
	return nil, out, nil
}

// handleDescribeProcedure describes one stored procedure's parameters.
// Grounded on server.rs's describe_procedure.
func (g *Gateway) handleDescribeProcedure(ctx context.Context, _ *mcpsdk.CallToolRequest, in DescribeProcedureInput) (*mcpsdk.CallToolResult, ProcedureSchema, error) {
	if err := sqlsafety.ValidateProcedureName(in.Procedure); err != nil {
		return nil, ProcedureSchema{}, err
	}
	schema, procedure := resolveProcedureName(in.Schema, in.Procedure)
	if err := g.checkSchemaAccess(ctx, schema); err != nil {
		return nil, ProcedureSchema{}, err
	}

	key := cache.ProcedureSchema(schema, procedure)
	if cached, ok := cacheLookup[ProcedureSchema](ctx, g.Cache, key); ok {
		return nil, *cached, nil
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) (ProcedureSchema, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return ProcedureSchema{}, err
		}
		defer h.Close()
		result, err := fetchProcedureSchema(ctx, h, schema, procedure)
		if err != nil {
			return ProcedureSchema{}, err
		}
		return *result, nil
	})
	if err != nil {
		return nil, ProcedureSchema{}, err
	}
	cacheStore(ctx, g.Cache, key, out, nil)
	return nil, out, nil
}

// handleCallProcedure invokes a stored procedure with its parameters
// inlined as SQL literals, optionally under an explicit transaction, and
// collects every result set up to the configured caps. Grounded on
// server.rs's call_procedure.
func (g *Gateway) handleCallProcedure(ctx context.Context, _ *mcpsdk.CallToolRequest, in CallProcedureInput) (*mcpsdk.CallToolResult, ProcedureResult, error) {
	if !g.Procedure.AllowProcedures {
		return nil, ProcedureResult{}, errs.New(errs.KindProcedureDisabled, "stored procedure execution is disabled")
	}
	if err := sqlsafety.ValidateProcedureName(in.Procedure); err != nil {
		return nil, ProcedureResult{}, err
	}
	schema, procedure := resolveProcedureName(in.Schema, in.Procedure)
	if err := g.checkSchemaAccess(ctx, schema); err != nil {
		return nil, ProcedureResult{}, err
	}

	literals, err := encodeCallParameters(in.Parameters)
	if err != nil {
		return nil, ProcedureResult{}, err
	}
	callSQL := callProcedureSQL(schema, procedure, literals)

	if g.Procedure.RequireConfirmation && !in.Force {
		confirmed, err := g.confirm(ctx, fmt.Sprintf(elicitConfirmProcedure, in.Procedure))
		if err != nil {
			return nil, ProcedureResult{}, err
		}
		if !confirmed {
			return nil, ProcedureResult{}, errs.New(errs.KindProcedureCancelled, "procedure call was not confirmed")
		}
	}

	out, err := Execute(ctx, g.Guard, func(ctx context.Context) (ProcedureResult, error) {
		h, err := g.borrow(ctx)
		if err != nil {
			return ProcedureResult{}, err
		}
		defer h.Close()
		return runProcedureCall(ctx, h, in.Procedure, callSQL, in.ExplicitTransaction, g.Procedure)
	})
	if err != nil {
		return nil, ProcedureResult{}, err
	}
	g.invalidateQueryCache(ctx)
	return nil, out, nil
}

// runProcedureCall executes callSQL and collects its result sets (capped
// by MaxResultSets/MaxRowsPerResultSet), optionally committing or rolling
// back an explicit transaction around it.
func runProcedureCall(ctx context.Context, h *hana.Handle, name, callSQL string, explicitTx bool, cfg config.ProcedureConfig) (ProcedureResult, error) {
	var tx *sql.Tx
	var err error
	if explicitTx {
		tx, err = h.BeginTx(ctx)
		if err != nil {
			return ProcedureResult{}, err
		}
	}

	res, rows, callErr := h.Statement(ctx, callSQL)
	if callErr != nil {
		if tx != nil {
			rollback(tx)
		}
		return ProcedureResult{}, callErr
	}

	result := ProcedureResult{Procedure: name, Status: "ok"}
	maxResultSets := config.DefaultMaxResultSets
	if cfg.MaxResultSets != nil {
		maxResultSets = int(*cfg.MaxResultSets)
	}
	maxRows := config.DefaultMaxRowsPerResultSet
	if cfg.MaxRowsPerResultSet != nil {
		maxRows = int(*cfg.MaxRowsPerResultSet)
	}

	// A procedure may produce more than one result set; database/sql
	// exposes the rest via Rows.NextResultSet, which the driver's wire
	// protocol fills in one at a time.
	if rows != nil {
		defer rows.Close()
		for setIndex := 0; ; setIndex++ {
			if len(result.ResultSets) >= maxResultSets {
				break
			}
			cols, values, truncated, scanErr := scanRowsWithoutClosing(h, rows, maxRows)
			if scanErr != nil {
				if tx != nil {
					rollback(tx)
				}
				return ProcedureResult{}, scanErr
			}
			result.ResultSets = append(result.ResultSets, ProcedureResultSet{
				Index: setIndex, Columns: cols, Rows: values, RowCount: len(values), Truncated: truncated,
			})
			if !rows.NextResultSet() {
				break
			}
		}
	}
	if res != nil {
		if affected, raErr := res.RowsAffected(); raErr == nil {
			a := uint64(affected)
			result.AffectedRows = &a
		}
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return ProcedureResult{}, errs.Wrap(errs.KindConnection, "failed to commit procedure call", err)
		}
	}
	return result, nil
}

// encodeCallParameters renders a parameter map into positional SQL
// literals. Map iteration order is not meaningful for CALL's positional
// arguments, so callers must supply parameters in an order-preserving
// structure upstream of the map (the MCP tool schema documents this);
// here we simply encode each value present.
func encodeCallParameters(params map[string]any) ([]string, error) {
	literals := make([]string, 0, len(params))
	for _, v := range params {
		lit, err := jsonValueToSQLLiteral(v)
		if err != nil {
			return nil, errs.Wrap(errs.KindSQLValidation, "failed to encode procedure parameter", err)
		}
		literals = append(literals, lit)
	}
	return literals, nil
}

// resolveProcedureName splits a bare-or-qualified procedure name into an
// explicit schema pointer and bare name, preferring an explicitly passed
// schema over one embedded in a qualified name.
func resolveProcedureName(explicitSchema *string, name string) (*string, string) {
	if explicitSchema != nil {
		_, bare := sqlsafety.ParseQualifiedName(name, "")
		if bare == "" {
			bare = name
		}
		return explicitSchema, bare
	}
	schema, bare := sqlsafety.ParseQualifiedName(name, "")
	if schema == "" {
		return nil, bare
	}
	return &schema, bare
}

// checkSchemaAccess validates schema (when provided) against the
// gateway's schema filter, narrowed for the caller's tenant when a
// UserContext is present.
func (g *Gateway) checkSchemaAccess(ctx context.Context, schema *string) error {
	if schema == nil {
		return nil
	}
	if uc, ok := auth.FromContext(ctx); ok {
		return uc.SchemaFilter.Validate(*schema)
	}
	return g.Guard.ValidateSchema(schema)
}

// effectiveRowLimit resolves the row cap for execute_sql: the caller's
// requested limit, capped by the configured RowLimit ceiling.
func (g *Gateway) effectiveRowLimit(requested *int) int {
	limit := 0
	if requested != nil {
		limit = *requested
	}
	if g.Config.RowLimit != nil {
		ceiling := int(*g.Config.RowLimit)
		if limit == 0 || limit > ceiling {
			limit = ceiling
		}
	}
	return limit
}

// confirm elicits a yes/no confirmation from the client when an Elicitor
// is attached; absent one, confirmation cannot be obtained and the call
// is treated as not confirmed (the safe default).
func (g *Gateway) confirm(ctx context.Context, message string) (bool, error) {
	if g.Elicitor == nil {
		return false, nil
	}
	result, err := g.Elicitor.Elicit(ctx, message, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"confirmed": map[string]any{"type": "boolean"},
		},
	})
	if err != nil {
		return false, err
	}
	if result.Action != ElicitAccept {
		return false, nil
	}
	confirmed, _ := result.Content["confirmed"].(bool)
	return confirmed, nil
}

// invalidateQueryCache drops every cached execute_sql result after a
// write, since a DML/procedure call may have changed the data a cached
// SELECT reflected.
func (g *Gateway) invalidateQueryCache(ctx context.Context) {
	if g.Cache == nil {
		return
	}
	if _, err := g.Cache.DeleteByPrefix(ctx, cache.NamespaceQueryResult.String()); err != nil {
		slog.Warn("failed to invalidate query result cache", "error", err)
	}
}

// schemaOrCurrent renders schema for user-facing confirmation copy,
// falling back to a label for "the connection's current schema".
func schemaOrCurrent(schema *string) string {
	if schema == nil {
		return "the current schema"
	}
	return *schema
}
