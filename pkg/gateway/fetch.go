package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
	"github.com/SAP/hdbconnect-mcp/pkg/hana"
)

// scanRows materializes an open *sql.Rows into column-major JSON-ready
// values, honoring limit (0 means unlimited) and reporting whether the
// result was truncated. Grounded on server.rs's row-collection loop in
// execute_sql, generalized here so list_procedures/execute_sql/
// call_procedure share one scan routine instead of three near-duplicates.
func scanRows(conn hana.Conn, rows *sql.Rows, limit int) (columns []string, values [][]any, truncated bool, err error) {
	defer rows.Close()
	return scanRowsWithoutClosing(conn, rows, limit)
}

// scanRowsWithoutClosing is scanRows without the deferred Close, for
// callers iterating a multi-result-set statement via rows.NextResultSet,
// which must not close rows between sets.
func scanRowsWithoutClosing(conn hana.Conn, rows *sql.Rows, limit int) (columns []string, values [][]any, truncated bool, err error) {
	meta, err := conn.ColumnsOf(rows)
	if err != nil {
		return nil, nil, false, err
	}
	columns = make([]string, len(meta))
	for i, m := range meta {
		columns[i] = m.Name
	}

	dest := make([]any, len(meta))
	ptrs := make([]any, len(meta))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if limit > 0 && len(values) >= limit {
			truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, false, errs.Wrap(errs.KindValueConversion, "failed to scan result row", err)
		}
		row := make([]any, len(dest))
		for i, v := range dest {
			row[i] = normalizeScanned(v)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, errs.Wrap(errs.KindConnection, "error iterating result rows", err)
	}
	return columns, values, truncated, nil
}

// normalizeScanned converts a database/sql scan destination into a
// JSON-marshalable value: []byte becomes a string (HANA text/decimal
// columns frequently scan as []byte) and everything else passes through.
func normalizeScanned(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// fetchTables lists tables (and views) visible in schema, or the
// connection's current schema when nil. Grounded on server.rs's
// fetch_tables_from_db.
func fetchTables(ctx context.Context, conn hana.Conn, schema *string) ([]TableInfo, error) {
	query, args := listTablesQuery(schema)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.TableType); err != nil {
			return nil, errs.Wrap(errs.KindValueConversion, "failed to scan table row", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindConnection, "error listing tables", err)
	}
	return tables, nil
}

// fetchTableSchema lists the columns of one table. Grounded on
// server.rs's fetch_table_schema_from_db.
func fetchTableSchema(ctx context.Context, conn hana.Conn, schema *string, table string) (*TableSchema, error) {
	query, args := describeTableQuery(schema, table)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			name, dataType, nullable string
		)
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, errs.Wrap(errs.KindValueConversion, "failed to scan column row", err)
		}
		cols = append(cols, ColumnInfo{Name: name, DataType: dataType, Nullable: strings.EqualFold(nullable, sqlTrue)})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindConnection, "error describing table", err)
	}
	if len(cols) == 0 {
		return nil, errs.New(errs.KindSchemaMismatch, fmt.Sprintf("table not found: %q", table)).WithDetail("table", table)
	}
	return &TableSchema{TableName: table, Columns: cols}, nil
}

// fetchProcedures lists stored procedures visible in schema (or the
// connection's current schema), optionally narrowed by pattern.
func fetchProcedures(ctx context.Context, conn hana.Conn, schema, pattern *string) ([]ProcedureInfo, error) {
	query, args := listProceduresQuery(schema, pattern)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procs []ProcedureInfo
	for rows.Next() {
		var p ProcedureInfo
		if err := rows.Scan(&p.Name, &p.Schema); err != nil {
			return nil, errs.Wrap(errs.KindValueConversion, "failed to scan procedure row", err)
		}
		p.Type = "PROCEDURE"
		procs = append(procs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindConnection, "error listing procedures", err)
	}
	return procs, nil
}

// fetchProcedureSchema lists the parameters of one stored procedure.
func fetchProcedureSchema(ctx context.Context, conn hana.Conn, schema *string, procedure string) (*ProcedureSchema, error) {
	query, args := describeProcedureQuery(schema, procedure)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var params []ProcedureParameter
	for rows.Next() {
		var (
			name, dataType, direction string
			position                  int
			length, scale             sql.NullInt64
			hasDefault                string
		)
		if err := rows.Scan(&name, &position, &dataType, &direction, &length, &scale, &hasDefault); err != nil {
			return nil, errs.Wrap(errs.KindValueConversion, "failed to scan procedure parameter row", err)
		}
		param := ProcedureParameter{
			Name:       name,
			Position:   position,
			DataType:   dataType,
			Direction:  parseDirection(direction),
			HasDefault: strings.EqualFold(hasDefault, sqlTrue),
		}
		if length.Valid {
			l := int(length.Int64)
			param.Length = &l
		}
		if scale.Valid {
			s := int(scale.Int64)
			param.Scale = &s
		}
		params = append(params, param)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.KindConnection, "error describing procedure", err)
	}
	if len(params) == 0 {
		return nil, errs.New(errs.KindSchemaMismatch, fmt.Sprintf("procedure not found: %q", procedure)).WithDetail("procedure", procedure)
	}
	return &ProcedureSchema{Procedure: procedure, Parameters: params}, nil
}

func parseDirection(s string) ParameterDirection {
	switch strings.ToUpper(s) {
	case "OUT":
		return DirectionOut
	case "INOUT":
		return DirectionInOut
	default:
		return DirectionIn
	}
}
