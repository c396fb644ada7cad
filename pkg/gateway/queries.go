package gateway

import "fmt"

// healthCheckQuery is the SELECT 1 FROM DUMMY liveness probe text,
// grounded on constants.rs's HEALTH_CHECK_QUERY. The gateway does not
// send it itself: the ping tool and the cooperative pool's borrow check
// run pkg/hana's dummyQuery through Conn.Ping.
const healthCheckQuery = "SELECT 1 FROM DUMMY"

// sqlTrue is the literal HANA's catalog views use for boolean columns
// (IS_NULLABLE, READ_ONLY, ...), compared against rather than parsed as
// a Go bool, per constants.rs's SQL_TRUE.
const sqlTrue = "TRUE"

// listTablesQuery returns the SYS.TABLES listing query, scoped to schema
// when given, else to CURRENT_SCHEMA.
func listTablesQuery(schema *string) (string, []any) {
	if schema == nil {
		return `SELECT TABLE_NAME, TABLE_TYPE FROM SYS.TABLES
			WHERE SCHEMA_NAME = CURRENT_SCHEMA
			ORDER BY TABLE_NAME`, nil
	}
	return `SELECT TABLE_NAME, TABLE_TYPE FROM SYS.TABLES
		WHERE SCHEMA_NAME = ?
		ORDER BY TABLE_NAME`, []any{*schema}
}

// describeTableQuery returns the SYS.TABLE_COLUMNS listing query for one
// table, scoped to schema when given, else to CURRENT_SCHEMA.
func describeTableQuery(schema *string, table string) (string, []any) {
	if schema == nil {
		return `SELECT COLUMN_NAME, DATA_TYPE_NAME, IS_NULLABLE FROM SYS.TABLE_COLUMNS
			WHERE SCHEMA_NAME = CURRENT_SCHEMA AND TABLE_NAME = ?
			ORDER BY POSITION`, []any{table}
	}
	return `SELECT COLUMN_NAME, DATA_TYPE_NAME, IS_NULLABLE FROM SYS.TABLE_COLUMNS
		WHERE SCHEMA_NAME = ? AND TABLE_NAME = ?
		ORDER BY POSITION`, []any{*schema, table}
}

// listProceduresQuery returns the SYS.PROCEDURES listing query, scoped
// to schema and/or narrowed by a validated LIKE name pattern.
func listProceduresQuery(schema, pattern *string) (string, []any) {
	switch {
	case schema == nil && pattern == nil:
		return `SELECT PROCEDURE_NAME, SCHEMA_NAME FROM SYS.PROCEDURES
			WHERE SCHEMA_NAME = CURRENT_SCHEMA
			ORDER BY PROCEDURE_NAME`, nil
	case schema != nil && pattern == nil:
		return `SELECT PROCEDURE_NAME, SCHEMA_NAME FROM SYS.PROCEDURES
			WHERE SCHEMA_NAME = ?
			ORDER BY PROCEDURE_NAME`, []any{*schema}
	case schema == nil && pattern != nil:
		return `SELECT PROCEDURE_NAME, SCHEMA_NAME FROM SYS.PROCEDURES
			WHERE SCHEMA_NAME = CURRENT_SCHEMA AND PROCEDURE_NAME LIKE ?
			ORDER BY PROCEDURE_NAME`, []any{*pattern}
	default:
		return `SELECT PROCEDURE_NAME, SCHEMA_NAME FROM SYS.PROCEDURES
			WHERE SCHEMA_NAME = ? AND PROCEDURE_NAME LIKE ?
			ORDER BY PROCEDURE_NAME`, []any{*schema, *pattern}
	}
}

// describeProcedureQuery returns the SYS.PROCEDURE_PARAMETERS listing
// query for one procedure, scoped to schema when given, else to
// CURRENT_SCHEMA.
func describeProcedureQuery(schema *string, procedure string) (string, []any) {
	if schema == nil {
		return `SELECT PARAMETER_NAME, POSITION, DATA_TYPE_NAME, PARAMETER_TYPE,
				LENGTH, SCALE, HAS_DEFAULT_VALUE
			FROM SYS.PROCEDURE_PARAMETERS
			WHERE SCHEMA_NAME = CURRENT_SCHEMA AND PROCEDURE_NAME = ?
			ORDER BY POSITION`, []any{procedure}
	}
	return `SELECT PARAMETER_NAME, POSITION, DATA_TYPE_NAME, PARAMETER_TYPE,
			LENGTH, SCALE, HAS_DEFAULT_VALUE
		FROM SYS.PROCEDURE_PARAMETERS
		WHERE SCHEMA_NAME = ? AND PROCEDURE_NAME = ?
		ORDER BY POSITION`, []any{*schema, procedure}
}

// callProcedureSQL builds a CALL statement with parameters inlined as
// SQL literals (HANA's CALL syntax does not support bind placeholders
// for every parameter kind uniformly, so the original encodes literals
// directly — see literal.go for the encoder and its escaping
// discipline).
func callProcedureSQL(schema *string, procedure string, literals []string) string {
	qualified := quoteIdent(procedure)
	if schema != nil {
		qualified = quoteIdent(*schema) + "." + qualified
	}
	args := ""
	for i, l := range literals {
		if i > 0 {
			args += ", "
		}
		args += l
	}
	return fmt.Sprintf("CALL %s(%s)", qualified, args)
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}

// Elicitation prompt copy, grounded on constants.rs's message constants.
const (
	elicitSchemaForTable     = "Which schema should list_tables use? Leave blank to use the connection's current schema."
	elicitSchemaForDescribe  = "Which schema is %q in? Leave blank to use the connection's current schema."
	elicitSchemaForProcedure = "Which schema should list_procedures use? Leave blank to use the connection's current schema."
	elicitConfirmDML         = "This will run a %s affecting rows in %q. Confirm to proceed?"
	elicitConfirmProcedure   = "This will call procedure %q, which may modify data. Confirm to proceed?"
)
