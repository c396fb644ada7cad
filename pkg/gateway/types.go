// Package gateway hosts the fixed MCP tool surface over a HANA pool:
// ping, table/procedure discovery, read-only query execution, guarded
// DML, and stored-procedure calls — each wrapped by Guard's timeout and
// schema-filter enforcement.
//
// Grounded on original_source's server.rs (tool bodies), security/
// query_guard.rs (the execution guard), constants.rs (query templates
// and elicitation copy) and types.rs (the structures below), hosted via
// modelcontextprotocol/go-sdk/mcp the way the teacher's pkg/mcp hosts an
// MCP *client* (inverted here to server-side tool hosting, per the
// session/transport lifecycle patterns in pkg/mcp/client.go and
// pkg/mcp/transport.go).
package gateway

// SchemaName identifies a HANA schema by name, the structured type an
// elicitation response or explicit parameter carries.
type SchemaName struct {
	Name string `json:"name"`
}

// PingInput takes no parameters.
type PingInput struct{}

// PingOutput reports gateway liveness and round-trip latency.
type PingOutput struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// ListTablesInput optionally scopes the listing to one schema.
type ListTablesInput struct {
	Schema *string `json:"schema,omitempty"`
}

// TableInfo names one table and its kind (TABLE/VIEW/...).
type TableInfo struct {
	Name      string `json:"name"`
	TableType string `json:"table_type"`
}

// DescribeTableInput names the table (required) and optionally its schema.
type DescribeTableInput struct {
	Table  string  `json:"table"`
	Schema *string `json:"schema,omitempty"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema is the full column listing for one table.
type TableSchema struct {
	TableName string       `json:"table_name"`
	Columns   []ColumnInfo `json:"columns"`
}

// ExecuteSQLInput carries a read-only query and an optional row cap.
type ExecuteSQLInput struct {
	SQL   string `json:"sql"`
	Limit *int   `json:"limit,omitempty"`
}

// QueryResult is a materialized SELECT result: column names plus
// row-major, JSON-compatible values.
type QueryResult struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

// ExecuteDMLInput carries a write statement plus its confirmation and
// schema-targeting knobs.
type ExecuteDMLInput struct {
	SQL    string  `json:"sql"`
	Schema *string `json:"schema,omitempty"`
	Force  bool    `json:"force,omitempty"`
}

// DMLResult reports the outcome of a write statement.
type DMLResult struct {
	Operation     string  `json:"operation"`
	AffectedRows  uint64  `json:"affected_rows"`
	Status        string  `json:"status"`
	Message       *string `json:"message,omitempty"`
}

// ListProceduresInput optionally scopes listing to a schema and/or a
// validated LIKE pattern over procedure names.
type ListProceduresInput struct {
	Schema      *string `json:"schema,omitempty"`
	NamePattern *string `json:"name_pattern,omitempty"`
}

// ProcedureInfo names one stored procedure.
type ProcedureInfo struct {
	Name       string `json:"name"`
	Schema     string `json:"schema"`
	Type       string `json:"procedure_type"`
	IsReadOnly bool   `json:"is_read_only"`
}

// DescribeProcedureInput names the procedure (bare or schema-qualified)
// and optionally its schema.
type DescribeProcedureInput struct {
	Procedure string  `json:"procedure"`
	Schema    *string `json:"schema,omitempty"`
}

// ParameterDirection classifies a procedure parameter's data flow.
type ParameterDirection string

const (
	DirectionIn    ParameterDirection = "IN"
	DirectionOut   ParameterDirection = "OUT"
	DirectionInOut ParameterDirection = "INOUT"
)

// ProcedureParameter describes one positional parameter of a procedure.
type ProcedureParameter struct {
	Name       string             `json:"name"`
	Position   int                `json:"position"`
	DataType   string             `json:"data_type"`
	Direction  ParameterDirection `json:"direction"`
	Length     *int               `json:"length,omitempty"`
	Precision  *int               `json:"precision,omitempty"`
	Scale      *int               `json:"scale,omitempty"`
	HasDefault bool               `json:"has_default"`
}

// ProcedureSchema is the full parameter listing for one procedure.
type ProcedureSchema struct {
	Procedure  string               `json:"procedure"`
	Parameters []ProcedureParameter `json:"parameters"`
}

// CallProcedureInput names the procedure, its literal-bound parameters,
// and transaction/confirmation knobs.
type CallProcedureInput struct {
	Procedure          string         `json:"procedure"`
	Parameters         map[string]any `json:"parameters,omitempty"`
	Schema             *string        `json:"schema,omitempty"`
	Force              bool           `json:"force,omitempty"`
	ExplicitTransaction bool          `json:"explicit_transaction,omitempty"`
}

// ProcedureResultSet is one result set a procedure call produced.
type ProcedureResultSet struct {
	Index      int      `json:"index"`
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	RowCount   int      `json:"row_count"`
	Truncated  bool     `json:"truncated"`
}

// OutputParameter describes one OUT/INOUT parameter a procedure returned.
// Value is always absent: the driver exposes descriptor metadata but not
// a way to recover the bound value by index (see DESIGN.md Open
// Questions decision for the rationale this port keeps from the
// original).
type OutputParameter struct {
	Name         string  `json:"name"`
	Value        any     `json:"value"`
	DataType     string  `json:"data_type"`
	Retrievable  bool    `json:"retrievable"`
}

// ProcedureResult collects everything a stored-procedure call returned.
type ProcedureResult struct {
	Procedure        string                `json:"procedure"`
	Status           string                `json:"status"`
	ResultSets       []ProcedureResultSet  `json:"result_sets"`
	OutputParameters []OutputParameter     `json:"output_parameters"`
	AffectedRows     *uint64               `json:"affected_rows,omitempty"`
	Message          *string               `json:"message,omitempty"`
}
