package gateway

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/cache"
	"github.com/SAP/hdbconnect-mcp/pkg/config"
	"github.com/SAP/hdbconnect-mcp/pkg/hana"
	"github.com/SAP/hdbconnect-mcp/pkg/sqlsafety"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is a scripted hana.Conn double: it ignores the incoming SQL
// text and answers every Query/Statement with the same canned columns
// and rows and every DML with a canned affected-row count, so tool
// handlers can be exercised without a real HANA instance. Mirrors pkg/hana/pool_test.go's fakeConn pattern.
type fakeConn struct {
	pingErr   error
	dmlRows   int64
	dmlErr    error
	queryErr  error
	columns   []string
	rows      [][]any
}

func (f *fakeConn) Query(ctx context.Context, sqlText string, args ...any) (*sql.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return newFakeRows(f.columns, f.rows), nil
}

func (f *fakeConn) DML(ctx context.Context, sqlText string, args ...any) (int64, error) {
	if f.dmlErr != nil {
		return 0, f.dmlErr
	}
	return f.dmlRows, nil
}

func (f *fakeConn) Statement(ctx context.Context, sqlText string, args ...any) (sql.Result, *sql.Rows, error) {
	if f.queryErr != nil {
		return nil, nil, f.queryErr
	}
	return nil, newFakeRows(f.columns, f.rows), nil
}

func (f *fakeConn) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return nil, errUnsupportedInFake
}
func (f *fakeConn) SetAutoCommit(bool)                               {}
func (f *fakeConn) FetchSize() int                                   { return 1024 }
func (f *fakeConn) LobReadLength() int                               { return 8192 }
func (f *fakeConn) LobWriteLength() int                              { return 8192 }
func (f *fakeConn) ReadTimeout() time.Duration                       { return 30 * time.Second }
func (f *fakeConn) Close() error                                     { return nil }
func (f *fakeConn) Ping(ctx context.Context) error                   { return f.pingErr }
func (f *fakeConn) ColumnsOf(rows *sql.Rows) ([]hana.ColumnMeta, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	out := make([]hana.ColumnMeta, len(types))
	for i, t := range types {
		out[i] = hana.ColumnMeta{Name: t.Name()}
	}
	return out, nil
}

var errUnsupportedInFake = assertError("BeginTx is not exercised by this fake; tests needing a transaction path use sqlmock-free higher-level assertions instead")

type assertError string

func (e assertError) Error() string { return string(e) }

// newFakeRows builds a *sql.Rows backed by an in-memory driver so tests
// can exercise scanRows without a real database connection.
func newFakeRows(columns []string, data [][]any) *sql.Rows {
	db := sql.OpenDB(fakeConnector{columns: columns, rows: data})
	rows, err := db.QueryContext(context.Background(), "SELECT")
	if err != nil {
		panic(err)
	}
	return rows
}

type fakeConnector struct {
	columns []string
	rows    [][]any
}

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeDriverConn{columns: c.columns, rows: c.rows}, nil
}
func (c fakeConnector) Driver() driver.Driver { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errUnsupportedInFake }

type fakeDriverConn struct {
	columns []string
	rows    [][]any
}

func (c *fakeDriverConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{columns: c.columns, rows: c.rows}, nil
}
func (c *fakeDriverConn) Close() error              { return nil }
func (c *fakeDriverConn) Begin() (driver.Tx, error) { return nil, errUnsupportedInFake }

type fakeStmt struct {
	columns []string
	rows    [][]any
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(int64(len(s.rows))), nil
}
func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	return &fakeDriverRows{columns: s.columns, rows: s.rows}, nil
}

type fakeDriverRows struct {
	columns []string
	rows    [][]any
	pos     int
}

func (r *fakeDriverRows) Columns() []string { return r.columns }
func (r *fakeDriverRows) Close() error      { return nil }
func (r *fakeDriverRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	for i, v := range r.rows[r.pos] {
		dest[i] = v
	}
	r.pos++
	return nil
}

func testGateway(t *testing.T, conn hana.Conn) *Gateway {
	t.Helper()
	pool := hana.NewPool(hana.PoolConfig{
		Size:          1,
		WaitTimeout:   time.Second,
		CreateTimeout: time.Second,
		Connector:     func(context.Context, hana.Options) (hana.Conn, error) { return conn, nil },
	})
	cfg := config.Config{
		SchemaFilter: sqlsafety.AllowAllSchemas(),
		QueryTimeout: time.Second,
	}
	return NewGateway(cfg, pool, cache.NewNoopCache())
}

func TestHandlePing(t *testing.T) {
	g := testGateway(t, &fakeConn{})
	_, out, err := g.handlePing(context.Background(), nil, PingInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Status)
}

func TestHandlePing_PropagatesConnectionFailure(t *testing.T) {
	g := testGateway(t, &fakeConn{pingErr: sql.ErrConnDone})
	_, _, err := g.handlePing(context.Background(), nil, PingInput{})
	assert.Error(t, err)
}

func TestHandleListTables(t *testing.T) {
	conn := &fakeConn{columns: []string{"TABLE_NAME", "TABLE_TYPE"}, rows: [][]any{{"ORDERS", "TABLE"}}}
	g := testGateway(t, conn)
	_, out, err := g.handleListTables(context.Background(), nil, ListTablesInput{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ORDERS", out[0].Name)
}

func TestHandleExecuteSQL_RejectsWriteStatements(t *testing.T) {
	g := testGateway(t, &fakeConn{})
	g.Config.ReadOnly = true
	_, _, err := g.handleExecuteSQL(context.Background(), nil, ExecuteSQLInput{SQL: "DELETE FROM orders"})
	assert.Error(t, err)
}

func TestHandleExecuteDML_DisabledByDefault(t *testing.T) {
	g := testGateway(t, &fakeConn{})
	_, _, err := g.handleExecuteDML(context.Background(), nil, ExecuteDMLInput{SQL: "UPDATE orders SET x = 1 WHERE id = 1"})
	assert.Error(t, err)
}

func TestHandleExecuteDML_RunsWithoutCapWhenAllowed(t *testing.T) {
	g := testGateway(t, &fakeConn{dmlRows: 3})
	g.DML.AllowDML = true
	g.DML.RequireConfirmation = false
	g.DML.MaxAffectedRows = nil
	g.DML.AllowedOperations = sqlsafety.AllOperations()

	_, out, err := g.handleExecuteDML(context.Background(), nil, ExecuteDMLInput{
		SQL: "UPDATE orders SET status = 'shipped' WHERE id = 1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.AffectedRows)
	assert.Equal(t, "committed", out.Status)
}

func TestHandleExecuteDML_RequiresConfirmationWithoutForce(t *testing.T) {
	g := testGateway(t, &fakeConn{dmlRows: 1})
	g.DML.AllowDML = true
	g.DML.RequireConfirmation = true
	g.DML.MaxAffectedRows = nil
	g.DML.AllowedOperations = sqlsafety.AllOperations()

	_, _, err := g.handleExecuteDML(context.Background(), nil, ExecuteDMLInput{
		SQL: "UPDATE orders SET status = 'shipped' WHERE id = 1",
	})
	assert.Error(t, err)
}

func TestHandleCallProcedure_DisabledByDefault(t *testing.T) {
	g := testGateway(t, &fakeConn{})
	_, _, err := g.handleCallProcedure(context.Background(), nil, CallProcedureInput{Procedure: "MY_PROC"})
	assert.Error(t, err)
}

func TestEncodeCallParameters(t *testing.T) {
	literals, err := encodeCallParameters(map[string]any{"a": "o'brien"})
	require.NoError(t, err)
	require.Len(t, literals, 1)
	assert.Equal(t, "'o''brien'", literals[0])
}

func TestResolveProcedureName(t *testing.T) {
	schema, name := resolveProcedureName(nil, "MYSCHEMA.MY_PROC")
	require.NotNil(t, schema)
	assert.Equal(t, "MYSCHEMA", *schema)
	assert.Equal(t, "MY_PROC", name)

	schema, name = resolveProcedureName(nil, "MY_PROC")
	assert.Nil(t, schema)
	assert.Equal(t, "MY_PROC", name)
}
