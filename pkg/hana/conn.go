// Package hana wraps a single HANA connection and the pools (blocking and
// cooperative) that manage a bounded set of them.
//
// Grounded on original_source's pool.rs (ConnectionManager/create/recycle
// shape) and, for the database/sql wiring, SAP/go-hdb's own driver (see
// other_examples' driver/connection.go: it registers a database/sql/driver
// Conn and uses "select 1 from dummy" as its internal health probe, the
// same literal this package uses for Ping and cooperative recycle).
package hana

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/SAP/go-hdb/driver"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// dummyQuery is SAP HANA's canonical no-op query, used both as a
// liveness probe and as the body of the gateway's Ping tool.
const dummyQuery = "SELECT 1 FROM DUMMY"

// ColumnMeta describes one column of a result set, the Go stand-in for
// the original's metadata iterator over result-set columns.
type ColumnMeta struct {
	Name     string
	DBType   string
	Nullable bool
}

// Conn is the set of operations the gateway needs from a HANA session.
// The pool treats implementations as opaque handles it only creates,
// recycles, and closes.
type Conn interface {
	// Query runs a read statement and returns its result set.
	Query(ctx context.Context, sql string, args ...any) (*sql.Rows, error)
	// DML runs a write statement and returns the number of affected rows.
	DML(ctx context.Context, sql string, args ...any) (int64, error)
	// Statement runs a statement that may return either rows or a result
	// (used for stored procedure calls, which can produce either).
	Statement(ctx context.Context, sql string, args ...any) (sql.Result, *sql.Rows, error)
	// BeginTx starts an explicit transaction.
	BeginTx(ctx context.Context) (*sql.Tx, error)
	// SetAutoCommit records an auto-commit flag on the connection. The
	// database/sql-backed implementation does not send it to the server:
	// statements run outside a BeginTx transaction always auto-commit.
	SetAutoCommit(enabled bool)
	// FetchSize reports the configured row fetch size.
	FetchSize() int
	// LobReadLength reports the configured LOB read chunk size.
	LobReadLength() int
	// LobWriteLength reports the configured LOB write chunk size.
	LobWriteLength() int
	// ReadTimeout reports the configured network read timeout.
	ReadTimeout() time.Duration
	// ColumnsOf returns the column metadata for an open result set.
	ColumnsOf(rows *sql.Rows) ([]ColumnMeta, error)
	// Ping runs the dummy liveness query.
	Ping(ctx context.Context) error
	// Close releases the underlying database handle.
	Close() error
}

// Options configures a new connection's driver-level behavior.
type Options struct {
	DSN            string
	DefaultSchema  string
	FetchSize      int
	LobChunkSize   int
	ReadTimeout    time.Duration
	ConnectTimeout time.Duration
}

// DefaultOptions returns go-hdb's own defaults for the knobs this package
// exposes, overridden by DSN.
func DefaultOptions(dsn string) Options {
	return Options{
		DSN:            dsn,
		FetchSize:      1024,
		LobChunkSize:   8192,
		ReadTimeout:    30 * time.Second,
		ConnectTimeout: 15 * time.Second,
	}
}

type conn struct {
	db         *sql.DB
	opts       Options
	autoCommit bool
}

// Connect dials a single physical HANA connection. The returned *sql.DB
// is capped at one open/idle connection: pooling at this package's level
// is the custom bounded pool below, not database/sql's own pool, since
// the gateway needs wait/create/recycle timeouts database/sql doesn't
// expose.
func Connect(ctx context.Context, opts Options) (Conn, error) {
	db, err := sql.Open("hdb", opts.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.KindConnection, "failed to open HANA connection", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	connectCtx := ctx
	var cancel context.CancelFunc
	if opts.ConnectTimeout > 0 {
		connectCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(connectCtx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.KindConnection, "failed to reach HANA", err)
	}

	c := &conn{db: db, opts: opts, autoCommit: true}
	if opts.DefaultSchema != "" {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("SET SCHEMA %q", opts.DefaultSchema)); err != nil {
			_ = db.Close()
			return nil, errs.Wrap(errs.KindConnection, "failed to set default schema", err)
		}
	}
	return c, nil
}

func (c *conn) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.KindConnection, "query failed", err)
	}
	return rows, nil
}

func (c *conn) DML(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errs.Wrap(errs.KindConnection, "dml failed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Wrap(errs.KindConnection, "failed to read affected rows", err)
	}
	return n, nil
}

func (c *conn) Statement(ctx context.Context, query string, args ...any) (sql.Result, *sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err == nil {
		return nil, rows, nil
	}
	res, execErr := c.db.ExecContext(ctx, query, args...)
	if execErr != nil {
		return nil, nil, errs.Wrap(errs.KindConnection, "statement failed", execErr)
	}
	return res, nil, nil
}

func (c *conn) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindConnection, "failed to begin transaction", err)
	}
	return tx, nil
}

func (c *conn) SetAutoCommit(enabled bool) { c.autoCommit = enabled }

func (c *conn) FetchSize() int             { return c.opts.FetchSize }
func (c *conn) LobReadLength() int         { return c.opts.LobChunkSize }
func (c *conn) LobWriteLength() int        { return c.opts.LobChunkSize }
func (c *conn) ReadTimeout() time.Duration { return c.opts.ReadTimeout }

func (c *conn) ColumnsOf(rows *sql.Rows) ([]ColumnMeta, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errs.Wrap(errs.KindConnection, "failed to read column metadata", err)
	}
	out := make([]ColumnMeta, len(types))
	for i, t := range types {
		nullable, _ := t.Nullable()
		out[i] = ColumnMeta{Name: t.Name(), DBType: t.DatabaseTypeName(), Nullable: nullable}
	}
	return out, nil
}

func (c *conn) Ping(ctx context.Context) error {
	rows, err := c.db.QueryContext(ctx, dummyQuery)
	if err != nil {
		return errs.Wrap(errs.KindConnection, "ping failed", err)
	}
	return rows.Close()
}

func (c *conn) Close() error { return c.db.Close() }
