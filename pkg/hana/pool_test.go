package hana

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn is a no-op Conn used to exercise pool borrow/release/recycle
// logic without dialing a real HANA instance.
type fakeConn struct {
	id       int
	closed   atomic.Bool
	pingErr  error
	pingHits atomic.Int32
}

func (f *fakeConn) Query(context.Context, string, ...any) (*sql.Rows, error) { return nil, nil }
func (f *fakeConn) DML(context.Context, string, ...any) (int64, error)       { return 0, nil }
func (f *fakeConn) Statement(context.Context, string, ...any) (sql.Result, *sql.Rows, error) {
	return nil, nil, nil
}
func (f *fakeConn) BeginTx(context.Context) (*sql.Tx, error) { return nil, nil }
func (f *fakeConn) SetAutoCommit(bool)                       {}
func (f *fakeConn) FetchSize() int                           { return 0 }
func (f *fakeConn) LobReadLength() int                       { return 0 }
func (f *fakeConn) LobWriteLength() int                      { return 0 }
func (f *fakeConn) ReadTimeout() time.Duration                { return 0 }
func (f *fakeConn) ColumnsOf(*sql.Rows) ([]ColumnMeta, error) { return nil, nil }
func (f *fakeConn) Close() error                              { f.closed.Store(true); return nil }
func (f *fakeConn) Ping(context.Context) error {
	f.pingHits.Add(1)
	return f.pingErr
}

func fakeConnector(counter *atomic.Int32) func(context.Context, Options) (Conn, error) {
	return func(context.Context, Options) (Conn, error) {
		id := int(counter.Add(1))
		return &fakeConn{id: id}, nil
	}
}

func testPoolConfig(size int, counter *atomic.Int32) PoolConfig {
	return PoolConfig{
		Size:           size,
		WaitTimeout:    time.Second,
		CreateTimeout:  time.Second,
		RecycleTimeout: time.Second,
		Connector:      fakeConnector(counter),
	}
}

func TestPool_BorrowCreatesUpToSize(t *testing.T) {
	var counter atomic.Int32
	pool := NewPool(testPoolConfig(2, &counter))

	h1, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	h2, err := pool.Borrow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), counter.Load())
	stats := pool.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 2, stats.Borrowed)

	require.NoError(t, h1.Close())
	require.NoError(t, h2.Close())
	assert.Equal(t, 2, pool.Stats().Idle)
}

func TestPool_ReleaseReturnsToIdle(t *testing.T) {
	var counter atomic.Int32
	pool := NewPool(testPoolConfig(1, &counter))

	h, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Close())

	assert.Equal(t, int32(1), counter.Load())
	assert.Equal(t, 1, pool.Stats().Idle)

	// Borrowing again reuses the idle connection rather than creating a
	// second one.
	h2, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), counter.Load())
	require.NoError(t, h2.Close())
}

func TestPool_CloseIsIdempotentAndClosesIdle(t *testing.T) {
	var counter atomic.Int32
	pool := NewPool(testPoolConfig(1, &counter))

	h, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	fc := h.Conn.(*fakeConn)
	require.NoError(t, h.Close())

	require.NoError(t, pool.Close())
	assert.True(t, fc.closed.Load())
	require.NoError(t, pool.Close()) // idempotent
}

func TestPool_BorrowAfterCloseFails(t *testing.T) {
	var counter atomic.Int32
	pool := NewPool(testPoolConfig(1, &counter))
	require.NoError(t, pool.Close())

	_, err := pool.Borrow(context.Background())
	assert.Error(t, err)
}

func TestPool_BorrowBlocksUntilReleaseWhenExhausted(t *testing.T) {
	var counter atomic.Int32
	pool := NewPool(testPoolConfig(1, &counter))

	h1, err := pool.Borrow(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	var h2 *Handle
	var borrowErr error
	go func() {
		defer wg.Done()
		h2, borrowErr = pool.Borrow(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, h1.Close())
	wg.Wait()

	require.NoError(t, borrowErr)
	require.NotNil(t, h2)
	assert.Equal(t, int32(1), counter.Load())
}

func TestPool_BorrowTimesOutWhenExhausted(t *testing.T) {
	var counter atomic.Int32
	cfg := testPoolConfig(1, &counter)
	cfg.WaitTimeout = 30 * time.Millisecond
	pool := NewPool(cfg)

	_, err := pool.Borrow(context.Background())
	require.NoError(t, err)

	_, err = pool.Borrow(context.Background())
	assert.Error(t, err)
}

func TestCooperativePool_PingsOnBorrow(t *testing.T) {
	var counter atomic.Int32
	pool := NewCooperativePool(testPoolConfig(1, &counter))

	h, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	fc := h.Conn.(*fakeConn)
	assert.Equal(t, int32(1), fc.pingHits.Load())
	require.NoError(t, h.Close())
}

func TestCooperativePool_ReplacesDeadConnectionOnRecycle(t *testing.T) {
	var counter atomic.Int32
	pool := NewCooperativePool(testPoolConfig(1, &counter))

	h, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	firstID := h.Conn.(*fakeConn).id
	require.NoError(t, h.Close())

	// Poison the now-idle connection so the next borrow's recycle ping fails.
	pool.Pool.mu.Lock()
	pool.Pool.idle[0].(*fakeConn).pingErr = errors.New("connection reset")
	pool.Pool.mu.Unlock()

	h2, err := pool.Borrow(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, firstID, h2.Conn.(*fakeConn).id)
}
