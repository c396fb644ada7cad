package hana

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// PoolConfig bounds a Pool's size and its wait/create/recycle timeouts.
type PoolConfig struct {
	Size           int
	WaitTimeout    time.Duration
	CreateTimeout  time.Duration
	RecycleTimeout time.Duration
	ConnOptions    Options

	// Connector creates a new connection; defaults to Connect. Tests
	// substitute a fake to avoid dialing a real HANA instance.
	Connector func(ctx context.Context, opts Options) (Conn, error)
}

// DefaultPoolConfig mirrors the original's create_pool defaults.
func DefaultPoolConfig(opts Options) PoolConfig {
	return PoolConfig{
		Size:           4,
		WaitTimeout:    10 * time.Second,
		CreateTimeout:  30 * time.Second,
		RecycleTimeout: 5 * time.Second,
		ConnOptions:    opts,
	}
}

// Pool is a bounded blocking pool of HANA connections. Borrow blocks (up
// to WaitTimeout) until a connection is free or the pool can grow, and
// returns a Handle whose Close returns the underlying connection instead
// of closing it outright — the Go stand-in for the original's RAII
// "drop returns to pool" semantics.
//
// Health-check on recycle is a no-op here: a live error on a recycled
// connection surfaces naturally at the next query. The cooperative
// variant below additionally pings on recycle.
type Pool struct {
	cfg PoolConfig

	mu     sync.Mutex
	idle   []Conn
	size   int
	closed bool
}

// NewPool constructs an empty pool; connections are created lazily on
// first Borrow, up to cfg.Size.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Connector == nil {
		cfg.Connector = Connect
	}
	return &Pool{cfg: cfg, idle: make([]Conn, 0, cfg.Size)}
}

// Handle is a borrowed connection. Close must be called exactly once to
// return it to the pool.
type Handle struct {
	Conn
	pool     *Pool
	released bool
}

// Close returns the connection to the pool. It never closes the
// underlying connection outright (unless the pool itself is closed).
func (h *Handle) Close() error {
	if h.released {
		return nil
	}
	h.released = true
	h.pool.release(h.Conn)
	return nil
}

// Borrow waits for an available connection, creating a new one if the
// pool has not yet reached its configured size, subject to
// cfg.WaitTimeout and cfg.CreateTimeout.
func (p *Pool) Borrow(ctx context.Context) (*Handle, error) {
	waitCtx := ctx
	var cancel context.CancelFunc
	if p.cfg.WaitTimeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, p.cfg.WaitTimeout)
		defer cancel()
	}

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, errs.New(errs.KindPoolExhausted, "connection pool is closed")
		}
		if n := len(p.idle); n > 0 {
			c := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			c = p.recycle(c)
			return &Handle{Conn: c, pool: p}, nil
		}
		if p.size < p.cfg.Size {
			p.size++
			p.mu.Unlock()

			createCtx := waitCtx
			if p.cfg.CreateTimeout > 0 {
				var createCancel context.CancelFunc
				createCtx, createCancel = context.WithTimeout(waitCtx, p.cfg.CreateTimeout)
				defer createCancel()
			}
			c, err := p.cfg.Connector(createCtx, p.cfg.ConnOptions)
			if err != nil {
				p.mu.Lock()
				p.size--
				p.mu.Unlock()
				return nil, err
			}
			return &Handle{Conn: c, pool: p}, nil
		}
		p.mu.Unlock()

		select {
		case <-waitCtx.Done():
			return nil, errs.Wrap(errs.KindPoolExhausted, "timed out waiting for a connection", waitCtx.Err())
		case <-time.After(10 * time.Millisecond):
			// Pool may have freed a connection; loop and re-check.
		}
	}
}

// recycle runs the pool's health check (none, for the blocking pool) and
// returns the connection unchanged.
func (p *Pool) recycle(c Conn) Conn { return c }

func (p *Pool) release(c Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = c.Close()
		return
	}
	p.idle = append(p.idle, c)
}

// Close closes every idle connection and marks the pool closed. In-flight
// borrows still return their handles to a closed pool, which close
// instead of re-queueing.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	var firstErr error
	for _, c := range p.idle {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.idle = nil
	slog.Info("HANA connection pool closed", "created", p.size)
	return firstErr
}

// Stats reports a point-in-time snapshot of pool occupancy.
type Stats struct {
	Size     int
	Idle     int
	Borrowed int
}

// Stats returns the current pool occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{Size: p.size, Idle: len(p.idle), Borrowed: p.size - len(p.idle)}
}
