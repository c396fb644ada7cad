package hana

import (
	"context"
	"log/slog"
	"time"
)

// CooperativePool wraps a Pool with a liveness check on recycle, the
// single-threaded-cooperative-task-facing pool variant spec.md calls for
// (the MCP gateway borrows from this one; the blocking sync binding would
// borrow from the plain Pool). Long-idle connections are kept honest by
// pinging them with dummyQuery before handing them back out, rather than
// deferring discovery to the caller's next query.
type CooperativePool struct {
	*Pool
	pingTimeout time.Duration
}

// NewCooperativePool builds a CooperativePool on top of cfg.
func NewCooperativePool(cfg PoolConfig) *CooperativePool {
	return &CooperativePool{Pool: NewPool(cfg), pingTimeout: cfg.RecycleTimeout}
}

// Borrow delegates to Pool.Borrow, then health-checks the returned
// connection before releasing it to the caller. A dead connection is
// closed and replaced with a freshly created one rather than surfaced to
// the caller as a broken handle.
func (p *CooperativePool) Borrow(ctx context.Context) (*Handle, error) {
	h, err := p.Pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	var cancel context.CancelFunc
	if p.pingTimeout > 0 {
		pingCtx, cancel = context.WithTimeout(ctx, p.pingTimeout)
		defer cancel()
	}
	if err := h.Conn.Ping(pingCtx); err != nil {
		slog.Warn("HANA connection failed recycle health check, replacing", "error", err)
		_ = h.Conn.Close()
		p.Pool.mu.Lock()
		p.Pool.size--
		p.Pool.mu.Unlock()
		return p.Borrow(ctx)
	}
	return h, nil
}
