package netpool

import (
	"context"
	"net"
	"sync"

	"github.com/frankli0324/go-fetch/utils/nettools"
)

// Pool keeps idle connections for one key. In-flight plus idle
// connections are bounded by the conn ticket channel; the idle set
// itself is bounded by maxIdle.
type Pool struct {
	connTicket chan struct{}
	maxIdle    uint

	mu       sync.Mutex
	idle     []*lease
	draining bool
}

func NewPool(maxConn, maxIdle uint) *Pool {
	return &Pool{
		connTicket: make(chan struct{}, maxConn),
		maxIdle:    maxIdle,
	}
}

// Connect leases a connection: an idle one when a healthy one is
// parked (provenance Reused), one established through dial otherwise
// (provenance Fresh). Waiting for a conn ticket and dialing both
// honor ctx cancellation.
func (p *Pool) Connect(ctx context.Context, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	select {
	case p.connTicket <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	for {
		l := p.popIdle()
		if l == nil {
			return p.dialFresh(ctx, dial)
		}
		if l.broken.Load() || !nettools.Alive(l.conn) {
			// peer closed it, or left bytes behind, while parked
			l.conn.Close()
			continue
		}
		l.reused = true
		l.disposed.Store(false)
		return l, nil
	}
}

// ConnectNew leases a freshly dialed connection, skipping the idle
// set. Used when retrying after a reused connection turned out stale.
func (p *Pool) ConnectNew(ctx context.Context, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	select {
	case p.connTicket <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.dialFresh(ctx, dial)
}

func (p *Pool) dialFresh(ctx context.Context, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	c, err := dial(ctx)
	if err != nil {
		<-p.connTicket
		return nil, err
	}
	return &lease{conn: c, p: p}, nil
}

func (p *Pool) popIdle() *lease {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle) == 0 {
		return nil
	}
	l := p.idle[0]
	p.idle = p.idle[1:]
	return l
}

// put settles a lease's disposition. Settling the same lease twice is
// a programming error and panics.
func (p *Pool) put(l *lease, reuse bool) {
	if !l.disposed.CompareAndSwap(false, true) {
		panic("netpool: connection disposed twice")
	}
	<-p.connTicket
	if reuse && !l.broken.Load() {
		p.mu.Lock()
		if !p.draining && uint(len(p.idle)) < p.maxIdle {
			p.idle = append(p.idle, l)
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()
	}
	l.conn.Close()
}

// Shutdown closes every idle connection. Leases currently held stay
// usable; once settled they are closed instead of parked.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.draining = true
	p.mu.Unlock()
	for _, l := range idle {
		l.conn.Close()
	}
}
