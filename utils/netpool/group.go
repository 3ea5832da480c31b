package netpool

import (
	"context"
	"net"
	"sync"
)

// Key identifies one pool bucket. Connections are only ever shared
// between requests with identical keys.
type Key struct {
	Address string // host:port
	Secure  bool
	Proxy   string // proxy URL, empty for direct connections
}

// Group holds one [Pool] per key.
type Group struct {
	sync.RWMutex
	pools map[Key]*Pool

	maxConnsPerKey, maxIdlePerKey uint
}

func NewGroup(maxConnsPerKey, maxIdlePerKey uint) *Group {
	return &Group{
		pools:          map[Key]*Pool{},
		maxConnsPerKey: maxConnsPerKey, maxIdlePerKey: maxIdlePerKey,
	}
}

func (g *Group) pool(key Key) *Pool {
	g.RLock()
	p, ok := g.pools[key]
	g.RUnlock()
	if ok {
		return p
	}
	g.Lock()
	if p, ok = g.pools[key]; !ok {
		p = NewPool(g.maxConnsPerKey, g.maxIdlePerKey)
		g.pools[key] = p
	}
	g.Unlock()
	return p
}

func (g *Group) Connect(ctx context.Context, key Key, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	return g.pool(key).Connect(ctx, dial)
}

// ConnectNew is [Pool.ConnectNew] for the bucket at key.
func (g *Group) ConnectNew(ctx context.Context, key Key, dial func(ctx context.Context) (net.Conn, error)) (Conn, error) {
	return g.pool(key).ConnectNew(ctx, dial)
}

// Shutdown closes all idle connections in every bucket.
func (g *Group) Shutdown() {
	g.Lock()
	pools := g.pools
	g.pools = map[Key]*Pool{}
	g.Unlock()
	for _, p := range pools {
		p.Shutdown()
	}
}
