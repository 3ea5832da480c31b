package http

import (
	"context"
	"io"
)

// Conn is an exclusively held lease on one established connection.
// Exactly one of Release or Discard must be called, exactly once, by
// whoever holds the lease; in practice that is the response body's
// disposition step.
type Conn interface {
	io.ReadWriter

	// Reused reports the lease's provenance: true when the connection
	// came from the pool's idle set, false when it was dialed for this
	// attempt.
	Reused() bool

	// Release returns the connection to the pool for reuse.
	Release()

	// Discard closes the connection permanently.
	Discard()
}

// Dialers handle pretty much everything related to the actual connection,
// including setting a proxy for each request, setting resolvers, etc.
type Dialer interface {
	// Dial returns a leased connection for writing the request and
	// reading the response.
	Dial(ctx context.Context, r *PreparedRequest) (Conn, error)
	Unwrap() Dialer
}

type newConnCtx struct{}

// ContextHintNewConn marks ctx so that the dialer skips the idle set
// and establishes a new connection. The client uses it when retrying
// after a stale pooled connection failed mid-write.
func ContextHintNewConn(ctx context.Context) context.Context {
	return context.WithValue(ctx, newConnCtx{}, true)
}

// NewConnHinted reports whether ctx carries the hint set by
// [ContextHintNewConn].
func NewConnHinted(ctx context.Context) bool {
	v, _ := ctx.Value(newConnCtx{}).(bool)
	return v
}
