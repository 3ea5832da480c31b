package netpool

import (
	"io"
	"net"
	"sync/atomic"
)

// Conn is a leased connection handed out by a [Pool]. The holder owns
// it exclusively until it settles the disposition by calling exactly
// one of Release or Discard.
type Conn interface {
	io.ReadWriter
	// Raw exposes the underlying connection, e.g. for inspecting TLS
	// state. The lease keeps ownership.
	Raw() net.Conn
	// Reused reports whether the lease came from the idle set rather
	// than a fresh dial.
	Reused() bool
	// Release returns the connection to the pool's idle set.
	Release()
	// Discard closes the connection permanently.
	Discard()
}

type lease struct {
	conn   net.Conn
	p      *Pool
	reused bool

	broken   atomic.Bool // connection saw an I/O error, never park it again
	disposed atomic.Bool
}

func (l *lease) Write(p []byte) (n int, err error) {
	n, err = l.conn.Write(p)
	if err != nil {
		l.broken.Store(true)
	}
	return
}

func (l *lease) Read(p []byte) (n int, err error) {
	n, err = l.conn.Read(p)
	if err != nil {
		// io.EOF included: a close-delimited stream ended, the
		// connection cannot carry another exchange
		l.broken.Store(true)
	}
	return
}

func (l *lease) Raw() net.Conn { return l.conn }

func (l *lease) Reused() bool { return l.reused }

func (l *lease) Release() { l.p.put(l, true) }

func (l *lease) Discard() { l.p.put(l, false) }
