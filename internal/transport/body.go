package transport

import (
	"io"
	"sync"

	"github.com/frankli0324/go-fetch/internal/http"
)

// leasedBody binds a framed response stream to the lease it reads
// from. Reaching EOF cleanly releases the connection for reuse (when
// the exchange allows it); closing early, or any read error, discards
// it, since the stream position is then unknown. The disposition fires
// exactly once and Close is idempotent afterwards.
type leasedBody struct {
	r        io.Reader
	conn     http.Conn
	reusable bool
	once     sync.Once
}

func (b *leasedBody) Read(p []byte) (n int, err error) {
	n, err = b.r.Read(p)
	if err == io.EOF {
		b.finish(true)
	} else if err != nil {
		b.finish(false)
	}
	return
}

func (b *leasedBody) Close() error {
	b.finish(false)
	return nil
}

func (b *leasedBody) finish(clean bool) {
	b.once.Do(func() {
		if clean && b.reusable {
			b.conn.Release()
		} else {
			b.conn.Discard()
		}
	})
}

// dispose settles a lease that carries no body at all.
func dispose(conn http.Conn, reuse bool) {
	if reuse {
		conn.Release()
	} else {
		conn.Discard()
	}
}
