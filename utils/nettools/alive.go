package nettools

import (
	"net"
	"syscall"
)

// Alive reports whether an idle connection still looks usable. An idle
// connection owes us silence: if its socket is readable, the peer
// either closed it or sent bytes no request asked for, and either way
// it must not be leased out again.
//
// On platforms without a poll probe, or for connections that don't
// expose a file descriptor, Alive errs on the side of "usable"; the
// client's stale-write retry covers what the probe cannot see.
func Alive(c net.Conn) bool {
	rc := rawConn(c)
	if rc == nil {
		return true
	}
	alive := true
	if err := rc.Control(func(fd uintptr) {
		alive = fdAlive(int(fd))
	}); err != nil {
		return true
	}
	return alive
}

func rawConn(c net.Conn) syscall.RawConn {
	if t, ok := c.(interface{ NetConn() net.Conn }); ok {
		// is *tls.Conn or polyfilled TLS Connection
		c = t.NetConn()
	}
	if sc, ok := c.(syscall.Conn); ok {
		if rc, err := sc.SyscallConn(); err == nil {
			return rc
		}
	}
	return nil
}
