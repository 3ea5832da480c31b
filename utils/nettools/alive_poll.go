//go:build darwin || linux
// +build darwin linux

package nettools

import (
	"golang.org/x/sys/unix"
)

// fdAlive polls the descriptor without blocking. POLLIN on an idle
// connection means buffered bytes or a pending EOF; POLLHUP/POLLERR
// mean the peer is gone.
func fdAlive(fd int) bool {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return true // probe failed, not the connection
		}
		if n == 0 {
			return true
		}
		return fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) == 0
	}
}
