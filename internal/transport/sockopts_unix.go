//go:build unix

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

// rcvBufBytes/sndBufBytes size the kernel socket buffers generously enough
// to absorb a full tick's worth of client traffic at the configured max
// client count without the kernel silently dropping datagrams under burst.
const (
	rcvBufBytes = 1 << 20
	sndBufBytes = 1 << 20
)

// tuneSocket sets SO_RCVBUF/SO_SNDBUF on the bound UDP socket. Failures are
// non-fatal: the socket still functions with the kernel default sizes.
func tuneSocket(conn *net.UDPConn) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, rcvBufBytes)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, sndBufBytes)
	})
}
