//go:build !unix

package transport

import "net"

// tuneSocket is a no-op on platforms without golang.org/x/sys/unix socket
// tuning support; the socket runs with kernel-default buffer sizes.
func tuneSocket(conn *net.UDPConn) {}
