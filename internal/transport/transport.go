// Package transport implements the tagged transport variant over which the
// protocol layer exchanges datagrams: a non-blocking UDP socket, or a pair
// of in-process cross-wired ring queues used for loopback co-tenancy.
package transport

import "net"

// MTU is the maximum datagram size, header included, either variant accepts.
const MTU = 1400

// RecvResult is the outcome of a non-blocking Recv call.
type RecvResult int

const (
	// RecvNoData means nothing was waiting; non-fatal.
	RecvNoData RecvResult = iota
	// RecvOK means a datagram was copied into the caller's buffer.
	RecvOK
	// RecvError means the underlying transport failed.
	RecvError
)

// Transport is the uniform send/recv surface both variants implement.
type Transport interface {
	// Send writes bytes to addr (ignored by the loopback variant, which has
	// exactly one peer). It returns ErrPayloadEmpty or ErrPayloadTooLarge
	// for an empty or over-MTU payload; other failures are returned as-is.
	Send(addr net.Addr, data []byte) error
	// Recv attempts to read one datagram into buf without blocking.
	// It returns the result tag, the number of bytes copied, and the
	// sender's address (nil for loopback).
	Recv(buf []byte) (RecvResult, int, net.Addr)
	// Close releases the transport's resources.
	Close() error
}
