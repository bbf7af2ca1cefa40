package transport

import (
	"net"

	"arenacore/internal/obs"
)

// LoopbackQueueCapacity is the fixed number of in-flight datagrams a
// loopback ring queue can hold.
const LoopbackQueueCapacity = 64

// loopbackAddr is a sentinel net.Addr for loopback peers; neither side has a
// real socket address.
type loopbackAddr struct{ side string }

func (a loopbackAddr) Network() string { return "loopback" }
func (a loopbackAddr) String() string  { return "loopback:" + a.side }

type datagramRing struct {
	slots [LoopbackQueueCapacity][]byte
	head  int
	tail  int
	count int
}

func (r *datagramRing) push(data []byte) bool {
	if r.count == LoopbackQueueCapacity {
		return false
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	r.slots[r.tail] = buf
	r.tail = (r.tail + 1) % LoopbackQueueCapacity
	r.count++
	return true
}

func (r *datagramRing) pop() []byte {
	if r.count == 0 {
		return nil
	}
	buf := r.slots[r.head]
	r.slots[r.head] = nil
	r.head = (r.head + 1) % LoopbackQueueCapacity
	r.count--
	return buf
}

// LoopbackTransport is one side of a cross-wired in-process pair: it writes
// into its own outbound ring and reads from its own inbound ring, which is
// the peer's outbound ring.
type LoopbackTransport struct {
	outbound *datagramRing
	inbound  *datagramRing
	addr     loopbackAddr
	m        *obs.Metrics
}

// NewLoopbackPair constructs two cross-wired transports: server's outbound
// feeds client's inbound and vice versa, so each side's Send/Recv never
// touches the other's memory concurrently outside the single cooperative
// task that drives both when co-tenant.
func NewLoopbackPair(serverMetrics, clientMetrics *obs.Metrics) (server, client *LoopbackTransport) {
	serverToClient := &datagramRing{}
	clientToServer := &datagramRing{}

	server = &LoopbackTransport{
		outbound: serverToClient,
		inbound:  clientToServer,
		addr:     loopbackAddr{side: "server"},
		m:        serverMetrics,
	}
	client = &LoopbackTransport{
		outbound: clientToServer,
		inbound:  serverToClient,
		addr:     loopbackAddr{side: "client"},
		m:        clientMetrics,
	}
	return server, client
}

// Send enqueues data on the outbound ring. addr is ignored: a loopback pair
// has exactly one peer.
func (t *LoopbackTransport) Send(addr net.Addr, data []byte) error {
	if err := validatePayload(data); err != nil {
		return err
	}
	if !t.outbound.push(data) {
		return ErrQueueFull
	}
	if t.m != nil {
		t.m.PacketsSent.WithLabelValues("loopback").Inc()
		t.m.BytesSent.WithLabelValues("loopback").Add(float64(len(data)))
	}
	return nil
}

// Recv dequeues the next datagram from the inbound ring, if any.
func (t *LoopbackTransport) Recv(buf []byte) (RecvResult, int, net.Addr) {
	data := t.inbound.pop()
	if data == nil {
		return RecvNoData, 0, nil
	}
	n := copy(buf, data)
	if t.m != nil {
		t.m.PacketsRecv.WithLabelValues("loopback").Inc()
		t.m.BytesRecv.WithLabelValues("loopback").Add(float64(n))
	}
	return RecvOK, n, t.addr
}

// Close is a no-op: the rings are owned by both sides jointly and are
// garbage-collected once both transports are dropped.
func (t *LoopbackTransport) Close() error { return nil }
