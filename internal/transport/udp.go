package transport

import (
	"net"
	"time"

	"arenacore/internal/neterr"
	"arenacore/internal/obs"
)

// UDPTransport is a non-blocking UDP socket. Non-blocking recv is emulated
// with a zero-duration read deadline: a timeout is treated as "no data"
// rather than an error, matching the "recv returns 0 on no-data" contract.
type UDPTransport struct {
	conn *net.UDPConn
	m    *obs.Metrics
	tag  string
}

// NewUDPTransport binds a UDP socket on port (0 = OS-assigned) and applies
// platform socket tuning where available. m may be nil.
func NewUDPTransport(port int, m *obs.Metrics) (*UDPTransport, error) {
	addr := &net.UDPAddr{Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, neterr.Wrap(neterr.Socket, "transport.NewUDPTransport", err)
	}
	tuneSocket(conn)
	return &UDPTransport{conn: conn, m: m, tag: "udp"}, nil
}

// LocalAddr returns the bound local address.
func (t *UDPTransport) LocalAddr() net.Addr { return t.conn.LocalAddr() }

// Send writes data to addr. addr must be a *net.UDPAddr.
func (t *UDPTransport) Send(addr net.Addr, data []byte) error {
	if err := validatePayload(data); err != nil {
		return err
	}
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return neterr.New(neterr.InvalidParam, "transport.UDPTransport.Send")
	}
	n, err := t.conn.WriteToUDP(data, udpAddr)
	if err != nil {
		return err
	}
	if t.m != nil {
		t.m.PacketsSent.WithLabelValues(t.tag).Inc()
		t.m.BytesSent.WithLabelValues(t.tag).Add(float64(n))
	}
	return nil
}

// Recv attempts a single non-blocking read.
func (t *UDPTransport) Recv(buf []byte) (RecvResult, int, net.Addr) {
	// A zero-time deadline in the past makes the read return immediately
	// with a timeout error when nothing is queued — the portable
	// equivalent of a non-blocking recvfrom returning EWOULDBLOCK.
	if err := t.conn.SetReadDeadline(time.Now()); err != nil {
		return RecvError, 0, nil
	}
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return RecvNoData, 0, nil
		}
		return RecvError, 0, nil
	}
	if t.m != nil {
		t.m.PacketsRecv.WithLabelValues(t.tag).Inc()
		t.m.BytesRecv.WithLabelValues(t.tag).Add(float64(n))
	}
	return RecvOK, n, addr
}

// Close releases the underlying socket.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
