package server

import (
	"net"
	"time"

	"github.com/rs/xid"

	"arenacore/internal/predict"
	"arenacore/internal/transport"
	"arenacore/internal/wire"
)

// ConnState is the server-side connection state of one client slot.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Disconnecting
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Disconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// ConnectTimeout is how long a slot may sit in Connecting before it is
// dropped.
const ConnectTimeout = 10 * time.Second

// IdleTimeout is how long a Connected (non-loopback) slot may go without a
// received packet before it is dropped.
const IdleTimeout = 30 * time.Second

// ConnectRetryInterval governs client-side ConnectRequest resends, kept
// here alongside the server timeouts it interacts with.
const ConnectRetryInterval = 500 * time.Millisecond

// ClientSlot is the server's per-client connection and protocol state.
type ClientSlot struct {
	State   ConnState
	PeerAddr net.Addr
	Transport transport.Transport
	IsLoopback bool

	OutgoingSequence uint16
	IncomingSequence uint16
	HasIncoming      bool
	AckBitfield      uint32

	LastPacketRecvTime time.Time
	ConnectStartTime   time.Time

	ClientChallenge uint32
	ServerChallenge uint32

	LastAckedSnapshotTick uint32

	Predictor       *predict.Predictor
	LastInputTick   uint32
	LastInput       predict.UserCmd
	HasLastInput    bool
	LastInputArrival time.Time

	Reliable *wire.ReliableChannel

	MapReady     bool
	MapNameHash  uint32

	TraceID xid.ID
}

func newClientSlot() *ClientSlot {
	return &ClientSlot{
		State:     Disconnected,
		Predictor: predict.NewPredictor(),
		Reliable:  wire.NewReliableChannel(),
		TraceID:   xid.New(),
	}
}

// reset returns the slot to a fresh Disconnected state, releasing its
// peer address and transport so a new connection can claim it.
func (s *ClientSlot) reset() {
	*s = ClientSlot{
		State:     Disconnected,
		Predictor: predict.NewPredictor(),
		Reliable:  wire.NewReliableChannel(),
		TraceID:   xid.New(),
	}
}
