// Package client implements the client-side netcode core: the connect
// state machine, clock synchronization, input send with redundancy,
// snapshot reception into a fixed interpolation ring, and render-time
// interpolation between buffered snapshots.
package client

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"arenacore/internal/clocksync"
	"arenacore/internal/obs"
	"arenacore/internal/predict"
	"arenacore/internal/snapshot"
	"arenacore/internal/transport"
	"arenacore/internal/wire"
)

// ConnState is the client-side connection state.
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

// ConnectRetryInterval is how often ConnectRequest is resent while
// Connecting.
const ConnectRetryInterval = 500 * time.Millisecond

// ConnectTimeout is how long Connecting may elapse before giving up.
const ConnectTimeout = 10 * time.Second

// IdleTimeout is how long Connected (non-loopback) may elapse without a
// received packet before giving up.
const IdleTimeout = 30 * time.Second

// InterpRingLen is the fixed capacity of the interpolation snapshot ring.
const InterpRingLen = 32

// InputHistoryLen is the fixed capacity of the sent-input ring.
const InputHistoryLen = 64

// Session is the client-side netcode core for one connection.
type Session struct {
	cfg Config

	state      ConnState
	transport  transport.Transport
	serverAddr net.Addr
	isLoopback bool

	outgoingSeq uint16
	incomingSeq uint16
	hasIncoming bool
	ackBitfield uint32

	reliable *wire.ReliableChannel

	clientChallenge uint32
	serverChallenge uint32
	connectStart    time.Time
	lastConnectSend time.Time
	lastPacketRecv  time.Time

	clientID   uint8
	mapReady   bool
	serverMap  string
	wantMap    string
	inputTick  uint32

	clock *clocksync.Tracker

	ring      [InterpRingLen]*snapshot.Snapshot
	ringWrite int
	ringCount int
	baseline  *snapshot.Snapshot
	hasBaseline bool

	inputHistory    [InputHistoryLen]predict.UserCmd
	inputHead       int
	inputCount      int
	inputRedundancy int

	lastServerCmdAck uint32

	metrics *obs.Metrics
	log     *logrus.Entry
}

// NewSession validates cfg and constructs a disconnected client session.
func NewSession(cfg Config, log *logrus.Entry) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Session{
		cfg:      cfg,
		state:    Disconnected,
		reliable: wire.NewReliableChannel(),
		clock:    clocksync.NewTracker(),
		metrics:  obs.NewMetrics("client"),
		log:      log,
	}, nil
}

// State returns the current connection state.
func (s *Session) State() ConnState { return s.state }

// ClientID returns the slot index the server assigned on ConnectAccepted.
func (s *Session) ClientID() uint8 { return s.clientID }

// IsMapReady reports whether the map-ready handshake has completed.
func (s *Session) IsMapReady() bool { return s.mapReady }

// ServerMapName returns the authoritative map name, if known.
func (s *Session) ServerMapName() (string, bool) {
	if s.serverMap == "" {
		return "", false
	}
	return s.serverMap, true
}

// Connect starts a non-loopback handshake against a UDP peer.
func (s *Session) Connect(serverAddr *net.UDPAddr) error {
	t, err := transport.NewUDPTransport(0, s.metrics)
	if err != nil {
		return err
	}
	s.transport = t
	s.isLoopback = false
	s.serverAddr = serverAddr
	s.state = Connecting
	s.clientChallenge = randomChallenge()
	s.connectStart = time.Now()
	s.sendConnectRequest()
	return nil
}

// ConnectLocal completes the loopback shortcut: given a transport already
// wired to a server's loopback slot and the server's current tick, the
// client moves directly to Connected/map_ready with its clock primed from
// the server's tick.
func (s *Session) ConnectLocal(clientTransport transport.Transport, clientID int, serverTick uint32) {
	s.transport = clientTransport
	s.isLoopback = true
	s.state = Connected
	s.clientID = uint8(clientID)
	s.mapReady = true
	s.inputTick = serverTick
	s.lastPacketRecv = time.Now()
}

func randomChallenge() uint32 {
	return uint32(time.Now().UnixNano())
}

// Disconnect sends a best-effort Disconnect notice and resets to
// Disconnected.
func (s *Session) Disconnect() {
	if s.state == Disconnected || s.transport == nil {
		return
	}
	w := wire.NewWriter(wire.MaxBits)
	s.sendFramed(wire.MsgDisconnect, w.Bytes())
	s.state = Disconnected
}
