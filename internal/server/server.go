// Package server implements the authoritative server session: a fixed
// array of client slots, the connection handshake, the 128Hz tick loop,
// and per-tick snapshot broadcast with baseline selection.
package server

import (
	"time"

	"github.com/sirupsen/logrus"

	"arenacore/internal/gameplay"
	"arenacore/internal/neterr"
	"arenacore/internal/obs"
	"arenacore/internal/predict"
	"arenacore/internal/proto"
	"arenacore/internal/snapshot"
	"arenacore/internal/transport"
)

// Session is the server-authoritative netcode core: a fixed client-slot
// array, snapshot history, and the gameplay collaborator it drives each
// tick.
type Session struct {
	cfg Config

	udp *transport.UDPTransport

	slots [MaxClients]*ClientSlot

	history snapshot.History
	current *snapshot.Snapshot
	tick    uint32

	mapName     string
	mapNameHash uint32

	world   *gameplay.World
	profile predict.Profile

	metrics *obs.Metrics
	log     *logrus.Entry
}

// NewSession validates cfg and constructs a server session. A non-zero
// cfg.Port binds a UDP socket; cfg.Port == 0 restricts the session to
// loopback co-tenants.
func NewSession(cfg Config, world *gameplay.World, log *logrus.Entry) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	m := obs.NewMetrics("server")

	s := &Session{
		cfg:     cfg,
		world:   world,
		profile: predict.Competitive(),
		metrics: m,
		log:     log,
		current: snapshot.New(0),
	}
	for i := range s.slots {
		s.slots[i] = newClientSlot()
	}

	if cfg.Port != 0 {
		udp, err := transport.NewUDPTransport(cfg.Port, m)
		if err != nil {
			return nil, err
		}
		s.udp = udp
	}
	return s, nil
}

// SetProfile installs the process-wide prediction profile consulted by
// every slot's predictor.
func (s *Session) SetProfile(p predict.Profile) { s.profile = p }

// SetMap installs the authoritative map name and invalidates every slot's
// map-ready state, forcing each connected client to redo the map-ready
// handshake.
func (s *Session) SetMap(name string) {
	s.mapName = name
	s.mapNameHash = proto.HashMapName(name)
	for _, slot := range s.slots {
		if slot.State != Disconnected {
			slot.MapReady = false
		}
	}
}

// ClientCount returns the number of slots not in Disconnected.
func (s *Session) ClientCount() int {
	n := 0
	for _, slot := range s.slots {
		if slot.State != Disconnected {
			n++
		}
	}
	return n
}

// ClientState returns the connection state of client slot id.
func (s *Session) ClientState(id int) ConnState {
	if id < 0 || id >= len(s.slots) {
		return Disconnected
	}
	return s.slots[id].State
}

// IsClientMapReady reports whether slot id has completed the map-ready
// handshake.
func (s *Session) IsClientMapReady(id int) bool {
	if id < 0 || id >= len(s.slots) {
		return false
	}
	return s.slots[id].MapReady
}

// ServerTick returns the current authoritative tick counter.
func (s *Session) ServerTick() uint32 { return s.tick }

func (s *Session) freeSlot() (int, bool) {
	for i := 0; i < int(s.cfg.MaxClientSlots); i++ {
		if s.slots[i].State == Disconnected {
			return i, true
		}
	}
	return 0, false
}

// ConnectLoopback allocates a slot for an in-process client, wires a
// loopback transport pair, and skips the handshake entirely per the
// loopback shortcut: both sides move straight to Connected/map_ready.
func (s *Session) ConnectLoopback(clientMetrics *obs.Metrics) (clientID int, clientSide transport.Transport, err error) {
	idx, ok := s.freeSlot()
	if !ok {
		return 0, nil, neterr.New(neterr.Full, "server.ConnectLoopback")
	}
	serverSide, clientTransport := transport.NewLoopbackPair(s.metrics, clientMetrics)

	slot := s.slots[idx]
	slot.reset()
	slot.State = Connected
	slot.IsLoopback = true
	slot.Transport = serverSide
	slot.MapReady = true
	slot.LastAckedSnapshotTick = 0
	slot.ConnectStartTime = time.Now()
	slot.LastPacketRecvTime = time.Now()

	if s.metrics != nil {
		s.metrics.ClientsConnected.Set(float64(s.ClientCount()))
	}
	if s.log != nil {
		s.log.WithFields(logrus.Fields{"client_id": idx, "trace_id": slot.TraceID.String()}).Info("loopback client connected")
	}

	return idx, clientTransport, nil
}
