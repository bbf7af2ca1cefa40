package client

import (
	"time"

	"arenacore/internal/proto"
	"arenacore/internal/transport"
	"arenacore/internal/wire"
)

const maxDatagramsPerDrain = 64

// Tick drains the transport, advances connection-state timers, and sends a
// clock-sync probe when due. It is meant to be called once per client
// frame.
func (s *Session) Tick() {
	s.drain()
	s.runTimers()
	if s.state == Connected && s.clock.Due(time.Now()) {
		s.sendClockSyncProbe()
	}
}

func (s *Session) drain() {
	if s.transport == nil {
		return
	}
	buf := make([]byte, transport.MTU)
	for i := 0; i < maxDatagramsPerDrain; i++ {
		result, n, _ := s.transport.Recv(buf)
		if result != transport.RecvOK {
			return
		}
		s.handleDatagram(buf[:n])
	}
}

func (s *Session) runTimers() {
	now := time.Now()
	switch s.state {
	case Connecting:
		if now.Sub(s.connectStart) >= ConnectTimeout {
			s.state = Disconnected
			return
		}
		if now.Sub(s.lastConnectSend) >= ConnectRetryInterval {
			s.sendConnectRequest()
		}
	case Connected:
		if !s.isLoopback && now.Sub(s.lastPacketRecv) >= IdleTimeout {
			s.state = Disconnected
		}
	}
}

func (s *Session) sendClockSyncProbe() {
	now := time.Now()
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeClockSyncProbe(w, timeToEpoch(now))
	s.sendFramed(wire.MsgClockSync, w.Bytes())
	s.clock.MarkSent(now)
}

func timeToEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// NotifyMapLoaded sends MapLoaded(hash) for the given map name, the client
// side of the map-ready handshake.
func (s *Session) NotifyMapLoaded(name string) {
	if s.state != Connected {
		return
	}
	s.wantMap = name
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeMapLoaded(w, proto.HashMapName(name))
	s.sendFramed(wire.MsgMapLoaded, w.Bytes())
}
