package server

import (
	"time"

	"arenacore/internal/transport"
)

// maxDatagramsPerDrain bounds how many queued datagrams a single Tick call
// drains from one transport before moving on, so a flooded socket can't
// starve the tick loop.
const maxDatagramsPerDrain = 64

// Tick drains every transport, applies per-slot timeouts, advances the
// authoritative tick counter, and broadcasts a snapshot to every ready
// client. It is meant to be called once per simulation frame at cfg's
// configured tick rate.
func (s *Session) Tick() {
	s.drainShared()
	s.drainLoopbacks()
	s.checkTimeouts()

	s.tick++
	s.buildSnapshot()
	s.history.Store(s.current.Clone())
	s.broadcast()
}

func (s *Session) drainShared() {
	if s.udp == nil {
		return
	}
	buf := make([]byte, transport.MTU)
	for i := 0; i < maxDatagramsPerDrain; i++ {
		result, n, addr := s.udp.Recv(buf)
		if result != transport.RecvOK {
			return
		}
		s.handleDatagram(buf[:n], addr, nil)
	}
}

func (s *Session) drainLoopbacks() {
	buf := make([]byte, transport.MTU)
	for _, slot := range s.slots {
		if !slot.IsLoopback || slot.Transport == nil {
			continue
		}
		for i := 0; i < maxDatagramsPerDrain; i++ {
			result, n, _ := slot.Transport.Recv(buf)
			if result != transport.RecvOK {
				break
			}
			s.handleDatagram(buf[:n], nil, slot)
		}
	}
}

func (s *Session) checkTimeouts() {
	now := time.Now()
	for _, slot := range s.slots {
		switch slot.State {
		case Connecting:
			if now.Sub(slot.ConnectStartTime) >= ConnectTimeout {
				slot.reset()
			}
		case Connected:
			if !slot.IsLoopback && now.Sub(slot.LastPacketRecvTime) >= IdleTimeout {
				s.disconnectSlot(slot)
			}
		}
	}
}
