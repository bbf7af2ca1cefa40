package server

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"arenacore/internal/proto"
	"arenacore/internal/wire"
)

func (s *Session) findSlotByAddr(addr net.Addr) *ClientSlot {
	if addr == nil {
		return nil
	}
	for _, slot := range s.slots {
		if slot.PeerAddr != nil && slot.State != Disconnected && slot.PeerAddr.String() == addr.String() {
			return slot
		}
	}
	return nil
}

// handleConnectRequest processes a ConnectRequest from addr, whether from a
// brand-new peer or a duplicate resend from one already in Connecting.
func (s *Session) handleConnectRequest(addr net.Addr, clientChallenge uint32) {
	if slot := s.findSlotByAddr(addr); slot != nil {
		if slot.State == Connecting {
			s.sendConnectChallenge(slot)
		}
		return
	}

	idx, ok := s.freeSlot()
	if !ok {
		s.sendConnectRejected(addr, proto.ReasonServerFull)
		return
	}

	slot := s.slots[idx]
	slot.reset()
	slot.State = Connecting
	slot.PeerAddr = addr
	slot.Transport = s.udp
	slot.ClientChallenge = clientChallenge
	slot.ServerChallenge = randomChallenge()
	slot.ConnectStartTime = time.Now()
	slot.LastPacketRecvTime = time.Now()

	s.sendConnectChallenge(slot)
}

func (s *Session) sendConnectChallenge(slot *ClientSlot) {
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeConnectChallenge(w, slot.ServerChallenge, slot.ClientChallenge)
	s.sendFramed(slot, wire.MsgConnectChallenge, w.Bytes())
}

func (s *Session) handleConnectResponse(slot *ClientSlot, serverChallenge, clientChallenge uint32) {
	if slot.State != Connecting {
		return
	}
	if serverChallenge != slot.ServerChallenge || clientChallenge != slot.ClientChallenge {
		// Challenge mismatch: silently drop, slot remains Connecting until timeout.
		return
	}
	slot.State = Connected
	slot.LastPacketRecvTime = time.Now()
	if s.metrics != nil {
		s.metrics.ClientsConnected.Set(float64(s.ClientCount()))
	}

	idx := s.slotIndex(slot)
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeConnectAccepted(w, uint8(idx), s.tick, s.mapName)
	s.sendFramed(slot, wire.MsgConnectAccepted, w.Bytes())

	if s.log != nil {
		s.log.WithFields(logrus.Fields{"client_id": idx, "trace_id": slot.TraceID.String()}).Info("client connected")
	}
}

func (s *Session) sendConnectRejected(addr net.Addr, reason proto.ConnectRejectReason) {
	if s.udp == nil {
		return
	}
	w := wire.NewWriter(wire.MaxBits)
	payloadW := wire.NewWriter(wire.MaxBits)
	proto.EncodeConnectRejected(payloadW, reason)

	hdr := wire.PacketHeader{}
	hdr.EncodeTo(w)
	wire.WriteMessageHeader(w, wire.MsgConnectRejected, payloadW.BytesWritten())
	w.WriteBytes(payloadW.Bytes())
	wire.WriteNOP(w)

	_ = s.udp.Send(addr, w.Bytes())
}

func (s *Session) handleMapLoaded(slot *ClientSlot, hash uint32) {
	if s.mapNameHash != 0 && hash != s.mapNameHash {
		// Client loaded a different map than the server's authoritative one:
		// do not confirm, leave MapReady false, wait for the right MapLoaded.
		if s.log != nil {
			s.log.WithFields(logrus.Fields{"client_id": s.slotIndex(slot), "got_hash": hash, "want_hash": s.mapNameHash}).Warn("map hash mismatch")
		}
		return
	}
	slot.MapNameHash = hash
	slot.MapReady = true
	slot.LastAckedSnapshotTick = 0 // forces the next broadcast to be a full snapshot

	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeMapConfirmed(w, s.tick)
	s.sendFramed(slot, wire.MsgMapConfirmed, w.Bytes())
}

func (s *Session) disconnectSlot(slot *ClientSlot) {
	if slot.State == Disconnected {
		return
	}
	// Best-effort Disconnect notice, no retry.
	w := wire.NewWriter(wire.MaxBits)
	s.sendFramed(slot, wire.MsgDisconnect, w.Bytes())
	slot.reset()
	if s.metrics != nil {
		s.metrics.ClientsConnected.Set(float64(s.ClientCount()))
	}
}

func (s *Session) slotIndex(target *ClientSlot) int {
	for i, slot := range s.slots {
		if slot == target {
			return i
		}
	}
	return -1
}

func randomChallenge() uint32 {
	return uint32(time.Now().UnixNano())
}
