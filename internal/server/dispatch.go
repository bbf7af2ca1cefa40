package server

import (
	"net"
	"time"

	"arenacore/internal/proto"
	"arenacore/internal/wire"
)

// handleDatagram parses one received datagram. addr is the sender's
// transport address (nil for loopback, where slot is already known).
func (s *Session) handleDatagram(data []byte, addr net.Addr, knownSlot *ClientSlot) {
	r := wire.NewReader(data)
	if len(data) < wire.PacketHeaderBytes {
		if s.metrics != nil {
			s.metrics.PacketsDropped.Inc()
		}
		return
	}
	hdr := wire.DecodePacketHeader(r)

	slot := knownSlot
	if slot == nil {
		slot = s.findSlotByAddr(addr)
	}
	if slot != nil {
		newIncoming, newBitfield, _ := wire.UpdateAckBitfield(slot.HasIncoming, slot.IncomingSequence, slot.AckBitfield, hdr.Sequence)
		slot.IncomingSequence = newIncoming
		slot.AckBitfield = newBitfield
		slot.HasIncoming = true
		slot.LastPacketRecvTime = time.Now()
	}

	for {
		if r.Overflowed() {
			if s.metrics != nil {
				s.metrics.PacketsDropped.Inc()
			}
			return
		}
		msgType, length := wire.ReadMessageHeader(r)
		if r.Overflowed() {
			return
		}
		if msgType == wire.MsgNOP {
			return
		}

		switch msgType {
		case wire.MsgConnectRequest:
			clientChallenge := proto.DecodeConnectRequest(r)
			s.handleConnectRequest(addr, clientChallenge)
		case wire.MsgConnectResponse:
			if slot != nil {
				serverChallenge, clientChallenge := proto.DecodeConnectResponse(r)
				s.handleConnectResponse(slot, serverChallenge, clientChallenge)
			} else {
				wire.SkipPayload(r, length)
			}
		case wire.MsgInput:
			if slot != nil {
				cmds := proto.DecodeInputMessage(r)
				s.applyInputs(slot, cmds)
			} else {
				wire.SkipPayload(r, length)
			}
		case wire.MsgClockSync:
			clientSendTime := proto.DecodeClockSyncProbe(r)
			if slot != nil {
				s.handleClockSync(slot, clientSendTime)
			}
		case wire.MsgMapLoaded:
			hash := proto.DecodeMapLoaded(r)
			if slot != nil {
				s.handleMapLoaded(slot, hash)
			}
		case wire.MsgCommand:
			if length < 4 {
				// Malformed: Command always carries at least its 4-byte seq/ack
				// fields. Drop the remainder of this message, not the connection.
				wire.SkipPayload(r, length)
				if s.metrics != nil {
					s.metrics.PacketsDropped.Inc()
				}
				continue
			}
			dataSeq, reliableAck := proto.DecodeCommand(r)
			payload := r.ReadBytes(length - 4)
			if slot != nil {
				slot.Reliable.OnAck(reliableAck)
				slot.Reliable.OnReceive(dataSeq, payload)
			}
		case wire.MsgDisconnect:
			if slot != nil {
				s.disconnectSlot(slot)
				return
			}
		default:
			wire.SkipPayload(r, length)
		}
	}
}

func (s *Session) handleClockSync(slot *ClientSlot, clientSendTime float64) {
	serverTime := float64(time.Now().UnixNano()) / 1e9
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeClockSyncResponse(w, clientSendTime, serverTime)
	s.sendFramed(slot, wire.MsgClockSync, w.Bytes())
}
