package server

import (
	"time"

	"arenacore/internal/wire"
)

// sendFramed builds one datagram carrying a single message of the given
// type (plus the reliable Command piggyback and a terminating NOP) and
// sends it over the slot's transport.
func (s *Session) sendFramed(slot *ClientSlot, msgType wire.MessageType, payload []byte) {
	if slot.Transport == nil {
		return
	}
	slot.OutgoingSequence++

	w := wire.NewWriter(wire.MaxBits)
	hdr := wire.PacketHeader{
		Sequence:    slot.OutgoingSequence,
		Ack:         slot.IncomingSequence,
		AckBitfield: slot.AckBitfield,
	}
	hdr.EncodeTo(w)

	wire.WriteMessageHeader(w, msgType, len(payload))
	w.WriteBytes(payload)

	s.writeReliableCommand(slot, w)
	wire.WriteNOP(w)

	_ = slot.Transport.Send(slot.PeerAddr, w.Bytes())
}

// writeReliableCommand appends the Command message every outbound packet
// carries: the unacked reliable payload (or 0 for ack-only) plus the
// peer-echoed reliable ack.
func (s *Session) writeReliableCommand(slot *ClientSlot, w *wire.Writer) {
	pending := slot.Reliable.PendingSequenceOrZero()
	payload := slot.Reliable.PendingPayload()

	wire.WriteMessageHeader(w, wire.MsgCommand, 4+len(payload))
	w.WriteU16(pending)
	w.WriteU16(slot.Reliable.ReliableAck())
	w.WriteBytes(payload)

	if pending != 0 {
		slot.Reliable.MarkSent(time.Now())
	}
}
