package client

import (
	"time"

	"arenacore/internal/proto"
	"arenacore/internal/wire"
)

// sendFramed builds one datagram carrying a single message (plus the
// reliable Command piggyback and a terminating NOP) and sends it to the
// server.
func (s *Session) sendFramed(msgType wire.MessageType, payload []byte) {
	if s.transport == nil {
		return
	}
	s.outgoingSeq++

	w := wire.NewWriter(wire.MaxBits)
	hdr := wire.PacketHeader{
		Sequence:    s.outgoingSeq,
		Ack:         s.incomingSeq,
		AckBitfield: s.ackBitfield,
	}
	hdr.EncodeTo(w)

	wire.WriteMessageHeader(w, msgType, len(payload))
	w.WriteBytes(payload)

	s.writeReliableCommand(w)
	wire.WriteNOP(w)

	_ = s.transport.Send(s.serverAddr, w.Bytes())
}

func (s *Session) writeReliableCommand(w *wire.Writer) {
	pending := s.reliable.PendingSequenceOrZero()
	payload := s.reliable.PendingPayload()

	wire.WriteMessageHeader(w, wire.MsgCommand, 4+len(payload))
	w.WriteU16(pending)
	w.WriteU16(s.reliable.ReliableAck())
	w.WriteBytes(payload)

	if pending != 0 {
		s.reliable.MarkSent(time.Now())
	}
}

func (s *Session) sendConnectRequest() {
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeConnectRequest(w, s.clientChallenge)
	s.sendFramed(wire.MsgConnectRequest, w.Bytes())
	s.lastConnectSend = time.Now()
}
