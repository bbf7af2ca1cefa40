package client

import (
	"time"

	"arenacore/internal/proto"
	"arenacore/internal/snapshot"
	"arenacore/internal/wire"
)

// handleDatagram parses one datagram received from the server.
func (s *Session) handleDatagram(data []byte) {
	r := wire.NewReader(data)
	if len(data) < wire.PacketHeaderBytes {
		if s.metrics != nil {
			s.metrics.PacketsDropped.Inc()
		}
		return
	}
	hdr := wire.DecodePacketHeader(r)

	newIncoming, newBitfield, _ := wire.UpdateAckBitfield(s.hasIncoming, s.incomingSeq, s.ackBitfield, hdr.Sequence)
	s.incomingSeq = newIncoming
	s.ackBitfield = newBitfield
	s.hasIncoming = true
	s.lastPacketRecv = time.Now()

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
		case wire.MsgConnectChallenge:
			serverChallenge, clientChallenge := proto.DecodeConnectChallenge(r)
			s.handleConnectChallenge(serverChallenge, clientChallenge)
		case wire.MsgConnectAccepted:
			clientID, serverTick, mapName := proto.DecodeConnectAccepted(r)
			s.handleConnectAccepted(clientID, serverTick, mapName)
		case wire.MsgConnectRejected:
			_ = proto.DecodeConnectRejected(r)
			s.state = Disconnected
		case wire.MsgMapConfirmed:
			serverTick := proto.DecodeMapConfirmed(r)
			s.handleMapConfirmed(serverTick)
		case wire.MsgSnapshot:
			baseTick, currentTick, cmdAck := proto.DecodeSnapshotHeader(r)
			s.handleSnapshot(baseTick, currentTick, cmdAck, r)
		case wire.MsgClockSync:
			clientSendTime, serverTime := proto.DecodeClockSyncResponse(r)
			s.handleClockSyncResponse(clientSendTime, serverTime)
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
			s.reliable.OnAck(reliableAck)
			s.reliable.OnReceive(dataSeq, payload)
		case wire.MsgDisconnect:
			s.state = Disconnected
			return
		default:
			wire.SkipPayload(r, length)
		}
	}
}

func (s *Session) handleConnectChallenge(serverChallenge, clientChallenge uint32) {
	if s.state != Connecting || clientChallenge != s.clientChallenge {
		return
	}
	s.serverChallenge = serverChallenge
	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeConnectResponse(w, serverChallenge, clientChallenge)
	s.sendFramed(wire.MsgConnectResponse, w.Bytes())
}

func (s *Session) handleConnectAccepted(clientID uint8, serverTick uint32, mapName string) {
	if s.state != Connecting {
		return
	}
	s.state = Connected
	s.clientID = clientID
	s.serverMap = mapName
	s.inputTick = serverTick
}

func (s *Session) handleMapConfirmed(serverTick uint32) {
	s.mapReady = true
	s.inputTick = serverTick
	s.ringWrite = 0
	s.ringCount = 0
	for i := range s.ring {
		s.ring[i] = nil
	}
	s.baseline = nil
	s.hasBaseline = false
}

func (s *Session) handleClockSyncResponse(clientSendEpoch, serverEpoch float64) {
	now := time.Now()
	clientSendTime := epochToTime(clientSendEpoch)
	serverTime := epochToTime(serverEpoch)
	s.clock.OnPong(clientSendTime, serverTime, now)
	if s.metrics != nil {
		s.metrics.RTTMillis.WithLabelValues("0").Set(float64(s.clock.SmoothedRTT) / float64(time.Millisecond))
	}
}

func epochToTime(epochSeconds float64) time.Time {
	sec := int64(epochSeconds)
	nsec := int64((epochSeconds - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// handleSnapshot resolves the baseline per the ring-first/baseline-fallback
// rule, decodes the delta, and stores the result at the ring's write head.
func (s *Session) handleSnapshot(baseTick, currentTick, cmdAck uint32, r *wire.Reader) {
	s.lastServerCmdAck = cmdAck

	var baseline *snapshot.Snapshot
	if baseTick != 0 {
		baseline = s.findInRing(baseTick)
		if baseline == nil && s.hasBaseline && s.baseline.Tick == baseTick {
			baseline = s.baseline
		}
		if baseline == nil {
			// Cannot resolve this delta's baseline; drop and wait for a
			// full resend.
			return
		}
	}

	decoded, err := snapshot.DecodeDelta(r, baseline, currentTick)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PacketsDropped.Inc()
		}
		return
	}

	s.ring[s.ringWrite] = decoded
	s.ringWrite = (s.ringWrite + 1) % InterpRingLen
	if s.ringCount < InterpRingLen {
		s.ringCount++
	}
	s.baseline = decoded
	s.hasBaseline = true
}

func (s *Session) findInRing(tick uint32) *snapshot.Snapshot {
	// Most-recent first: walk backward from the slot just before the next
	// write position.
	idx := s.ringWrite
	for i := 0; i < s.ringCount; i++ {
		idx = (idx - 1 + InterpRingLen) % InterpRingLen
		if snap := s.ring[idx]; snap != nil && snap.Tick == tick {
			return snap
		}
	}
	return nil
}
