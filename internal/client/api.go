package client

import "arenacore/internal/snapshot"

// RTTMillis returns the smoothed round-trip estimate in milliseconds, or -1
// if clock sync has not yet converged.
func (s *Session) RTTMillis() int32 {
	if !s.clock.Converged {
		return -1
	}
	return int32(s.clock.SmoothedRTT.Milliseconds())
}

// ServerCmdAck returns the input tick the server echoed in the most recent
// Snapshot header (the newest client input tick it had accepted).
func (s *Session) ServerCmdAck() uint32 { return s.lastServerCmdAck }

// ServerPlayerState extracts the authoritative state of the local player
// (this client's own entity, keyed by ClientID) from the most recently
// decoded baseline snapshot. It returns false if no snapshot has arrived
// yet or the player's entity isn't present in it.
func (s *Session) ServerPlayerState(out *InterpEntity) bool {
	if !s.hasBaseline {
		return false
	}
	id := int(s.clientID)
	if !s.baseline.Has(id) {
		return false
	}
	*out = fromEntityState(s.baseline.Entities[id])
	return true
}

// InjectDemoSnapshot installs snap directly into the interpolation ring,
// bypassing the network path, for offline demo playback.
func (s *Session) InjectDemoSnapshot(snap *snapshot.Snapshot) {
	s.ring[s.ringWrite] = snap
	s.ringWrite = (s.ringWrite + 1) % InterpRingLen
	if s.ringCount < InterpRingLen {
		s.ringCount++
	}
	s.baseline = snap
	s.hasBaseline = true
}
