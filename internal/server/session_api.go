package server

import (
	"arenacore/internal/gameplay"
	"arenacore/internal/predict"
)

// GetInput consumes the next input for a connected client via its predictor,
// buffer-and-consume rules included: a real buffered input if one arrived in
// time, otherwise a synthesized drought fill-in.
func (s *Session) GetInput(clientID int) (predict.ConsumeResult, bool) {
	if clientID < 0 || clientID >= len(s.slots) {
		return predict.ConsumeResult{}, false
	}
	slot := s.slots[clientID]
	if slot.State != Connected {
		return predict.ConsumeResult{}, false
	}
	return slot.Predictor.Consume(s.profile), true
}

// SetEntityMoveState records the authoritative movement category the
// gameplay collaborator has placed entity/client clientID in, consulted by
// that client's predictor on the next drought.
func (s *Session) SetEntityMoveState(clientID int, state predict.MoveState) {
	if clientID < 0 || clientID >= len(s.slots) {
		return
	}
	s.slots[clientID].Predictor.SetMoveState(state)
}

// SetEntity installs or replaces entity id's authoritative state, picked up
// by the next Tick's snapshot broadcast.
func (s *Session) SetEntity(id int, e gameplay.Entity) { s.world.SetEntity(id, e) }

// RemoveEntity deletes entity id from the world.
func (s *Session) RemoveEntity(id int) { s.world.RemoveEntity(id) }
