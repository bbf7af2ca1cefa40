// Package gameplay is a minimal stand-in for the external gameplay
// collaborator the netcode core drives through get_input/set_entity/
// remove_entity: it has no movement simulation, map logic, or weapons —
// just enough entity/input bookkeeping to exercise the server interface in
// tests and the loopback demo.
package gameplay

import "arenacore/internal/predict"

// World holds the entity state the gameplay collaborator exposes to the
// server session for the current tick, plus the last input seen per
// client slot.
type World struct {
	entities map[int]Entity
	inputs   map[int]predict.UserCmd
}

// Entity is the collaborator's notion of simulated entity state, upstream
// of wire quantization.
type Entity struct {
	PosX, PosY, PosZ float64
	VelX, VelY, VelZ float64
	Yaw, Pitch       float64
	EntityType       uint8
	Flags            uint8
	Health           uint8
	Armor            uint8
	Weapon           uint8
	Ammo             uint8
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		entities: make(map[int]Entity),
		inputs:   make(map[int]predict.UserCmd),
	}
}

// SetEntity installs or replaces entity id's state.
func (w *World) SetEntity(id int, e Entity) { w.entities[id] = e }

// RemoveEntity deletes entity id.
func (w *World) RemoveEntity(id int) { delete(w.entities, id) }

// Entities returns the live id -> Entity map for the current tick.
func (w *World) Entities() map[int]Entity { return w.entities }

// SetInput records the most recent input seen for a client id, used as the
// legacy get_input fallback.
func (w *World) SetInput(clientID int, cmd predict.UserCmd) { w.inputs[clientID] = cmd }

// GetInput returns the recorded input for clientID, if any.
func (w *World) GetInput(clientID int) (predict.UserCmd, bool) {
	cmd, ok := w.inputs[clientID]
	return cmd, ok
}
