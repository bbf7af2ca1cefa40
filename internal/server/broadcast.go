package server

import (
	"arenacore/internal/gameplay"
	"arenacore/internal/proto"
	"arenacore/internal/snapshot"
	"arenacore/internal/wire"
)

// quantizeEntity converts the gameplay collaborator's float entity state to
// its wire fixed-point form.
func quantizeEntity(e gameplay.Entity) snapshot.EntityState {
	return snapshot.EntityState{
		PosX: snapshot.QuantizePos(e.PosX), PosY: snapshot.QuantizePos(e.PosY), PosZ: snapshot.QuantizePos(e.PosZ),
		VelX: snapshot.QuantizeVel(e.VelX), VelY: snapshot.QuantizeVel(e.VelY), VelZ: snapshot.QuantizeVel(e.VelZ),
		Yaw: snapshot.QuantizeAngle(e.Yaw), Pitch: snapshot.QuantizeAngle(e.Pitch),
		EntityType: e.EntityType, Flags: e.Flags,
		Health: e.Health, Armor: e.Armor, Weapon: e.Weapon, Ammo: e.Ammo,
	}
}

// buildSnapshot pulls the current world state from the gameplay collaborator
// into a fresh fixed-capacity snapshot stamped with the current tick.
func (s *Session) buildSnapshot() {
	snap := snapshot.New(s.tick)
	for id, e := range s.world.Entities() {
		if id < 0 || id >= snapshot.MaxEntities {
			continue
		}
		snap.Set(id, quantizeEntity(e))
	}
	s.current = snap
}

// broadcast sends one Snapshot message to every Connected, map-ready slot,
// delta-encoded against the newest baseline the slot is known to hold.
func (s *Session) broadcast() {
	for _, slot := range s.slots {
		if slot.State != Connected || !slot.MapReady {
			continue
		}

		var baseline *snapshot.Snapshot
		baseTick := uint32(0)
		if s.history.Valid(slot.LastAckedSnapshotTick, s.tick) {
			baseline = s.history.Lookup(slot.LastAckedSnapshotTick)
			baseTick = slot.LastAckedSnapshotTick
		}

		payloadW := wire.NewWriter(wire.MaxBits)
		proto.EncodeSnapshotHeader(payloadW, baseTick, s.tick, slot.LastInputTick)
		snapshot.EncodeDelta(payloadW, baseline, s.current)

		s.sendFramed(slot, wire.MsgSnapshot, payloadW.Bytes())
	}
}
