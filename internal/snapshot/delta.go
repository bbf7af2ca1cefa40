package snapshot

import (
	"arenacore/internal/neterr"
	"arenacore/internal/wire"
)

// Field bits of the 12-bit per-entity change mask, in fixed order.
const (
	fieldPosX uint32 = 1 << iota
	fieldPosY
	fieldPosZ
	fieldVelX
	fieldVelY
	fieldVelZ
	fieldYaw
	fieldPitch
	fieldFlags
	fieldHealth
	fieldArmor
	fieldWeaponAmmo
)

const fieldMaskBits = 12

// fieldDiff returns the 12-bit change mask between old and cur.
func fieldDiff(old, cur EntityState) uint32 {
	var mask uint32
	if old.PosX != cur.PosX {
		mask |= fieldPosX
	}
	if old.PosY != cur.PosY {
		mask |= fieldPosY
	}
	if old.PosZ != cur.PosZ {
		mask |= fieldPosZ
	}
	if old.VelX != cur.VelX {
		mask |= fieldVelX
	}
	if old.VelY != cur.VelY {
		mask |= fieldVelY
	}
	if old.VelZ != cur.VelZ {
		mask |= fieldVelZ
	}
	if old.Yaw != cur.Yaw {
		mask |= fieldYaw
	}
	if old.Pitch != cur.Pitch {
		mask |= fieldPitch
	}
	if old.Flags != cur.Flags {
		mask |= fieldFlags
	}
	if old.Health != cur.Health {
		mask |= fieldHealth
	}
	if old.Armor != cur.Armor {
		mask |= fieldArmor
	}
	if old.Weapon != cur.Weapon || old.Ammo != cur.Ammo {
		mask |= fieldWeaponAmmo
	}
	return mask
}

func writeChangedFields(w *wire.Writer, mask uint32, e EntityState) {
	if mask&fieldPosX != 0 {
		w.WriteI16(e.PosX)
	}
	if mask&fieldPosY != 0 {
		w.WriteI16(e.PosY)
	}
	if mask&fieldPosZ != 0 {
		w.WriteI16(e.PosZ)
	}
	if mask&fieldVelX != 0 {
		w.WriteI16(e.VelX)
	}
	if mask&fieldVelY != 0 {
		w.WriteI16(e.VelY)
	}
	if mask&fieldVelZ != 0 {
		w.WriteI16(e.VelZ)
	}
	if mask&fieldYaw != 0 {
		w.WriteU16(e.Yaw)
	}
	if mask&fieldPitch != 0 {
		w.WriteU16(e.Pitch)
	}
	if mask&fieldFlags != 0 {
		w.WriteU8(e.Flags)
	}
	if mask&fieldHealth != 0 {
		w.WriteU8(e.Health)
	}
	if mask&fieldArmor != 0 {
		w.WriteU8(e.Armor)
	}
	if mask&fieldWeaponAmmo != 0 {
		w.WriteU8(e.Weapon)
		w.WriteU8(e.Ammo)
	}
}

func applyChangedFields(r *wire.Reader, mask uint32, e *EntityState) {
	if mask&fieldPosX != 0 {
		e.PosX = r.ReadI16()
	}
	if mask&fieldPosY != 0 {
		e.PosY = r.ReadI16()
	}
	if mask&fieldPosZ != 0 {
		e.PosZ = r.ReadI16()
	}
	if mask&fieldVelX != 0 {
		e.VelX = r.ReadI16()
	}
	if mask&fieldVelY != 0 {
		e.VelY = r.ReadI16()
	}
	if mask&fieldVelZ != 0 {
		e.VelZ = r.ReadI16()
	}
	if mask&fieldYaw != 0 {
		e.Yaw = r.ReadU16()
	}
	if mask&fieldPitch != 0 {
		e.Pitch = r.ReadU16()
	}
	if mask&fieldFlags != 0 {
		e.Flags = r.ReadU8()
	}
	if mask&fieldHealth != 0 {
		e.Health = r.ReadU8()
	}
	if mask&fieldArmor != 0 {
		e.Armor = r.ReadU8()
	}
	if mask&fieldWeaponAmmo != 0 {
		e.Weapon = r.ReadU8()
		e.Ammo = r.ReadU8()
	}
}

// EncodeDelta writes cur against baseline (which may be nil, meaning a full
// snapshot) into w.
func EncodeDelta(w *wire.Writer, baseline, cur *Snapshot) {
	var basePresence [PresenceWords]uint64
	if baseline != nil {
		basePresence = baseline.Presence
	}

	for word := 0; word < PresenceWords; word++ {
		changed := basePresence[word] != cur.Presence[word]
		w.WriteBool(changed)
		if changed {
			w.WriteU32(uint32(cur.Presence[word] & 0xFFFFFFFF))
			w.WriteU32(uint32(cur.Presence[word] >> 32))
		}
	}

	for id := 0; id < MaxEntities; id++ {
		inBase := baseline != nil && baseline.Has(id)
		inCur := cur.Has(id)
		if !inBase && !inCur {
			continue
		}
		switch {
		case inCur && !inBase:
			// Spawn: full state, unconditionally "changed".
			cur.Entities[id].Encode(w)
		case inBase && !inCur:
			// Despawn: no per-entity payload; mask already conveys removal.
		default:
			mask := fieldDiff(baseline.Entities[id], cur.Entities[id])
			entityChanged := mask != 0
			w.WriteBool(entityChanged)
			if entityChanged {
				w.WriteBits(mask, fieldMaskBits)
				writeChangedFields(w, mask, cur.Entities[id])
			}
		}
	}
}

// DecodeDelta reconstructs a snapshot at currentTick from r, using baseline
// (nil for a full snapshot) as the starting point. It returns Truncated if
// the reader overflows at any step.
func DecodeDelta(r *wire.Reader, baseline *Snapshot, currentTick uint32) (*Snapshot, error) {
	out := &Snapshot{Tick: currentTick}
	if baseline != nil {
		out.Presence = baseline.Presence
		out.Entities = baseline.Entities
	}

	var changedWord [PresenceWords]bool
	for word := 0; word < PresenceWords; word++ {
		changedWord[word] = r.ReadBool()
		if changedWord[word] {
			lo := r.ReadU32()
			hi := r.ReadU32()
			out.Presence[word] = uint64(lo) | uint64(hi)<<32
		}
		if r.Overflowed() {
			return nil, neterr.New(neterr.Truncated, "snapshot.DecodeDelta")
		}
	}

	var basePresence [PresenceWords]uint64
	if baseline != nil {
		basePresence = baseline.Presence
	}

	for id := 0; id < MaxEntities; id++ {
		w, b := wordBit(id)
		inBase := basePresence[w]&(1<<b) != 0
		inCur := out.Presence[w]&(1<<b) != 0
		if !inBase && !inCur {
			continue
		}
		switch {
		case inCur && !inBase:
			out.Entities[id] = DecodeEntityState(r)
		case inBase && !inCur:
			out.Entities[id] = EntityState{}
		default:
			entityChanged := r.ReadBool()
			if entityChanged {
				mask := r.ReadBits(fieldMaskBits)
				e := out.Entities[id]
				applyChangedFields(r, mask, &e)
				out.Entities[id] = e
			}
		}
		if r.Overflowed() {
			return nil, neterr.New(neterr.Truncated, "snapshot.DecodeDelta")
		}
	}

	out.EntityCount = out.Popcount()
	return out, nil
}
