// Package snapshot implements the fixed-capacity entity-state snapshot
// model, its ring history, and the delta codec that encodes one snapshot
// against an optional baseline.
package snapshot

import "arenacore/internal/wire"

// MaxEntities bounds the number of simultaneously tracked entity ids.
const MaxEntities = 256

// HistoryLen is the depth of the per-tick snapshot ring.
const HistoryLen = 64

// Entity flag bits.
const (
	FlagOnGround byte = 1 << iota
	FlagJumpHeld
	FlagTeleported
	FlagFiring
)

// PosScale is the fixed position quantization: 0.5 units per LSB.
const PosScale = 0.5

// AngleScale converts a quantized u16 angle to degrees: 360/65536 per LSB.
const AngleScale = 360.0 / 65536.0

// EntityState is the on-wire, 22-byte per-entity payload.
type EntityState struct {
	PosX, PosY, PosZ int16
	VelX, VelY, VelZ int16
	Yaw, Pitch       uint16
	EntityType       uint8
	Flags            uint8
	Health           uint8
	Armor            uint8
	Weapon           uint8
	Ammo             uint8
}

// EntityStateWireBytes is the fixed wire size of one EntityState.
const EntityStateWireBytes = 22

// Encode writes the 14 logical fields in fixed order.
func (e EntityState) Encode(w *wire.Writer) {
	w.WriteI16(e.PosX)
	w.WriteI16(e.PosY)
	w.WriteI16(e.PosZ)
	w.WriteI16(e.VelX)
	w.WriteI16(e.VelY)
	w.WriteI16(e.VelZ)
	w.WriteU16(e.Yaw)
	w.WriteU16(e.Pitch)
	w.WriteU8(e.EntityType)
	w.WriteU8(e.Flags)
	w.WriteU8(e.Health)
	w.WriteU8(e.Armor)
	w.WriteU8(e.Weapon)
	w.WriteU8(e.Ammo)
}

// DecodeEntityState mirrors Encode.
func DecodeEntityState(r *wire.Reader) EntityState {
	var e EntityState
	e.PosX = r.ReadI16()
	e.PosY = r.ReadI16()
	e.PosZ = r.ReadI16()
	e.VelX = r.ReadI16()
	e.VelY = r.ReadI16()
	e.VelZ = r.ReadI16()
	e.Yaw = r.ReadU16()
	e.Pitch = r.ReadU16()
	e.EntityType = r.ReadU8()
	e.Flags = r.ReadU8()
	e.Health = r.ReadU8()
	e.Armor = r.ReadU8()
	e.Weapon = r.ReadU8()
	e.Ammo = r.ReadU8()
	return e
}

// QuantizePos converts a float unit position to its wire fixed-point form.
func QuantizePos(v float64) int16 { return int16(v / PosScale) }

// DequantizePos converts a wire fixed-point position back to float units.
func DequantizePos(v int16) float64 { return float64(v) * PosScale }

// QuantizeVel converts a float velocity (units/sec) to its wire form: 1
// unit/sec per LSB, no scaling.
func QuantizeVel(v float64) int16 { return int16(v) }

// DequantizeVel converts a wire velocity back to float units/sec.
func DequantizeVel(v int16) float64 { return float64(v) }

// QuantizeAngle converts a float degree angle to its wire u16 form.
func QuantizeAngle(deg float64) uint16 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return uint16(deg / AngleScale)
}

// DequantizeAngle converts a wire u16 angle back to degrees.
func DequantizeAngle(v uint16) float64 { return float64(v) * AngleScale }
