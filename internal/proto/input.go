// Package proto encodes and decodes the message payloads carried inside
// framed packets: connection handshake messages, input batches, snapshot
// headers, clock-sync probes, and the map-ready handshake. It sits above
// internal/wire (bit framing) and internal/snapshot (entity delta codec).
package proto

import (
	"arenacore/internal/predict"
	"arenacore/internal/wire"
)

// inputScale quantizes forward/side analog axes to an i8, giving 0.01 units
// per LSB — well inside the 0.02 tolerance the input round-trip scenario
// requires.
const inputScale = 100.0

// angleScale matches the entity-state angle quantization: 360/65536 per LSB.
const angleScale = 360.0 / 65536.0

func quantizeAxis(v float32) int8 {
	scaled := float64(v) * inputScale
	if scaled > 127 {
		scaled = 127
	}
	if scaled < -128 {
		scaled = -128
	}
	return int8(scaled)
}

func dequantizeAxis(v int8) float32 {
	return float32(v) / inputScale
}

func quantizeAngle(deg float64) uint16 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return uint16(deg / angleScale)
}

func dequantizeAngle(v uint16) float64 { return float64(v) * angleScale }

// MaxInputRecords is the largest count an Input message carries (the
// 2-bit count_minus_one field allows 1-4, the spec's redundancy window
// is capped at 3).
const MaxInputRecords = 3

// EncodeInputRecord writes one 9-byte input sample.
func EncodeInputRecord(w *wire.Writer, cmd predict.UserCmd) {
	w.WriteI8(quantizeAxis(cmd.Forward))
	w.WriteI8(quantizeAxis(cmd.Side))
	w.WriteU16(quantizeAngle(cmd.Yaw))
	w.WriteU16(quantizeAngle(cmd.Pitch))
	w.WriteU16(cmd.Buttons)
	w.WriteU8(cmd.WeaponSelect)
}

// DecodeInputRecord reads one input sample at the given tick.
func DecodeInputRecord(r *wire.Reader, tick uint32) predict.UserCmd {
	forward := dequantizeAxis(r.ReadI8())
	side := dequantizeAxis(r.ReadI8())
	yaw := dequantizeAngle(r.ReadU16())
	pitch := dequantizeAngle(r.ReadU16())
	buttons := r.ReadU16()
	weapon := r.ReadU8()
	return predict.UserCmd{
		Tick: tick, Forward: forward, Side: side,
		Yaw: yaw, Pitch: pitch, Buttons: buttons, WeaponSelect: weapon,
	}
}

// EncodeInputMessage writes the Input payload: count_minus_one:2 |
// start_tick:u32 | records[count]. cmds must be 1-3 entries, oldest first.
func EncodeInputMessage(w *wire.Writer, cmds []predict.UserCmd) {
	n := len(cmds)
	if n == 0 {
		return
	}
	if n > MaxInputRecords {
		cmds = cmds[n-MaxInputRecords:]
		n = MaxInputRecords
	}
	w.WriteBits(uint32(n-1), 2)
	w.WriteU32(cmds[0].Tick)
	for _, cmd := range cmds {
		EncodeInputRecord(w, cmd)
	}
}

// DecodeInputMessage reads an Input payload back into individual UserCmds,
// one per record, each stamped with its absolute tick (start_tick + index).
func DecodeInputMessage(r *wire.Reader) []predict.UserCmd {
	count := int(r.ReadBits(2)) + 1
	startTick := r.ReadU32()
	out := make([]predict.UserCmd, 0, count)
	for i := 0; i < count; i++ {
		cmd := DecodeInputRecord(r, startTick+uint32(i))
		out = append(out, cmd)
	}
	return out
}
