package client

import "arenacore/internal/snapshot"

// InterpEntity is one entity's renderer-facing interpolated state.
type InterpEntity struct {
	PosX, PosY, PosZ float64
	VelX, VelY, VelZ float64
	Yaw, Pitch       float64
	EntityType       uint8
	Flags            uint8
	Health           uint8
	Armor            uint8
	Weapon           uint8
	Ammo             uint8
	Active           bool
}

// InterpState is the renderer-facing float buffer Interpolate writes into.
type InterpState struct {
	Entities [snapshot.MaxEntities]InterpEntity
}

// InterpDiagnostics records which snapshots the last Interpolate call used.
type InterpDiagnostics struct {
	HasResult     bool
	ATick, BTick  uint32
	T             float64
	TwoNewestUsed bool
	SingleUsed    bool
}

func (s *Session) newestTwo() (a, b *snapshot.Snapshot) {
	idx := s.ringWrite
	var newest, second *snapshot.Snapshot
	for i := 0; i < s.ringCount; i++ {
		idx = (idx - 1 + InterpRingLen) % InterpRingLen
		snap := s.ring[idx]
		if snap == nil {
			continue
		}
		if newest == nil {
			newest = snap
		} else if second == nil {
			second = snap
			break
		}
	}
	return second, newest
}

// bracket finds (A, B) with A.tick <= renderTick < B.tick and B.tick-A.tick
// minimal; falling back to the two newest snapshots, falling back to the
// single newest, per §4.9.
func (s *Session) bracket(renderTick float64) (a, b *snapshot.Snapshot, twoNewest, single bool) {
	var bestA, bestB *snapshot.Snapshot
	var bestSpan uint32

	idx := s.ringWrite
	var snaps []*snapshot.Snapshot
	for i := 0; i < s.ringCount; i++ {
		idx = (idx - 1 + InterpRingLen) % InterpRingLen
		if snap := s.ring[idx]; snap != nil {
			snaps = append(snaps, snap)
		}
	}

	for i := 0; i < len(snaps); i++ {
		for j := 0; j < len(snaps); j++ {
			if i == j {
				continue
			}
			lo, hi := snaps[i], snaps[j]
			if lo.Tick > hi.Tick {
				continue
			}
			if float64(lo.Tick) > renderTick || float64(hi.Tick) <= renderTick {
				continue
			}
			span := hi.Tick - lo.Tick
			if bestB == nil || span < bestSpan {
				bestA, bestB, bestSpan = lo, hi, span
			}
		}
	}
	if bestA != nil {
		return bestA, bestB, false, false
	}

	if lo, hi := s.newestTwo(); lo != nil && hi != nil {
		return lo, hi, true, false
	}

	if len(snaps) > 0 {
		newest := snaps[0]
		for _, snap := range snaps {
			if snap.Tick > newest.Tick {
				newest = snap
			}
		}
		return newest, nil, false, true
	}
	return nil, nil, false, false
}

// Interpolate computes the renderer-facing entity buffer for renderTime
// (seconds, server clock), recording diagnostics about the snapshot pair
// used.
func (s *Session) Interpolate(renderTime float64) (InterpState, InterpDiagnostics) {
	var out InterpState
	var diag InterpDiagnostics

	renderTick := renderTime * 128.0
	a, b, twoNewest, single := s.bracket(renderTick)
	if a == nil {
		return out, diag
	}

	diag.HasResult = true
	diag.TwoNewestUsed = twoNewest
	diag.SingleUsed = single
	diag.ATick = a.Tick

	if single || b == nil {
		for id := 0; id < snapshot.MaxEntities; id++ {
			if a.Has(id) {
				out.Entities[id] = fromEntityState(a.Entities[id])
			}
		}
		return out, diag
	}

	diag.BTick = b.Tick
	t := 0.0
	if b.Tick > a.Tick {
		t = (renderTick - float64(a.Tick)) / float64(b.Tick-a.Tick)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	diag.T = t

	for id := 0; id < snapshot.MaxEntities; id++ {
		inA, inB := a.Has(id), b.Has(id)
		switch {
		case inA && inB:
			out.Entities[id] = interpEntity(a.Entities[id], b.Entities[id], t)
		case inB && !inA:
			out.Entities[id] = fromEntityState(b.Entities[id])
		case inA && !inB:
			if renderTick < float64(b.Tick) {
				out.Entities[id] = fromEntityState(a.Entities[id])
			}
		}
	}
	return out, diag
}

func fromEntityState(e snapshot.EntityState) InterpEntity {
	return InterpEntity{
		PosX: snapshot.DequantizePos(e.PosX), PosY: snapshot.DequantizePos(e.PosY), PosZ: snapshot.DequantizePos(e.PosZ),
		VelX: snapshot.DequantizeVel(e.VelX), VelY: snapshot.DequantizeVel(e.VelY), VelZ: snapshot.DequantizeVel(e.VelZ),
		Yaw: snapshot.DequantizeAngle(e.Yaw), Pitch: snapshot.DequantizeAngle(e.Pitch),
		EntityType: e.EntityType, Flags: e.Flags,
		Health: e.Health, Armor: e.Armor, Weapon: e.Weapon, Ammo: e.Ammo,
		Active: true,
	}
}

const teleportedFlag = snapshot.FlagTeleported

func interpEntity(a, b snapshot.EntityState, t float64) InterpEntity {
	if (a.Flags^b.Flags)&teleportedFlag != 0 {
		return fromEntityState(b)
	}

	lerp := func(x, y int16) float64 {
		return snapshot.DequantizePos(x) + (snapshot.DequantizePos(y)-snapshot.DequantizePos(x))*t
	}
	lerpVel := func(x, y int16) float64 {
		return snapshot.DequantizeVel(x) + (snapshot.DequantizeVel(y)-snapshot.DequantizeVel(x))*t
	}

	return InterpEntity{
		PosX: lerp(a.PosX, b.PosX), PosY: lerp(a.PosY, b.PosY), PosZ: lerp(a.PosZ, b.PosZ),
		VelX: lerpVel(a.VelX, b.VelX), VelY: lerpVel(a.VelY, b.VelY), VelZ: lerpVel(a.VelZ, b.VelZ),
		Yaw:   shortestArcLerp(snapshot.DequantizeAngle(a.Yaw), snapshot.DequantizeAngle(b.Yaw), t),
		Pitch: shortestArcLerp(snapshot.DequantizeAngle(a.Pitch), snapshot.DequantizeAngle(b.Pitch), t),
		EntityType: b.EntityType, Flags: b.Flags,
		Health: b.Health, Armor: b.Armor, Weapon: b.Weapon, Ammo: b.Ammo,
		Active: true,
	}
}

// shortestArcLerp interpolates two degree angles along the shorter arc
// between them, unwrapping the difference to (-180, 180] first.
func shortestArcLerp(a, b, t float64) float64 {
	diff := b - a
	for diff > 180 {
		diff -= 360
	}
	for diff <= -180 {
		diff += 360
	}
	result := a + diff*t
	for result < 0 {
		result += 360
	}
	for result >= 360 {
		result -= 360
	}
	return result
}
