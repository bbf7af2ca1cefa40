package predict

// Correction is the client-side visual-offset decay applied after a server
// misprediction correction: the authoritative position snaps immediately,
// and the renderer adds a shrinking offset back toward it over blend_ticks.
type Correction struct {
	offset  [3]float64
	progress float64
	total    uint32
}

// BeginCorrection starts a new blend for a positional error vector,
// choosing blend_ticks by comparing its squared length against the
// profile's small/large squared-distance thresholds and widening the window
// in the air per CorrectAirMult.
func (c *Correction) BeginCorrection(errorVec [3]float64, moveState MoveState, profile Profile) {
	sqDist := errorVec[0]*errorVec[0] + errorVec[1]*errorVec[1] + errorVec[2]*errorVec[2]

	var blendTicks float64
	switch {
	case sqDist <= profile.CorrectSmallDist:
		blendTicks = float64(profile.CorrectSmallTicks)
	case sqDist <= profile.CorrectLargeDist:
		blendTicks = float64(profile.CorrectMediumTicks)
	default:
		blendTicks = 1
	}
	if moveState == Airborne || moveState == Falling {
		blendTicks *= profile.CorrectAirMult
	}

	c.offset = errorVec
	c.progress = 0
	c.total = uint32(blendTicks)
	if c.total == 0 {
		c.total = 1
	}
}

// Tick advances the blend by one server tick and returns the current
// offset to add to the authoritative position.
func (c *Correction) Tick() [3]float64 {
	if c.total == 0 {
		return [3]float64{}
	}
	c.progress += 1.0 / float64(c.total)
	if c.progress > 1 {
		c.progress = 1
	}
	remaining := 1 - c.progress
	return [3]float64{
		c.offset[0] * remaining,
		c.offset[1] * remaining,
		c.offset[2] * remaining,
	}
}

// Done reports whether the blend has fully decayed to zero.
func (c *Correction) Done() bool { return c.progress >= 1 }
