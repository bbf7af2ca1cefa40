// Package predict implements the server-side per-client jitter buffer and
// movement-state-aware input predictor (consume), plus the visual
// correction-blend applied on misprediction.
package predict

import "arenacore/internal/neterr"

// Profile is the tunable parameter set governing jitter adaptation,
// drought prediction, and correction blending for one client (or preset
// shared by many). Runtime mutation is by field name via SetField, per a
// small descriptor table rather than reflection.
type Profile struct {
	JitterBufMin      int
	JitterBufMax      int
	JitterAdaptRate   float64
	PredictGraceTicks uint32
	PredictDecelStart uint32
	PredictDecelRate  float64
	PredictMaxTicks   uint32
	CorrectSmallDist  float64 // squared distance threshold
	CorrectLargeDist  float64 // squared distance threshold
	CorrectSmallTicks uint32
	CorrectMediumTicks uint32
	CorrectAirMult    float64
	InterpDelayMs     float64
	ExtrapMaxMs       float64
	InputRedundancy   int
}

// Competitive favors low latency and tight correction windows.
func Competitive() Profile {
	return Profile{
		JitterBufMin: 1, JitterBufMax: 4, JitterAdaptRate: 0.2,
		PredictGraceTicks: 2, PredictDecelStart: 6, PredictDecelRate: 0.2,
		PredictMaxTicks: 16,
		CorrectSmallDist: 4, CorrectLargeDist: 64,
		CorrectSmallTicks: 4, CorrectMediumTicks: 10, CorrectAirMult: 1.5,
		InterpDelayMs: 20, ExtrapMaxMs: 125, InputRedundancy: 2,
	}
}

// Lenient tolerates more jitter before decelerating or freezing.
func Lenient() Profile {
	return Profile{
		JitterBufMin: 2, JitterBufMax: 8, JitterAdaptRate: 0.1,
		PredictGraceTicks: 4, PredictDecelStart: 12, PredictDecelRate: 0.1,
		PredictMaxTicks: 32,
		CorrectSmallDist: 9, CorrectLargeDist: 144,
		CorrectSmallTicks: 6, CorrectMediumTicks: 16, CorrectAirMult: 2.0,
		InterpDelayMs: 40, ExtrapMaxMs: 250, InputRedundancy: 3,
	}
}

// LAN assumes near-zero jitter and loss.
func LAN() Profile {
	return Profile{
		JitterBufMin: 1, JitterBufMax: 2, JitterAdaptRate: 0.3,
		PredictGraceTicks: 1, PredictDecelStart: 4, PredictDecelRate: 0.3,
		PredictMaxTicks: 8,
		CorrectSmallDist: 1, CorrectLargeDist: 16,
		CorrectSmallTicks: 2, CorrectMediumTicks: 4, CorrectAirMult: 1.0,
		InterpDelayMs: 8, ExtrapMaxMs: 64, InputRedundancy: 1,
	}
}

// fieldDescriptors maps a settable field name to a setter/getter pair,
// avoiding reflection while keeping the mechanism name-driven.
var fieldDescriptors = map[string]struct {
	set func(p *Profile, v float64)
	get func(p *Profile) float64
}{
	"jitter_buf_min":      {func(p *Profile, v float64) { p.JitterBufMin = int(v) }, func(p *Profile) float64 { return float64(p.JitterBufMin) }},
	"jitter_buf_max":      {func(p *Profile, v float64) { p.JitterBufMax = int(v) }, func(p *Profile) float64 { return float64(p.JitterBufMax) }},
	"jitter_adapt_rate":   {func(p *Profile, v float64) { p.JitterAdaptRate = v }, func(p *Profile) float64 { return p.JitterAdaptRate }},
	"predict_grace_ticks": {func(p *Profile, v float64) { p.PredictGraceTicks = uint32(v) }, func(p *Profile) float64 { return float64(p.PredictGraceTicks) }},
	"predict_decel_start": {func(p *Profile, v float64) { p.PredictDecelStart = uint32(v) }, func(p *Profile) float64 { return float64(p.PredictDecelStart) }},
	"predict_decel_rate":  {func(p *Profile, v float64) { p.PredictDecelRate = v }, func(p *Profile) float64 { return p.PredictDecelRate }},
	"predict_max_ticks":   {func(p *Profile, v float64) { p.PredictMaxTicks = uint32(v) }, func(p *Profile) float64 { return float64(p.PredictMaxTicks) }},
	"correct_small_dist":  {func(p *Profile, v float64) { p.CorrectSmallDist = v }, func(p *Profile) float64 { return p.CorrectSmallDist }},
	"correct_large_dist":  {func(p *Profile, v float64) { p.CorrectLargeDist = v }, func(p *Profile) float64 { return p.CorrectLargeDist }},
	"correct_small_ticks": {func(p *Profile, v float64) { p.CorrectSmallTicks = uint32(v) }, func(p *Profile) float64 { return float64(p.CorrectSmallTicks) }},
	"correct_medium_ticks": {func(p *Profile, v float64) { p.CorrectMediumTicks = uint32(v) }, func(p *Profile) float64 { return float64(p.CorrectMediumTicks) }},
	"correct_air_mult":    {func(p *Profile, v float64) { p.CorrectAirMult = v }, func(p *Profile) float64 { return p.CorrectAirMult }},
	"interp_delay_ms":     {func(p *Profile, v float64) { p.InterpDelayMs = v }, func(p *Profile) float64 { return p.InterpDelayMs }},
	"extrap_max_ms":       {func(p *Profile, v float64) { p.ExtrapMaxMs = v }, func(p *Profile) float64 { return p.ExtrapMaxMs }},
	"input_redundancy":    {func(p *Profile, v float64) { p.InputRedundancy = int(v) }, func(p *Profile) float64 { return float64(p.InputRedundancy) }},
}

// SetField mutates a named profile field through the descriptor table,
// converting value to the field's type (integer fields truncate). The
// value's type is not checked. Unknown names return NotFound.
func (p *Profile) SetField(name string, value float64) error {
	d, ok := fieldDescriptors[name]
	if !ok {
		return neterr.New(neterr.NotFound, "predict.Profile.SetField")
	}
	d.set(p, value)
	return nil
}

// GetField reads a named profile field.
func (p *Profile) GetField(name string) (float64, error) {
	d, ok := fieldDescriptors[name]
	if !ok {
		return 0, neterr.New(neterr.NotFound, "predict.Profile.GetField")
	}
	return d.get(p), nil
}
