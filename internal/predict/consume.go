package predict

import "math"

// ConsumeResult is what one server tick's consume() call yields.
type ConsumeResult struct {
	Input       UserCmd
	WasPredicted bool
	SpeedScale  float32
}

// Predictor holds the buffer-and-consume state for one client.
type Predictor struct {
	ring JitterBuffer

	lastReal      UserCmd
	predictedTicks uint32
	moveState     MoveState
	speedScale    float32

	correction Correction

	jitterMs     float64
	adaptedDepth int
}

// NewPredictor returns a predictor with no buffered history.
func NewPredictor() *Predictor {
	return &Predictor{speedScale: 1.0}
}

// Push enqueues a freshly received input.
func (p *Predictor) Push(cmd UserCmd) { p.ring.Push(cmd) }

// SetMoveState records the authoritative simulator's current movement
// category, consulted by the next drought-filling Consume call.
func (p *Predictor) SetMoveState(s MoveState) { p.moveState = s }

// Consume implements the buffer-and-consume algorithm: pop a real input if
// one is buffered, otherwise synthesize one via repeat-with-grace or
// movement-state-aware extrapolation, applying deceleration and freeze on
// extended droughts.
func (p *Predictor) Consume(profile Profile) ConsumeResult {
	if input, ok := p.ring.Pop(); ok {
		p.lastReal = input
		p.predictedTicks = 0
		p.speedScale = 1.0
		return ConsumeResult{Input: input, WasPredicted: false, SpeedScale: 1.0}
	}

	p.predictedTicks++
	predTick := p.lastReal.Tick + p.predictedTicks

	var predicted UserCmd
	if p.predictedTicks <= profile.PredictGraceTicks {
		predicted = p.lastReal
		predicted.Tick = predTick
		predicted.Buttons &^= ButtonJump
	} else {
		switch p.moveState {
		case Grounded:
			predicted = p.lastReal
			predicted.Tick = predTick
			predicted.Buttons &^= ButtonJump
		case Airborne, Falling:
			predicted = UserCmd{
				Tick: predTick, Forward: 0, Side: 0,
				Yaw: p.lastReal.Yaw, Pitch: p.lastReal.Pitch,
				Buttons: 0,
			}
		case Crouchslide:
			predicted = UserCmd{
				Tick: predTick, Forward: 0, Side: 0,
				Yaw: p.lastReal.Yaw, Pitch: p.lastReal.Pitch,
				Buttons: ButtonCrouch,
			}
		}
	}

	if p.predictedTicks >= profile.PredictDecelStart {
		p.speedScale *= float32(1 - profile.PredictDecelRate)
		if p.speedScale < 0 {
			p.speedScale = 0
		}
		if p.speedScale < 0.01 {
			p.speedScale = 0
		}
	}

	if p.predictedTicks >= profile.PredictMaxTicks {
		predicted.Forward = 0
		predicted.Side = 0
		predicted.Buttons = 0
		p.speedScale = 0
	}

	return ConsumeResult{Input: predicted, WasPredicted: true, SpeedScale: p.speedScale}
}

// UpdateJitter applies the EWMA jitter estimate and recomputes the advisory
// adapted buffer depth.
func (p *Predictor) UpdateJitter(sampleMs float64, profile Profile, tickMs float64) {
	p.jitterMs = (1-profile.JitterAdaptRate)*p.jitterMs + profile.JitterAdaptRate*sampleMs
	depth := int(math.Ceil(p.jitterMs/tickMs)) + 1
	if depth < profile.JitterBufMin {
		depth = profile.JitterBufMin
	}
	if depth > profile.JitterBufMax {
		depth = profile.JitterBufMax
	}
	p.adaptedDepth = depth
}

// JitterMs returns the current smoothed jitter estimate.
func (p *Predictor) JitterMs() float64 { return p.jitterMs }

// AdaptedDepth returns the advisory buffer depth.
func (p *Predictor) AdaptedDepth() int { return p.adaptedDepth }
