package server

import (
	"strconv"
	"time"

	"arenacore/internal/predict"
)

// applyInputs processes one Input message's records (oldest first),
// feeding fresh ones to the slot's predictor and counting late/duplicate
// samples instead of rejecting the packet outright.
func (s *Session) applyInputs(slot *ClientSlot, cmds []predict.UserCmd) {
	now := time.Now()
	if !slot.LastInputArrival.IsZero() {
		sampleMs := float64(now.Sub(slot.LastInputArrival)) / float64(time.Millisecond)
		tickMs := 1000.0 / s.cfg.tickRate()
		slot.Predictor.UpdateJitter(sampleMs, s.profile, tickMs)
		if s.metrics != nil {
			s.metrics.JitterMillis.WithLabelValues(strconv.Itoa(s.slotIndex(slot))).Set(slot.Predictor.JitterMs())
		}
	}
	slot.LastInputArrival = now

	for _, cmd := range cmds {
		if slot.HasLastInput && !newerTick(cmd.Tick, slot.LastInputTick) {
			if cmd.Tick == slot.LastInputTick {
				if s.metrics != nil {
					s.metrics.InputsDup.Inc()
				}
			} else if s.metrics != nil {
				s.metrics.InputsLate.Inc()
			}
			continue
		}
		slot.Predictor.Push(cmd)
		slot.LastInputTick = cmd.Tick
		slot.LastInput = cmd
		slot.HasLastInput = true
	}

	// Implicit snapshot ack: the client has now shown it received every
	// snapshot up through roughly four ticks before its newest input
	// (never below tick 1).
	candidate := uint32(1)
	if slot.LastInputTick > 4 {
		candidate = slot.LastInputTick - 4
	}
	if candidate > slot.LastAckedSnapshotTick {
		slot.LastAckedSnapshotTick = candidate
	}
}

func newerTick(a, b uint32) bool { return a > b }
