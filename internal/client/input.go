package client

import (
	"arenacore/internal/predict"
	"arenacore/internal/proto"
	"arenacore/internal/wire"
)

// DefaultInputRedundancy is how many trailing input samples SendInput
// repeats per packet absent an explicit SetInputRedundancy call.
const DefaultInputRedundancy = 2

// SetInputRedundancy overrides how many trailing samples SendInput packs
// per Input message, clamped to [1, proto.MaxInputRecords].
func (s *Session) SetInputRedundancy(n int) {
	if n < 1 {
		n = 1
	}
	if n > proto.MaxInputRecords {
		n = proto.MaxInputRecords
	}
	s.inputRedundancy = n
}

// SendInput appends cmd to the input history, stamps it with the current
// input_tick, and sends an Input message carrying it plus up to
// input_redundancy-1 of the most recent prior samples.
func (s *Session) SendInput(cmd predict.UserCmd) {
	cmd.Tick = s.inputTick
	s.inputHistory[s.inputHead%InputHistoryLen] = cmd
	s.inputHead++
	if s.inputCount < InputHistoryLen {
		s.inputCount++
	}

	redundancy := s.inputRedundancy
	if redundancy == 0 {
		redundancy = DefaultInputRedundancy
	}
	if redundancy > s.inputCount {
		redundancy = s.inputCount
	}

	cmds := make([]predict.UserCmd, redundancy)
	for i := 0; i < redundancy; i++ {
		idx := (s.inputHead - redundancy + i + InputHistoryLen) % InputHistoryLen
		cmds[i] = s.inputHistory[idx]
	}

	w := wire.NewWriter(wire.MaxBits)
	proto.EncodeInputMessage(w, cmds)
	s.sendFramed(wire.MsgInput, w.Bytes())

	s.inputTick++
}
