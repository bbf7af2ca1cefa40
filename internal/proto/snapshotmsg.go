package proto

import "arenacore/internal/wire"

// EncodeSnapshotHeader writes the fixed Snapshot header:
// base_tick:u32 | current_tick:u32 | last_input_echo:u32. The delta bytes
// that follow are written separately via snapshot.EncodeDelta.
func EncodeSnapshotHeader(w *wire.Writer, baseTick, currentTick, lastInputEcho uint32) {
	w.WriteU32(baseTick)
	w.WriteU32(currentTick)
	w.WriteU32(lastInputEcho)
}

// DecodeSnapshotHeader mirrors EncodeSnapshotHeader.
func DecodeSnapshotHeader(r *wire.Reader) (baseTick, currentTick, lastInputEcho uint32) {
	return r.ReadU32(), r.ReadU32(), r.ReadU32()
}

// EncodeCommand writes a reliable Command payload:
// data_seq_or_zero:u16 | reliable_ack:u16 | payload.
func EncodeCommand(w *wire.Writer, dataSeqOrZero, reliableAck uint16, payload []byte) {
	w.WriteU16(dataSeqOrZero)
	w.WriteU16(reliableAck)
	w.WriteBytes(payload)
}

// DecodeCommand reads a Command's header; the caller reads the remaining
// `length - 4` payload bytes itself since this package doesn't know the
// enclosing message's declared length.
func DecodeCommand(r *wire.Reader) (dataSeqOrZero, reliableAck uint16) {
	return r.ReadU16(), r.ReadU16()
}
