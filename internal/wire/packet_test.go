package wire

import "testing"

func TestMoreRecent(t *testing.T) {
	cases := []struct {
		a, b uint16
		want bool
	}{
		{10, 5, true},
		{5, 10, false},
		{0, 65535, true},
		{65535, 0, false},
		{100, 100, false},
	}
	for _, tc := range cases {
		if got := MoreRecent(tc.a, tc.b); got != tc.want {
			t.Errorf("MoreRecent(%d, %d) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestUpdateAckBitfieldFirstPacket(t *testing.T) {
	incoming, bitfield, accepted := UpdateAckBitfield(false, 0, 0, 42)
	if !accepted {
		t.Error("first packet must be accepted")
	}
	if incoming != 42 {
		t.Errorf("incoming = %d, want 42", incoming)
	}
	if bitfield != 0 {
		t.Errorf("bitfield = %d, want 0", bitfield)
	}
}

func TestUpdateAckBitfieldAdvance(t *testing.T) {
	incoming, bitfield, accepted := UpdateAckBitfield(true, 10, 0, 11)
	if !accepted {
		t.Error("expected acceptance")
	}
	if incoming != 11 {
		t.Errorf("incoming = %d, want 11", incoming)
	}
	if bitfield != 1 {
		t.Errorf("bitfield = %d, want 1 (bit 0 set for old incoming)", bitfield)
	}
}

func TestUpdateAckBitfieldLargeGapResets(t *testing.T) {
	incoming, bitfield, accepted := UpdateAckBitfield(true, 10, 0xFFFFFFFF, 200)
	if !accepted {
		t.Error("expected acceptance")
	}
	if incoming != 200 {
		t.Errorf("incoming = %d, want 200", incoming)
	}
	if bitfield != 0 {
		t.Errorf("bitfield = %d, want 0 after gap > 32", bitfield)
	}
}

func TestUpdateAckBitfieldFillsPastSlot(t *testing.T) {
	incoming, bitfield, accepted := UpdateAckBitfield(true, 20, 0, 18)
	if !accepted {
		t.Error("expected acceptance for a within-window late packet")
	}
	if incoming != 20 {
		t.Errorf("incoming should not move backward, got %d", incoming)
	}
	if bitfield != (1 << 1) {
		t.Errorf("bitfield = %d, want bit 1 set", bitfield)
	}
}

func TestUpdateAckBitfieldDropsTooOld(t *testing.T) {
	incoming, _, accepted := UpdateAckBitfield(true, 40, 0, 1)
	if accepted {
		t.Error("packet more than 32 ticks stale must be dropped")
	}
	if incoming != 40 {
		t.Errorf("incoming must not change on a dropped packet, got %d", incoming)
	}
}

func TestUpdateAckBitfieldAroundSequenceWrap(t *testing.T) {
	incoming, bitfield, accepted := UpdateAckBitfield(true, 65535, 0, 0)
	if !accepted {
		t.Error("expected acceptance across the wrap boundary")
	}
	if incoming != 0 {
		t.Errorf("incoming = %d, want 0", incoming)
	}
	if bitfield != 1 {
		t.Errorf("bitfield = %d, want 1", bitfield)
	}
}

func TestPacketHeaderRoundTrip(t *testing.T) {
	h := PacketHeader{Sequence: 1000, Ack: 998, AckBitfield: 0xDEADBEEF}
	w := NewWriter(PacketHeaderBytes * 8)
	h.EncodeTo(w)

	if got := w.BytesWritten(); got != PacketHeaderBytes {
		t.Errorf("header wrote %d bytes, want %d", got, PacketHeaderBytes)
	}

	r := NewReader(w.Bytes())
	got := DecodePacketHeader(r)
	if got != h {
		t.Errorf("decoded header %+v, want %+v", got, h)
	}
}

func TestMessageHeaderRoundTrip(t *testing.T) {
	w := NewWriter(64)
	WriteMessageHeader(w, MsgSnapshot, 137)
	r := NewReader(w.Bytes())
	tp, length := ReadMessageHeader(r)
	if tp != MsgSnapshot {
		t.Errorf("type = %d, want %d", tp, MsgSnapshot)
	}
	if length != 137 {
		t.Errorf("length = %d, want 137", length)
	}
}

func TestSkipUnknownMessagePayload(t *testing.T) {
	w := NewWriter(128)
	WriteMessageHeader(w, MessageType(15), 3)
	w.WriteU8(1)
	w.WriteU8(2)
	w.WriteU8(3)
	WriteNOP(w)

	r := NewReader(w.Bytes())
	tp, length := ReadMessageHeader(r)
	SkipPayload(r, length)
	next, _ := ReadMessageHeader(r)
	if next != MsgNOP {
		t.Errorf("expected NOP after skipping unknown type %d, got %d", tp, next)
	}
}
