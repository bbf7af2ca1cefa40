package wire

import "time"

// MaxReliablePayload bounds the single unacked buffer a reliable channel
// may hold in flight.
const MaxReliablePayload = 4096

// ReliableRetransmit is the stop-and-wait retransmit timer.
const ReliableRetransmit = 200 * time.Millisecond

// ReliableChannel implements the stop-and-wait reliable channel: at most one
// unacked message in flight per peer, retransmitted on a fixed timer, with
// duplicate suppression by sequence comparison against the peer's last
// acknowledged sequence.
type ReliableChannel struct {
	outgoingSeq uint16
	reliableAck uint16

	unacked      [MaxReliablePayload]byte
	unackedLen   int
	hasUnacked   bool
	lastSendTime time.Time
}

// NewReliableChannel returns a channel with no message in flight.
func NewReliableChannel() *ReliableChannel {
	return &ReliableChannel{}
}

// Send queues data for reliable delivery. It fails silently (returns false)
// when a message is already unacked; the caller is expected to re-queue at
// the application layer.
func (c *ReliableChannel) Send(data []byte) bool {
	if c.hasUnacked {
		return false
	}
	if len(data) > MaxReliablePayload {
		data = data[:MaxReliablePayload]
	}
	c.outgoingSeq++
	copy(c.unacked[:], data)
	c.unackedLen = len(data)
	c.hasUnacked = true
	c.lastSendTime = time.Time{}
	return true
}

// ShouldRetransmit reports whether the unacked message is due for resend:
// there is one in flight and it was never sent, or at least
// ReliableRetransmit has elapsed since the last send.
func (c *ReliableChannel) ShouldRetransmit(now time.Time) bool {
	if !c.hasUnacked {
		return false
	}
	if c.lastSendTime.IsZero() {
		return true
	}
	return now.Sub(c.lastSendTime) >= ReliableRetransmit
}

// MarkSent records the send time of the in-flight message, used by the
// caller immediately after writing the Command message carrying it.
func (c *ReliableChannel) MarkSent(now time.Time) {
	c.lastSendTime = now
}

// PendingSequenceOrZero returns the sequence of the in-flight unacked
// message, or 0 ("ack-only") when nothing is pending.
func (c *ReliableChannel) PendingSequenceOrZero() uint16 {
	if !c.hasUnacked {
		return 0
	}
	return c.outgoingSeq
}

// PendingPayload returns the in-flight payload, or nil if none is pending.
func (c *ReliableChannel) PendingPayload() []byte {
	if !c.hasUnacked {
		return nil
	}
	return c.unacked[:c.unackedLen]
}

// ReliableAck returns the sequence to echo to the peer as reliable_ack.
func (c *ReliableChannel) ReliableAck() uint16 { return c.reliableAck }

// OnAck clears the in-flight message when peerAck matches the pending
// sequence.
func (c *ReliableChannel) OnAck(peerAck uint16) {
	if c.hasUnacked && peerAck == c.outgoingSeq {
		c.hasUnacked = false
		c.unackedLen = 0
	}
}

// OnReceive processes an incoming Command's (dataSeqOrZero, payload). It
// returns the payload and true when it carries a fresh, in-order message;
// it returns (nil, false) for an ack-only Command or a duplicate.
func (c *ReliableChannel) OnReceive(dataSeqOrZero uint16, payload []byte) ([]byte, bool) {
	if dataSeqOrZero == 0 {
		return nil, false
	}
	if MoreRecent(dataSeqOrZero, c.reliableAck) {
		c.reliableAck = dataSeqOrZero
		return payload, true
	}
	return nil, false
}
