package wire

import (
	"testing"
	"time"
)

func TestReliableChannelSendBlocksUntilAcked(t *testing.T) {
	c := NewReliableChannel()
	if ok := c.Send([]byte("hello")); !ok {
		t.Fatal("first send should succeed")
	}
	if ok := c.Send([]byte("world")); ok {
		t.Error("second send while unacked should fail silently")
	}
	c.OnAck(c.PendingSequenceOrZero())
	if ok := c.Send([]byte("world")); !ok {
		t.Error("send after ack should succeed")
	}
}

func TestReliableChannelRetransmitTiming(t *testing.T) {
	c := NewReliableChannel()
	c.Send([]byte("payload"))

	now := time.Now()
	if !c.ShouldRetransmit(now) {
		t.Error("never-sent message should be due for (initial) transmit")
	}
	c.MarkSent(now)
	if c.ShouldRetransmit(now.Add(50 * time.Millisecond)) {
		t.Error("should not retransmit before the timer elapses")
	}
	if !c.ShouldRetransmit(now.Add(ReliableRetransmit)) {
		t.Error("should retransmit once the timer elapses")
	}
}

func TestReliableChannelOnReceiveAckOnlyIsIgnored(t *testing.T) {
	c := NewReliableChannel()
	payload, fresh := c.OnReceive(0, []byte("x"))
	if fresh || payload != nil {
		t.Error("ack-only command (seq=0) must not surface a payload")
	}
}

func TestReliableChannelOnReceiveDuplicateSuppressed(t *testing.T) {
	c := NewReliableChannel()
	payload, fresh := c.OnReceive(5, []byte("first"))
	if !fresh || string(payload) != "first" {
		t.Fatalf("expected fresh payload 'first', got %q fresh=%v", payload, fresh)
	}
	payload, fresh = c.OnReceive(5, []byte("first"))
	if fresh || payload != nil {
		t.Error("duplicate sequence must be suppressed")
	}
	payload, fresh = c.OnReceive(4, []byte("stale"))
	if fresh || payload != nil {
		t.Error("older sequence must be suppressed")
	}
	payload, fresh = c.OnReceive(6, []byte("second"))
	if !fresh || string(payload) != "second" {
		t.Errorf("expected fresh payload 'second', got %q fresh=%v", payload, fresh)
	}
}
