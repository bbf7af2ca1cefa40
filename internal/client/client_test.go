package client

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"arenacore/internal/gameplay"
	"arenacore/internal/obs"
	"arenacore/internal/predict"
	"arenacore/internal/snapshot"
	"arenacore/internal/server"
	"arenacore/internal/wire"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func newTestClient(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(Config{}, testLogger())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestConnectLocalMirrorsLoopbackShortcut(t *testing.T) {
	srv, err := server.NewSession(server.Config{Port: 0, MaxClientSlots: 4}, gameplay.NewWorld(), testLogger())
	if err != nil {
		t.Fatalf("server.NewSession: %v", err)
	}
	srv.SetMap("arena_one")

	id, clientTransport, err := srv.ConnectLoopback(obs.NewMetrics("test_client_a"))
	if err != nil {
		t.Fatalf("ConnectLoopback: %v", err)
	}

	cl := newTestClient(t)
	cl.ConnectLocal(clientTransport, id, srv.ServerTick())

	if cl.State() != Connected {
		t.Fatalf("state = %v, want Connected", cl.State())
	}
	if !cl.IsMapReady() {
		t.Fatal("expected loopback client to be map-ready immediately")
	}
	if cl.ClientID() != uint8(id) {
		t.Fatalf("ClientID = %d, want %d", cl.ClientID(), id)
	}
}

func TestSendInputRoundTripsToServerPredictor(t *testing.T) {
	srv, err := server.NewSession(server.Config{Port: 0, MaxClientSlots: 4}, gameplay.NewWorld(), testLogger())
	if err != nil {
		t.Fatalf("server.NewSession: %v", err)
	}
	srv.SetMap("arena_one")

	id, clientTransport, err := srv.ConnectLoopback(obs.NewMetrics("test_client_b"))
	if err != nil {
		t.Fatalf("ConnectLoopback: %v", err)
	}

	cl := newTestClient(t)
	cl.ConnectLocal(clientTransport, id, srv.ServerTick())

	cl.SendInput(predict.UserCmd{Forward: 1, Side: 0, Yaw: 45, Buttons: predict.ButtonJump})
	srv.Tick()

	result, ok := srv.GetInput(id)
	if !ok {
		t.Fatal("GetInput reported no client")
	}
	if result.WasPredicted {
		t.Fatal("expected a real input on first consume")
	}
	if result.Input.Buttons&predict.ButtonJump == 0 {
		t.Fatal("expected ButtonJump set")
	}
}

func TestInterpolateBracketsBetweenTwoSnapshots(t *testing.T) {
	cl := newTestClient(t)

	a := snapshot.New(100)
	a.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(0), Health: 100})
	b := snapshot.New(110)
	b.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(10), Health: 90})

	cl.InjectDemoSnapshot(a)
	cl.InjectDemoSnapshot(b)

	out, diag := cl.Interpolate(105.0 / 128.0)
	if !diag.HasResult {
		t.Fatal("expected a result")
	}
	if diag.TwoNewestUsed || diag.SingleUsed {
		t.Fatalf("expected exact bracket, got twoNewest=%v single=%v", diag.TwoNewestUsed, diag.SingleUsed)
	}
	if !out.Entities[1].Active {
		t.Fatal("expected entity 1 active")
	}
	if got := out.Entities[1].PosX; got < 4 || got > 6 {
		t.Fatalf("PosX = %v, want ~5 (midpoint)", got)
	}
	// Health is discrete and must come from B, not interpolated.
	if out.Entities[1].Health != 90 {
		t.Fatalf("Health = %d, want 90 (from B)", out.Entities[1].Health)
	}
}

func TestInterpolateFallsBackToTwoNewestWhenExtrapolating(t *testing.T) {
	cl := newTestClient(t)

	a := snapshot.New(100)
	a.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(0)})
	b := snapshot.New(110)
	b.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(10)})

	cl.InjectDemoSnapshot(a)
	cl.InjectDemoSnapshot(b)

	// Render time past the newest snapshot: no bracketing pair exists, so
	// the two newest snapshots are used, with t clamped to 1 (no
	// extrapolation beyond the newest snapshot).
	out, diag := cl.Interpolate(120.0 / 128.0)
	if !diag.HasResult || !diag.TwoNewestUsed {
		t.Fatalf("expected two-newest fallback, got %+v", diag)
	}
	if got := out.Entities[1].PosX; got < 9 || got > 11 {
		t.Fatalf("PosX = %v, want ~10 (t clamped to 1)", got)
	}
}

func TestInterpolateSingleNewestWhenOnlyOneSnapshot(t *testing.T) {
	cl := newTestClient(t)
	a := snapshot.New(50)
	a.Set(2, snapshot.EntityState{PosX: snapshot.QuantizePos(3)})
	cl.InjectDemoSnapshot(a)

	out, diag := cl.Interpolate(50.0 / 128.0)
	if !diag.HasResult || !diag.SingleUsed {
		t.Fatalf("expected single-newest fallback, got %+v", diag)
	}
	if !out.Entities[2].Active {
		t.Fatal("expected entity 2 active")
	}
}

func TestInterpolateTeleportSkipsLerp(t *testing.T) {
	cl := newTestClient(t)

	a := snapshot.New(100)
	a.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(0)})
	b := snapshot.New(110)
	b.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(1000), Flags: snapshot.FlagTeleported})

	cl.InjectDemoSnapshot(a)
	cl.InjectDemoSnapshot(b)

	out, _ := cl.Interpolate(105.0 / 128.0)
	if got := out.Entities[1].PosX; got != 1000 {
		t.Fatalf("PosX = %v, want 1000 (teleport snaps to B, no lerp)", got)
	}
}

func TestShortestArcLerpWrapsAcrossZero(t *testing.T) {
	got := shortestArcLerp(350, 10, 0.5)
	if got < 359.5 && got > 0.5 {
		t.Fatalf("shortestArcLerp(350, 10, 0.5) = %v, want ~0 (wrapping through 360)", got)
	}
}

func TestHandleSnapshotDropsUnresolvableDelta(t *testing.T) {
	cl := newTestClient(t)

	a := snapshot.New(100)
	a.Set(1, snapshot.EntityState{PosX: snapshot.QuantizePos(5)})
	cl.InjectDemoSnapshot(a)

	if cl.ringCount != 1 {
		t.Fatalf("ringCount = %d, want 1", cl.ringCount)
	}

	// A delta referencing a baseline tick nowhere in the ring or the
	// current baseline must be dropped, leaving ring state untouched.
	before := cl.ringCount
	beforeWrite := cl.ringWrite
	baseline := cl.findInRing(999)
	if baseline != nil {
		t.Fatal("expected no match for an unresolvable baseline tick")
	}
	cl.handleSnapshot(999, 101, 0, wire.NewReader(nil))
	if cl.ringCount != before || cl.ringWrite != beforeWrite {
		t.Fatal("ring state must be unchanged when a baseline cannot be resolved")
	}
}

func TestRTTMillisReportsUnconvergedAsNegativeOne(t *testing.T) {
	cl := newTestClient(t)
	if got := cl.RTTMillis(); got != -1 {
		t.Fatalf("RTTMillis = %d, want -1 before convergence", got)
	}
}

func TestNewSessionRejectsOutOfRangeInterpDelay(t *testing.T) {
	_, err := NewSession(Config{InterpDelay: 1.0}, testLogger())
	if err == nil {
		t.Fatal("expected an error for an out-of-range InterpDelay")
	}
}

func TestRunTimersDisconnectsOnConnectTimeout(t *testing.T) {
	cl := newTestClient(t)
	cl.state = Connecting
	cl.connectStart = time.Now().Add(-2 * ConnectTimeout)
	cl.runTimers()
	if cl.State() != Disconnected {
		t.Fatalf("state = %v, want Disconnected after connect timeout", cl.State())
	}
}
