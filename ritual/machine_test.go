package ritual

import (
	"math"
	"testing"
	"time"

	"github.com/jerem-marti/presence-totem/gesture"
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/scene"
	"github.com/jerem-marti/presence-totem/vmath"
)

// mockClock is a manually advanced time source.
type mockClock struct {
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Unix(1000, 0)}
}

func (c *mockClock) Now() time.Time          { return c.now }
func (c *mockClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// harness bundles a machine with its scene and clock and applies ticks the
// way the driver does (advance time, update, age/record scars).
type harness struct {
	cfg   parameter.Ritual
	clock *mockClock
	st    *scene.State
	log   *scene.ScarLog
	m     *Machine

	releases []Release
	scars    []ScarEvent
	path     []State
}

func newHarness(seedFn func() uint32) *harness {
	return newHarnessCfg(parameter.DefaultRitual(), seedFn)
}

func newHarnessCfg(cfg parameter.Ritual, seedFn func() uint32) *harness {
	clock := newMockClock()
	st := scene.NewState()
	h := &harness{
		cfg:   cfg,
		clock: clock,
		st:    st,
		log:   scene.NewScarLog(),
		m:     NewMachine(cfg, st, clock, seedFn),
	}
	h.path = append(h.path, h.m.State())
	return h
}

func (h *harness) tick(g gesture.Snapshot, dt float64) {
	h.clock.Advance(time.Duration(dt * float64(time.Second)))
	h.st.Time += dt
	ev, ok := h.m.Update(g, dt)
	h.log.Age(dt)
	if ok {
		h.scars = append(h.scars, ev)
		h.log.Add(scene.Scar{Seed: ev.Seed, Energy: ev.Energy, MaxAge: h.cfg.ScarMaxAge})
	}
	if rel, got := h.m.TakeRelease(); got {
		h.releases = append(h.releases, rel)
	}
	if last := h.path[len(h.path)-1]; last != h.m.State() {
		h.path = append(h.path, h.m.State())
	}
}

func hand(pinch float64) gesture.Snapshot {
	return gesture.Snapshot{
		Present: true,
		Center:  vmath.Vec2{X: 0.5, Y: 0.5},
		Pinch:   pinch,
	}
}

func statesEqual(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEndToEndChargeAndRelease(t *testing.T) {
	h := newHarness(func() uint32 { return 77 })

	h.tick(hand(0), 0.05)
	for i := 0; i < 50; i++ {
		h.tick(hand(0.9), 0.05)
	}
	h.tick(hand(0), 0.05)

	want := []State{StateIdle, StateReady, StateCharging, StateRelease}
	if !statesEqual(h.path, want) {
		t.Fatalf("state path = %v, want %v", h.path, want)
	}

	if len(h.releases) != 1 {
		t.Fatalf("releases = %d, want exactly 1", len(h.releases))
	}
	rel := h.releases[0]
	if rel.Seed != 77 {
		t.Errorf("release seed = %d, want 77", rel.Seed)
	}
	// 50 ticks of 0.05s at ChargeRate 0.4 caps at 1.0.
	if math.Abs(rel.Energy-1.0) > 1e-9 {
		t.Errorf("release energy = %v, want 1.0", rel.Energy)
	}

	if len(h.scars) != 1 || h.scars[0].Seed != 77 || h.scars[0].Energy != rel.Energy {
		t.Errorf("scar events = %+v, want one matching the release", h.scars)
	}

	// Release animation returns to Ready while the hand is present.
	for i := 0; i < 40; i++ {
		h.tick(hand(0), 0.05)
	}
	if h.m.State() != StateReady {
		t.Errorf("post-release state = %v, want ready", h.m.State())
	}
	if h.m.Energy() != 0 {
		t.Errorf("energy after release = %v, want 0", h.m.Energy())
	}
}

func TestReleaseGatedByEnergy(t *testing.T) {
	h := newHarness(func() uint32 { return 1 })

	// Enter Charging but hold the pinch too briefly: accumulated energy
	// stays below MinReleaseEnergy.
	h.tick(hand(0), 0.05)
	for i := 0; i < 10; i++ { // 0.5s * 0.4 = 0.2 energy
		h.tick(hand(0.9), 0.05)
	}
	if h.m.State() != StateCharging {
		t.Fatalf("state = %v, want charging", h.m.State())
	}
	h.tick(hand(0), 0.05)

	if h.m.State() != StateReady {
		t.Errorf("underpowered release should fall back to ready, got %v", h.m.State())
	}
	if len(h.releases) != 0 {
		t.Errorf("no release should fire, got %d", len(h.releases))
	}
	if h.m.Energy() != 0 {
		t.Errorf("failed attempt must discard energy, got %v", h.m.Energy())
	}
}

func TestReleaseGatedByCooldown(t *testing.T) {
	cfg := parameter.DefaultRitual()
	cfg.ReleaseCooldown = time.Minute
	h := newHarnessCfg(cfg, func() uint32 { return 1 })

	charge := func() {
		h.tick(hand(0), 0.05)
		for i := 0; i < 60; i++ {
			h.tick(hand(0.9), 0.05)
		}
		h.tick(hand(0), 0.05)
	}

	charge()
	if len(h.releases) != 1 {
		t.Fatalf("first release should fire, got %d", len(h.releases))
	}

	// Finish the release animation, then immediately recharge: the
	// second attempt lands inside the cooldown window.
	for i := 0; i < 30; i++ {
		h.tick(hand(0), 0.05)
	}
	charge()
	if len(h.releases) != 1 {
		t.Errorf("cooldown should suppress the second release, got %d", len(h.releases))
	}
	if h.m.State() != StateReady {
		t.Errorf("suppressed release falls back to ready, got %v", h.m.State())
	}
}

func TestDeterministicRuns(t *testing.T) {
	run := func() *harness {
		h := newHarness(func() uint32 { return 42 })
		h.tick(gesture.Snapshot{}, 0.05)
		h.tick(hand(0), 0.05)
		for i := 0; i < 55; i++ {
			h.tick(hand(0.95), 0.05)
		}
		h.tick(hand(0.1), 0.05)
		h.m.ReceiveRemote(9, 0.8)
		for i := 0; i < 60; i++ {
			h.tick(hand(0), 0.05)
		}
		return h
	}

	a, b := run(), run()
	if !statesEqual(a.path, b.path) {
		t.Errorf("state paths diverged: %v vs %v", a.path, b.path)
	}
	if len(a.releases) != len(b.releases) {
		t.Fatalf("release counts diverged: %d vs %d", len(a.releases), len(b.releases))
	}
	for i := range a.releases {
		if a.releases[i] != b.releases[i] {
			t.Errorf("release %d diverged: %+v vs %+v", i, a.releases[i], b.releases[i])
		}
	}
	for i := range a.scars {
		if a.scars[i] != b.scars[i] {
			t.Errorf("scar %d diverged: %+v vs %+v", i, a.scars[i], b.scars[i])
		}
	}
	if *a.st != *b.st {
		t.Error("scene states diverged")
	}
}

func TestReceivingCompletesWithScar(t *testing.T) {
	h := newHarness(nil)

	h.m.ReceiveRemote(314, 0.75)
	if h.m.State() != StateReceiving {
		t.Fatalf("receive must preempt into receiving, got %v", h.m.State())
	}
	if h.st.RemoteSeed != 314 {
		t.Errorf("remote seed = %d, want 314", h.st.RemoteSeed)
	}

	phaseWasMonotonic := true
	last := -1.0
	steps := int(h.cfg.ReceiveDuration/0.05) + 2
	for i := 0; i < steps; i++ {
		h.tick(gesture.Snapshot{}, 0.05)
		if h.m.State() != StateReceiving {
			break
		}
		if h.st.RemotePhase < last {
			phaseWasMonotonic = false
		}
		last = h.st.RemotePhase
	}

	if !phaseWasMonotonic {
		t.Error("remote phase must ease monotonically")
	}
	if h.m.State() != StateIdle {
		t.Errorf("no hand after receive completes, want idle, got %v", h.m.State())
	}
	if len(h.scars) != 1 || h.scars[0].Seed != 314 || h.scars[0].Energy != 0.75 {
		t.Errorf("scar events = %+v, want the received event", h.scars)
	}
	if h.st.RemoteCore != 0 {
		t.Errorf("remote core should be cleared, got %v", h.st.RemoteCore)
	}
}

func TestSyncWithinWindow(t *testing.T) {
	h := newHarness(func() uint32 { return 5 })

	// Local release at ~t=0.
	h.tick(hand(0), 0.05)
	for i := 0; i < 60; i++ {
		h.tick(hand(0.9), 0.05)
	}
	h.tick(hand(0), 0.05)
	if len(h.releases) != 1 {
		t.Fatal("setup: local release did not fire")
	}

	// Let the release settle, then idle until t=20.
	for h.clock.now.Sub(time.Unix(1000, 0)) < 20*time.Second {
		h.tick(gesture.Snapshot{}, 0.05)
	}

	h.m.ReceiveRemote(123, 0.9)
	for i := 0; i < 40; i++ {
		h.tick(gesture.Snapshot{}, 0.05)
	}

	if h.st.SyncLock != 1 {
		t.Errorf("sync lock = %v, want 1.0 (events 17s apart, window %v)", h.st.SyncLock, h.cfg.SyncWindow)
	}
}

func TestSyncOutsideWindow(t *testing.T) {
	h := newHarness(func() uint32 { return 5 })

	h.tick(hand(0), 0.05)
	for i := 0; i < 60; i++ {
		h.tick(hand(0.9), 0.05)
	}
	h.tick(hand(0), 0.05)

	// Idle past the window, then receive.
	for h.clock.now.Sub(time.Unix(1000, 0)) < 40*time.Second {
		h.tick(gesture.Snapshot{}, 0.05)
	}

	h.m.ReceiveRemote(123, 0.9)
	for i := 0; i < 40; i++ {
		h.tick(gesture.Snapshot{}, 0.05)
	}

	if h.st.SyncLock != 0 {
		t.Errorf("sync lock = %v, want 0 (events outside window)", h.st.SyncLock)
	}
}

func TestSyncLockDecaysAfterHold(t *testing.T) {
	h := newHarness(func() uint32 { return 5 })
	h.st.SyncLock = 1
	h.m.syncTimer = h.cfg.SyncHold

	held := 0
	for i := 0; i < 400; i++ {
		h.tick(gesture.Snapshot{}, 0.05)
		if h.st.SyncLock == 1 {
			held++
		}
	}
	if held < int(h.cfg.SyncHold/0.05)-2 {
		t.Errorf("lock held for %d ticks, want ~%d", held, int(h.cfg.SyncHold/0.05))
	}
	if h.st.SyncLock != 0 {
		t.Errorf("lock should fully decay, got %v", h.st.SyncLock)
	}
}

func TestPendingReleaseLastWriteWins(t *testing.T) {
	cfg := parameter.DefaultRitual()
	st := scene.NewState()
	clock := newMockClock()
	m := NewMachine(cfg, st, clock, func() uint32 { return 8 })

	m.pending = Release{Seed: 1, Energy: 0.5}
	m.hasPending = true
	m.pending = Release{Seed: 2, Energy: 0.9}

	rel, ok := m.TakeRelease()
	if !ok || rel.Seed != 2 {
		t.Errorf("TakeRelease = %+v %v, want the overwriting event", rel, ok)
	}
	if _, again := m.TakeRelease(); again {
		t.Error("pending release must be consumed exactly once")
	}
}

func TestHandLostNeverFreezes(t *testing.T) {
	h := newHarness(nil)

	// Lose the hand mid-charge.
	h.tick(hand(0), 0.05)
	for i := 0; i < 20; i++ {
		h.tick(hand(0.9), 0.05)
	}
	h.tick(gesture.Snapshot{}, 0.05)
	if h.m.State() != StateIdle {
		t.Errorf("charging with lost hand = %v, want idle", h.m.State())
	}

	// Lose the hand mid-receive: the animation still completes.
	h.m.ReceiveRemote(3, 0.5)
	for i := 0; i < 60; i++ {
		h.tick(gesture.Snapshot{}, 0.05)
	}
	if h.m.State() == StateReceiving {
		t.Error("receiving must not freeze after hand loss")
	}
}

func TestClampUnderHostileInput(t *testing.T) {
	h := newHarness(nil)

	hostile := []gesture.Snapshot{
		{Present: true, Center: vmath.Vec2{X: -5, Y: 99}, Speed: 1e6, Pinch: 42},
		{Present: true, Center: vmath.Vec2{X: 2, Y: -2}, Speed: -3, Pinch: -1},
		{},
		{Present: true, Pinch: math.Inf(1)},
	}
	dts := []float64{0.05, 5.0, -1.0, 0.001}

	for _, g := range hostile {
		for _, dt := range dts {
			h.tick(g, dt)
			assertClamped(t, h.st)
		}
	}
}

func assertClamped(t *testing.T, st *scene.State) {
	t.Helper()
	fields := map[string]float64{
		"RotSpeed": st.RotSpeed, "WarpAmount": st.WarpAmount,
		"Breathe": st.Breathe, "Attention": st.Attention,
		"CoreEnergy": st.CoreEnergy, "CoreFocus": st.CoreFocus,
		"Shockwave": st.Shockwave, "Bloom": st.Bloom,
		"RemoteCore": st.RemoteCore, "RemotePhase": st.RemotePhase,
		"SyncLock": st.SyncLock, "DitherAmount": st.DitherAmount,
		"BaseHue": st.BaseHue,
	}
	for name, v := range fields {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Errorf("%s = %v violates [0,1]", name, v)
		}
	}
}

func TestDtClamp(t *testing.T) {
	h := newHarness(nil)
	h.tick(hand(0), 0.05)
	h.tick(hand(0.9), 0.05)

	before := h.m.Energy()
	// A 10 second stall counts as at most MaxDt of charging.
	h.tick(hand(0.9), 10.0)
	gained := h.m.Energy() - before
	maxGain := h.cfg.ChargeRate*h.cfg.MaxDt + 1e-9
	if gained > maxGain {
		t.Errorf("stall tick gained %v energy, want <= %v", gained, maxGain)
	}
}
