// Package ritual implements the gesture protocol: a five-state machine that
// turns hand input into scene parameters, presence events and scars. One
// Machine instance owns one scene.State; Update runs once per tick on the
// driver goroutine and never blocks.
package ritual

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jerem-marti/presence-totem/gesture"
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/scene"
	"github.com/jerem-marti/presence-totem/vmath"
)

// State is the active ritual phase. Exactly one is active at a time.
type State int

const (
	StateIdle State = iota
	StateReady
	StateCharging
	StateRelease
	StateReceiving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateCharging:
		return "charging"
	case StateRelease:
		return "release"
	case StateReceiving:
		return "receiving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Release is a presence event produced by a Release transition, to be
// transmitted to the remote peer. At most one is outstanding; producing a
// second before consumption overwrites the first.
type Release struct {
	Seed   uint32
	Energy float64
}

// ScarEvent asks the driver to record a scar. Returned from Update instead
// of being applied through a callback so the event memory dependency stays
// explicit and testable.
type ScarEvent struct {
	Seed   uint32
	Energy float64
}

// Clock supplies the absolute timestamps used by the cooldown and sync
// window checks. Everything else in the machine is dt-driven.
type Clock interface {
	Now() time.Time
}

// Machine is the ritual state machine.
type Machine struct {
	cfg   parameter.Ritual
	clock Clock
	seed  func() uint32

	st *scene.State

	state  State
	energy float64

	baseWarp     float64
	baseRotSpeed float64

	releaseTimer float64
	receiveTimer float64
	syncTimer    float64

	lastLocalRelease  time.Time
	lastRemoteRelease time.Time

	recvSeed   uint32
	recvEnergy float64

	pending    Release
	hasPending bool
}

// NewMachine builds a machine over st. seedFn draws the random seed for a
// Release event; pass nil for the default source, or a fixed function in
// tests for full determinism.
func NewMachine(cfg parameter.Ritual, st *scene.State, clock Clock, seedFn func() uint32) *Machine {
	if seedFn == nil {
		seedFn = rand.Uint32
	}
	return &Machine{
		cfg:          cfg,
		clock:        clock,
		seed:         seedFn,
		st:           st,
		state:        StateIdle,
		baseWarp:     st.WarpAmount,
		baseRotSpeed: st.RotSpeed,
	}
}

// State reports the active phase.
func (m *Machine) State() State {
	return m.state
}

// Energy reports the accumulated charge, [0,1].
func (m *Machine) Energy() float64 {
	return m.energy
}

// TakeRelease consumes the pending presence event, if any. The event is
// returned exactly once.
func (m *Machine) TakeRelease() (Release, bool) {
	if !m.hasPending {
		return Release{}, false
	}
	m.hasPending = false
	return m.pending, true
}

// ReceiveRemote injects a peer's presence event, immediately preempting the
// current state into Receiving. Must be called on the tick goroutine; the
// driver drains its network mailbox before Update.
func (m *Machine) ReceiveRemote(seed uint32, energy float64) {
	m.recvSeed = seed
	m.recvEnergy = vmath.Clamp01(energy)
	m.receiveTimer = m.cfg.ReceiveDuration
	m.lastRemoteRelease = m.clock.Now()

	m.st.RemoteSeed = seed
	m.st.RemotePhase = 0
	m.st.RemoteCore = 0.4 + 0.6*m.recvEnergy
	m.state = StateReceiving
}

// Update advances the machine by one tick. dt is clamped to the configured
// maximum so a stalled frame cannot jump the animation timers. The returned
// ScarEvent, when ok, is applied to the event memory by the driver.
func (m *Machine) Update(g gesture.Snapshot, dt float64) (ev ScarEvent, ok bool) {
	if dt < 0 {
		dt = 0
	}
	if dt > m.cfg.MaxDt {
		dt = m.cfg.MaxDt
	}

	switch m.state {
	case StateIdle:
		m.updateIdle(g, dt)
	case StateReady:
		m.updateReady(g, dt)
	case StateCharging:
		ev, ok = m.updateCharging(g, dt)
	case StateRelease:
		m.updateRelease(g, dt)
	case StateReceiving:
		ev, ok = m.updateReceiving(g, dt)
	}

	// Breathing runs in every state, faster when energized.
	m.st.Breathe = 0.5 + 0.5*math.Sin(m.st.Time*(0.8+m.energy*1.5))
	m.st.RotSpeed = vmath.Approach(m.st.RotSpeed, m.baseRotSpeed+0.3*m.st.Attention, 2, dt)

	m.decaySync(dt)
	m.st.ClampAll()
	return ev, ok
}

func (m *Machine) updateIdle(g gesture.Snapshot, dt float64) {
	m.energy = vmath.Approach(m.energy, 0, m.cfg.IdleDecay, dt)
	m.st.CoreEnergy = vmath.Approach(m.st.CoreEnergy, 0, 1.5, dt)
	m.st.CoreFocus = vmath.Approach(m.st.CoreFocus, 0, 1.5, dt)
	m.st.Attention = vmath.Approach(m.st.Attention, 0, 2, dt)
	m.st.Bloom = vmath.Approach(m.st.Bloom, 0, 3, dt)
	m.st.Shockwave = vmath.Approach(m.st.Shockwave, 0, 3, dt)
	m.st.WarpAmount = vmath.Approach(m.st.WarpAmount, m.baseWarp, 2, dt)
	m.st.HandDir = vmath.V2Mix(m.st.HandDir, vmath.Vec2{}, vmath.Clamp01(2*dt))

	if g.Present {
		m.state = StateReady
	}
}

func (m *Machine) updateReady(g gesture.Snapshot, dt float64) {
	if !g.Present {
		m.state = StateIdle
		return
	}

	m.trackHand(g, dt)
	m.st.Attention = vmath.Approach(m.st.Attention, 0.85, 3, dt)
	m.st.CoreFocus = vmath.Approach(m.st.CoreFocus, 0.3, 2, dt)
	m.st.CoreEnergy = vmath.Approach(m.st.CoreEnergy, m.energy, 4, dt)
	m.st.Bloom = vmath.Approach(m.st.Bloom, 0, 3, dt)
	m.energy = vmath.Approach(m.energy, 0, m.cfg.ChargeDecay*0.5, dt)
	m.st.WarpAmount = vmath.Approach(m.st.WarpAmount, m.baseWarp+0.2*g.Speed, 3, dt)

	if g.Pinch > m.cfg.PinchChargeThreshold {
		m.state = StateCharging
		// Charging begins on this tick, not the next; a 2.5s hold at
		// ChargeRate 0.4 accumulates the full 1.0.
		m.updateCharging(g, dt)
	}
}

func (m *Machine) updateCharging(g gesture.Snapshot, dt float64) (ScarEvent, bool) {
	if !g.Present {
		m.state = StateIdle
		return ScarEvent{}, false
	}

	m.trackHand(g, dt)
	m.st.Attention = vmath.Approach(m.st.Attention, 1, 4, dt)

	// The release attempt happens before any decay so the event carries
	// the full accumulated value.
	if g.Pinch < m.cfg.PinchReleaseThreshold {
		return m.attemptRelease()
	}

	// Energy accumulates only while the pinch stays above the high
	// threshold; in the hysteresis band it leaks instead.
	if g.Pinch >= m.cfg.PinchChargeThreshold {
		m.energy = math.Min(1, m.energy+m.cfg.ChargeRate*dt)
	} else {
		m.energy = vmath.Approach(m.energy, 0, m.cfg.ChargeDecay, dt)
	}

	m.st.CoreEnergy = vmath.Approach(m.st.CoreEnergy, m.energy, 8, dt)
	m.st.CoreFocus = vmath.Approach(m.st.CoreFocus, m.energy, 6, dt)
	// The surface gets jittery with charge and hand speed.
	m.st.WarpAmount = vmath.Clamp01(m.baseWarp + 0.25*m.energy + 0.3*g.Speed)

	return ScarEvent{}, false
}

// attemptRelease fires a release if both gates hold. Insufficient energy or
// an unelapsed cooldown silently falls back to Ready; the accumulated
// energy is discarded either way, which keeps drip-feeding tiny releases
// impossible.
func (m *Machine) attemptRelease() (ScarEvent, bool) {
	now := m.clock.Now()
	gated := m.energy >= m.cfg.MinReleaseEnergy &&
		now.Sub(m.lastLocalRelease) >= m.cfg.ReleaseCooldown

	if !gated {
		m.energy = 0
		m.state = StateReady
		return ScarEvent{}, false
	}

	seed := m.seed()
	released := m.energy
	m.pending = Release{Seed: seed, Energy: released}
	m.hasPending = true
	m.lastLocalRelease = now
	m.energy = 0

	m.state = StateRelease
	m.releaseTimer = m.cfg.ReleaseDuration

	// Crystallize snap and flash.
	m.st.CoreEnergy = 1
	m.st.Bloom = 1
	m.st.Shockwave = 1
	m.st.ShockPhase = 0

	m.checkSync(now)

	return ScarEvent{Seed: seed, Energy: released}, true
}

func (m *Machine) updateRelease(g gesture.Snapshot, dt float64) {
	m.releaseTimer -= dt
	p := 1 - vmath.Clamp01(m.releaseTimer/m.cfg.ReleaseDuration)

	switch {
	case p < 0.2:
		// Crystallize: snap the core solid and still the surface.
		m.st.CoreEnergy = vmath.Approach(m.st.CoreEnergy, 1, 20, dt)
		m.st.WarpAmount = vmath.Approach(m.st.WarpAmount, 0, 10, dt)
	case p < 0.7:
		// Bloom decay while the shockwave ring expands with progress.
		m.st.Bloom = vmath.Approach(m.st.Bloom, 0, 3, dt)
		m.st.ShockPhase = p * parameter.ShockMaxRadius
		m.st.Shockwave = 1 - vmath.Smoothstep(0.2, 1, p)
	default:
		// Assimilate: settle back down.
		m.st.Bloom = vmath.Approach(m.st.Bloom, 0, 4, dt)
		m.st.ShockPhase = p * parameter.ShockMaxRadius
		m.st.Shockwave = 1 - vmath.Smoothstep(0.2, 1, p)
		m.st.CoreEnergy = vmath.Approach(m.st.CoreEnergy, 0.15, 3, dt)
		m.st.CoreFocus = vmath.Approach(m.st.CoreFocus, 0.2, 3, dt)
		m.st.WarpAmount = vmath.Approach(m.st.WarpAmount, m.baseWarp, 3, dt)
	}

	if m.releaseTimer <= 0 {
		m.st.Shockwave = 0
		if g.Present {
			m.state = StateReady
		} else {
			m.state = StateIdle
		}
	}
}

func (m *Machine) updateReceiving(g gesture.Snapshot, dt float64) (ScarEvent, bool) {
	m.receiveTimer -= dt
	t := 1 - vmath.Clamp01(m.receiveTimer/m.cfg.ReceiveDuration)

	m.st.RemotePhase = vmath.EaseInOutCubic(t)
	if t < 0.85 {
		m.st.RemoteCore = vmath.Approach(m.st.RemoteCore, 0.4+0.6*m.recvEnergy, 6, dt)
	} else {
		// Arrival: the visitor fades into the body with a bloom pulse.
		m.st.RemoteCore = vmath.Approach(m.st.RemoteCore, 0, 8, dt)
		m.st.Bloom = vmath.Approach(m.st.Bloom, 0.7, 10, dt)
	}
	m.st.Attention = vmath.Approach(m.st.Attention, 0.5, 2, dt)
	m.energy = vmath.Approach(m.energy, 0, m.cfg.ChargeDecay, dt)

	if m.receiveTimer <= 0 {
		m.st.RemoteCore = 0
		m.st.RemotePhase = 0
		m.checkSync(m.clock.Now())
		if g.Present {
			m.state = StateReady
		} else {
			m.state = StateIdle
		}
		return ScarEvent{Seed: m.recvSeed, Energy: m.recvEnergy}, true
	}
	return ScarEvent{}, false
}

func (m *Machine) trackHand(g gesture.Snapshot, dt float64) {
	target := vmath.Vec2{
		X: (g.Center.X - 0.5) * 2,
		Y: (0.5 - g.Center.Y) * 2, // screen y points down, lean y points up
	}
	m.st.HandDir = vmath.V2Mix(m.st.HandDir, target, vmath.Clamp01(6*dt))
}

// checkSync triggers the sync lock when the last local release and the last
// remote event fall inside the shared window. Pure local-timestamp check;
// both peers evaluate it independently and reach the same answer.
func (m *Machine) checkSync(now time.Time) {
	if m.lastLocalRelease.IsZero() || m.lastRemoteRelease.IsZero() {
		return
	}
	gap := m.lastLocalRelease.Sub(m.lastRemoteRelease)
	if gap < 0 {
		gap = -gap
	}
	if gap <= m.cfg.SyncWindow {
		m.st.SyncLock = 1
		m.syncTimer = m.cfg.SyncHold
	}
}

// decaySync holds the lock for its configured duration, then lets it decay
// exponentially.
func (m *Machine) decaySync(dt float64) {
	if m.syncTimer > 0 {
		m.syncTimer -= dt
		return
	}
	if m.st.SyncLock > 0 {
		m.st.SyncLock = vmath.Approach(m.st.SyncLock, 0, 1.2, dt)
		if m.st.SyncLock < 1e-3 {
			m.st.SyncLock = 0
		}
	}
}
