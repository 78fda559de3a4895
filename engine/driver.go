package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/jerem-marti/presence-totem/gesture"
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/render"
	"github.com/jerem-marti/presence-totem/ritual"
	"github.com/jerem-marti/presence-totem/scene"
)

// FrameSink receives the completed frame once per tick. Push must not
// retain the frame past its return; the driver hands every sink a stable
// copy and reuses its own working buffer.
type FrameSink interface {
	Push(f *render.Frame) error
}

// Sender transmits a local presence event to the remote peer.
type Sender interface {
	SendPresence(seed uint32, energy float64) error
}

// Recorder persists ritual milestones. All methods are best effort; errors
// are logged at the driver boundary and never stop the loop.
type Recorder interface {
	RecordRelease(seed uint32, energy float64)
	RecordReceive(seed uint32, energy float64)
	RecordSync()
}

// Cue plays audio feedback for ritual milestones.
type Cue interface {
	Release()
	Receive()
	Sync()
}

// remoteEvent is a peer presence event queued for the tick goroutine.
type remoteEvent struct {
	seed   uint32
	energy float64
}

// Driver owns the per-tick sequence: drain remote events, sample the
// gesture, update the ritual, render, hand off the frame. Ticks are
// strictly serialized; the scene state has a single writer and a single
// reader inside each tick.
type Driver struct {
	clock    Clock
	provider gesture.Provider
	machine  *ritual.Machine
	st       *scene.State
	scars    *scene.ScarLog
	renderer *render.Renderer

	sinks    []FrameSink
	sender   Sender
	recorder Recorder
	cue      Cue

	scarMaxAge float64
	maxDt      float64

	// mailbox decouples asynchronous network arrivals from the tick loop.
	mailbox chan remoteEvent

	work *render.Frame
	out  *render.Frame

	wasSynced bool
}

// Options configures optional driver collaborators. Nil fields are skipped.
type Options struct {
	Sender   Sender
	Recorder Recorder
	Cue      Cue
}

// NewDriver wires the core tick pipeline.
func NewDriver(
	clock Clock,
	provider gesture.Provider,
	machine *ritual.Machine,
	st *scene.State,
	scars *scene.ScarLog,
	renderer *render.Renderer,
	sinks []FrameSink,
	opt Options,
) *Driver {
	return &Driver{
		clock:      clock,
		provider:   provider,
		machine:    machine,
		st:         st,
		scars:      scars,
		renderer:   renderer,
		sinks:      sinks,
		sender:     opt.Sender,
		recorder:   opt.Recorder,
		cue:        opt.Cue,
		scarMaxAge: parameter.DefaultRitual().ScarMaxAge,
		maxDt:      parameter.DefaultRitual().MaxDt,
		mailbox:    make(chan remoteEvent, 16),
		work:       render.NewFrame(parameter.FrameWidth, parameter.FrameHeight),
		out:        render.NewFrame(parameter.FrameWidth, parameter.FrameHeight),
	}
}

// SetScarMaxAge overrides the lifetime of newly recorded scars.
func (d *Driver) SetScarMaxAge(seconds float64) {
	d.scarMaxAge = seconds
}

// EnqueueRemote queues a peer presence event. Safe to call from any
// goroutine; a full mailbox drops the oldest pending event rather than
// blocking the caller.
func (d *Driver) EnqueueRemote(seed uint32, energy float64) {
	ev := remoteEvent{seed: seed, energy: energy}
	for {
		select {
		case d.mailbox <- ev:
			return
		default:
			select {
			case <-d.mailbox:
			default:
			}
		}
	}
}

// Run ticks at the given rate until the context is canceled.
func (d *Driver) Run(ctx context.Context, tickRate time.Duration) {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	last := d.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := d.clock.Now()
			d.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick advances the system by dt seconds: the full gesture → ritual →
// render → handoff sequence. Exported so tests and the offline tools can
// drive the loop directly.
func (d *Driver) Tick(dt float64) {
	// Remote events first, so a preemption lands before this tick's
	// update.
	for drained := false; !drained; {
		select {
		case ev := <-d.mailbox:
			d.machine.ReceiveRemote(ev.seed, ev.energy)
			if d.recorder != nil {
				d.recorder.RecordReceive(ev.seed, ev.energy)
			}
			if d.cue != nil {
				d.cue.Receive()
			}
		default:
			drained = true
		}
	}

	if dt < 0 {
		dt = 0
	}
	if dt > d.maxDt {
		dt = d.maxDt
	}
	d.st.Time += dt

	g := d.provider.Sample()

	syncBefore := d.st.SyncLock
	if ev, ok := d.machine.Update(g, dt); ok {
		d.scars.Add(scene.Scar{Seed: ev.Seed, Energy: ev.Energy, MaxAge: d.scarMaxAge})
	}
	d.scars.Age(dt)

	if rel, ok := d.machine.TakeRelease(); ok {
		if d.sender != nil {
			if err := d.sender.SendPresence(rel.Seed, rel.Energy); err != nil {
				slog.Warn("presence send failed", "err", err)
			}
		}
		if d.recorder != nil {
			d.recorder.RecordRelease(rel.Seed, rel.Energy)
		}
		if d.cue != nil {
			d.cue.Release()
		}
	}

	if syncBefore < 1 && d.st.SyncLock == 1 && !d.wasSynced {
		d.wasSynced = true
		if d.recorder != nil {
			d.recorder.RecordSync()
		}
		if d.cue != nil {
			d.cue.Sync()
		}
	} else if d.st.SyncLock == 0 {
		d.wasSynced = false
	}

	d.renderer.Render(d.st, d.scars.Live(), d.work)

	// Sinks get a stable copy so a slow consumer can never observe a
	// torn frame while the next tick renders.
	d.work.CopyInto(d.out)
	for _, s := range d.sinks {
		if err := s.Push(d.out); err != nil {
			slog.Warn("frame sink rejected frame", "err", err)
		}
	}
}
