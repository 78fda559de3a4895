// Package gesture defines the hand input contract and the sources that
// fulfill it. The actual landmark extraction happens in an external
// collaborator (the browser-side tracker); this package only receives its
// per-tick summaries.
package gesture

import "github.com/jerem-marti/presence-totem/vmath"

// Snapshot is one tick's worth of gesture input. When Present is false the
// other fields are stale and the consumer decays gracefully instead of
// reading them as exact zeros.
type Snapshot struct {
	Present bool
	Center  vmath.Vec2 // hand position in [0,1]², origin top-left
	Speed   float64    // normalized hand speed, [0,1]
	Pinch   float64    // pinch closure, [0,1]
}

// Provider supplies one snapshot per tick. Sample must never block.
type Provider interface {
	Sample() Snapshot
}

// None is a provider with no hand ever present.
type None struct{}

func (None) Sample() Snapshot { return Snapshot{} }
