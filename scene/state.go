// Package scene holds the shared visual state mutated by the ritual machine
// and read by the renderer, plus the distance-field composition of the totem
// geometry. Within a tick the state has a single writer (ritual) and a single
// reader (render); ticks are strictly serialized so no locking is needed.
package scene

import "github.com/jerem-marti/presence-totem/vmath"

// State is the full set of parameters the renderer reads each frame.
// All normalized fields are clamped back into [0,1] at the end of every
// update tick; ClampAll enforces that invariant.
type State struct {
	Time float64 // monotonic seconds, advanced by the driver

	RotSpeed   float64 // camera orbit speed, [0,1]
	WarpAmount float64 // domain warp strength, [0,1]
	Breathe    float64 // breathing scale phase, [0,1]

	HandDir   vmath.Vec2 // attention lean direction, roughly [-1,1]²
	Attention float64    // how strongly the blob leans toward the hand, [0,1]

	CoreEnergy float64 // inner cavity size, [0,1]
	CoreFocus  float64 // saturation boost, [0,1]

	Shockwave  float64 // expanding ring strength, [0,1]
	ShockPhase float64 // ring radius phase, radians-like scalar

	Bloom float64 // flat additive flash, [0,1]

	RemoteCore  float64 // incoming peer sphere strength, [0,1]
	RemoteSeed  uint32  // peer event seed, fixes the approach path
	RemotePhase float64 // approach progress, [0,1]

	SyncLock float64 // morph toward the shared torus, [0,1]

	DitherAmount float64 // ordered dither strength, [0,1]
	BaseHue      float64 // palette hue, [0,1] wrapping
}

// NewState returns the documented startup defaults.
func NewState() *State {
	return &State{
		RotSpeed:     0.25,
		WarpAmount:   0.12,
		Breathe:      0,
		DitherAmount: 0.35,
		BaseHue:      0.58,
	}
}

// ClampAll forces every normalized field back into its documented range.
// Accumulated floating point drift is corrected silently, never reported.
func (s *State) ClampAll() {
	s.RotSpeed = vmath.Clamp01(s.RotSpeed)
	s.WarpAmount = vmath.Clamp01(s.WarpAmount)
	s.Breathe = vmath.Clamp01(s.Breathe)
	s.Attention = vmath.Clamp01(s.Attention)
	s.CoreEnergy = vmath.Clamp01(s.CoreEnergy)
	s.CoreFocus = vmath.Clamp01(s.CoreFocus)
	s.Shockwave = vmath.Clamp01(s.Shockwave)
	s.Bloom = vmath.Clamp01(s.Bloom)
	s.RemoteCore = vmath.Clamp01(s.RemoteCore)
	s.RemotePhase = vmath.Clamp01(s.RemotePhase)
	s.SyncLock = vmath.Clamp01(s.SyncLock)
	s.DitherAmount = vmath.Clamp01(s.DitherAmount)
	s.BaseHue = vmath.Fract(s.BaseHue)
	s.HandDir.X = vmath.Clamp(s.HandDir.X, -1, 1)
	s.HandDir.Y = vmath.Clamp(s.HandDir.Y, -1, 1)
}
