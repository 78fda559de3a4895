package scene

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/sdf"
	"github.com/jerem-marti/presence-totem/vmath"
)

// Composer assembles the primitives plus every time- and state-varying
// modifier into one scalar distance function. It is stateless apart from
// the shape selection and the noise table; the per-frame inputs arrive as
// (point, state, scars).
type Composer struct {
	shape Shape
	noise opensimplex.Noise
}

// NewComposer builds a composer for the given variant. The noise seed only
// changes the flavor of the organic wobble, not any protocol-visible value.
func NewComposer(shape Shape, noiseSeed int64) *Composer {
	return &Composer{
		shape: shape,
		noise: opensimplex.NewNormalized(noiseSeed),
	}
}

// Shape reports the selected base variant.
func (c *Composer) Shape() Shape {
	return c.shape
}

// Distance evaluates the composed field at p for the given state and scars.
//
// Order matters: warp and lean act on the sample point, breathing scales
// the domain (and rescales the resulting distance, required for correct
// sphere tracing), then the core cavity, shockwave ring, sync morph, scar
// cavities and the remote core act on the distance value. The core cavity
// and everything after it are evaluated in unwarped space so they feel
// anchored inside the body regardless of surface wobble.
func (c *Composer) Distance(p vmath.Vec3, st *State, scars []Scar) float64 {
	t := st.Time
	q := p

	// Domain warp: sines of the other two axes plus a drifting simplex
	// layer. Amplitudes stay small enough that the field remains close to
	// a true distance bound.
	if w := st.WarpAmount; w > parameter.FieldEpsilon {
		sa := w * parameter.WarpSineAmp
		q.X += sa * math.Sin(p.Y*parameter.WarpFrequency+t*1.7)
		q.Y += sa * math.Sin(p.Z*parameter.WarpFrequency+t*1.3)
		q.Z += sa * math.Sin(p.X*parameter.WarpFrequency+t*1.1)

		n := c.noise.Eval3(
			p.X*parameter.WarpNoiseFreq,
			p.Y*parameter.WarpNoiseFreq,
			p.Z*parameter.WarpNoiseFreq+t*parameter.WarpNoiseDrift,
		)
		q = q.Add(p.Normalize().Scale((n - 0.5) * 2 * w * parameter.WarpNoiseAmp))
	}

	// Attention lean: pull the body toward the hand.
	q.X -= st.HandDir.X * st.Attention * parameter.LeanFactor
	q.Y -= st.HandDir.Y * st.Attention * parameter.LeanFactor

	// Breathing: uniform domain scale. Sampling at q*s shrinks the
	// silhouette by 1/s; dividing the distance by s restores the metric.
	s := 1 + st.Breathe*parameter.BreatheAmplitude
	d := baseShape(c.shape, q.Scale(s), t) / s

	// Core cavity, anchored in unwarped space.
	if st.CoreEnergy > parameter.FieldEpsilon {
		cavity := sdf.Sphere(p, parameter.CoreCavityMax*st.CoreEnergy)
		d = sdf.SmoothSubtraction(cavity, d, parameter.CoreCavityBlendK)
	}

	// Shockwave: a thin spherical shell expanding with ShockPhase.
	if st.Shockwave > parameter.FieldEpsilon {
		shell := math.Abs(p.Length()-st.ShockPhase) - parameter.ShockThickness*st.Shockwave
		d = sdf.SmoothSubtraction(shell, d, parameter.ShockBlendK)
	}

	// Sync lock: morph the whole field toward the canonical torus.
	if st.SyncLock > parameter.FieldEpsilon {
		perfect := sdf.Torus(p.RotateX(0.55), parameter.SyncTorusMajor, parameter.SyncTorusMinor)
		d = vmath.Mix(d, perfect, st.SyncLock)
	}

	// Scar cavities, each weighted by its remaining fade.
	for _, sc := range scars {
		fade := sc.Fade()
		if fade <= parameter.FieldEpsilon {
			continue
		}
		r := parameter.ScarCavityBase + parameter.ScarCavityScale*sc.Energy*fade
		cavity := sdf.Sphere(p.Sub(ScarPos(sc.Seed)), r)
		d = vmath.Mix(d, sdf.SmoothSubtraction(cavity, d, parameter.ScarBlendK), fade)
	}

	// Remote core: fuse in the incoming sphere along its seeded path.
	if st.RemoteCore > parameter.FieldEpsilon {
		r := parameter.RemoteCoreRadiusBase + (parameter.RemoteCoreRadiusMax-parameter.RemoteCoreRadiusBase)*st.RemoteCore
		orb := sdf.Sphere(p.Sub(RemotePath(st.RemoteSeed, st.RemotePhase)), r)
		d = sdf.SmoothUnion(d, orb, parameter.RemoteBlendK)
	}

	return d
}

// RemotePath is the seed-deterministic approach path of an incoming remote
// core, parameterized by phase in [0,1]: phase 0 is far outside the body,
// phase 1 is the center. The same seed always produces the same path.
func RemotePath(seed uint32, phase float64) vmath.Vec3 {
	phase = vmath.Clamp01(phase)
	azimuth := vmath.HashUnit(seed) * 2 * math.Pi
	elevation := (vmath.HashUnit(seed^0x9e3779b9) - 0.5) * 1.2
	// Slight seeded spiral so arrivals do not all track straight lines.
	azimuth += phase * (vmath.HashUnit(seed^0x85ebca6b) - 0.5) * 1.6

	ce := math.Cos(elevation)
	dir := vmath.Vec3{
		X: math.Cos(azimuth) * ce,
		Y: math.Sin(elevation),
		Z: math.Sin(azimuth) * ce,
	}
	return dir.Scale(parameter.RemoteApproachRadius * (1 - phase))
}

// ScarPos maps a scar seed to its fixed anchor just under the body surface.
func ScarPos(seed uint32) vmath.Vec3 {
	azimuth := vmath.HashUnit(seed^0xc2b2ae35) * 2 * math.Pi
	elevation := (vmath.HashUnit(seed^0x27d4eb2f) - 0.5) * math.Pi * 0.8
	ce := math.Cos(elevation)
	return vmath.Vec3{
		X: math.Cos(azimuth) * ce,
		Y: math.Sin(elevation),
		Z: math.Sin(azimuth) * ce,
	}.Scale(parameter.ScarShellRadius)
}
