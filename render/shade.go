package render

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/scene"
	"github.com/jerem-marti/presence-totem/vmath"
)

// Shader converts hit/miss results into RGB, layering the surface lighting
// with the additive glow passes.
type Shader struct {
	light vmath.Vec3
}

// NewShader uses the installation's fixed key light.
func NewShader() Shader {
	return Shader{light: vmath.Vec3{X: -0.45, Y: 0.8, Z: -0.4}.Normalize()}
}

// hsl wraps go-colorful's HSL constructor into the renderer's color vector.
func hsl(h, s, l float64) vmath.Vec3 {
	c := colorful.Hsl(vmath.Fract(h)*360, vmath.Clamp01(s), vmath.Clamp01(l))
	return vmath.Vec3{X: c.R, Y: c.G, Z: c.B}
}

// rayPointDist is the closest approach of the ray (origin, dir) to c,
// used by the glow falloffs.
func rayPointDist(origin, dir, c vmath.Vec3) float64 {
	oc := c.Sub(origin)
	t := math.Max(oc.Dot(dir), 0)
	return oc.Sub(dir.Scale(t)).Length()
}

// Shade composes the final color for one ray. v is the normalized screen
// row in [0,1] top to bottom, used by the background gradient.
func (sh Shader) Shade(hit Hit, origin, dir vmath.Vec3, st *scene.State, scars []scene.Scar, v float64) vmath.Vec3 {
	var col vmath.Vec3

	if hit.OK {
		n := hit.Normal
		diff := math.Max(n.Dot(sh.light), 0) * parameter.DiffuseLevel

		// Blinn-style specular from the fixed light.
		half := sh.light.Sub(dir).Normalize()
		spec := math.Pow(math.Max(n.Dot(half), 0), parameter.SpecularPower) * parameter.SpecularLevel

		hue := st.BaseHue + (hit.Pos.Y*0.5+st.Time*0.03)*parameter.HueDriftScale
		sat := parameter.SaturationBase + parameter.SaturationFocus*st.CoreFocus
		surface := hsl(hue, sat, 0.5)

		col = surface.Scale(parameter.AmbientLevel + diff)
		col = col.Add(vmath.Vec3{X: spec, Y: spec, Z: spec})
	} else {
		// Dark vertical gradient, never pure black, keeps a sense of depth.
		depth := parameter.BackgroundLevel * (0.35 + 0.65*(1-v))
		col = hsl(st.BaseHue+0.04, 0.5, depth)
	}

	col = col.Add(sh.glow(origin, dir, st, scars))

	// Past the midpoint the sync lock bleaches everything toward a crisp
	// white, proportionally.
	if st.SyncLock > 0.5 {
		w := (st.SyncLock - 0.5) * 2
		col = vmath.V3Mix(col, vmath.Vec3{X: 1, Y: 1, Z: 1}, w*0.85)
	}

	return col
}

// glow accumulates the additive layers: core, remote core, shockwave ring,
// flat bloom and the scar highlights.
func (sh Shader) glow(origin, dir vmath.Vec3, st *scene.State, scars []scene.Scar) vmath.Vec3 {
	var g vmath.Vec3

	axis := rayPointDist(origin, dir, vmath.Vec3{})

	if st.CoreEnergy > parameter.FieldEpsilon {
		r := parameter.CoreGlowRadius * st.CoreEnergy
		fall := vmath.Smoothstep(r, 0, axis) * st.CoreEnergy
		g = g.Add(hsl(st.BaseHue+0.08, 0.55, 0.6).Scale(fall * 0.8))
	}

	if st.RemoteCore > parameter.FieldEpsilon {
		c := scene.RemotePath(st.RemoteSeed, st.RemotePhase)
		d := rayPointDist(origin, dir, c)
		fall := vmath.Smoothstep(parameter.RemoteGlowRadius, 0, d) * st.RemoteCore
		// Remote presences glow in the complementary hue.
		g = g.Add(hsl(st.BaseHue+0.45, 0.7, 0.55).Scale(fall * 0.7))
	}

	if st.Shockwave > parameter.FieldEpsilon {
		ring := math.Abs(axis - st.ShockPhase)
		fall := vmath.Smoothstep(parameter.ShockGlowWidth, 0, ring) * st.Shockwave
		g = g.Add(hsl(st.BaseHue, 0.25, 0.75).Scale(fall * 0.6))
	}

	if st.Bloom > parameter.FieldEpsilon {
		g = g.Add(hsl(st.BaseHue+0.05, 0.3, 0.65).Scale(st.Bloom * 0.5))
	}

	for _, sc := range scars {
		fade := sc.Fade()
		if fade <= parameter.FieldEpsilon {
			continue
		}
		d := rayPointDist(origin, dir, scene.ScarPos(sc.Seed))
		fall := vmath.Smoothstep(parameter.ScarGlowRadius, 0, d)
		// Visual echo of the event, tinted warm and separate from the
		// geometric cavity.
		g = g.Add(hsl(st.BaseHue-0.12, 0.8, 0.5).Scale(fall * fade * sc.Energy * 0.45))
	}

	return g
}
