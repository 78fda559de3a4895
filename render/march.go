// Package render sphere-traces the composed distance field into a small RGB
// frame: raymarcher, orbiting camera, lighting/glow compositor and ordered
// dithering for the limited-palette matrix output.
package render

import (
	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/vmath"
)

// DistanceFn is the scalar field being traced.
type DistanceFn func(p vmath.Vec3) float64

// Hit is the result of marching one ray. OK is false on a miss; Pos and
// Normal are only meaningful on a hit.
type Hit struct {
	OK     bool
	Pos    vmath.Vec3
	Normal vmath.Vec3
	Dist   float64 // traveled distance along the ray
	Steps  int
}

// March sphere-traces from origin along dir. Each step advances by the
// field's own distance value, which cannot overstep the surface as long as
// the field is a distance bound.
func March(origin, dir vmath.Vec3, fn DistanceFn) Hit {
	traveled := 0.0
	for i := 0; i < parameter.MarchMaxSteps; i++ {
		p := origin.Add(dir.Scale(traveled))
		d := fn(p)
		if d < parameter.SurfaceEpsilon {
			return Hit{
				OK:     true,
				Pos:    p,
				Normal: Normal(p, fn),
				Dist:   traveled,
				Steps:  i,
			}
		}
		traveled += d
		if traveled > parameter.MarchMaxDist {
			break
		}
	}
	return Hit{Dist: traveled}
}

// Normal estimates the surface normal by central finite differences.
func Normal(p vmath.Vec3, fn DistanceFn) vmath.Vec3 {
	const e = parameter.NormalEpsilon
	return vmath.Vec3{
		X: fn(vmath.Vec3{X: p.X + e, Y: p.Y, Z: p.Z}) - fn(vmath.Vec3{X: p.X - e, Y: p.Y, Z: p.Z}),
		Y: fn(vmath.Vec3{X: p.X, Y: p.Y + e, Z: p.Z}) - fn(vmath.Vec3{X: p.X, Y: p.Y - e, Z: p.Z}),
		Z: fn(vmath.Vec3{X: p.X, Y: p.Y, Z: p.Z + e}) - fn(vmath.Vec3{X: p.X, Y: p.Y, Z: p.Z - e}),
	}.Normalize()
}
