package render

import (
	"math"

	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/vmath"
)

// Camera is an orbiting look-at camera. The orbit angle follows scene time
// scaled by the state's rotation speed.
type Camera struct {
	Origin  vmath.Vec3
	forward vmath.Vec3
	right   vmath.Vec3
	up      vmath.Vec3
}

// NewCamera places the camera on its orbit for the given angle and builds
// the look-at basis toward the origin.
func NewCamera(angle float64) Camera {
	origin := vmath.Vec3{
		X: math.Cos(angle) * parameter.CameraDistance,
		Y: 0.9 + 0.35*math.Sin(angle*0.7),
		Z: math.Sin(angle) * parameter.CameraDistance,
	}

	forward := vmath.Vec3{}.Sub(origin).Normalize()
	worldUp := vmath.Vec3{Y: 1}
	right := forward.Cross(worldUp).Normalize()
	if right == (vmath.Vec3{}) {
		// Looking straight up or down; pick an arbitrary stable right.
		right = vmath.Vec3{X: 1}
	}
	up := right.Cross(forward)

	return Camera{Origin: origin, forward: forward, right: right, up: up}
}

// RayDir builds the per-pixel ray direction from normalized screen
// coordinates u,v in [-1,1] (v up) and the fixed field-of-view scale.
func (c Camera) RayDir(u, v float64) vmath.Vec3 {
	return c.right.Scale(u).
		Add(c.up.Scale(v)).
		Add(c.forward.Scale(parameter.CameraFOVScale)).
		Normalize()
}
