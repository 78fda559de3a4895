package scene

import (
	"fmt"
	"math"

	"github.com/jerem-marti/presence-totem/parameter"
	"github.com/jerem-marti/presence-totem/sdf"
	"github.com/jerem-marti/presence-totem/vmath"
)

// Shape selects the base geometry variant. The set is closed; Distance
// switches exhaustively over it.
type Shape int

const (
	ShapeMetaball Shape = iota
	ShapeTorusOrb
	ShapeRoundBoxMorph
)

func (s Shape) String() string {
	switch s {
	case ShapeMetaball:
		return "metaball"
	case ShapeTorusOrb:
		return "torusorb"
	case ShapeRoundBoxMorph:
		return "roundbox"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape maps a config name to a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "metaball":
		return ShapeMetaball, nil
	case "torusorb":
		return ShapeTorusOrb, nil
	case "roundbox":
		return ShapeRoundBoxMorph, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// baseShape evaluates the animated variant geometry at q.
func baseShape(shape Shape, q vmath.Vec3, t float64) float64 {
	k := parameter.ShapeBlendK
	switch shape {
	case ShapeMetaball:
		c1 := vmath.Vec3{
			X: 0.45 * math.Sin(t*0.9),
			Y: 0.35 * math.Sin(t*1.3+1.1),
			Z: 0.45 * math.Cos(t*0.9),
		}
		c2 := c1.Scale(-0.8)
		c3 := vmath.Vec3{Y: 0.5 * math.Sin(t*0.6+2.4)}
		d := sdf.SmoothUnion(sdf.Sphere(q.Sub(c1), 0.55), sdf.Sphere(q.Sub(c2), 0.45), k)
		d = sdf.SmoothUnion(d, sdf.Sphere(q.Sub(c3), 0.38), k)
		// A thin strand keeps the cluster visually connected when the
		// balls drift apart.
		return sdf.SmoothUnion(d, sdf.Segment(q, c1, c2, 0.12), k*0.6)

	case ShapeTorusOrb:
		ring := q.RotateX(0.6 + 0.25*math.Sin(t*0.5)).RotateY(t * 0.4)
		d := sdf.Torus(ring, 0.72, 0.24)
		orb := vmath.Vec3{
			X: 0.72 * math.Cos(t*1.1),
			Y: 0.18 * math.Sin(t*1.7),
			Z: 0.72 * math.Sin(t*1.1),
		}
		return sdf.SmoothUnion(d, sdf.Sphere(q.Sub(orb), 0.3), k)

	case ShapeRoundBoxMorph:
		morph := 0.5 + 0.5*math.Sin(t*0.7)
		rq := q.RotateY(t * 0.35).RotateX(0.4)
		box := sdf.RoundBox(rq, vmath.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, 0.08+0.22*morph)
		cone := sdf.Trapezoid(rq, 0.62, 0.34, 0.55)
		d := vmath.Mix(box, cone, morph)
		return sdf.SmoothUnion(d, sdf.Sphere(q, 0.42), k)
	}
	// Unreachable for valid Shape values.
	return sdf.Sphere(q, 0.7)
}
