// Package sdf provides analytic signed distance functions and the smooth
// boolean combinators used to compose the totem's geometry. Distances are
// negative inside a surface, positive outside, and keep |∇d|≈1 so the
// raymarcher can use them directly as safe step sizes.
package sdf

import (
	"math"

	"github.com/jerem-marti/presence-totem/vmath"
)

// Sphere is the distance to a sphere of radius r centered at the origin.
func Sphere(p vmath.Vec3, r float64) float64 {
	return p.Length() - r
}

// Torus is the distance to a torus in the XZ plane with major radius
// major and tube radius minor.
func Torus(p vmath.Vec3, major, minor float64) float64 {
	qx := math.Hypot(p.X, p.Z) - major
	return math.Hypot(qx, p.Y) - minor
}

// Box is the distance to an axis-aligned box with half extents b.
func Box(p vmath.Vec3, b vmath.Vec3) float64 {
	q := p.Abs().Sub(b)
	outside := q.Max(0).Length()
	inside := math.Min(q.MaxComp(), 0)
	return outside + inside
}

// RoundBox is a box with edges rounded by radius r.
func RoundBox(p vmath.Vec3, b vmath.Vec3, r float64) float64 {
	return Box(p, b) - r
}

// Segment is the distance to a capsule of radius r around the segment ab.
func Segment(p, a, b vmath.Vec3, r float64) float64 {
	pa := p.Sub(a)
	ba := b.Sub(a)
	h := vmath.Clamp01(pa.Dot(ba) / ba.LengthSq())
	return pa.Sub(ba.Scale(h)).Length() - r
}

// Trapezoid is a capped cone along Y: radius r1 at y=-h, r2 at y=+h.
func Trapezoid(p vmath.Vec3, r1, r2, h float64) float64 {
	q := vmath.Vec2{X: math.Hypot(p.X, p.Z), Y: p.Y}
	k1 := vmath.Vec2{X: r2, Y: h}
	k2 := vmath.Vec2{X: r2 - r1, Y: 2 * h}

	capR := r2
	if q.Y < 0 {
		capR = r1
	}
	ca := vmath.Vec2{X: q.X - math.Min(q.X, capR), Y: math.Abs(q.Y) - h}
	t := vmath.Clamp01(k1.Sub(q).Dot(k2) / k2.Dot(k2))
	cb := q.Sub(k1).Add(k2.Scale(t))

	s := 1.0
	if cb.X < 0 && ca.Y < 0 {
		s = -1.0
	}
	return s * math.Sqrt(math.Min(ca.Dot(ca), cb.Dot(cb)))
}
