package sdf

import (
	"math"

	"github.com/jerem-marti/presence-totem/vmath"
)

// Union is the hard union of two distances.
func Union(d1, d2 float64) float64 {
	return math.Min(d1, d2)
}

// Subtraction removes the first shape from the second.
func Subtraction(d1, d2 float64) float64 {
	return math.Max(-d1, d2)
}

// SmoothUnion blends two distances with the polynomial smin.
// k is the blend radius; k<=0 degenerates to the hard union.
// Never returns more than the hard union of the inputs.
func SmoothUnion(d1, d2, k float64) float64 {
	if k <= 0 {
		return math.Min(d1, d2)
	}
	h := vmath.Clamp01(0.5 + 0.5*(d2-d1)/k)
	return vmath.Mix(d2, d1, h) - k*h*(1-h)
}

// SmoothSubtraction removes the first shape from the second with a
// rounded seam. k<=0 degenerates to the hard subtraction.
func SmoothSubtraction(d1, d2, k float64) float64 {
	if k <= 0 {
		return math.Max(-d1, d2)
	}
	h := vmath.Clamp01(0.5 - 0.5*(d2+d1)/k)
	return vmath.Mix(d2, -d1, h) + k*h*(1-h)
}
