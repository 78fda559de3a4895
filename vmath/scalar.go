package vmath

import "math"

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to the normalized range [0, 1].
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Mix linearly interpolates between a and b by t.
func Mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep is the cubic Hermite step between edges e0 and e1.
func Smoothstep(e0, e1, x float64) float64 {
	t := Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

// Fract returns the fractional part of x, always in [0, 1).
func Fract(x float64) float64 {
	return x - math.Floor(x)
}

// Approach moves x toward target by an exponential fraction of the gap.
// rate*dt is clamped so a stalled frame cannot overshoot.
func Approach(x, target, rate, dt float64) float64 {
	k := Clamp01(rate * dt)
	return x + (target-x)*k
}

// EaseInOutCubic is a symmetric cubic ease over t in [0, 1].
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// HashUnit maps an integer seed to a deterministic pseudo-random value in [0, 1).
// Wang-style integer hash; the same seed always yields the same value.
func HashUnit(seed uint32) float64 {
	h := seed
	h = (h ^ 61) ^ (h >> 16)
	h = h + (h << 3)
	h = h ^ (h >> 4)
	h = h * 0x27d4eb2d
	h = h ^ (h >> 15)
	return float64(h) / float64(math.MaxUint32)
}
