package vmath

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalizeZeroVector(t *testing.T) {
	v := Vec3{}.Normalize()
	if v != (Vec3{}) {
		t.Errorf("zero vector normalize = %v, want zero", v)
	}
	v2 := Vec2{}.Normalize()
	if v2 != (Vec2{}) {
		t.Errorf("zero Vec2 normalize = %v, want zero", v2)
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	v := Vec3{3, -4, 12}.Normalize()
	if math.Abs(v.Length()-1) > eps {
		t.Errorf("normalized length = %v, want 1", v.Length())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{3, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}
	for _, tc := range tests {
		if got := Clamp(tc.x, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.x, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestSmoothstepEdges(t *testing.T) {
	if Smoothstep(0, 1, -1) != 0 {
		t.Error("below edge should be 0")
	}
	if Smoothstep(0, 1, 2) != 1 {
		t.Error("above edge should be 1")
	}
	if math.Abs(Smoothstep(0, 1, 0.5)-0.5) > eps {
		t.Error("midpoint should be 0.5")
	}
}

func TestEaseInOutCubic(t *testing.T) {
	if EaseInOutCubic(0) != 0 || EaseInOutCubic(1) != 1 {
		t.Error("ease endpoints must be exact")
	}
	if math.Abs(EaseInOutCubic(0.5)-0.5) > eps {
		t.Error("ease midpoint should be 0.5")
	}
	// Symmetry: ease(t) + ease(1-t) == 1
	for _, v := range []float64{0.1, 0.25, 0.4} {
		if math.Abs(EaseInOutCubic(v)+EaseInOutCubic(1-v)-1) > eps {
			t.Errorf("ease not symmetric at t=%v", v)
		}
	}
}

func TestApproachConverges(t *testing.T) {
	x := 0.0
	for i := 0; i < 200; i++ {
		x = Approach(x, 1, 5, 0.016)
	}
	if math.Abs(x-1) > 1e-3 {
		t.Errorf("approach did not converge, x=%v", x)
	}
	// Huge rate*dt must not overshoot
	if got := Approach(0, 1, 100, 1); got != 1 {
		t.Errorf("overshoot: %v", got)
	}
}

func TestHashUnitDeterministicAndBounded(t *testing.T) {
	for _, seed := range []uint32{0, 1, 42, 0xdeadbeef} {
		a := HashUnit(seed)
		b := HashUnit(seed)
		if a != b {
			t.Errorf("HashUnit(%d) not deterministic", seed)
		}
		if a < 0 || a >= 1 {
			t.Errorf("HashUnit(%d) = %v out of [0,1)", seed, a)
		}
	}
	if HashUnit(1) == HashUnit(2) {
		t.Error("adjacent seeds should not collide")
	}
}

func TestRotateYPreservesLength(t *testing.T) {
	v := Vec3{1, 2, 3}
	r := v.RotateY(1.3)
	if math.Abs(r.Length()-v.Length()) > eps {
		t.Error("rotation must preserve length")
	}
	if math.Abs(r.Y-v.Y) > eps {
		t.Error("Y rotation must preserve Y")
	}
}
