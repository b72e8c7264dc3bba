package core

import (
	"testing"

	"github.com/chewxy/math32"
)

func vecNear(a, b Vec3, tolerance float32) bool {
	return math32.Abs(a.X-b.X) <= tolerance &&
		math32.Abs(a.Y-b.Y) <= tolerance &&
		math32.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"divide", b.Divide(2), NewVec3(2, -2.5, 3)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"clamp", NewVec3(-1, 0.5, 2).Clamp(0, 1), NewVec3(0, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestVec3_Magnitude(t *testing.T) {
	v := NewVec3(3, 4, 12)
	if v.Magnitude() != 13 {
		t.Errorf("Expected magnitude 13, got %f", v.Magnitude())
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(0, 3, 4).Normalize()
	if !vecNear(n, NewVec3(0, 0.6, 0.8), 1e-6) {
		t.Errorf("Expected (0, 0.6, 0.8), got %v", n)
	}
	if math32.Abs(n.Magnitude()-1) > 1e-6 {
		t.Errorf("Expected unit length, got %f", n.Magnitude())
	}
}

func TestVec3_NormalizeZeroVector(t *testing.T) {
	n := Vec3{}.Normalize()
	if n != (Vec3{}) {
		t.Errorf("Expected zero vector, got %v", n)
	}
	if !n.IsFinite() {
		t.Error("Normalizing the zero vector must not produce NaN")
	}
}

func TestVec3_CrossIsRightHanded(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	if z := x.Cross(y); z != NewVec3(0, 0, 1) {
		t.Errorf("Expected x cross y = +z, got %v", z)
	}
	if z := y.Cross(x); z != NewVec3(0, 0, -1) {
		t.Errorf("Expected y cross x = -z, got %v", z)
	}
}

func TestVec3_AnyZero(t *testing.T) {
	if NewVec3(1, 1, 1).AnyZero() {
		t.Error("Expected no zero channel")
	}
	if !NewVec3(1, 0, 1).AnyZero() {
		t.Error("Expected a zero channel")
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math32.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math32.Inf(-1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}
