package core

import (
	"math"
	"testing"
)

func TestVec3_RotateY(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		angle    float64
		expected Vec3
	}{
		{
			name:     "No rotation",
			vector:   NewVec3(1, 2, 3),
			angle:    0,
			expected: NewVec3(1, 2, 3),
		},
		{
			name:     "90 degree rotation of X axis",
			vector:   NewVec3(1, 0, 0),
			angle:    90,
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "90 degree rotation of Z axis",
			vector:   NewVec3(0, 0, 1),
			angle:    90,
			expected: NewVec3(-1, 0, 0),
		},
		{
			name:     "180 degree rotation",
			vector:   NewVec3(1, 0, 0),
			angle:    180,
			expected: NewVec3(-1, 0, 0),
		},
		{
			name:     "Y component untouched",
			vector:   NewVec3(0, 5, 0),
			angle:    37,
			expected: NewVec3(0, 5, 0),
		},
		{
			name:     "Full turn",
			vector:   NewVec3(0.3, -0.2, 4),
			angle:    360,
			expected: NewVec3(0.3, -0.2, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.RotateY(tt.angle)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_RotateYPreservesLength(t *testing.T) {
	v := NewVec3(1.5, -2, 0.25)
	for _, angle := range []float64{-45, 10, 123.4, 270} {
		if math.Abs(v.RotateY(angle).Length()-v.Length()) > 1e-9 {
			t.Errorf("Rotation by %v changed length", angle)
		}
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	if got := a.Add(b); got != NewVec3(5, -3, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := a.Subtract(b); got != NewVec3(-3, 7, -3) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := a.Multiply(2); got != NewVec3(2, 4, 6) {
		t.Errorf("Multiply: got %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot: expected 12, got %v", got)
	}
	if got := NewVec3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length: expected 5, got %v", got)
	}
	if got := a.Negate(); got != NewVec3(-1, -2, -3) {
		t.Errorf("Negate: got %v", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(0, 3, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %v", n.Length())
	}
	if math.Abs(n.Y-0.6) > 1e-12 || math.Abs(n.Z-0.8) > 1e-12 {
		t.Errorf("Expected (0, 0.6, 0.8), got %v", n)
	}
}

func TestVec3_Reflect(t *testing.T) {
	normal := NewVec3(0, 1, 0)

	// A vector leaving the surface at 45 degrees mirrors across the normal
	got := NewVec3(1, 1, 0).Reflect(normal)
	if got.Subtract(NewVec3(-1, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected (-1, 1, 0), got %v", got)
	}

	// Along the normal it is unchanged
	got = NewVec3(0, 2, 0).Reflect(normal)
	if got != NewVec3(0, 2, 0) {
		t.Errorf("Expected (0, 2, 0), got %v", got)
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math.Inf(1), 0, 0).IsFinite() {
		t.Error("Expected infinite component to be reported")
	}
	if NewVec3(0, math.NaN(), 0).IsFinite() {
		t.Error("Expected NaN component to be reported")
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 2, 0))
	if got := ray.At(1.5); got != NewVec3(1, 3, 0) {
		t.Errorf("Expected (1, 3, 0), got %v", got)
	}
}
