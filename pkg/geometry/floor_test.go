package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func TestFloor_Intersect(t *testing.T) {
	floor := NewFloor()

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expected  float64
	}{
		{"straight down", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), 2},
		{"slanted", core.NewVec3(0, 0, 0), core.NewVec3(1, -0.5, 1), 2},
		{"from below looking up", core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0), 2},
		{"away from floor", core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := floor.Intersect(tt.origin, tt.direction)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expected, got)
			}
		})
	}
}

func TestFloor_Intersect_Parallel(t *testing.T) {
	floor := NewFloor()

	got := floor.Intersect(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	if !math.IsInf(got, -1) {
		t.Errorf("Expected -Inf for a ray parallel above the floor, got %f", got)
	}

	got = floor.Intersect(core.NewVec3(0, -1, 0), core.NewVec3(1, 0, 0))
	if !math.IsNaN(got) {
		t.Errorf("Expected NaN for a ray lying in the floor, got %f", got)
	}
}

func TestFloor_CheckerColor(t *testing.T) {
	floor := NewFloor()

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"both cells low", core.NewVec3(0.25, -1, 0.25), core.Black},
		{"x low z high", core.NewVec3(0.25, -1, 0.75), core.White},
		{"x high z low", core.NewVec3(0.75, -1, 0.25), core.White},
		{"both cells high", core.NewVec3(0.75, -1, 0.75), core.Black},
		{"negative coordinates use magnitude", core.NewVec3(-0.25, -1, 0.75), core.White},
		{"negative far side", core.NewVec3(-0.75, -1, -0.75), core.Black},
		{"integer boundary", core.NewVec3(2, -1, 3.5), core.White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := floor.CheckerColor(tt.point); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
