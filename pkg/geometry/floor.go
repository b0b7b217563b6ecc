package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// DefaultFloorHeight is the y coordinate of the floor plane
const DefaultFloorHeight = -1.0

// Floor is the infinite horizontal checkerboard plane y = Height.
// Its color is computed from the hit point instead of being stored.
type Floor struct {
	Enabled    bool
	Height     float64
	Specular   *float64 // Specular exponent, nil disables the highlight
	Reflective float64
}

// NewFloor creates an enabled, matte floor at the default height
func NewFloor() Floor {
	return Floor{
		Enabled: true,
		Height:  DefaultFloorHeight,
	}
}

// Intersect returns t such that origin.y + t*direction.y == Height.
// A direction parallel to the floor yields ±Inf or NaN, which every
// (tMin, tMax) range check rejects.
func (f Floor) Intersect(origin, direction core.Vec3) float64 {
	return (f.Height - origin.Y) / direction.Y
}

// Normal returns the floor normal, which always points up
func (f Floor) Normal() core.Vec3 {
	return core.NewVec3(0, 1, 0)
}

// CheckerColor returns the procedural floor color at point
func (f Floor) CheckerColor(point core.Vec3) core.Vec3 {
	cellX := math.Abs(math.Mod(point.X, 1)) < 0.5
	cellZ := math.Abs(math.Mod(point.Z, 1)) < 0.5

	if cellX != cellZ {
		return core.White
	}
	return core.Black
}
