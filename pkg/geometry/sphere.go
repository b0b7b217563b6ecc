package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center     core.Vec3
	Radius     float64
	Color      core.Vec3 // Base color, 0-255 per channel
	Specular   *float64  // Specular exponent, nil disables the highlight
	Reflective float64   // Fraction of the final color taken from the mirror bounce
}

// NewSphere creates a new matte, non-reflective sphere
func NewSphere(center core.Vec3, radius float64, color core.Vec3) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Color:  color,
	}
}

// WithSpecular sets the specular exponent and returns the sphere
func (s *Sphere) WithSpecular(exponent float64) *Sphere {
	s.Specular = Shininess(exponent)
	return s
}

// WithReflective sets the reflective coefficient and returns the sphere
func (s *Sphere) WithReflective(reflective float64) *Sphere {
	s.Reflective = reflective
	return s
}

// Shininess returns a specular exponent suitable for the Specular fields
func Shininess(exponent float64) *float64 {
	return &exponent
}

// Intersect solves |origin + t*direction - center|² = radius² for t.
// Both roots are returned, (+Inf, +Inf) when the ray misses.
func (s *Sphere) Intersect(origin, direction core.Vec3) (float64, float64) {
	// Vector from sphere center to ray origin
	co := origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := direction.Dot(direction)
	b := 2 * co.Dot(direction)
	c := co.Dot(co) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return math.Inf(1), math.Inf(1)
	}

	if discriminant == 0 {
		root := -b / (2 * a)
		return root, root
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b + sqrtD) / (2 * a)
	t2 := (-b - sqrtD) / (2 * a)
	return t1, t2
}

// Normal returns the outward unit normal at a point on the surface
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}
