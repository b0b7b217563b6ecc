package geometry

import "github.com/df07/go-phong-raytracer/pkg/core"

// HitRecord contains information about the closest ray intersection.
// It lives for a single ray evaluation.
type HitRecord struct {
	T          float64   // Parameter t along the ray
	Color      core.Vec3 // Base color of the surface
	Specular   *float64  // Specular exponent, nil when disabled
	Center     core.Vec3 // Sphere center, unused for floor hits
	Reflective float64   // Reflective coefficient of the surface
	IsFloor    bool      // Whether the floor was hit
	Hit        bool      // Whether anything was hit
}

// Normal returns the unit surface normal at point
func (h HitRecord) Normal(point core.Vec3) core.Vec3 {
	if h.IsFloor {
		return core.NewVec3(0, 1, 0)
	}
	return point.Subtract(h.Center).Normalize()
}
