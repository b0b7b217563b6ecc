package integrator

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// SurfaceEpsilon offsets secondary rays (shadow rays and reflections) so they
// do not hit the surface they start on
const SurfaceEpsilon = 0.001

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// TraceRay returns the color seen along ray within (tMin, tMax), following
	// at most depth mirror bounces
	TraceRay(ray core.Ray, tMin, tMax float64, depth int) core.Vec3
}
