package integrator

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// WhittedIntegrator implements recursive ray tracing with local Phong shading,
// hard shadows and mirror reflection. It holds no mutable state, so one value
// can be shared by every worker.
type WhittedIntegrator struct {
	world      *geometry.World
	lights     []lights.Light
	background core.Vec3
}

// NewWhittedIntegrator creates an integrator for a preprocessed scene
func NewWhittedIntegrator(s *scene.Scene) *WhittedIntegrator {
	world := s.GetWorld()
	if world == nil {
		world = geometry.NewWorld(s.Spheres, s.Floor)
	}
	return &WhittedIntegrator{
		world:      world,
		lights:     s.Lights,
		background: s.BackgroundColor,
	}
}

// TraceRay computes the color for a single ray. Rays that hit nothing return
// the background color. Reflective surfaces blend their local color with a
// recursively traced mirror ray until depth reaches zero.
func (wi *WhittedIntegrator) TraceRay(ray core.Ray, tMin, tMax float64, depth int) core.Vec3 {
	hit := wi.world.ClosestHit(ray, tMin, tMax)
	if !hit.Hit {
		return wi.background
	}

	point := ray.At(hit.T)
	normal := hit.Normal(point)
	view := ray.Direction.Negate()

	lighting := ComputeLighting(wi.world, wi.lights, point, normal, view, hit.Specular)
	localColor := hit.Color.Multiply(lighting)

	if depth <= 0 || hit.Reflective <= 0 {
		return localColor
	}

	reflected := core.NewRay(point, view.Reflect(normal))
	reflectedColor := wi.TraceRay(reflected, SurfaceEpsilon, tMax, depth-1)

	return localColor.Multiply(1 - hit.Reflective).Add(reflectedColor.Multiply(hit.Reflective))
}
