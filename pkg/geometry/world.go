package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// World holds the intersectable geometry of a scene: an ordered sphere list
// and the floor. It is never modified while rendering.
type World struct {
	Spheres []*Sphere
	Floor   Floor
}

// NewWorld creates a world from spheres and a floor
func NewWorld(spheres []*Sphere, floor Floor) *World {
	return &World{Spheres: spheres, Floor: floor}
}

// ClosestSphereHit returns the sphere intersection with the smallest t strictly
// inside (tMin, tMax). Spheres are scanned in order, so on a tie the first one wins.
func (w *World) ClosestSphereHit(ray core.Ray, tMin, tMax float64) HitRecord {
	closestT := math.Inf(1)
	var closest *Sphere

	for _, sphere := range w.Spheres {
		t1, t2 := sphere.Intersect(ray.Origin, ray.Direction)

		if t1 > tMin && t1 < tMax && t1 < closestT {
			closestT = t1
			closest = sphere
		}
		if t2 > tMin && t2 < tMax && t2 < closestT {
			closestT = t2
			closest = sphere
		}
	}

	if closest == nil {
		return HitRecord{T: math.Inf(1)}
	}

	return HitRecord{
		T:          closestT,
		Color:      closest.Color,
		Specular:   closest.Specular,
		Center:     closest.Center,
		Reflective: closest.Reflective,
		Hit:        true,
	}
}

// ClosestHit returns the nearest intersection among the spheres and the floor.
// The floor only wins when strictly closer; its checker color is evaluated
// only in that case.
func (w *World) ClosestHit(ray core.Ray, tMin, tMax float64) HitRecord {
	hit := w.ClosestSphereHit(ray, tMin, tMax)

	if !w.Floor.Enabled {
		return hit
	}

	t := w.Floor.Intersect(ray.Origin, ray.Direction)
	if t > tMin && t < tMax && t < hit.T {
		return HitRecord{
			T:          t,
			Color:      w.Floor.CheckerColor(ray.At(t)),
			Specular:   w.Floor.Specular,
			Reflective: w.Floor.Reflective,
			IsFloor:    true,
			Hit:        true,
		}
	}

	return hit
}

// Occluded reports whether any sphere blocks the ray within (tMin, tMax)
func (w *World) Occluded(ray core.Ray, tMin, tMax float64) bool {
	return w.ClosestSphereHit(ray, tMin, tMax).Hit
}
