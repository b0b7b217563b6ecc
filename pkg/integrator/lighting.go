package integrator

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// ComputeLighting returns the light intensity arriving at point: ambient plus,
// for every unshadowed point or directional light, a diffuse and optional
// specular term. The result is not clamped.
func ComputeLighting(world *geometry.World, sceneLights []lights.Light, point, normal, view core.Vec3, specular *float64) float64 {
	intensity := 0.0

	for _, light := range sceneLights {
		var toLight core.Vec3
		var shadowTMax float64

		switch l := light.(type) {
		case *lights.AmbientLight:
			intensity += l.Intensity
			continue
		case *lights.PointLight:
			toLight, shadowTMax = l.ToLight(point)
		case *lights.DirectionalLight:
			toLight, shadowTMax = l.ToLight(point)
		default:
			continue
		}

		// Hard shadow: any sphere in the way removes diffuse and specular
		if world.Occluded(core.NewRay(point, toLight), SurfaceEpsilon, shadowTMax) {
			continue
		}

		intensity += diffuse(light.GetIntensity(), normal, toLight)
		if specular != nil {
			intensity += specularHighlight(light.GetIntensity(), normal, toLight, view, *specular)
		}
	}

	return intensity
}

// diffuse returns the Lambertian term, zero when the light is behind the surface
func diffuse(lightIntensity float64, normal, toLight core.Vec3) float64 {
	nDotL := normal.Dot(toLight)
	if nDotL <= 0 {
		return 0
	}
	return lightIntensity * nDotL / toLight.Length()
}

// specularHighlight returns the Phong term for toLight mirrored about normal
func specularHighlight(lightIntensity float64, normal, toLight, view core.Vec3, exponent float64) float64 {
	reflection := toLight.Reflect(normal)
	rDotV := reflection.Dot(view)
	if rDotV <= 0 {
		return 0
	}
	return lightIntensity * math.Pow(rDotV/(reflection.Length()*view.Length()), exponent)
}
