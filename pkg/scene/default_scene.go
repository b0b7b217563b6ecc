package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// NewDefaultScene creates the default scene: three shiny spheres resting on a
// reflective checkerboard floor, lit by ambient, point and directional lights
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := NewScene("default")
	s.CameraConfig = applyCameraOverrides(geometry.CameraConfig{
		Axis:   core.NewVec3(0, 0, 4),
		Offset: core.NewVec3(0, 0.5, -4),
	}, cameraOverrides)

	s.Floor.Reflective = 0.25

	s.AddSphere(geometry.NewSphere(core.NewVec3(1, 0, 5), 1, core.NewVec3(255, 0, 0))).
		WithSpecular(200).
		WithReflective(0.2)
	s.AddSphere(geometry.NewSphere(core.NewVec3(-0.5, 0, 3), 1, core.NewVec3(0, 0, 255))).
		WithSpecular(2050).
		WithReflective(0.3)
	s.AddSphere(geometry.NewSphere(core.NewVec3(-2.5, 0, 6), 1, core.NewVec3(0, 255, 0))).
		WithSpecular(10).
		WithReflective(0.4)

	s.AddLight(lights.NewAmbientLight(0.2))
	s.AddLight(lights.NewPointLight(0.6, core.NewVec3(1, 2, 2)))
	s.AddLight(lights.NewDirectionalLight(0.2, core.NewVec3(1, 1, 0)))

	return mustPreprocess(s)
}

// NewClassicScene creates the floorless scene: a red and a blue sphere on a
// giant yellow sphere standing in for the ground, no reflections
func NewClassicScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := NewScene("classic")
	s.CameraConfig = applyCameraOverrides(s.CameraConfig, cameraOverrides)
	s.Floor.Enabled = false
	s.RenderConfig.RecursionDepth = 0

	s.AddSphere(geometry.NewSphere(core.NewVec3(1, 0, 5), 1, core.NewVec3(255, 0, 0))).WithSpecular(200)
	s.AddSphere(geometry.NewSphere(core.NewVec3(-0.5, 0, 3), 1, core.NewVec3(0, 0, 255))).WithSpecular(2050)
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -5001, 0), 5000, core.NewVec3(255, 255, 0)))

	s.AddLight(lights.NewAmbientLight(0.2))
	s.AddLight(lights.NewPointLight(0.6, core.NewVec3(1, 0, 2)))
	s.AddLight(lights.NewDirectionalLight(0.2, core.NewVec3(1, 1, 0)))

	return mustPreprocess(s)
}

// NewShadowScene creates a scene where a small sphere hangs between a point
// light and the floor, casting a hard shadow onto the checkerboard
func NewShadowScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := NewScene("shadow")
	s.CameraConfig = applyCameraOverrides(geometry.CameraConfig{
		Axis:   core.NewVec3(0, 0, 4),
		Offset: core.NewVec3(0, 1.5, -4),
	}, cameraOverrides)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 0.5, 4), 0.5, core.NewVec3(255, 128, 0))).WithSpecular(50)
	s.AddSphere(geometry.NewSphere(core.NewVec3(1.5, -0.5, 5), 0.5, core.NewVec3(200, 200, 200))).WithSpecular(300)

	s.AddLight(lights.NewAmbientLight(0.15))
	s.AddLight(lights.NewPointLight(0.85, core.NewVec3(0, 3, 4)))

	return mustPreprocess(s)
}

// NewMirrorsScene creates two facing mirror spheres that exercise deep
// reflection recursion
func NewMirrorsScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	s := NewScene("mirrors")
	s.CameraConfig = applyCameraOverrides(geometry.CameraConfig{
		Axis:   core.NewVec3(0, 0, 5),
		Offset: core.NewVec3(0, 0.25, -5),
	}, cameraOverrides)
	s.RenderConfig.RecursionDepth = 5
	s.Floor.Reflective = 0.1

	s.AddSphere(geometry.NewSphere(core.NewVec3(-1.2, 0, 5), 1, core.NewVec3(230, 230, 230))).
		WithSpecular(1000).
		WithReflective(0.8)
	s.AddSphere(geometry.NewSphere(core.NewVec3(1.2, 0, 5), 1, core.NewVec3(230, 230, 230))).
		WithSpecular(1000).
		WithReflective(0.8)
	s.AddSphere(geometry.NewSphere(core.NewVec3(0, -0.7, 3.5), 0.3, core.NewVec3(255, 0, 255))).WithSpecular(20)

	s.AddLight(lights.NewAmbientLight(0.2))
	s.AddLight(lights.NewPointLight(0.5, core.NewVec3(0, 3, 1)))
	s.AddLight(lights.NewDirectionalLight(0.3, core.NewVec3(-1, 2, -1)))

	return mustPreprocess(s)
}

// applyCameraOverrides merges the first override, if any, onto base
func applyCameraOverrides(base geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) > 0 {
		return geometry.MergeCameraConfig(base, overrides[0])
	}
	return base
}

// mustPreprocess preprocesses a built-in scene. Built-in scenes are known to be
// valid, so a failure here is a programming error.
func mustPreprocess(s *Scene) *Scene {
	if err := s.Preprocess(); err != nil {
		panic(err)
	}
	return s
}
