package scene

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// DefaultBackgroundColor is returned for rays that hit nothing
var DefaultBackgroundColor = core.NewVec3(15, 15, 15)

// Scene contains all the elements needed for rendering.
// After Preprocess it is read concurrently by every worker and must not be modified.
type Scene struct {
	Name            string
	Spheres         []*geometry.Sphere // Objects in the scene, scanned in order
	Lights          []lights.Light     // Lights in the scene, all visited for every shading point
	Floor           geometry.Floor
	BackgroundColor core.Vec3
	CameraConfig    geometry.CameraConfig
	RenderConfig    RenderConfig

	world *geometry.World
}

// RenderConfig contains frame rendering configuration
type RenderConfig struct {
	Width          int // Image width
	Height         int // Image height
	RecursionDepth int // Maximum number of mirror bounces
	TileSize       int // Size of each square tile handed to a worker
	NumWorkers     int // Number of parallel workers (0 = use CPU count)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:          400,
		Height:         400,
		RecursionDepth: 3,
		TileSize:       64,
		NumWorkers:     0,
	}
}

// MergeRenderConfig overlays the non-zero fields of override onto base.
// A negative RecursionDepth in override sets the depth to 0.
func MergeRenderConfig(base, override RenderConfig) RenderConfig {
	result := base
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.RecursionDepth > 0 {
		result.RecursionDepth = override.RecursionDepth
	} else if override.RecursionDepth < 0 {
		result.RecursionDepth = 0
	}
	if override.TileSize > 0 {
		result.TileSize = override.TileSize
	}
	if override.NumWorkers > 0 {
		result.NumWorkers = override.NumWorkers
	}
	return result
}

// Workers returns the configured worker count, defaulting to the CPU count
func (c RenderConfig) Workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// NewScene creates an empty scene with default floor, background and configs
func NewScene(name string) *Scene {
	return &Scene{
		Name:            name,
		Spheres:         make([]*geometry.Sphere, 0),
		Lights:          make([]lights.Light, 0),
		Floor:           geometry.NewFloor(),
		BackgroundColor: DefaultBackgroundColor,
		CameraConfig:    geometry.DefaultCameraConfig(),
		RenderConfig:    DefaultRenderConfig(),
	}
}

// AddSphere appends a sphere and returns it for further configuration
func (s *Scene) AddSphere(sphere *geometry.Sphere) *geometry.Sphere {
	s.Spheres = append(s.Spheres, sphere)
	return sphere
}

// AddLight appends a light to the scene
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// Preprocess validates the scene and builds the world used for intersection.
// It must be called before rendering and before sharing the scene between goroutines.
func (s *Scene) Preprocess() error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid scene %q: %w", s.Name, err)
	}
	s.world = geometry.NewWorld(s.Spheres, s.Floor)
	return nil
}

// GetWorld returns the world built by Preprocess, or nil before that
func (s *Scene) GetWorld() *geometry.World {
	return s.world
}

// GetPrimitiveCount returns the number of intersectable objects, counting the floor
func (s *Scene) GetPrimitiveCount() int {
	count := len(s.Spheres)
	if s.Floor.Enabled {
		count++
	}
	return count
}

// ErrInvalidScene is wrapped by every validation failure
var ErrInvalidScene = errors.New("invalid scene")

// Validate checks the preconditions the renderer relies on
func (s *Scene) Validate() error {
	for i, sphere := range s.Spheres {
		if sphere == nil {
			return fmt.Errorf("%w: sphere %d is nil", ErrInvalidScene, i)
		}
		if !(sphere.Radius > 0) {
			return fmt.Errorf("%w: sphere %d has non-positive radius %v", ErrInvalidScene, i, sphere.Radius)
		}
		if !sphere.Center.IsFinite() {
			return fmt.Errorf("%w: sphere %d has non-finite center %v", ErrInvalidScene, i, sphere.Center)
		}
		if sphere.Reflective < 0 || sphere.Reflective > 1 {
			return fmt.Errorf("%w: sphere %d reflective %v outside [0, 1]", ErrInvalidScene, i, sphere.Reflective)
		}
	}

	if s.Floor.Reflective < 0 || s.Floor.Reflective > 1 {
		return fmt.Errorf("%w: floor reflective %v outside [0, 1]", ErrInvalidScene, s.Floor.Reflective)
	}

	for i, light := range s.Lights {
		if light == nil {
			return fmt.Errorf("%w: light %d is nil", ErrInvalidScene, i)
		}
		if light.GetIntensity() < 0 {
			return fmt.Errorf("%w: light %d has negative intensity %v", ErrInvalidScene, i, light.GetIntensity())
		}
		if directional, ok := light.(*lights.DirectionalLight); ok && directional.Direction.LengthSquared() == 0 {
			return fmt.Errorf("%w: directional light %d has zero direction", ErrInvalidScene, i)
		}
	}

	if s.RenderConfig.Width <= 0 || s.RenderConfig.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidScene, s.RenderConfig.Width, s.RenderConfig.Height)
	}
	if s.RenderConfig.RecursionDepth < 0 {
		return fmt.Errorf("%w: negative recursion depth %d", ErrInvalidScene, s.RenderConfig.RecursionDepth)
	}

	return nil
}
