package geometry

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ViewportDistance is the distance from the camera to the projection plane
const ViewportDistance = 1.0

// CameraConfig describes a camera orbiting a fixed look-at axis point
type CameraConfig struct {
	Axis   core.Vec3 // Point the camera orbits and always faces
	Offset core.Vec3 // Camera position relative to Axis at angle 0
	Angle  float64   // Orbit angle about the Y axis, in degrees
}

// DefaultCameraConfig places the camera at the origin looking down +Z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Axis:   core.NewVec3(0, 0, 3),
		Offset: core.NewVec3(0, 0, -3),
		Angle:  0,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base.
// A zero Angle keeps base's angle; assign the field directly to reset it.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Axis != (core.Vec3{}) {
		result.Axis = override.Axis
	}
	if override.Offset != (core.Vec3{}) {
		result.Offset = override.Offset
	}
	if override.Angle != 0 {
		result.Angle = override.Angle
	}
	return result
}

// Camera generates primary rays for a canvas of Width x Height pixels
type Camera struct {
	config   CameraConfig
	position core.Vec3
	width    int
	height   int
}

// NewCamera creates a camera for the given canvas size
func NewCamera(config CameraConfig, width, height int) *Camera {
	return &Camera{
		config:   config,
		position: CameraPosition(config.Axis, config.Offset, config.Angle),
		width:    width,
		height:   height,
	}
}

// WithAngle returns a copy of the camera moved to a new orbit angle
func (c *Camera) WithAngle(angleDegrees float64) *Camera {
	config := c.config
	config.Angle = angleDegrees
	return NewCamera(config, c.width, c.height)
}

// Position returns the camera origin
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// Angle returns the orbit angle in degrees
func (c *Camera) Angle() float64 {
	return c.config.Angle
}

// GetRay returns the primary ray through the centered pixel (x, y), where
// x is in [-width/2, (width-1)/2] and y grows upward.
func (c *Camera) GetRay(x, y int) core.Ray {
	direction := PixelToViewport(x, y, c.width, c.height).RotateY(c.config.Angle)
	return core.NewRay(c.position, direction)
}

// PixelToViewport maps centered pixel coordinates to a point on the viewport
// plane at ViewportDistance. The viewport is width/height units wide and
// 1 unit high.
func PixelToViewport(x, y, width, height int) core.Vec3 {
	viewportWidth := float64(width) / float64(height)
	viewportHeight := 1.0
	return core.NewVec3(
		float64(x)*viewportWidth/float64(width),
		float64(y)*viewportHeight/float64(height),
		ViewportDistance,
	)
}

// CameraPosition returns axis + offset rotated about Y by angleDegrees
func CameraPosition(axis, offset core.Vec3, angleDegrees float64) core.Vec3 {
	return axis.Add(offset.RotateY(angleDegrees))
}
