package lights

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

type LightType string

const (
	LightTypeAmbient     LightType = "ambient"
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is one of AmbientLight, PointLight or DirectionalLight.
// The interface is sealed; shading code switches on the concrete type.
type Light interface {
	Type() LightType
	GetIntensity() float64

	isLight()
}

// AmbientLight lights every surface uniformly
type AmbientLight struct {
	Intensity float64
}

// PointLight emits from a position in space
type PointLight struct {
	Intensity float64
	Position  core.Vec3
}

// DirectionalLight arrives from a fixed direction. Direction points toward the
// light and is used as given; its magnitude scales the specular term.
type DirectionalLight struct {
	Intensity float64
	Direction core.Vec3
}

// NewAmbientLight creates an ambient light
func NewAmbientLight(intensity float64) *AmbientLight {
	return &AmbientLight{Intensity: intensity}
}

// NewPointLight creates a point light
func NewPointLight(intensity float64, position core.Vec3) *PointLight {
	return &PointLight{Intensity: intensity, Position: position}
}

// NewDirectionalLight creates a directional light
func NewDirectionalLight(intensity float64, direction core.Vec3) *DirectionalLight {
	return &DirectionalLight{Intensity: intensity, Direction: direction}
}

func (l *AmbientLight) Type() LightType     { return LightTypeAmbient }
func (l *PointLight) Type() LightType       { return LightTypePoint }
func (l *DirectionalLight) Type() LightType { return LightTypeDirectional }

func (l *AmbientLight) GetIntensity() float64     { return l.Intensity }
func (l *PointLight) GetIntensity() float64       { return l.Intensity }
func (l *DirectionalLight) GetIntensity() float64 { return l.Intensity }

func (*AmbientLight) isLight()     {}
func (*PointLight) isLight()       {}
func (*DirectionalLight) isLight() {}

// ToLight returns the unnormalized vector from point toward the light and the
// upper t bound for the shadow ray along it. Point lights stop at t = 1, the
// light position itself; directional lights are unbounded.
func (l *PointLight) ToLight(point core.Vec3) (core.Vec3, float64) {
	return l.Position.Subtract(point), 1
}

// ToLight returns the light direction and an unbounded shadow range
func (l *DirectionalLight) ToLight(point core.Vec3) (core.Vec3, float64) {
	return l.Direction, math.Inf(1)
}

// TotalIntensity sums the intensity of all lights. Scenes whose lights sum to
// more than 1 can produce channel values above 255.
func TotalIntensity(lights []Light) float64 {
	total := 0.0
	for _, light := range lights {
		total += light.GetIntensity()
	}
	return total
}
