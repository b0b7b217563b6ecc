package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Vec3JSON is a vector written as a three element array, e.g. [0, 1, 2]
type Vec3JSON [3]float64

// Vec3 converts to a core.Vec3
func (v Vec3JSON) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// SphereJSON describes one sphere in a scene file
type SphereJSON struct {
	Center     Vec3JSON `json:"center"`
	Radius     float64  `json:"radius"`
	Color      Vec3JSON `json:"color"`
	Specular   *float64 `json:"specular,omitempty"` // omitted or null disables the highlight
	Reflective float64  `json:"reflective,omitempty"`
}

// LightJSON describes one light. Only the fields of its Type are read.
type LightJSON struct {
	Type      string    `json:"type"` // "ambient", "point" or "directional"
	Intensity float64   `json:"intensity"`
	Position  *Vec3JSON `json:"position,omitempty"`
	Direction *Vec3JSON `json:"direction,omitempty"`
}

// FloorJSON describes the checkerboard floor
type FloorJSON struct {
	Enabled    *bool    `json:"enabled,omitempty"` // defaults to true
	Height     *float64 `json:"height,omitempty"`  // defaults to -1
	Specular   *float64 `json:"specular,omitempty"`
	Reflective float64  `json:"reflective,omitempty"`
}

// CameraJSON describes the orbiting camera
type CameraJSON struct {
	Axis   *Vec3JSON `json:"axis,omitempty"`
	Offset *Vec3JSON `json:"offset,omitempty"`
	Angle  float64   `json:"angle,omitempty"`
}

// RenderJSON holds optional render settings
type RenderJSON struct {
	Width          int  `json:"width,omitempty"`
	Height         int  `json:"height,omitempty"`
	RecursionDepth *int `json:"recursionDepth,omitempty"`
}

// SceneFile contains all parsed scene file data
type SceneFile struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Group       string       `json:"group,omitempty"`
	Background  *Vec3JSON    `json:"background,omitempty"`
	Floor       *FloorJSON   `json:"floor,omitempty"`
	Camera      *CameraJSON  `json:"camera,omitempty"`
	Render      *RenderJSON  `json:"render,omitempty"`
	Spheres     []SphereJSON `json:"spheres"`
	Lights      []LightJSON  `json:"lights"`
}

// LoadSceneFile parses a JSON scene file from disk
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return sceneFile, nil
}

// ParseSceneFile decodes a JSON scene. Unknown fields are rejected so typos
// surface as errors instead of silently falling back to defaults.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var sceneFile SceneFile
	if err := decoder.Decode(&sceneFile); err != nil {
		return nil, err
	}

	for i, light := range sceneFile.Lights {
		switch light.Type {
		case "ambient":
		case "point":
			if light.Position == nil {
				return nil, fmt.Errorf("light %d: point light requires a position", i)
			}
		case "directional":
			if light.Direction == nil {
				return nil, fmt.Errorf("light %d: directional light requires a direction", i)
			}
		default:
			return nil, fmt.Errorf("light %d: unknown light type %q", i, light.Type)
		}
	}

	return &sceneFile, nil
}
