package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
)

// NewJSONScene creates a scene from a JSON scene file
func NewJSONScene(filename string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}

	name := sceneFile.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	s, err := FromSceneFile(name, sceneFile)
	if err != nil {
		return nil, err
	}

	if len(cameraOverrides) > 0 {
		s.CameraConfig = geometry.MergeCameraConfig(s.CameraConfig, cameraOverrides[0])
	}

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromSceneFile converts parsed scene file data into an unprocessed scene
func FromSceneFile(name string, sceneFile *loaders.SceneFile) (*Scene, error) {
	s := NewScene(name)

	if sceneFile.Background != nil {
		s.BackgroundColor = sceneFile.Background.Vec3()
	}

	convertFloor(sceneFile.Floor, &s.Floor)
	convertCamera(sceneFile.Camera, &s.CameraConfig)
	convertRender(sceneFile.Render, &s.RenderConfig)

	for _, sphereJSON := range sceneFile.Spheres {
		sphere := geometry.NewSphere(sphereJSON.Center.Vec3(), sphereJSON.Radius, sphereJSON.Color.Vec3())
		sphere.Specular = sphereJSON.Specular
		sphere.Reflective = sphereJSON.Reflective
		s.AddSphere(sphere)
	}

	for i, lightJSON := range sceneFile.Lights {
		light, err := convertLight(lightJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to convert light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	return s, nil
}

func convertFloor(floorJSON *loaders.FloorJSON, floor *geometry.Floor) {
	if floorJSON == nil {
		return
	}
	if floorJSON.Enabled != nil {
		floor.Enabled = *floorJSON.Enabled
	}
	if floorJSON.Height != nil {
		floor.Height = *floorJSON.Height
	}
	floor.Specular = floorJSON.Specular
	floor.Reflective = floorJSON.Reflective
}

func convertCamera(cameraJSON *loaders.CameraJSON, config *geometry.CameraConfig) {
	if cameraJSON == nil {
		return
	}
	if cameraJSON.Axis != nil {
		config.Axis = cameraJSON.Axis.Vec3()
	}
	if cameraJSON.Offset != nil {
		config.Offset = cameraJSON.Offset.Vec3()
	}
	config.Angle = cameraJSON.Angle
}

func convertRender(renderJSON *loaders.RenderJSON, config *RenderConfig) {
	if renderJSON == nil {
		return
	}
	if renderJSON.Width > 0 {
		config.Width = renderJSON.Width
	}
	if renderJSON.Height > 0 {
		config.Height = renderJSON.Height
	}
	if renderJSON.RecursionDepth != nil {
		config.RecursionDepth = *renderJSON.RecursionDepth
	}
}

func convertLight(lightJSON loaders.LightJSON) (lights.Light, error) {
	switch lights.LightType(lightJSON.Type) {
	case lights.LightTypeAmbient:
		return lights.NewAmbientLight(lightJSON.Intensity), nil
	case lights.LightTypePoint:
		if lightJSON.Position == nil {
			return nil, fmt.Errorf("point light requires a position")
		}
		return lights.NewPointLight(lightJSON.Intensity, lightJSON.Position.Vec3()), nil
	case lights.LightTypeDirectional:
		if lightJSON.Direction == nil {
			return nil, fmt.Errorf("directional light requires a direction")
		}
		return lights.NewDirectionalLight(lightJSON.Intensity, lightJSON.Direction.Vec3()), nil
	default:
		return nil, fmt.Errorf("unsupported light type: %s", lightJSON.Type)
	}
}
