package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSceneJSON = `{
	"name": "Test Scene",
	"description": "One sphere and two lights",
	"background": [10, 20, 30],
	"floor": {"enabled": false, "reflective": 0.5},
	"camera": {"axis": [0, 0, 4], "angle": 30},
	"render": {"width": 320, "height": 200, "recursionDepth": 0},
	"spheres": [
		{"center": [0, 0, 5], "radius": 1, "color": [255, 0, 0], "specular": 500, "reflective": 0.2},
		{"center": [2, 0, 5], "radius": 0.5, "color": [0, 255, 0], "specular": null}
	],
	"lights": [
		{"type": "ambient", "intensity": 0.2},
		{"type": "point", "intensity": 0.6, "position": [2, 1, 0]},
		{"type": "directional", "intensity": 0.2, "direction": [1, 4, 4]}
	]
}`

func TestParseSceneFile(t *testing.T) {
	sceneFile, err := ParseSceneFile(strings.NewReader(testSceneJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sceneFile.Name != "Test Scene" {
		t.Errorf("Expected name 'Test Scene', got '%s'", sceneFile.Name)
	}
	if len(sceneFile.Spheres) != 2 {
		t.Fatalf("Expected 2 spheres, got %d", len(sceneFile.Spheres))
	}
	if sceneFile.Spheres[0].Specular == nil || *sceneFile.Spheres[0].Specular != 500 {
		t.Errorf("Expected specular 500, got %v", sceneFile.Spheres[0].Specular)
	}
	if sceneFile.Spheres[1].Specular != nil {
		t.Errorf("Expected null specular to stay nil, got %v", *sceneFile.Spheres[1].Specular)
	}
	if sceneFile.Spheres[0].Center.Vec3().Z != 5 {
		t.Errorf("Expected sphere center z=5, got %v", sceneFile.Spheres[0].Center)
	}
	if len(sceneFile.Lights) != 3 {
		t.Errorf("Expected 3 lights, got %d", len(sceneFile.Lights))
	}
	if sceneFile.Floor == nil || sceneFile.Floor.Enabled == nil || *sceneFile.Floor.Enabled {
		t.Errorf("Expected floor to be disabled, got %+v", sceneFile.Floor)
	}
	if sceneFile.Render == nil || sceneFile.Render.RecursionDepth == nil || *sceneFile.Render.RecursionDepth != 0 {
		t.Errorf("Expected explicit recursion depth 0, got %+v", sceneFile.Render)
	}
	if sceneFile.Camera == nil || sceneFile.Camera.Offset != nil || sceneFile.Camera.Angle != 30 {
		t.Errorf("Unexpected camera %+v", sceneFile.Camera)
	}
}

func TestParseSceneFile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed json", `{"name": `},
		{"unknown field", `{"name": "x", "spheres": [], "lights": [], "fog": 1}`},
		{"unknown light type", `{"name": "x", "spheres": [], "lights": [{"type": "spot", "intensity": 1}]}`},
		{"point light without position", `{"name": "x", "spheres": [], "lights": [{"type": "point", "intensity": 1}]}`},
		{"directional light without direction", `{"name": "x", "spheres": [], "lights": [{"type": "directional", "intensity": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSceneFile(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error, got none")
			}
		})
	}
}

func TestLoadSceneFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(testSceneJSON), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	sceneFile, err := LoadSceneFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sceneFile.Description != "One sphere and two lights" {
		t.Errorf("Unexpected description '%s'", sceneFile.Description)
	}

	if _, err := LoadSceneFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
