package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to JSON file (json type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtinGroup = "Built-in Scenes"

type builtinScene struct {
	info        SceneInfo
	constructor func(...geometry.CameraConfig) *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", Name: "Default Scene", Description: "Three reflective spheres on a checkerboard floor"}, NewDefaultScene},
	{SceneInfo{ID: "classic", Name: "Classic Scene", Description: "Two spheres on a giant yellow sphere, no floor or reflections"}, NewClassicScene},
	{SceneInfo{ID: "shadow", Name: "Hard Shadows", Description: "A sphere between a point light and the floor"}, NewShadowScene},
	{SceneInfo{ID: "mirrors", Name: "Facing Mirrors", Description: "Two mirror spheres exercising deep reflection"}, NewMirrorsScene},
}

// BuiltinSceneIDs returns the ids of the built-in scenes in display order
func BuiltinSceneIDs() []string {
	ids := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		ids[i] = b.info.ID
	}
	return ids
}

// NewBuiltinScene creates a built-in scene by id, returning nil for unknown ids
func NewBuiltinScene(id string, cameraOverrides ...geometry.CameraConfig) *Scene {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.constructor(cameraOverrides...)
		}
	}
	return nil
}

// Load resolves a scene name: a built-in id, a JSON file path, "json:<name>"
// or a bare name of a file in the scenes directory
func Load(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("empty scene name")
	}

	if s := NewBuiltinScene(name, cameraOverrides...); s != nil {
		return s, nil
	}

	if strings.HasSuffix(name, ".json") {
		return NewJSONScene(name, cameraOverrides...)
	}

	bare := strings.TrimPrefix(name, "json:")
	if scenesDir := findScenesDir(); scenesDir != "" {
		path := filepath.Join(scenesDir, bare+".json")
		if _, err := os.Stat(path); err == nil {
			return NewJSONScene(path, cameraOverrides...)
		}
	}

	return nil, fmt.Errorf("unknown scene: %s", name)
}

// LoadFromDir resolves a built-in id or the name of a file in scenesDir, given
// as "json:<name>" or a bare name. Paths are refused, so only files directly in
// scenesDir can be loaded. An empty scenesDir searches the usual locations.
func LoadFromDir(scenesDir, name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	if s := NewBuiltinScene(name, cameraOverrides...); s != nil {
		return s, nil
	}

	bare := strings.TrimPrefix(name, "json:")
	if !isPlainSceneName(bare) {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}

	if scenesDir == "" {
		scenesDir = findScenesDir()
	}
	if scenesDir != "" {
		path := filepath.Join(scenesDir, bare+".json")
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return NewJSONScene(path, cameraOverrides...)
		}
	}

	return nil, fmt.Errorf("unknown scene: %s", name)
}

// isPlainSceneName reports whether name is a file name without any directory part
func isPlainSceneName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\:`) && filepath.Base(name) == name
}

// findScenesDir returns the first scenes directory found near the working directory
func findScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListJSONScenes scans the scenes directory and returns discovered JSON scenes
func ListJSONScenes() ([]SceneInfo, error) {
	scenesDir := findScenesDir()
	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}
	return listJSONScenesIn(scenesDir)
}

func listJSONScenesIn(scenesDir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseJSONMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseJSONMetadata extracts the name, description and group of a scene file
func ParseJSONMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          "json:" + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        "json",
		FilePath:    filePath,
	}

	sceneFile, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	if sceneFile.Name != "" {
		sceneInfo.Name = sceneFile.Name
		sceneInfo.DisplayName = sceneFile.Name
	}
	if sceneFile.Group != "" {
		sceneInfo.Group = sceneFile.Group
	}
	sceneInfo.Description = sceneFile.Description

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and JSON scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, b := range builtinScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtinGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	jsonScenes, err := ListJSONScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list JSON scenes: %w", err)
	}
	allScenes = append(allScenes, jsonScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtinGroup,
		Scenes: groupMap[builtinGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-mirrors" -> "Two Mirrors"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
