package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Request limits shared by parsing and /api/scene-config
const (
	minImageSize = 16
	maxImageSize = 2000
	maxDepth     = 10
	maxFrames    = 720
	maxStep      = 180.0

	// Number of frames and degrees per frame when the request gives none
	defaultFrames = 36
	defaultStep   = 10.0

	// DefaultTileSize is the tile edge streamed to the browser, in pixels
	DefaultTileSize = 32
)

// Server serves the animation viewer and its API
type Server struct {
	port      int
	staticDir string
	scenesDir string // Scene files the API may load, empty searches the usual locations
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest holds the parsed parameters of /api/render
type RenderRequest struct {
	Scene      string   `json:"scene"`      // Built-in id or "json:<name>" of a scene file
	Width      int      `json:"width"`      // Image width
	Height     int      `json:"height"`     // Image height
	Depth      int      `json:"depth"`      // Reflection depth, -1 keeps the scene's
	Frames     int      `json:"frames"`     // Frames to render, 0 orbits until the client leaves
	StartAngle *float64 `json:"startAngle"` // Camera angle of the first frame, nil keeps the scene's
	Step       float64  `json:"step"`       // Degrees per frame
}

// Handler returns the router for all endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes grouped for the scene picker
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses and validates the query of a render request
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(query, "frames", defaultFrames, 0, maxFrames); err != nil {
		return nil, err
	}
	if query.Get("angle") != "" {
		angle, err := parseFloatParam(query, "angle", 0, 0, 360)
		if err != nil {
			return nil, err
		}
		req.StartAngle = &angle
	}
	if req.Step, err = parseFloatParam(query, "step", defaultStep, -maxStep, maxStep); err != nil {
		return nil, err
	}

	if req.Frames == 0 && req.Step == 0 {
		return nil, fmt.Errorf("continuous rendering needs a non-zero step")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation.
// A missing parameter yields defaultValue without range checks.
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene loads the requested scene and applies the request's render
// overrides. The start angle travels through AnimationConfig, not the scene.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.LoadFromDir(s.scenesDir, req.Scene)
	if err != nil {
		return nil, err
	}

	override := scene.RenderConfig{
		Width:    req.Width,
		Height:   req.Height,
		TileSize: DefaultTileSize,
	}
	sceneObj.RenderConfig = scene.MergeRenderConfig(sceneObj.RenderConfig, override)
	if req.Depth >= 0 {
		sceneObj.RenderConfig.RecursionDepth = req.Depth
	}

	if err := sceneObj.Preprocess(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// animationConfig builds the orbit of a request, starting at the scene's own
// camera angle unless the request names one
func animationConfig(req *RenderRequest, sceneObj *scene.Scene) renderer.AnimationConfig {
	startAngle := sceneObj.CameraConfig.Angle
	if req.StartAngle != nil {
		startAngle = *req.StartAngle
	}
	return renderer.AnimationConfig{
		StartAngle: startAngle,
		AngleStep:  req.Step,
		Frames:     req.Frames,
	}
}

// handleSceneConfig returns the defaults of a scene and the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.LoadFromDir(s.scenesDir, sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.RenderConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"name":  sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":          config.Width,
			"height":         config.Height,
			"recursionDepth": config.RecursionDepth,
			"angle":          sceneObj.CameraConfig.Angle,
			"frames":         defaultFrames,
			"step":           defaultStep,
			"primitives":     sceneObj.GetPrimitiveCount(),
			"lights":         len(sceneObj.Lights),
		},
		"limits": map[string]interface{}{
			"width":  map[string]int{"min": minImageSize, "max": maxImageSize},
			"height": map[string]int{"min": minImageSize, "max": maxImageSize},
			"depth":  map[string]int{"min": 0, "max": maxDepth},
			"frames": map[string]int{"min": 0, "max": maxFrames},
			"angle":  map[string]float64{"min": 0, "max": 360},
			"step":   map[string]float64{"min": -maxStep, "max": maxStep},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
