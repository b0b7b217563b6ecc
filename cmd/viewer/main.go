package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// maxDepth caps the recursion depth reachable from the keyboard
const maxDepth = 10

var (
	hudBackdrop     = color.RGBA{0, 0, 0, 160}
	renderingMarker = color.RGBA{230, 60, 60, 255}
)

type frameResult struct {
	img   *image.RGBA
	stats renderer.RenderStats
	angle float64
	err   error
}

// Viewer is an ebiten.Game that orbits the camera around the scene, rendering
// one frame per step on a background goroutine
type Viewer struct {
	scene    *scene.Scene
	animator *renderer.Animator
	workers  int
	scale    int
	step     float64
	outDir   string

	angle  float64
	depth  int
	paused bool
	dirty  bool

	results   chan frameResult
	rendering bool

	frame      *image.RGBA
	frameAngle float64
	stats      renderer.RenderStats
	screen     *ebiten.Image
	status     string
}

// NewViewer creates a viewer for a preprocessed scene
func NewViewer(s *scene.Scene, workers, scale int, step float64, outDir string) *Viewer {
	v := &Viewer{
		scene:   s,
		workers: workers,
		scale:   scale,
		step:    step,
		outDir:  outDir,
		angle:   s.CameraConfig.Angle,
		depth:   s.RenderConfig.RecursionDepth,
		dirty:   true,
		results: make(chan frameResult, 1),
		screen:  ebiten.NewImage(s.RenderConfig.Width*scale, s.RenderConfig.Height*scale),
	}
	v.animator = v.newAnimator()
	return v
}

func (v *Viewer) newAnimator() *renderer.Animator {
	return renderer.NewAnimator(v.scene, renderer.AnimationConfig{NumWorkers: v.workers}, renderer.NewDefaultLogger())
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		v.angle = wrapAngle(v.angle + v.step)
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		v.angle = wrapAngle(v.angle - v.step)
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) && v.depth < maxDepth {
		v.depth++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && v.depth > 0 {
		v.depth--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.saveFrame()
	}

	v.collectFrame()

	if v.rendering {
		return nil
	}

	// The raytracer captures the depth, so a change needs a fresh animator
	if v.depth != v.scene.RenderConfig.RecursionDepth {
		v.animator.Close()
		v.scene.RenderConfig.RecursionDepth = v.depth
		v.animator = v.newAnimator()
		v.dirty = true
	}

	if v.dirty || !v.paused {
		v.startFrame()
	}
	return nil
}

func (v *Viewer) startFrame() {
	v.rendering = true
	v.dirty = false

	animator := v.animator
	angle := v.angle
	go func() {
		img, stats, err := animator.RenderAngle(angle)
		v.results <- frameResult{img: img, stats: stats, angle: angle, err: err}
	}()
}

// collectFrame picks up a finished frame without blocking
func (v *Viewer) collectFrame() {
	select {
	case result := <-v.results:
		v.rendering = false
		if result.err != nil {
			v.status = fmt.Sprintf("render failed: %v", result.err)
			log.Printf("Render failed: %v", result.err)
			return
		}

		v.frame = result.img
		v.frameAngle = result.angle
		v.stats = result.stats

		pixels := result.img
		if v.scale != 1 {
			pixels = output.ScaleNearest(result.img, result.img.Bounds().Dx()*v.scale, result.img.Bounds().Dy()*v.scale)
		}
		v.screen.WritePixels(pixels.Pix)

		if !v.paused {
			v.angle = wrapAngle(v.angle + v.step)
		}
	default:
	}
}

func (v *Viewer) saveFrame() {
	if v.frame == nil {
		return
	}
	filename := filepath.Join(v.outDir, output.SafeName(v.scene.Name), fmt.Sprintf("angle_%05.1f.png", v.frameAngle))
	caption := fmt.Sprintf("%s  angle %.1f  depth %d", v.scene.Name, v.frameAngle, v.scene.RenderConfig.RecursionDepth)
	if err := output.SavePNG(v.frame, filename, caption); err != nil {
		v.status = err.Error()
		log.Printf("Error saving frame: %v", err)
		return
	}
	v.status = "saved " + filename
}

// wait blocks until an in-flight frame finishes so the animator can be closed
func (v *Viewer) wait() {
	if v.rendering {
		<-v.results
		v.rendering = false
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.screen, nil)

	state := "playing"
	if v.paused {
		state = "paused"
	}
	info := fmt.Sprintf(
		"%s | angle %.1f | depth %d | %s | FPS %.0f\n"+
			"frame %v | coverage %.0f%% | clamped %d\n"+
			"[Space] Pause [Left/Right] Step [Up/Down] Depth [S] Save [Q] Quit",
		v.scene.Name, v.frameAngle, v.scene.RenderConfig.RecursionDepth, state, ebiten.ActualFPS(),
		v.stats.Duration.Round(time.Millisecond), v.stats.CoverageRatio()*100, v.stats.ClampedPixels,
	)
	lines := 3
	if v.status != "" {
		info += "\n" + v.status
		lines++
	}

	// ebitenutil's debug font is 16 pixels per line
	width := float32(screen.Bounds().Dx())
	vector.DrawFilledRect(screen, 0, 0, width, float32(lines*16+4), hudBackdrop, false)
	if v.rendering {
		vector.DrawFilledCircle(screen, width-10, 10, 5, renderingMarker, true)
	}
	ebitenutil.DebugPrint(screen, info)
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.scene.RenderConfig.Width * v.scale, v.scene.RenderConfig.Height * v.scale
}

func wrapAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

func main() {
	sceneName := flag.String("scene", "default", "Built-in scene id, JSON file path or scene file name")
	width := flag.Int("width", 320, "Render width in pixels")
	height := flag.Int("height", 240, "Render height in pixels")
	depth := flag.Int("depth", 0, "Reflection depth (0 = scene default, negative disables reflections)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	scale := flag.Int("scale", 2, "Window pixels per rendered pixel")
	step := flag.Float64("step", 2, "Degrees the camera orbits per frame")
	outDir := flag.String("out", "output", "Directory for saved frames")
	flag.Parse()

	if *scale < 1 {
		log.Fatalf("Scale must be at least 1, got %d", *scale)
	}

	s, err := scene.Load(*sceneName)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	s.RenderConfig = scene.MergeRenderConfig(s.RenderConfig, scene.RenderConfig{
		Width:          *width,
		Height:         *height,
		RecursionDepth: *depth,
	})
	if err := s.Validate(); err != nil {
		log.Fatalf("Invalid render settings: %v", err)
	}

	viewer := NewViewer(s, *workers, *scale, *step, *outDir)

	ebiten.SetWindowSize(s.RenderConfig.Width*(*scale), s.RenderConfig.Height*(*scale))
	ebiten.SetWindowTitle("Phong Raytracer - " + s.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(viewer)
	viewer.wait()
	viewer.animator.Close()
	if err != nil {
		log.Fatal(err)
	}
}
