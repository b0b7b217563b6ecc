package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// saveOptions control how rendered frames are written
type saveOptions struct {
	outDir  string
	scale   int  // Output pixels per rendered pixel
	caption bool // Draw scene name and angle along the bottom
}

func main() {
	sceneName := flag.String("scene", "default", "Built-in scene id, JSON file path or scene file name")
	angle := flag.Float64("angle", 0, "Camera angle of the first frame in degrees (unset = scene default)")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	height := flag.Int("height", 0, "Image height in pixels (0 = scene default)")
	depth := flag.Int("depth", 0, "Reflection depth (0 = scene default, negative disables reflections)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	tileSize := flag.Int("tile", 0, "Tile size in pixels (0 = scene default)")
	frames := flag.Int("frames", 1, "Number of frames to render while orbiting the camera")
	step := flag.Float64("step", 0, "Degrees per frame (0 = spread the frames over a full turn)")
	scale := flag.Int("scale", 1, "Upscale saved frames by this factor")
	outDir := flag.String("out", "output", "Output directory")
	caption := flag.Bool("caption", false, "Draw scene name and angle on saved frames")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if *frames < 1 {
		fmt.Printf("Error: frames must be at least 1, got %d\n", *frames)
		os.Exit(1)
	}
	if *scale < 1 {
		fmt.Printf("Error: scale must be at least 1, got %d\n", *scale)
		os.Exit(1)
	}

	fmt.Println("Starting Phong Raytracer...")

	var startAngle *float64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "angle" {
			startAngle = angle
		}
	})

	s, err := createScene(*sceneName, startAngle)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}
	s.RenderConfig = scene.MergeRenderConfig(s.RenderConfig, scene.RenderConfig{
		Width:          *width,
		Height:         *height,
		RecursionDepth: *depth,
		TileSize:       *tileSize,
		NumWorkers:     *workers,
	})
	if err := s.Preprocess(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	config := renderer.AnimationConfig{
		StartAngle: s.CameraConfig.Angle,
		AngleStep:  *step,
		Frames:     *frames,
	}
	if config.AngleStep == 0 && config.Frames > 1 {
		config.AngleStep = 360 / float64(config.Frames)
	}

	fmt.Printf("Rendering %s: %dx%d, depth %d, %d frame(s)\n", s.Name,
		s.RenderConfig.Width, s.RenderConfig.Height, s.RenderConfig.RecursionDepth, config.Frames)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	files, err := renderAndSave(ctx, s, config, saveOptions{outDir: *outDir, scale: *scale, caption: *caption}, renderer.NewDefaultLogger())
	for _, file := range files {
		fmt.Printf("Render saved as %s\n", file)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rendered %d frame(s) in %v\n", len(files), time.Since(startTime).Round(time.Millisecond))
}

func printHelp() {
	fmt.Println("Phong Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, id := range scene.BuiltinSceneIDs() {
		fmt.Printf("  %s\n", id)
	}
	if jsonScenes, err := scene.ListJSONScenes(); err == nil {
		for _, info := range jsonScenes {
			fmt.Printf("  %s - %s\n", info.ID, info.Description)
		}
	}
	fmt.Println()
	fmt.Println("Frames are saved to <out>/<scene>/frame_NNNN.png")
}

// createScene loads a scene by built-in id, JSON path or scene file name.
// A non-nil startAngle replaces the scene's camera angle, zero included.
func createScene(name string, startAngle *float64) (*scene.Scene, error) {
	s, err := scene.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene %q: %w", name, err)
	}
	if startAngle != nil {
		s.CameraConfig.Angle = *startAngle
	}
	return s, nil
}

// renderAndSave renders every frame of the animation and writes each one as
// a PNG. It returns the files written so far, also when it fails part way.
func renderAndSave(ctx context.Context, s *scene.Scene, config renderer.AnimationConfig, opts saveOptions, logger core.Logger) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	animator := renderer.NewAnimator(s, config, logger)
	frameChan, _, errChan := animator.RenderAnimation(ctx, renderer.RenderOptions{})

	var files []string
	var saveErr error
	for frame := range frameChan {
		if saveErr != nil {
			continue
		}

		img := frame.Image
		if opts.scale > 1 {
			img = output.Scale(img, img.Bounds().Dx()*opts.scale, img.Bounds().Dy()*opts.scale)
		}

		caption := ""
		if opts.caption {
			caption = fmt.Sprintf("%s  angle %.1f  depth %d", s.Name, frame.Angle, s.RenderConfig.RecursionDepth)
		}

		filename := output.FrameFilename(opts.outDir, s.Name, frame.FrameNumber)
		if err := output.SavePNG(img, filename, caption); err != nil {
			saveErr = err
			cancel()
			continue
		}
		files = append(files, filename)

		logger.Printf("Frame %d: %d pixels, %.1f%% covered, %d clamped, luminance %.3f\n",
			frame.FrameNumber, frame.Stats.TotalPixels, frame.Stats.CoverageRatio()*100,
			frame.Stats.ClampedPixels, renderer.CalculateAverageLuminance(frame.Image))
	}

	renderErr := <-errChan
	if saveErr != nil {
		return files, saveErr
	}
	if renderErr != nil {
		return files, fmt.Errorf("rendering failed: %w", renderErr)
	}
	return files, nil
}
