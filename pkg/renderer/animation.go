package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ErrAnimatorClosed is returned when rendering on an animator whose workers were stopped
var ErrAnimatorClosed = errors.New("animator closed")

// AnimationConfig contains configuration for rendering a camera orbit
type AnimationConfig struct {
	StartAngle float64 // Camera angle of the first frame, in degrees
	AngleStep  float64 // Degrees added per frame
	Frames     int     // Number of frames; <= 0 renders until cancelled
	TileSize   int     // Size of each tile (0 = scene setting)
	NumWorkers int     // Number of parallel workers (0 = scene setting)
}

// DefaultAnimationConfig returns a full turn in 5 degree steps starting at
// the scene's configured angle
func DefaultAnimationConfig(s *scene.Scene) AnimationConfig {
	return AnimationConfig{
		StartAngle: s.CameraConfig.Angle,
		AngleStep:  5,
		Frames:     72,
	}
}

// AngleForFrame returns the camera angle for a 1-based frame number, in [0, 360)
func (c AnimationConfig) AngleForFrame(frameNumber int) float64 {
	angle := math.Mod(c.StartAngle+float64(frameNumber-1)*c.AngleStep, 360)
	if angle < 0 {
		angle += 360
	}
	return angle
}

// Animator renders successive frames of an orbiting camera on a worker pool
type Animator struct {
	scene      *scene.Scene
	config     AnimationConfig
	raytracer  *Raytracer
	tiles      []*Tile
	workerPool *WorkerPool
	logger     core.Logger

	mu     sync.Mutex // Held for a whole frame and by Close
	closed bool
}

// NewAnimator creates an animator for a preprocessed scene
func NewAnimator(s *scene.Scene, config AnimationConfig, logger core.Logger) *Animator {
	if config.TileSize <= 0 {
		config.TileSize = s.RenderConfig.TileSize
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = s.RenderConfig.Workers()
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	raytracer := NewRaytracer(s)

	return &Animator{
		scene:      s,
		config:     config,
		raytracer:  raytracer,
		tiles:      NewTileGrid(raytracer.Width(), raytracer.Height(), config.TileSize),
		workerPool: NewWorkerPool(raytracer, config.TileSize, config.NumWorkers),
		logger:     logger,
	}
}

// Config returns the effective animation configuration
func (a *Animator) Config() AnimationConfig {
	return a.config
}

// TotalTiles returns the number of tiles per frame
func (a *Animator) TotalTiles() int {
	return len(a.tiles)
}

// Close stops the worker pool, waiting for a frame in progress to finish.
// The animator cannot render afterwards. Safe to call from any goroutine.
func (a *Animator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.workerPool.Stop()
}

// RenderFrame renders a single frame of the animation using parallel
// processing. tileCallback, if set, runs on the calling goroutine once per
// finished tile and must not call Close. Concurrent calls render one at a time.
func (a *Animator) RenderFrame(frameNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	return a.render(frameNumber, a.config.AngleForFrame(frameNumber), tileCallback)
}

// RenderAngle renders one frame at an arbitrary camera angle
func (a *Animator) RenderAngle(angle float64) (*image.RGBA, RenderStats, error) {
	return a.render(0, angle, nil)
}

func (a *Animator) render(frameNumber int, angle float64, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, RenderStats{}, ErrAnimatorClosed
	}
	a.workerPool.Start()

	start := time.Now()
	camera := a.raytracer.NewCamera(angle)
	img, sink := NewCanvas(a.raytracer.Width(), a.raytracer.Height())

	for taskID, tile := range a.tiles {
		a.workerPool.SubmitTask(TileTask{
			Tile:   tile,
			Camera: camera,
			Sink:   sink,
			TaskID: taskID,
		})
	}

	var stats RenderStats
	for i := 0; i < len(a.tiles); i++ {
		result, ok := a.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		stats.Merge(result.Stats)

		if tileCallback != nil {
			tile := a.tiles[result.TaskID]
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / a.config.TileSize,
				TileY:       tile.Bounds.Min.Y / a.config.TileSize,
				TileImage:   extractTileImage(img, tile.Bounds),
				FrameNumber: frameNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(a.tiles),
				TotalFrames: a.config.Frames,
			})
		}
	}

	stats.Duration = time.Since(start)
	return img, stats, nil
}

// FrameResult contains the result of a single frame
type FrameResult struct {
	FrameNumber int
	Angle       float64
	Image       *image.RGBA
	Stats       RenderStats
	IsLast      bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX       int // Tile coordinates (not pixel coordinates)
	TileY       int
	TileImage   *image.RGBA // Image data for just this tile
	FrameNumber int         // Which frame this tile belongs to

	// Progress information
	TileNumber  int // Current tile number in this frame (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalFrames int // Total number of frames planned, 0 when unbounded
}

// RenderOptions configures animation rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderAnimation renders frames in the background and returns channels for
// events. The caller should read from these channels in separate goroutines.
// If options.TileUpdates is false the tile channel is closed immediately.
// The animator is closed when rendering ends.
func (a *Animator) RenderAnimation(ctx context.Context, options RenderOptions) (<-chan FrameResult, <-chan TileCompletionResult, <-chan error) {
	frameChan := make(chan FrameResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(frameChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer a.Close()

		if a.config.Frames > 0 {
			a.logger.Printf("Starting animation with %d frames (%d tiles, %d workers)...\n",
				a.config.Frames, len(a.tiles), a.workerPool.GetNumWorkers())
		} else {
			a.logger.Printf("Starting continuous animation (%d tiles, %d workers)...\n",
				len(a.tiles), a.workerPool.GetNumWorkers())
		}

		for frame := 1; a.config.Frames <= 0 || frame <= a.config.Frames; frame++ {
			select {
			case <-ctx.Done():
				a.logger.Printf("Rendering cancelled before frame %d\n", frame)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full, drop the update
					}
				}
			}

			img, stats, err := a.RenderFrame(frame, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			angle := a.config.AngleForFrame(frame)
			a.logger.Printf("Frame %d (angle %.1f) completed in %v\n", frame, angle, stats.Duration)

			result := FrameResult{
				FrameNumber: frame,
				Angle:       angle,
				Image:       img,
				Stats:       stats,
				IsLast:      frame == a.config.Frames,
			}

			select {
			case frameChan <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frameChan, tileChan, errChan
}
