package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// captureLogger records log lines for assertions
type captureLogger struct {
	lines []string
}

func (l *captureLogger) Printf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestAnimationConfig_AngleForFrame(t *testing.T) {
	tests := []struct {
		name     string
		config   AnimationConfig
		frame    int
		expected float64
	}{
		{"first frame", AnimationConfig{StartAngle: 30, AngleStep: 10}, 1, 30},
		{"third frame", AnimationConfig{StartAngle: 30, AngleStep: 10}, 3, 50},
		{"wraps past 360", AnimationConfig{StartAngle: 350, AngleStep: 20}, 2, 10},
		{"negative step", AnimationConfig{StartAngle: 0, AngleStep: -90}, 2, 270},
		{"still camera", AnimationConfig{StartAngle: 45}, 10, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if angle := tt.config.AngleForFrame(tt.frame); math.Abs(angle-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, angle)
			}
		})
	}
}

func TestDefaultAnimationConfig(t *testing.T) {
	s := scene.NewDefaultScene()
	s.CameraConfig.Angle = 15
	config := DefaultAnimationConfig(s)

	if config.StartAngle != 15 {
		t.Errorf("Expected start at scene angle 15, got %f", config.StartAngle)
	}
	if float64(config.Frames)*config.AngleStep != 360 {
		t.Errorf("Expected a full turn, got %d frames of %f degrees", config.Frames, config.AngleStep)
	}
}

func TestAnimator_RenderFrameMatchesSequential(t *testing.T) {
	s := scene.NewDefaultScene()
	s.RenderConfig.Width = 24
	s.RenderConfig.Height = 16
	s.RenderConfig.TileSize = 7
	s.RenderConfig.NumWorkers = 4

	animator := NewAnimator(s, AnimationConfig{StartAngle: 30, AngleStep: 10, Frames: 1}, &captureLogger{})
	defer animator.Close()

	tileCount := 0
	img, stats, err := animator.RenderFrame(1, func(result TileCompletionResult) {
		tileCount++
		if result.TileImage == nil || result.TotalTiles != animator.TotalTiles() {
			t.Errorf("Unexpected tile result %+v", result)
		}
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedTiles := 4 * 3
	if animator.TotalTiles() != expectedTiles || tileCount != expectedTiles {
		t.Errorf("Expected %d tiles, got %d (callbacks %d)", expectedTiles, animator.TotalTiles(), tileCount)
	}
	if stats.TotalTiles != expectedTiles || stats.TotalPixels != 24*16 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	// Parallel tiles must produce the same pixels as a sequential render
	sequential, sequentialStats := NewRaytracer(s).RenderImage(30)
	if !bytes.Equal(img.Pix, sequential.Pix) {
		t.Error("Parallel frame differs from sequential render")
	}
	if stats.BackgroundPixels != sequentialStats.BackgroundPixels || stats.ClampedPixels != sequentialStats.ClampedPixels {
		t.Errorf("Stats differ: parallel %+v, sequential %+v", stats, sequentialStats)
	}
}

func TestAnimator_RenderAnimation(t *testing.T) {
	s := createTestScene(t, 8, 8)
	logger := &captureLogger{}
	animator := NewAnimator(s, AnimationConfig{StartAngle: 0, AngleStep: 120, Frames: 3}, logger)

	frameChan, tileChan, errChan := animator.RenderAnimation(context.Background(), RenderOptions{TileUpdates: true})

	tiles := 0
	done := make(chan struct{})
	go func() {
		for range tileChan {
			tiles++
		}
		close(done)
	}()

	var frames []FrameResult
	for frame := range frameChan {
		frames = append(frames, frame)
	}
	<-done

	if err := <-errChan; err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedAngles := []float64{0, 120, 240}
	if len(frames) != len(expectedAngles) {
		t.Fatalf("Expected %d frames, got %d", len(expectedAngles), len(frames))
	}
	for i, frame := range frames {
		if frame.FrameNumber != i+1 {
			t.Errorf("Frame %d: unexpected number %d", i, frame.FrameNumber)
		}
		if math.Abs(frame.Angle-expectedAngles[i]) > 1e-9 {
			t.Errorf("Frame %d: expected angle %f, got %f", i, expectedAngles[i], frame.Angle)
		}
		if frame.IsLast != (i == len(frames)-1) {
			t.Errorf("Frame %d: unexpected IsLast %v", i, frame.IsLast)
		}
		// The sphere sits on the orbit axis, so every angle sees it in the centre
		if c := frame.Image.RGBAAt(4, 3); c.R != 51 {
			t.Errorf("Frame %d: expected sphere at centre, got %v", i, c)
		}
	}

	if tiles != 3*animator.TotalTiles() {
		t.Errorf("Expected %d tile updates, got %d", 3*animator.TotalTiles(), tiles)
	}
	if len(logger.lines) == 0 {
		t.Error("Expected progress to be logged")
	}

	// Rendering ends by closing the animator
	if _, _, err := animator.RenderFrame(1, nil); !errors.Is(err, ErrAnimatorClosed) {
		t.Errorf("Expected ErrAnimatorClosed, got %v", err)
	}
}

func TestAnimator_RenderAnimationCancelled(t *testing.T) {
	s := createTestScene(t, 8, 8)
	animator := NewAnimator(s, AnimationConfig{AngleStep: 1}, &captureLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frameChan, tileChan, errChan := animator.RenderAnimation(ctx, RenderOptions{})

	for range frameChan {
	}
	if _, ok := <-tileChan; ok {
		t.Error("Expected tile channel to be closed when tile updates are disabled")
	}
	if err := <-errChan; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewAnimator_Defaults(t *testing.T) {
	s := createTestScene(t, 8, 8)
	animator := NewAnimator(s, AnimationConfig{Frames: 1}, nil)
	defer animator.Close()

	config := animator.Config()
	if config.TileSize != s.RenderConfig.TileSize {
		t.Errorf("Expected scene tile size %d, got %d", s.RenderConfig.TileSize, config.TileSize)
	}
	if config.NumWorkers != s.RenderConfig.NumWorkers {
		t.Errorf("Expected scene worker count %d, got %d", s.RenderConfig.NumWorkers, config.NumWorkers)
	}
	if _, ok := animator.logger.(*DefaultLogger); !ok {
		t.Errorf("Expected default logger, got %T", animator.logger)
	}
}

func TestAnimator_RenderAngle(t *testing.T) {
	s := createTestScene(t, 12, 8)
	animator := NewAnimator(s, AnimationConfig{}, &captureLogger{})
	defer animator.Close()

	for _, angle := range []float64{0, 45, 270} {
		img, stats, err := animator.RenderAngle(angle)
		if err != nil {
			t.Fatalf("Angle %f: unexpected error: %v", angle, err)
		}
		expected, _ := NewRaytracer(s).RenderImage(angle)
		if !bytes.Equal(img.Pix, expected.Pix) {
			t.Errorf("Angle %f: parallel frame differs from sequential render", angle)
		}
		if stats.TotalPixels != 12*8 {
			t.Errorf("Angle %f: expected %d pixels, got %d", angle, 12*8, stats.TotalPixels)
		}
	}
}

func TestAnimator_CloseWhileRendering(t *testing.T) {
	s := createTestScene(t, 12, 8)
	animator := NewAnimator(s, AnimationConfig{}, &captureLogger{})
	expected, _ := NewRaytracer(s).RenderImage(30)

	const renders = 8
	errs := make(chan error, renders)
	var wg sync.WaitGroup
	for i := 0; i < renders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, _, err := animator.RenderAngle(30)
			if err == nil && !bytes.Equal(img.Pix, expected.Pix) {
				err = fmt.Errorf("frame differs from sequential render")
			}
			errs <- err
		}()
	}

	closeDone := make(chan struct{})
	go func() {
		defer close(closeDone)
		animator.Close()
	}()

	wg.Wait()
	<-closeDone
	close(errs)

	for err := range errs {
		if err != nil && !errors.Is(err, ErrAnimatorClosed) {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if _, _, err := animator.RenderAngle(30); !errors.Is(err, ErrAnimatorClosed) {
		t.Errorf("Expected ErrAnimatorClosed after Close, got %v", err)
	}

	// A second Close is harmless
	animator.Close()
}
