package renderer

import (
	"image"
	"math"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/integrator"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// PrimaryTMin is the near clipping distance of camera rays; the viewport
// plane sits at distance 1
const PrimaryTMin = 1.0

// Raytracer drives the integrator over the pixels of a frame
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	depth      int
}

// NewRaytracer creates a frame driver for a preprocessed scene at its configured size
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:      s,
		integrator: integrator.NewWhittedIntegrator(s),
		width:      s.RenderConfig.Width,
		height:     s.RenderConfig.Height,
		depth:      s.RenderConfig.RecursionDepth,
	}
}

// Width returns the frame width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the frame height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// NewCamera returns the scene camera orbited to angle degrees
func (rt *Raytracer) NewCamera(angle float64) *geometry.Camera {
	return geometry.NewCamera(rt.scene.CameraConfig, rt.width, rt.height).WithAngle(angle)
}

// TracePixel returns the color for centred pixel (x, y)
func (rt *Raytracer) TracePixel(camera *geometry.Camera, x, y int) core.Vec3 {
	return rt.integrator.TraceRay(camera.GetRay(x, y), PrimaryTMin, math.Inf(1), rt.depth)
}

// RenderBounds traces every pixel inside bounds (buffer coordinates, top-left
// origin) and hands the centred coordinates and color to sink
func (rt *Raytracer) RenderBounds(camera *geometry.Camera, bounds image.Rectangle, sink PixelSink) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		TotalTiles:  1,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			x, y := ToCentredCoords(i, j, rt.width, rt.height)
			color := rt.TracePixel(camera, x, y)

			if color == rt.scene.BackgroundColor {
				stats.BackgroundPixels++
			}
			if NeedsClamp(color) {
				stats.ClampedPixels++
			}

			sink.SetPixel(x, y, color)
		}
	}

	return stats
}

// RenderFrame renders the whole frame at angle into sink on the calling goroutine
func (rt *Raytracer) RenderFrame(angle float64, sink PixelSink) RenderStats {
	start := time.Now()
	stats := rt.RenderBounds(rt.NewCamera(angle), image.Rect(0, 0, rt.width, rt.height), sink)
	stats.Duration = time.Since(start)
	return stats
}

// RenderImage renders the frame at angle into a new image
func (rt *Raytracer) RenderImage(angle float64) (*image.RGBA, RenderStats) {
	img, sink := NewCanvas(rt.width, rt.height)
	stats := rt.RenderFrame(angle, sink)
	return img, stats
}
