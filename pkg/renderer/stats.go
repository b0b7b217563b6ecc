package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about a rendered frame or tile
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalTiles       int           // Number of tiles the pixels were split into
	BackgroundPixels int           // Pixels whose color equals the scene background
	ClampedPixels    int           // Pixels with a channel outside [0, 255] before clamping
	Duration         time.Duration // Wall time spent rendering
}

// Merge accumulates the counters of other into s. Durations are not summed
// because tiles render concurrently.
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalTiles += other.TotalTiles
	s.BackgroundPixels += other.BackgroundPixels
	s.ClampedPixels += other.ClampedPixels
}

// CoverageRatio returns the fraction of pixels that hit geometry
func (s RenderStats) CoverageRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalPixels-s.BackgroundPixels) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixelCount := bounds.Dx() * bounds.Dy()
	if pixelCount == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
		}
	}
	return total / float64(pixelCount)
}
