package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// PixelSink receives one unclamped color per pixel. Coordinates are centred:
// x in [-W/2, (W-1)/2] grows to the right and y in [-H/2, (H-1)/2] grows
// upward, using integer division on both axes.
// Implementations must accept concurrent calls for distinct pixels.
type PixelSink interface {
	SetPixel(x, y int, color core.Vec3)
}

// PixelSinkFunc adapts a function to the PixelSink interface
type PixelSinkFunc func(x, y int, color core.Vec3)

// SetPixel calls f(x, y, color)
func (f PixelSinkFunc) SetPixel(x, y int, color core.Vec3) {
	f(x, y, color)
}

// CanvasSink writes pixels into an RGBA image, flipping centred coordinates to
// buffer coordinates and clamping each channel to a byte
type CanvasSink struct {
	img *image.RGBA
}

// NewCanvasSink creates a sink that draws into img
func NewCanvasSink(img *image.RGBA) *CanvasSink {
	return &CanvasSink{img: img}
}

// NewCanvas creates a width x height image and a sink drawing into it
func NewCanvas(width, height int) (*image.RGBA, *CanvasSink) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return img, NewCanvasSink(img)
}

// Image returns the backing image
func (cs *CanvasSink) Image() *image.RGBA {
	return cs.img
}

// SetPixel stores color at centred coordinate (x, y). Pixels that fall outside
// the image are dropped.
func (cs *CanvasSink) SetPixel(x, y int, c core.Vec3) {
	bounds := cs.img.Bounds()
	bx, by := ToBufferCoords(x, y, bounds.Dx(), bounds.Dy())
	bx += bounds.Min.X
	by += bounds.Min.Y
	if !(image.Point{X: bx, Y: by}).In(bounds) {
		return
	}
	cs.img.SetRGBA(bx, by, ToRGBA(c))
}

// ToBufferCoords converts centred pixel coordinates to top-left origin buffer
// coordinates
func ToBufferCoords(x, y, width, height int) (int, int) {
	return width/2 + x, (height-1)/2 - y
}

// ToCentredCoords is the inverse of ToBufferCoords
func ToCentredCoords(i, j, width, height int) (int, int) {
	return i - width/2, (height-1)/2 - j
}

// ToRGBA clamps a color with 0-255 channels into an opaque RGBA value
func ToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: clampChannel(c.X),
		G: clampChannel(c.Y),
		B: clampChannel(c.Z),
		A: 255,
	}
}

func clampChannel(v float64) uint8 {
	// NaN compares false everywhere and ends up as 0
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// NeedsClamp reports whether any channel lies outside [0, 255]
func NeedsClamp(c core.Vec3) bool {
	return c.X < 0 || c.X > 255 || c.Y < 0 || c.Y > 255 || c.Z < 0 || c.Z > 255
}
