// Package output turns rendered frames into files and display-sized images.
package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
)

// captionPadding is the space around caption text, in pixels
const captionPadding = 4

// Scale resizes img to width x height with Catmull-Rom filtering
func Scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// ScaleNearest resizes img to width x height keeping hard pixel edges. It is
// cheap enough to run on every displayed frame.
func ScaleNearest(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Annotate returns a copy of img with caption drawn on a dark strip along the
// bottom edge. An empty caption returns an unmodified copy.
func Annotate(img *image.RGBA, caption string) *image.RGBA {
	bounds := img.Bounds()
	annotated := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Copy(annotated, image.Point{}, img, bounds, xdraw.Src, nil)
	if caption == "" {
		return annotated
	}

	face := basicfont.Face7x13
	stripHeight := float64(face.Height + 2*captionPadding)
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	dc := gg.NewContextForRGBA(annotated)
	dc.SetFontFace(face)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, height-stripHeight, width, stripHeight)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(caption, captionPadding, height-stripHeight/2, 0, 0.5)

	return annotated
}

// SavePNG writes img to filename, creating parent directories as needed.
// A non-empty caption is drawn along the bottom of the saved image.
func SavePNG(img *image.RGBA, filename, caption string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	dc := gg.NewContextForRGBA(Annotate(img, caption))
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

// EncodePNG writes img as PNG to w with an optional caption
func EncodePNG(w io.Writer, img *image.RGBA, caption string) error {
	dc := gg.NewContextForRGBA(Annotate(img, caption))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// FrameFilename returns the output path for a frame: dir/<scene>/frame_0001.png
func FrameFilename(dir, sceneName string, frameNumber int) string {
	return filepath.Join(dir, SafeName(sceneName), fmt.Sprintf("frame_%04d.png", frameNumber))
}

// SafeName turns a scene name such as "json:scenes/row.json" into a single
// path element
func SafeName(name string) string {
	name = strings.TrimSuffix(filepath.Base(strings.TrimPrefix(name, "json:")), ".json")
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\', ' ':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		return "scene"
	}
	return name
}
