// Package mirror implements the shared 2D canvas: clicks draw a small
// square, the whole canvas is snapshotted into a shared store, and other
// contexts repaint themselves from the snapshot.
package mirror

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// SquareSize is the side length of a drawn square, in pixels.
const SquareSize = 10

// Background is the color of an empty canvas.
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// SquareColor is the fill color of drawn squares.
var SquareColor = color.RGBA{R: 0xff, A: 0xff}

// Canvas is a 2D raster drawing surface.
type Canvas struct {
	dc *gg.Context
}

// NewCanvas creates a cleared canvas of the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{dc: gg.NewContext(width, height)}
	c.Clear()
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.dc.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.dc.Height() }

// Clear fills the canvas with the background color.
func (c *Canvas) Clear() {
	c.dc.ClearWithColor(gg.FromColor(Background))
}

// DrawSquare fills a SquareSize square centered at (x, y).
func (c *Canvas) DrawSquare(x, y float64) error {
	const half = SquareSize / 2

	c.dc.SetColor(SquareColor)
	c.dc.DrawRectangle(x-half, y-half, SquareSize, SquareSize)
	return errors.Wrap(c.dc.Fill(), "fill square")
}

// RGBA returns a copy of the canvas pixels.
func (c *Canvas) RGBA() *image.RGBA {
	return toRGBA(c.dc.Image())
}

// Snapshot encodes the whole canvas as a PNG data URL.
func (c *Canvas) Snapshot() (string, error) {
	return EncodeDataURL(c.dc.Image())
}

// Restore replaces the canvas contents with the image encoded in dataURL.
// The image is drawn at the top-left corner over a cleared canvas; parts
// outside the canvas bounds are cut off.
func (c *Canvas) Restore(dataURL string) error {
	img, err := DecodeDataURL(dataURL)
	if err != nil {
		return err
	}

	dst := image.NewRGBA(image.Rect(0, 0, c.Width(), c.Height()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)

	c.dc.Close()
	c.dc = gg.NewContextForImage(dst)
	return nil
}

// toRGBA returns img as a tightly packed *image.RGBA anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
