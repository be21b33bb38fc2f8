// Package stamp implements the watermark compositing engine: anchor
// resolution for single stamps, rotated tiled text overlays, proportional
// image stamps and source-over blending onto a decoded canvas.
package stamp

import (
	"image"

	"github.com/disintegration/imaging"
)

// Mode is the color representation of a Canvas buffer.
type Mode uint8

const (
	// ModeRGB - opaque canvas, 3 bytes per pixel.
	ModeRGB Mode = iota
	// ModeRGBA - straight (non-premultiplied) alpha, 4 bytes per pixel.
	ModeRGBA
)

func (m Mode) channels() int {
	if m == ModeRGB {
		return 3
	}
	return 4
}

// Canvas is the mutable pixel buffer being watermarked. Pix holds
// W*H*channels bytes in row-major order.
type Canvas struct {
	Pix  []uint8
	W, H int
	Mode Mode
}

func NewCanvas(w, h int, mode Mode) *Canvas {
	return &Canvas{Pix: make([]uint8, w*h*mode.channels()), W: w, H: h, Mode: mode}
}

// FromImage converts a decoded image into a Canvas. Fully opaque sources
// (JPEG, truecolor PNG) become ModeRGB so re-encoding keeps the original
// color representation; anything carrying transparency becomes ModeRGBA.
func FromImage(img image.Image) *Canvas {
	// imaging.Clone нормализует любой image.Image в NRGBA с нулевым Min
	n := imaging.Clone(img)
	w, h := n.Bounds().Dx(), n.Bounds().Dy()

	mode := ModeRGBA
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		mode = ModeRGB
	}

	c := NewCanvas(w, h, mode)
	if mode == ModeRGBA {
		copy(c.Pix, n.Pix)
		return c
	}
	for i, j := 0, 0; j < len(n.Pix); i, j = i+3, j+4 {
		c.Pix[i+0] = n.Pix[j+0]
		c.Pix[i+1] = n.Pix[j+1]
		c.Pix[i+2] = n.Pix[j+2]
	}
	return c
}

// Image returns the canvas content for encoding. ModeRGB canvases come back
// fully opaque; the PNG encoder then drops the alpha channel on its own.
func (c *Canvas) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, c.W, c.H))
	if c.Mode == ModeRGBA {
		copy(out.Pix, c.Pix)
		return out
	}
	for i, j := 0, 0; i < len(c.Pix); i, j = i+3, j+4 {
		out.Pix[j+0] = c.Pix[i+0]
		out.Pix[j+1] = c.Pix[i+1]
		out.Pix[j+2] = c.Pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

// promoted returns an alpha-capable view of the canvas: the canvas itself
// for ModeRGBA, otherwise a fresh RGBA buffer with full opacity everywhere.
func (c *Canvas) promoted() *Canvas {
	if c.Mode == ModeRGBA {
		return c
	}
	p := NewCanvas(c.W, c.H, ModeRGBA)
	for i, j := 0, 0; i < len(c.Pix); i, j = i+3, j+4 {
		p.Pix[j+0] = c.Pix[i+0]
		p.Pix[j+1] = c.Pix[i+1]
		p.Pix[j+2] = c.Pix[i+2]
		p.Pix[j+3] = 0xff
	}
	return p
}

// demote writes the RGB channels of a promoted view back into an RGB canvas,
// discarding alpha. Blending source-over onto a fully opaque view keeps it
// fully opaque, so dropping the channel loses nothing.
func (c *Canvas) demote(view *Canvas) {
	if view == c {
		return
	}
	for i, j := 0, 0; i < len(c.Pix); i, j = i+3, j+4 {
		c.Pix[i+0] = view.Pix[j+0]
		c.Pix[i+1] = view.Pix[j+1]
		c.Pix[i+2] = view.Pix[j+2]
	}
}

// withAlpha runs fn over an alpha-capable view of the canvas and releases
// the view back into the original representation before returning.
func (c *Canvas) withAlpha(fn func(view *Canvas)) {
	view := c.promoted()
	fn(view)
	c.demote(view)
}
