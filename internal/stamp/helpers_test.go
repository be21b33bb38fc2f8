package stamp

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// testFace builds a face from the embedded Go Regular font.
func testFace(t *testing.T, size float64) font.Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	require.NoError(t, err)
	return face
}

// solidStamp returns a w*h image uniformly filled with c.
func solidStamp(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// patternCanvas fills the canvas with a deterministic byte pattern.
func patternCanvas(w, h int, mode Mode) *Canvas {
	c := NewCanvas(w, h, mode)
	for i := range c.Pix {
		c.Pix[i] = uint8(i*7 + 13)
	}
	return c
}
