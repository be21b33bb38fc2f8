package stamp

import (
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlendOverOpaqueBase(t *testing.T) {
	// над непрозрачной основой формула сводится к out = src*a + dst*(1-a)
	c := NewCanvas(1, 1, ModeRGBA)
	c.Pix[0], c.Pix[1], c.Pix[2], c.Pix[3] = 0, 100, 200, 255

	blendOver(c, solidStamp(1, 1, color.NRGBA{R: 255, G: 0, B: 100, A: 128}), 0, 0)

	require.Equal(t, []uint8{128, 50, 150, 255}, c.Pix)
}

func TestBlendOverTransparentBase(t *testing.T) {
	c := NewCanvas(1, 1, ModeRGBA)

	blendOver(c, solidStamp(1, 1, color.NRGBA{R: 255, G: 0, B: 100, A: 128}), 0, 0)

	require.Equal(t, []uint8{255, 0, 100, 128}, c.Pix)
}

func TestBlendOverTranslucentBase(t *testing.T) {
	c := NewCanvas(1, 1, ModeRGBA)
	c.Pix[3] = 128 // чёрный с половинной альфой

	blendOver(c, solidStamp(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 128}), 0, 0)

	require.Equal(t, []uint8{170, 170, 170, 192}, c.Pix)
}

func TestBlendOverSkipsZeroAlpha(t *testing.T) {
	c := patternCanvas(5, 3, ModeRGBA)
	before := slices.Clone(c.Pix)

	blendOver(c, solidStamp(5, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 0}), 0, 0)

	require.Equal(t, before, c.Pix)
}

func TestBlendOverClipsAtEdges(t *testing.T) {
	c := NewCanvas(4, 4, ModeRGBA)
	stampImg := solidStamp(3, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	// частично за левым верхним краем: видна только 1x1 область
	blendOver(c, stampImg, -2, -2)
	require.Equal(t, []uint8{10, 20, 30, 255}, c.Pix[:4])
	require.Equal(t, uint8(0), c.Pix[7]) // сосед справа не тронут

	// полностью за пределами холста
	out := patternCanvas(4, 4, ModeRGBA)
	before := slices.Clone(out.Pix)
	blendOver(out, stampImg, 10, 10)
	blendOver(out, stampImg, -5, -5)
	require.Equal(t, before, out.Pix)
}

func TestWithAlphaRoundTrip(t *testing.T) {
	// RGB-холст после пустого прохода байт-в-байт прежний
	c := patternCanvas(7, 5, ModeRGB)
	before := slices.Clone(c.Pix)

	c.withAlpha(func(view *Canvas) {
		require.Equal(t, ModeRGBA, view.Mode)
		require.Len(t, view.Pix, 7*5*4)
	})

	require.Equal(t, ModeRGB, c.Mode)
	require.Equal(t, before, c.Pix)
}
