package stamp

import (
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextSingleApply(t *testing.T) {
	face := testFace(t, 24)
	c := NewCanvas(400, 200, ModeRGB)

	res, err := TextSingle{Text: "sample", Position: BottomRight, Face: face, Opacity: 0.8}.Apply(c)

	require.NoError(t, err)
	require.Equal(t, Applied, res)
	require.Equal(t, ModeRGB, c.Mode)
	require.Len(t, c.Pix, 400*200*3)
	require.True(t, slices.ContainsFunc(c.Pix, func(b uint8) bool { return b != 0 }), "no ink landed on the canvas")
}

func TestTextSingleNoOps(t *testing.T) {
	face := testFace(t, 24)
	tests := []struct {
		name string
		wm   TextSingle
	}{
		{name: "empty text", wm: TextSingle{Text: "", Position: Center, Face: face, Opacity: 1}},
		{name: "unknown position", wm: TextSingle{Text: "sample", Position: "nowhere", Face: face, Opacity: 1}},
		{name: "spaces render no ink", wm: TextSingle{Text: "   ", Position: Center, Face: face, Opacity: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := patternCanvas(100, 60, ModeRGB)
			before := slices.Clone(c.Pix)

			res, err := tc.wm.Apply(c)

			require.NoError(t, err)
			require.Equal(t, SkippedNoOp, res)
			require.Equal(t, before, c.Pix)
		})
	}
}

func TestTextSingleNilFace(t *testing.T) {
	c := NewCanvas(100, 60, ModeRGB)
	res, err := TextSingle{Text: "sample", Position: Center, Opacity: 1}.Apply(c)
	require.ErrorIs(t, err, ErrNilFace)
	require.Equal(t, SkippedNoOp, res)
}

func TestApplyBadCanvas(t *testing.T) {
	face := testFace(t, 24)
	tests := []struct {
		name string
		c    *Canvas
	}{
		{name: "nil canvas", c: nil},
		{name: "zero width", c: &Canvas{Pix: []uint8{}, W: 0, H: 10, Mode: ModeRGB}},
		{name: "pix length mismatch", c: &Canvas{Pix: make([]uint8, 5), W: 10, H: 10, Mode: ModeRGB}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TextSingle{Text: "sample", Position: Center, Face: face, Opacity: 1}.Apply(tc.c)
			require.ErrorIs(t, err, ErrBadCanvas)
		})
	}
}

func TestTextTiledApply(t *testing.T) {
	face := testFace(t, 18)
	c := NewCanvas(300, 150, ModeRGB)

	res, err := TextTiled{Text: "sample", Face: face, Opacity: 0.4, Angle: 45, Spacing: 1.5}.Apply(c)

	require.NoError(t, err)
	require.Equal(t, Applied, res)
	require.True(t, slices.ContainsFunc(c.Pix, func(b uint8) bool { return b != 0 }))
}

func TestTextTiledNoOps(t *testing.T) {
	face := testFace(t, 18)
	tests := []struct {
		name string
		wm   TextTiled
	}{
		{name: "empty text", wm: TextTiled{Text: "", Face: face, Opacity: 1, Angle: 45, Spacing: 1.5}},
		{name: "spaces render no ink", wm: TextTiled{Text: " ", Face: face, Opacity: 1, Angle: 45, Spacing: 1.5}},
		{name: "degenerate spacing", wm: TextTiled{Text: "sample", Face: face, Opacity: 1, Angle: 45, Spacing: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := patternCanvas(120, 80, ModeRGB)
			before := slices.Clone(c.Pix)

			res, err := tc.wm.Apply(c)

			require.NoError(t, err)
			require.Equal(t, SkippedNoOp, res)
			require.Equal(t, before, c.Pix)
		})
	}
}

func TestImageStampApply(t *testing.T) {
	src := solidStamp(100, 50, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	c := NewCanvas(200, 100, ModeRGB)

	res, err := ImageStamp{Source: src, Position: TopLeft, Scale: 0.5, Opacity: 1}.Apply(c)

	require.NoError(t, err)
	require.Equal(t, Applied, res)

	// короткая сторона 100 * 0.5 = 50, штамп 50x25 в точке (20,20)
	at := func(x, y int) []uint8 { i := (y*c.W + x) * 3; return c.Pix[i : i+3] }
	require.Equal(t, []uint8{200, 10, 10}, at(21, 21))
	require.Equal(t, []uint8{0, 0, 0}, at(0, 0))
	require.Equal(t, []uint8{0, 0, 0}, at(80, 50))
}

func TestImageStampZeroOpacityKeepsBytes(t *testing.T) {
	for _, mode := range []Mode{ModeRGB, ModeRGBA} {
		c := patternCanvas(31, 17, mode)
		before := slices.Clone(c.Pix)

		res, err := ImageStamp{
			Source:   solidStamp(8, 8, color.NRGBA{R: 255, A: 255}),
			Position: Center,
			Scale:    0.5,
			Opacity:  0,
		}.Apply(c)

		require.NoError(t, err)
		require.Equal(t, Applied, res)
		require.Equal(t, before, c.Pix, "mode %v", mode)
	}
}

func TestTextZeroOpacityKeepsBytes(t *testing.T) {
	face := testFace(t, 24)
	c := patternCanvas(160, 90, ModeRGB)
	before := slices.Clone(c.Pix)

	res, err := TextTiled{Text: "sample", Face: face, Opacity: 0, Angle: 30, Spacing: 1.5}.Apply(c)

	require.NoError(t, err)
	require.Equal(t, Applied, res)
	require.Equal(t, before, c.Pix)
}

func TestImageStampErrors(t *testing.T) {
	c := NewCanvas(50, 50, ModeRGB)

	_, err := ImageStamp{Source: nil, Position: Center, Scale: 0.2, Opacity: 1}.Apply(c)
	require.ErrorIs(t, err, ErrNilSource)

	_, err = ImageStamp{Source: solidStamp(0, 0, color.NRGBA{}), Position: Center, Scale: 0.2, Opacity: 1}.Apply(c)
	require.ErrorIs(t, err, ErrNilSource)
}

func TestImageStampUnknownPositionSkips(t *testing.T) {
	c := patternCanvas(50, 50, ModeRGB)
	before := slices.Clone(c.Pix)

	res, err := ImageStamp{Source: solidStamp(10, 10, color.NRGBA{A: 255}), Position: "everywhere", Scale: 0.2, Opacity: 1}.Apply(c)

	require.NoError(t, err)
	require.Equal(t, SkippedNoOp, res)
	require.Equal(t, before, c.Pix)
}
