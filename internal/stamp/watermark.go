package stamp

import (
	"errors"
	"image"

	"golang.org/x/image/font"
)

// Result tells whether a watermark actually changed the canvas.
type Result int

const (
	// SkippedNoOp - the request was a deliberate no-op (empty text, unknown
	// position, degenerate glyph box); the canvas is byte-identical.
	SkippedNoOp Result = iota
	// Applied - the watermark was blended into the canvas.
	Applied
)

var (
	ErrBadCanvas = errors.New("canvas has invalid dimensions")
	ErrNilFace   = errors.New("text watermark requires a font face")
	ErrNilSource = errors.New("image watermark requires a source image")
)

// Watermark is one request variant; exactly one variant is applied per
// invocation.
type Watermark interface {
	Apply(c *Canvas) (Result, error)
}

// TextSingle stamps one text instance at a named anchor.
type TextSingle struct {
	Text     string
	Position Position
	Face     font.Face
	Fill     *RGB
	Opacity  float64
}

func (r TextSingle) Apply(c *Canvas) (Result, error) {
	if err := checkCanvas(c); err != nil {
		return SkippedNoOp, err
	}
	if r.Text == "" || !r.Position.Known() {
		return SkippedNoOp, nil
	}
	if r.Face == nil {
		return SkippedNoOp, ErrNilFace
	}

	stampImg := renderStamp(r.Face, r.Text, ResolveFill(r.Fill, r.Opacity))
	if stampImg == nil {
		return SkippedNoOp, nil
	}

	x, y, _ := r.Position.Anchor(c.W, c.H, stampImg.Bounds().Dx(), stampImg.Bounds().Dy())
	c.withAlpha(func(view *Canvas) {
		blendOver(view, stampImg, x, y)
	})
	return Applied, nil
}

// TextTiled covers the whole canvas with rotated, repeated text.
type TextTiled struct {
	Text    string
	Face    font.Face
	Fill    *RGB
	Opacity float64
	Angle   float64
	Spacing float64
}

func (r TextTiled) Apply(c *Canvas) (Result, error) {
	if err := checkCanvas(c); err != nil {
		return SkippedNoOp, err
	}
	if r.Text == "" {
		return SkippedNoOp, nil
	}
	if r.Face == nil {
		return SkippedNoOp, ErrNilFace
	}

	stampImg := renderStamp(r.Face, r.Text, ResolveFill(r.Fill, r.Opacity))
	if stampImg == nil {
		return SkippedNoOp, nil
	}

	plan, ok := PlanTile(stampImg.Bounds().Dx(), stampImg.Bounds().Dy(), r.Spacing, r.Angle)
	if !ok {
		return SkippedNoOp, nil
	}

	overlay := buildTiledOverlay(stampImg, c.W, c.H, plan)
	c.withAlpha(func(view *Canvas) {
		overlayCentered(view, overlay)
	})
	return Applied, nil
}

// ImageStamp blends a pre-decoded watermark image at a named anchor, scaled
// relative to the canvas short side.
type ImageStamp struct {
	Source   image.Image
	Position Position
	Scale    float64
	Opacity  float64
}

func (r ImageStamp) Apply(c *Canvas) (Result, error) {
	if err := checkCanvas(c); err != nil {
		return SkippedNoOp, err
	}
	if r.Source == nil {
		return SkippedNoOp, ErrNilSource
	}
	if b := r.Source.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return SkippedNoOp, ErrNilSource
	}
	if !r.Position.Known() {
		return SkippedNoOp, nil
	}

	wm := scaleStamp(r.Source, ScaleTarget(c.W, c.H, r.Scale))
	applyOpacity(wm, r.Opacity)

	x, y, _ := r.Position.Anchor(c.W, c.H, wm.Bounds().Dx(), wm.Bounds().Dy())
	c.withAlpha(func(view *Canvas) {
		blendOver(view, wm, x, y)
	})
	return Applied, nil
}

func checkCanvas(c *Canvas) error {
	if c == nil || c.W <= 0 || c.H <= 0 || len(c.Pix) != c.W*c.H*c.Mode.channels() {
		return ErrBadCanvas
	}
	return nil
}
