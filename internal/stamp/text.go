package stamp

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// renderStamp rasterizes one line of text into a transparent stamp sized by
// the face's bounding box for that exact string. The box is authoritative:
// the pen starts at -box.Min so every glyph lands inside the stamp even for
// faces whose ink starts left of the origin. Text whose box is empty
// (spaces only, zero-width glyphs) yields nil.
func renderStamp(face font.Face, text string, fill color.NRGBA) *image.NRGBA {
	box, _ := font.BoundString(face, text)
	w := (box.Max.X - box.Min.X).Ceil()
	h := (box.Max.Y - box.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fill),
		Face: face,
		Dot:  fixed.Point26_6{X: -box.Min.X, Y: -box.Min.Y},
	}
	d.DrawString(text)
	return img
}
