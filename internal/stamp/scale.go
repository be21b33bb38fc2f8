package stamp

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MinStampSide is the smallest allowed target for a scaled watermark, so
// the stamp stays legible on tiny canvases.
const MinStampSide = 24

// ScaleTarget returns the size the longer watermark side should get on a
// (W,H) canvas: a scale fraction of the canvas short side, floored at
// MinStampSide.
func ScaleTarget(W, H int, scale float64) int {
	short := min(W, H)
	target := int(float64(short) * scale)
	if target < MinStampSide {
		return MinStampSide
	}
	return target
}

// scaleStamp resizes the watermark so its longer side equals target while
// preserving the aspect ratio.
func scaleStamp(src image.Image, target int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() >= b.Dy() {
		return imaging.Resize(src, target, 0, imaging.Lanczos)
	}
	return imaging.Resize(src, 0, target, imaging.Lanczos)
}

// applyOpacity multiplies the alpha channel uniformly. Fully transparent
// pixels stay fully transparent.
func applyOpacity(img *image.NRGBA, opacity float64) {
	if opacity >= 1 {
		return
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * opacity))
	}
}
