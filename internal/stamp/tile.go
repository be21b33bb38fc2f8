package stamp

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
)

// TilePlan is the geometry of a tiled text overlay: the grid step derived
// from one stamp box and the spacing factor, and the 2x2 padded block that
// repeats across the rotation field.
type TilePlan struct {
	StepX, StepY   int
	BlockW, BlockH int
	Angle          float64
}

// PlanTile derives tiling geometry from the rendered stamp box (tw,th).
// Degenerate boxes or steps yield ok=false and the caller must treat the
// whole request as a no-op.
func PlanTile(tw, th int, spacing, angle float64) (TilePlan, bool) {
	if tw <= 0 || th <= 0 {
		return TilePlan{}, false
	}
	stepX := int(float64(tw) * spacing)
	stepY := int(float64(th) * spacing)
	if stepX <= 0 || stepY <= 0 {
		return TilePlan{}, false
	}
	return TilePlan{
		StepX:  stepX,
		StepY:  stepY,
		BlockW: 2 * stepX,
		BlockH: 2 * stepY,
		Angle:  angle,
	}, true
}

// buildTileBlock draws four stamp copies into the padded block at (0,0),
// (stepX,0), (0,stepY) and (stepX,stepY). Steps shorter than the stamp make
// copies overlap, so they go in with Over rather than Src.
func buildTileBlock(stampImg *image.NRGBA, plan TilePlan) *image.NRGBA {
	block := image.NewNRGBA(image.Rect(0, 0, plan.BlockW, plan.BlockH))
	sb := stampImg.Bounds()
	for _, at := range [...]image.Point{
		{0, 0},
		{plan.StepX, 0},
		{0, plan.StepY},
		{plan.StepX, plan.StepY},
	} {
		r := image.Rect(at.X, at.Y, at.X+sb.Dx(), at.Y+sb.Dy())
		draw.Draw(block, r, stampImg, sb.Min, draw.Over)
	}
	return block
}

// buildTiledOverlay tiles the block across a square field wide enough to
// cover the canvas diagonal from its center, then rotates the whole field
// counter-clockwise over a transparent background. Rotating the assembled
// field keeps the repeat seamless and leaves no bare corners at any angle.
func buildTiledOverlay(stampImg *image.NRGBA, W, H int, plan TilePlan) *image.NRGBA {
	block := buildTileBlock(stampImg, plan)

	// запас в один блок с каждой стороны поверх диагонали холста
	side := int(math.Ceil(math.Hypot(float64(W), float64(H))))
	side += 2 * max(plan.BlockW, plan.BlockH)

	field := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y += plan.BlockH {
		for x := 0; x < side; x += plan.BlockW {
			draw.Draw(field, image.Rect(x, y, x+plan.BlockW, y+plan.BlockH), block, image.Point{}, draw.Src)
		}
	}

	return imaging.Rotate(field, plan.Angle, color.NRGBA{})
}

// overlayCentered blends the rotated field so its center lands on the canvas
// center; everything outside the canvas is clipped.
func overlayCentered(view *Canvas, overlay *image.NRGBA) {
	offX := (view.W - overlay.Bounds().Dx()) / 2
	offY := (view.H - overlay.Bounds().Dy()) / 2
	blendOver(view, overlay, offX, offY)
}
