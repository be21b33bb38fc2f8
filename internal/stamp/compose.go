package stamp

import "image"

// blendOver composites src onto the view at (atX,atY) with straight-alpha
// source-over, clipping to the canvas. Pixels with zero source alpha are
// skipped entirely, so the destination bytes underneath stay untouched.
func blendOver(dst *Canvas, src *image.NRGBA, atX, atY int) {
	sb := src.Bounds()
	x0 := max(atX, 0)
	y0 := max(atY, 0)
	x1 := min(atX+sb.Dx(), dst.W)
	y1 := min(atY+sb.Dy(), dst.H)

	for y := y0; y < y1; y++ {
		si := src.PixOffset(sb.Min.X+(x0-atX), sb.Min.Y+(y-atY))
		di := (y*dst.W + x0) * 4
		for x := x0; x < x1; x++ {
			sa := src.Pix[si+3]
			if sa != 0 {
				a2 := float64(sa) / 255
				a1 := float64(dst.Pix[di+3]) / 255
				a := a2 + a1*(1-a2)
				for k := 0; k < 3; k++ {
					c2 := float64(src.Pix[si+k])
					c1 := float64(dst.Pix[di+k])
					dst.Pix[di+k] = uint8((c2*a2+c1*a1*(1-a2))/a + 0.5)
				}
				dst.Pix[di+3] = uint8(a*255 + 0.5)
			}
			si += 4
			di += 4
		}
	}
}
