package stamp

// Position names the anchor rule used to place a single stamp.
type Position string

const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
	Center      Position = "center"
)

// Margin is the fixed inset from the canvas edges for corner anchors.
const Margin = 20

// Known reports whether p is one of the five supported anchors.
func (p Position) Known() bool {
	switch p {
	case TopLeft, TopRight, BottomLeft, BottomRight, Center:
		return true
	}
	return false
}

// Anchor resolves the top-left placement of a (w,h) stamp on a (W,H) canvas.
// Coordinates may be negative or lie outside the canvas when the stamp does
// not fit; the blender clips, placement never fails.
func (p Position) Anchor(W, H, w, h int) (x, y int, ok bool) {
	switch p {
	case TopLeft:
		return Margin, Margin, true
	case TopRight:
		return W - w - Margin, Margin, true
	case BottomLeft:
		return Margin, H - h - Margin, true
	case BottomRight:
		return W - w - Margin, H - h - Margin, true
	case Center:
		return (W - w) / 2, (H - h) / 2, true
	}
	return 0, 0, false
}
