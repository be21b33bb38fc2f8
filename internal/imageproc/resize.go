package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Resizer decodes the source, resizes it to x*y and encodes the result.
// A zero on one axis preserves the source aspect ratio.
func Resizer(r io.Reader, x, y int, format imaging.Format, opts ...imaging.EncodeOption) (io.Reader, int64, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader baseIMG provided to Resizer")
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to DEcode baseIMG in Resizer: %w", err)
	}

	return encodeBuf(ResizeImage(img, x, y), format, opts...)
}

// ResizeImage is the in-memory resize used for already-decoded pages.
func ResizeImage(img image.Image, x, y int) *image.NRGBA {
	return imaging.Resize(img, x, y, imaging.Lanczos)
}
