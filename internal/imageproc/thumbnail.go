package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Thumbnailer decodes the source and produces an x*y thumbnail with a
// centered crop.
func Thumbnailer(r io.Reader, x, y int, format imaging.Format, opts ...imaging.EncodeOption) (io.Reader, int64, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader baseIMG provided to Thumbnailer")
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to DEcode baseIMG in Thumbnailer: %w", err)
	}

	return encodeBuf(ThumbnailImage(img, x, y), format, opts...)
}

// ThumbnailImage is the in-memory thumbnail used for already-decoded pages.
func ThumbnailImage(img image.Image, x, y int) *image.NRGBA {
	return imaging.Thumbnail(img, x, y, imaging.Lanczos)
}
