package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Compressor shrinks the source so both sides fit maxSize and re-encodes it
// with the given options; it never upscales.
func Compressor(r io.Reader, maxSize int, format imaging.Format, opts ...imaging.EncodeOption) (io.Reader, int64, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader baseIMG provided to Compressor")
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to DEcode baseIMG in Compressor: %w", err)
	}

	return encodeBuf(CompressImage(img, maxSize), format, opts...)
}

// CompressImage fits the image into a maxSize square, keeping the ratio.
// maxSize <= 0 keeps dimensions as is: только перекодирование с новым качеством.
func CompressImage(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}
