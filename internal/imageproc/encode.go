package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

func encodeBuf(img image.Image, format imaging.Format, opts ...imaging.EncodeOption) (io.Reader, int64, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, 0, fmt.Errorf("failed to ENcode resultIMG: %w", err)
	}
	return &buf, int64(buf.Len()), nil
}

// EncodeOptions maps the task's jpeg quality onto encoder options; formats
// other than JPEG ignore it.
func EncodeOptions(quality int) []imaging.EncodeOption {
	if quality <= 0 {
		return nil
	}
	return []imaging.EncodeOption{imaging.JPEGQuality(quality)}
}

// EncodeJPEG encodes an already-processed page into JPEG bytes.
func EncodeJPEG(img image.Image, quality int) (io.Reader, int64, error) {
	return encodeBuf(img, imaging.JPEG, EncodeOptions(quality)...)
}
