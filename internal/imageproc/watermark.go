// Package imageproc provides operations for images: resizing, thumbnail generation, compression and watermark application.
package imageproc

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/pixelforge/stampd/internal/stamp"
)

// Watermarker decodes the base image, applies the watermark variant and
// encodes the result. The stamp.Result tells a real application apart from a
// deliberate no-op, the bytes come back either way.
func Watermarker(r io.Reader, wm stamp.Watermark, format imaging.Format, opts ...imaging.EncodeOption) (io.Reader, int64, stamp.Result, error) {
	if r == nil {
		return nil, -1, stamp.SkippedNoOp, errors.New("nil-reader baseIMG provided to Watermarker")
	}
	if wm == nil {
		return nil, -1, stamp.SkippedNoOp, errors.New("nil watermark provided to Watermarker")
	}

	base, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, stamp.SkippedNoOp, fmt.Errorf("failed to DEcode baseIMG in Watermarker: %w", err)
	}

	out, res, err := WatermarkImage(base, wm)
	if err != nil {
		return nil, 0, res, err
	}

	rd, size, err := encodeBuf(out, format, opts...)
	return rd, size, res, err
}

// WatermarkImage applies the watermark to an already-decoded image; the PDF
// page path uses it directly.
func WatermarkImage(img image.Image, wm stamp.Watermark) (image.Image, stamp.Result, error) {
	canvas := stamp.FromImage(img)
	res, err := wm.Apply(canvas)
	if err != nil {
		return nil, res, fmt.Errorf("failed to apply watermark: %w", err)
	}
	return canvas.Image(), res, nil
}
