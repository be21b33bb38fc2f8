// Package fontkit resolves font faces for text watermarking. Discovery is
// configuration-driven: the compositing code receives a ready face and stays
// agnostic of font file formats and OS font paths.
package fontkit

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Source produces a face for a given pixel size. Faces are stateful and not
// safe for concurrent use; callers render sequentially.
type Source interface {
	Face(sizePx float64) (font.Face, error)
}

type fileSource struct {
	tt *truetype.Font // заполнено, если файл разобрался как TTF
	ot *opentype.Font
}

// NewFileSource loads and parses the font file at path. TTF goes through
// freetype, OTF through x/image/opentype, collections take the first font.
func NewFileSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return parseSource(data, strings.ToLower(filepath.Ext(path)))
}

// Builtin returns the embedded fallback source (Go Regular).
func Builtin() (Source, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse builtin font: %w", err)
	}
	return &fileSource{ot: f}, nil
}

// Resolve builds the source for the configured path, falling back to the
// builtin face when the path is empty or unusable. It only fails when even
// the builtin font cannot be parsed.
func Resolve(path string) (Source, error) {
	if path != "" {
		src, err := NewFileSource(path)
		if err == nil {
			return src, nil
		}
		log.Printf("Failed to load font %q: %v\nFalling back to builtin font...", path, err)
	}
	return Builtin()
}

func parseSource(data []byte, ext string) (Source, error) {
	if ext == ".ttc" || ext == ".otc" {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font collection: %w", err)
		}
		f, err := coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("empty font collection: %w", err)
		}
		return &fileSource{ot: f}, nil
	}

	if tt, err := truetype.Parse(data); err == nil {
		return &fileSource{tt: tt}, nil
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &fileSource{ot: f}, nil
}

func (s *fileSource) Face(sizePx float64) (font.Face, error) {
	if s.tt != nil {
		return truetype.NewFace(s.tt, &truetype.Options{
			Size:    sizePx,
			DPI:     72,
			Hinting: font.HintingFull,
		}), nil
	}
	return opentype.NewFace(s.ot, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
