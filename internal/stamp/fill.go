package stamp

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// RGB is an optional fill color for text stamps. Alpha is never part of the
// input: it is always derived from the opacity fraction.
type RGB struct {
	R, G, B uint8
}

// ResolveFill maps an optional fill and an opacity fraction onto the final
// text color. A nil fill means white; alpha is round(255*opacity) no matter
// what fill was given. Opacity must already be clamped to [0,1] by the
// caller.
func ResolveFill(rgb *RGB, opacity float64) color.NRGBA {
	f := color.NRGBA{R: 255, G: 255, B: 255}
	if rgb != nil {
		f.R, f.G, f.B = rgb.R, rgb.G, rgb.B
	}
	f.A = uint8(math.Round(255 * opacity))
	return f
}

// ParseFill parses a "#rgb" or "#rrggbb" hex color. An empty string yields
// nil, which ResolveFill treats as the default white.
func ParseFill(s string) (*RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return nil, nil
	}

	switch len(s) {
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("parse fill color %q: %w", s, err)
		}
		return &RGB{R: r * 17, G: g * 17, B: b * 17}, nil
	case 6:
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return nil, fmt.Errorf("parse fill color %q: %w", s, err)
		}
		return &RGB{R: r, G: g, B: b}, nil
	}
	return nil, fmt.Errorf("parse fill color %q: want #rgb or #rrggbb", s)
}
