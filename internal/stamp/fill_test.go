package stamp

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveFill(t *testing.T) {
	tests := []struct {
		name    string
		rgb     *RGB
		opacity float64
		want    color.NRGBA
	}{
		{name: "nil fill defaults to white", rgb: nil, opacity: 0.5, want: color.NRGBA{R: 255, G: 255, B: 255, A: 128}},
		{name: "explicit fill keeps rgb", rgb: &RGB{R: 10, G: 20, B: 30}, opacity: 1, want: color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{name: "zero opacity zero alpha", rgb: &RGB{R: 200}, opacity: 0, want: color.NRGBA{R: 200, A: 0}},
		{name: "alpha floors cleanly", rgb: nil, opacity: 0.2, want: color.NRGBA{R: 255, G: 255, B: 255, A: 51}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ResolveFill(tc.rgb, tc.opacity))
		})
	}
}

func TestParseFill(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *RGB
		wantErr bool
	}{
		{name: "empty means default", input: "", want: nil},
		{name: "blank means default", input: "   ", want: nil},
		{name: "long form", input: "#4080ff", want: &RGB{R: 0x40, G: 0x80, B: 0xff}},
		{name: "no hash", input: "4080ff", want: &RGB{R: 0x40, G: 0x80, B: 0xff}},
		{name: "uppercase", input: "#FFCC00", want: &RGB{R: 0xff, G: 0xcc, B: 0x00}},
		{name: "short form expands", input: "#abc", want: &RGB{R: 0xaa, G: 0xbb, B: 0xcc}},
		{name: "wrong length", input: "#12345", wantErr: true},
		{name: "not hex", input: "#xyzxyz", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFill(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
