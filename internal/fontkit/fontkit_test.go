package fontkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func TestBuiltinFace(t *testing.T) {
	src, err := Builtin()
	require.NoError(t, err)

	face, err := src.Face(36)
	require.NoError(t, err)
	require.NotNil(t, face)

	box, adv := font.BoundString(face, "sample")
	require.Positive(t, adv.Ceil())
	require.Positive(t, (box.Max.X - box.Min.X).Ceil())
	require.Positive(t, (box.Max.Y - box.Min.Y).Ceil())
}

func TestNewFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	src, err := NewFileSource(path)
	require.NoError(t, err)

	face, err := src.Face(24)
	require.NoError(t, err)
	require.NotNil(t, face)
}

func TestNewFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.ttf"))
	require.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font at all"), 0o644))
	_, err = NewFileSource(garbage)
	require.Error(t, err)
}

func TestResolveFallsBack(t *testing.T) {
	src, err := Resolve(filepath.Join(t.TempDir(), "missing.ttf"))
	require.NoError(t, err)

	face, err := src.Face(36)
	require.NoError(t, err)
	require.NotNil(t, face)

	src, err = Resolve("")
	require.NoError(t, err)
	require.NotNil(t, src)
}
