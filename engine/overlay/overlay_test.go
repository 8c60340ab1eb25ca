package overlay

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatusEmpty(t *testing.T) {
	r := New(t.TempDir())

	assert.Nil(t, r.RenderStatus(nil))
	assert.Nil(t, r.RenderStatus([]string{"", ""}))
}

func TestRenderStatusFallbackFace(t *testing.T) {
	r := New(t.TempDir())
	require.Nil(t, r.face)

	img := r.RenderStatus([]string{"Vulkan", "60 fps"})
	require.NotNil(t, img)
	assert.Greater(t, img.Bounds().Dx(), 2*padding)
	assert.Greater(t, img.Bounds().Dy(), 2*padding)

	// Some pixel inside the text area must differ from the backdrop.
	backdrop := color.RGBA{R: 10, G: 10, B: 12, A: 170}
	found := false
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y && !found; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if img.RGBAAt(x, y) != backdrop {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected rendered glyph pixels")
}

func TestRenderStatusWiderLineWins(t *testing.T) {
	r := New(t.TempDir())

	short := r.RenderStatus([]string{"a"})
	long := r.RenderStatus([]string{"a much longer status line"})
	require.NotNil(t, short)
	require.NotNil(t, long)
	assert.Greater(t, long.Bounds().Dx(), short.Bounds().Dx())
}
