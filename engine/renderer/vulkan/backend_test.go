package vulkan

import (
	"image/color"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestSwizzleRGBAToBGRA(t *testing.T) {
	src := []byte{10, 20, 30, 255, 40, 50, 60, 128}
	dst := make([]byte, len(src))
	swizzleRGBAToBGRA(dst, src)

	assert.Equal(t, []byte{30, 20, 10, 255, 60, 50, 40, 128}, dst)
}

func TestPixelFromBytes(t *testing.T) {
	raw := []byte{10, 20, 30, 255}

	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, pixelFromBytes(vk.FormatR8g8b8a8Unorm, raw))
	assert.Equal(t, color.RGBA{R: 30, G: 20, B: 10, A: 255}, pixelFromBytes(vk.FormatB8g8r8a8Unorm, raw))
	assert.Equal(t, color.RGBA{}, pixelFromBytes(vk.FormatR8g8b8a8Unorm, raw[:2]))
}
