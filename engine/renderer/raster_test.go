package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func rasterVertex(x, y, z float32) ProjectedVertex {
	return ProjectedVertex{X: x, Y: y, Depth: z, Valid: true}
}

func clearColor() color.RGBA {
	return color.RGBA{R: ClearR, G: ClearG, B: ClearB, A: 255}
}

func TestRasterizerClear(t *testing.T) {
	r := NewRasterizer(8, 8)
	r.Clear(clearColor())

	px, ok := r.At(3, 3)
	assert.True(t, ok)
	assert.Equal(t, clearColor(), px)

	_, ok = r.At(8, 0)
	assert.False(t, ok)
}

func TestFillTriangleCoversInterior(t *testing.T) {
	r := NewRasterizer(16, 16)
	r.Clear(clearColor())
	prim := Primitive{
		V: [3]ProjectedVertex{rasterVertex(1, 1, 0), rasterVertex(14, 1, 0), rasterVertex(1, 14, 0)},
	}
	r.FillTriangle(&prim, nil)

	inside, _ := r.At(4, 4)
	assert.NotEqual(t, clearColor(), inside)
	corner, _ := r.At(15, 15)
	assert.Equal(t, clearColor(), corner)
}

func TestFillTriangleDepthTest(t *testing.T) {
	r := NewRasterizer(8, 8)
	r.Clear(clearColor())

	tex := image.NewRGBA(image.Rect(0, 0, 1, 1))
	tex.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})

	near := Primitive{V: [3]ProjectedVertex{rasterVertex(0, 0, 0.2), rasterVertex(7, 0, 0.2), rasterVertex(0, 7, 0.2)}}
	far := Primitive{V: [3]ProjectedVertex{rasterVertex(0, 0, 0.8), rasterVertex(7, 0, 0.8), rasterVertex(0, 7, 0.8)}}

	r.FillTriangle(&near, tex)
	r.FillTriangle(&far, nil)

	// the far triangle must not overwrite the near one
	px, _ := r.At(2, 2)
	assert.Equal(t, uint8(255), px.R)
}

func TestFillTriangleTransparentBlendsWithoutDepthWrite(t *testing.T) {
	r := NewRasterizer(8, 8)
	r.Clear(clearColor())

	base := Primitive{V: [3]ProjectedVertex{rasterVertex(0, 0, 0.5), rasterVertex(7, 0, 0.5), rasterVertex(0, 7, 0.5)}}
	r.FillTriangle(&base, nil)
	depthBefore := r.depth[2*8+2]

	tex := image.NewRGBA(image.Rect(0, 0, 1, 1))
	tex.SetRGBA(0, 0, color.RGBA{0, 0, 255, 128})
	overlay := Primitive{
		V:           [3]ProjectedVertex{rasterVertex(0, 0, 0.3), rasterVertex(7, 0, 0.3), rasterVertex(0, 7, 0.3)},
		Transparent: true,
	}
	r.FillTriangle(&overlay, tex)

	assert.Equal(t, depthBefore, r.depth[2*8+2])
	px, _ := r.At(2, 2)
	assert.Greater(t, px.B, uint8(0))
	assert.Greater(t, px.R, uint8(0)) // base gray still shows through
}

func TestDrawLineClipsToBounds(t *testing.T) {
	r := NewRasterizer(8, 8)
	r.Clear(clearColor())
	r.DrawLine(LineSegment{X0: -5, Y0: 3, X1: 20, Y1: 3})

	left, _ := r.At(0, 3)
	right, _ := r.At(7, 3)
	off, _ := r.At(3, 4)
	assert.Equal(t, wireColor, left)
	assert.Equal(t, wireColor, right)
	assert.Equal(t, clearColor(), off)
}

func TestSampleNearestWrapsUV(t *testing.T) {
	tex := image.NewRGBA(image.Rect(0, 0, 2, 1))
	tex.SetRGBA(0, 0, color.RGBA{10, 0, 0, 255})
	tex.SetRGBA(1, 0, color.RGBA{20, 0, 0, 255})

	assert.Equal(t, uint8(10), sampleNearest(tex, 0.1, 0).R)
	assert.Equal(t, uint8(20), sampleNearest(tex, 0.9, 0).R)
	assert.Equal(t, uint8(10), sampleNearest(tex, 1.1, 0).R)
	assert.Equal(t, uint8(20), sampleNearest(tex, -0.1, 0).R)
}

func TestRasterizerResize(t *testing.T) {
	r := NewRasterizer(8, 8)
	r.Resize(0, 5) // degenerate, ignored
	w, h := r.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)

	r.Resize(16, 12)
	w, h = r.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 12, h)
	assert.Len(t, r.depth, 16*12)
}

func TestBlendImageCompositesOverlay(t *testing.T) {
	r := NewRasterizer(8, 8)
	r.Clear(clearColor())

	overlay := image.NewRGBA(image.Rect(0, 0, 4, 4))
	overlay.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})
	r.BlendImage(overlay)

	px, _ := r.At(1, 1)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, px)
	// fully transparent overlay pixels leave the clear color
	px, _ = r.At(3, 3)
	assert.Equal(t, clearColor(), px)

	r.BlendImage(nil) // no-op
}
