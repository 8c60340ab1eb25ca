package renderer

import (
	"image"
	"image/color"
	"image/draw"
	m "math"

	"github.com/spaghettifunk/prisma/engine/math"
)

// wireframe line color
var wireColor = color.RGBA{R: 235, G: 235, B: 235, A: 255}

// Rasterizer draws sorted primitives into a CPU framebuffer. The
// software backend presents it directly; the Vulkan backend uploads it
// into the acquired swapchain image.
type Rasterizer struct {
	fb     *image.RGBA
	depth  []float32
	width  int
	height int
}

func NewRasterizer(width, height int) *Rasterizer {
	return &Rasterizer{
		fb:     image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:  make([]float32, width*height),
		width:  width,
		height: height,
	}
}

func (r *Rasterizer) Size() (int, int) {
	return r.width, r.height
}

// Framebuffer exposes the pixel data for presentation.
func (r *Rasterizer) Framebuffer() *image.RGBA {
	return r.fb
}

// Resize reallocates the target. No-op when dimensions are unchanged or
// degenerate.
func (r *Rasterizer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height
	r.fb = image.NewRGBA(image.Rect(0, 0, width, height))
	r.depth = make([]float32, width*height)
}

// Clear paints the whole target and resets the depth buffer.
func (r *Rasterizer) Clear(c color.RGBA) {
	draw.Draw(r.fb, r.fb.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	for i := range r.depth {
		r.depth[i] = m.MaxFloat32
	}
}

// At reads back one pixel.
func (r *Rasterizer) At(x, y int) (color.RGBA, bool) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return color.RGBA{}, false
	}
	return r.fb.RGBAAt(x, y), true
}

// BlendImage source-over composites an overlay image.
func (r *Rasterizer) BlendImage(img *image.RGBA) {
	if img == nil {
		return
	}
	draw.Draw(r.fb, img.Bounds(), img, img.Bounds().Min, draw.Over)
}

// edge returns twice the signed area of the triangle (a, b, c).
func edge(ax, ay, bx, by, cx, cy float32) float32 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// FillTriangle rasterizes one projected triangle with a linear depth
// test and nearest-neighbor texture sampling. Transparent primitives
// blend source-over and leave the depth buffer untouched; they arrive
// pre-sorted back-to-front.
func (r *Rasterizer) FillTriangle(prim *Primitive, tex *image.RGBA) {
	v0, v1, v2 := &prim.V[0], &prim.V[1], &prim.V[2]

	area := edge(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}

	minX := math.Clamp(int(m.Floor(float64(min3(v0.X, v1.X, v2.X)))), 0, r.width-1)
	maxX := math.Clamp(int(m.Ceil(float64(max3(v0.X, v1.X, v2.X)))), 0, r.width-1)
	minY := math.Clamp(int(m.Floor(float64(min3(v0.Y, v1.Y, v2.Y)))), 0, r.height-1)
	maxY := math.Clamp(int(m.Ceil(float64(max3(v0.Y, v1.Y, v2.Y)))), 0, r.height-1)

	invArea := 1.0 / area

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5

			w0 := edge(v1.X, v1.Y, v2.X, v2.Y, px, py) * invArea
			w1 := edge(v2.X, v2.Y, v0.X, v0.Y, px, py) * invArea
			w2 := edge(v0.X, v0.Y, v1.X, v1.Y, px, py) * invArea
			if !sameSide(w0, w1, w2) {
				continue
			}

			z := w0*v0.Depth + w1*v1.Depth + w2*v2.Depth
			di := y*r.width + x
			if z > r.depth[di] {
				continue
			}

			var c color.RGBA
			if tex != nil {
				u := w0*v0.U + w1*v1.U + w2*v2.U
				v := w0*v0.V + w1*v1.V + w2*v2.V
				c = sampleNearest(tex, u, v)
			} else {
				c = color.RGBA{R: 180, G: 180, B: 180, A: 255}
			}

			if prim.Transparent {
				if c.A == 0 {
					continue
				}
				r.blendPixel(x, y, c)
				continue
			}
			r.depth[di] = z
			r.fb.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
}

// sameSide accepts pixels for both triangle windings.
func sameSide(w0, w1, w2 float32) bool {
	if w0 >= 0 && w1 >= 0 && w2 >= 0 {
		return true
	}
	return w0 <= 0 && w1 <= 0 && w2 <= 0
}

// sampleNearest samples the texture with wrapping UVs.
func sampleNearest(tex *image.RGBA, u, v float32) color.RGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()

	u = wrapUnit(u)
	v = wrapUnit(v)
	x := math.Clamp(int(u*float32(w)), 0, w-1)
	y := math.Clamp(int(v*float32(h)), 0, h-1)
	return tex.RGBAAt(b.Min.X+x, b.Min.Y+y)
}

func wrapUnit(v float32) float32 {
	v = float32(m.Mod(float64(v), 1.0))
	if v < 0 {
		v += 1.0
	}
	return v
}

// blendPixel does source-over with the source alpha.
func (r *Rasterizer) blendPixel(x, y int, src color.RGBA) {
	dst := r.fb.RGBAAt(x, y)
	a := uint32(src.A)
	ia := 255 - a
	r.fb.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(src.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(src.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(src.B)*a + uint32(dst.B)*ia) / 255),
		A: 255,
	})
}

// DrawLine draws one wireframe segment with Bresenham.
func (r *Rasterizer) DrawLine(seg LineSegment) {
	x0, y0 := int(seg.X0), int(seg.Y0)
	x1, y1 := int(seg.X1), int(seg.Y1)

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < r.width && y0 >= 0 && y0 < r.height {
			r.fb.SetRGBA(x0, y0, wireColor)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
