package overlay

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/png" // page sheets are PNG
	"os"
	"path/filepath"
	"sort"

	"github.com/fzipp/bmfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/spaghettifunk/prisma/engine/core"
)

const padding = 8

// Renderer rasterizes the status text into an RGBA image the active
// backend composites over the frame. It prefers a BMFont bitmap font
// shipped with the assets and falls back to a built-in 7x13 face when
// none is found, so the overlay never goes missing just because a font
// file does.
type Renderer struct {
	face     *bitmapFace
	fallback font.Face
}

// bitmapFace is a loaded BMFont descriptor plus its decoded page
// images, indexed for per-glyph blits.
type bitmapFace struct {
	glyphs     map[rune]bmfont.Char
	kerning    map[[2]rune]int
	pages      map[int]*image.RGBA
	lineHeight int
	base       int
}

// New probes dir/fonts for a .fnt descriptor. Loading is best-effort;
// any failure degrades to the built-in face.
func New(assetsDir string) *Renderer {
	r := &Renderer{fallback: basicfont.Face7x13}

	matches, err := filepath.Glob(filepath.Join(assetsDir, "fonts", "*.fnt"))
	if err != nil || len(matches) == 0 {
		core.LogDebug("no bitmap font found under %s, using built-in overlay face", assetsDir)
		return r
	}
	sort.Strings(matches)

	face, err := loadBitmapFace(matches[0])
	if err != nil {
		core.LogWarn("failed to load bitmap font %s: %v", matches[0], err)
		return r
	}
	core.LogInfo("overlay font: %s", matches[0])
	r.face = face
	return r
}

func loadBitmapFace(path string) (*bitmapFace, error) {
	fnt, err := bmfont.Load(path)
	if err != nil {
		return nil, err
	}
	desc := fnt.Descriptor

	face := &bitmapFace{
		glyphs:     make(map[rune]bmfont.Char, len(desc.Chars)),
		kerning:    make(map[[2]rune]int, len(desc.Kerning)),
		pages:      make(map[int]*image.RGBA, len(desc.Pages)),
		lineHeight: desc.Common.LineHeight,
		base:       desc.Common.Base,
	}
	for _, g := range desc.Chars {
		face.glyphs[g.ID] = g
	}
	for p, k := range desc.Kerning {
		face.kerning[[2]rune{p.First, p.Second}] = k.Amount
	}

	dir := filepath.Dir(path)
	for _, p := range desc.Pages {
		img, err := decodePage(filepath.Join(dir, p.File))
		if err != nil {
			return nil, err
		}
		face.pages[p.ID] = img
	}
	return face, nil
}

func decodePage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

func (f *bitmapFace) measure(line string) int {
	width := 0
	prev := rune(-1)
	for _, r := range line {
		g, ok := f.glyphs[r]
		if !ok {
			continue
		}
		if prev >= 0 {
			width += f.kerning[[2]rune{prev, r}]
		}
		width += g.XAdvance
		prev = r
	}
	return width
}

func (f *bitmapFace) drawLine(dst *image.RGBA, x, y int, line string) {
	prev := rune(-1)
	for _, r := range line {
		g, ok := f.glyphs[r]
		if !ok {
			continue
		}
		if prev >= 0 {
			x += f.kerning[[2]rune{prev, r}]
		}
		page := f.pages[g.Page]
		if page != nil {
			destRect := image.Rect(
				x+g.XOffset, y+g.YOffset,
				x+g.XOffset+g.Width, y+g.YOffset+g.Height)
			draw.Draw(dst, destRect, page, image.Pt(g.X, g.Y), draw.Over)
		}
		x += g.XAdvance
		prev = r
	}
}

// RenderStatus builds the overlay image for the given lines. Returns
// nil when there is nothing to show, which callers treat as "no
// overlay present" this frame.
func (r *Renderer) RenderStatus(lines []string) *image.RGBA {
	filtered := lines[:0:0]
	for _, line := range lines {
		if line != "" {
			filtered = append(filtered, line)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	if r.face != nil {
		return r.renderBitmap(filtered)
	}
	return r.renderFallback(filtered)
}

func (r *Renderer) renderBitmap(lines []string) *image.RGBA {
	width := 0
	for _, line := range lines {
		if w := r.face.measure(line); w > width {
			width = w
		}
	}
	height := len(lines) * r.face.lineHeight

	img := newBackdrop(width+2*padding, height+2*padding)
	for i, line := range lines {
		r.face.drawLine(img, padding, padding+i*r.face.lineHeight, line)
	}
	return img
}

func (r *Renderer) renderFallback(lines []string) *image.RGBA {
	drawer := font.Drawer{Face: r.fallback}
	width := 0
	for _, line := range lines {
		if w := drawer.MeasureString(line).Ceil(); w > width {
			width = w
		}
	}
	metrics := r.fallback.Metrics()
	lineHeight := metrics.Height.Ceil()
	height := len(lines) * lineHeight

	img := newBackdrop(width+2*padding, height+2*padding)
	drawer.Dst = img
	drawer.Src = image.NewUniform(color.RGBA{R: 235, G: 235, B: 235, A: 255})
	for i, line := range lines {
		drawer.Dot = fixed.P(padding, padding+i*lineHeight+metrics.Ascent.Ceil())
		drawer.DrawString(line)
	}
	return img
}

// newBackdrop allocates the overlay canvas with a translucent dark
// background so the text stays readable over the scene.
func newBackdrop(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 10, G: 10, B: 12, A: 170}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}
