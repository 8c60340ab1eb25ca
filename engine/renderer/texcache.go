package renderer

import (
	"image"
	"image/jpeg"
	"image/png"
	m "math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// TextureHandle identifies one GPU-resident texture owned by the active
// backend. Zero is "no texture".
type TextureHandle uint32

const TextureNone TextureHandle = 0

// alphaVarianceThreshold: any decoded pixel with alpha below this marks
// the texture as carrying real transparency.
const alphaVarianceThreshold = 250

// TextureUploader is the slice of a backend the cache needs: moving
// decoded pixels onto the GPU and tearing them down again. WaitIdle
// must block until no in-flight frame still reads any texture.
type TextureUploader interface {
	UploadTexture(img *image.RGBA, slot DescriptorSlot) (TextureHandle, error)
	DestroyTexture(handle TextureHandle)
	WaitIdle()
}

// baseTexture is one decoded-and-uploaded source image. Pixels are
// retained for recomposition.
type baseTexture struct {
	path             string
	pixels           *image.RGBA
	handle           TextureHandle
	slot             DescriptorSlot
	hasAlphaVariance bool
}

// composedKey identifies one synthesized opacity-blended variant.
// Float scalars are keyed by their exact bit patterns.
type composedKey struct {
	colorIndex   int32
	opacityIndex int32
	opacityBits  uint32
	cutoffBits   uint32
	cutout       bool
	invert       bool
}

type composedEntry struct {
	handle TextureHandle
	slot   DescriptorSlot
}

// TextureCache owns every texture of the active mesh: the decoded base
// images and all composed variants. Everything is destroyed together
// whenever the mesh's texture-path list changes or on shutdown.
type TextureCache struct {
	uploader TextureUploader
	pool     *DescriptorPool

	paths    []string
	base     []baseTexture
	composed map[composedKey]composedEntry
}

func NewTextureCache(uploader TextureUploader, pool *DescriptorPool) *TextureCache {
	return &TextureCache{
		uploader: uploader,
		pool:     pool,
		composed: make(map[composedKey]composedEntry),
	}
}

func samePaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// decodeImage reads and decodes one texture file into RGBA.
func decodeImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.DecodeError{Path: path, Reason: err}
	}
	defer f.Close()

	var src image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		src, err = png.Decode(f)
	case ".jpg", ".jpeg":
		src, err = jpeg.Decode(f)
	case ".bmp":
		src, err = bmp.Decode(f)
	case ".tif", ".tiff":
		src, err = tiff.Decode(f)
	default:
		src, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, &core.DecodeError{Path: path, Reason: err}
	}

	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

// hasAlphaVariance reports whether any pixel's alpha drops below the
// near-opaque threshold.
func hasAlphaVariance(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] < alphaVarianceThreshold {
			return true
		}
	}
	return false
}

// EnsureTexturesFor rebuilds the cache for the mesh's texture list. If
// the list is identical to the cached one it is a no-op. The rebuild is
// all-or-nothing: one undecodable file fails the whole refresh and
// leaves the cache empty, so the mesh renders wireframe-only.
func (tc *TextureCache) EnsureTexturesFor(mesh *resources.MeshAsset) error {
	if samePaths(tc.paths, mesh.TexturePaths) {
		return nil
	}

	// never destroy a texture a queued frame may still sample
	tc.uploader.WaitIdle()
	tc.releaseAll()

	decoded := make([]*image.RGBA, len(mesh.TexturePaths))
	for i, path := range mesh.TexturePaths {
		img, err := decodeImage(path)
		if err != nil {
			return err
		}
		decoded[i] = img
	}

	for i, img := range decoded {
		slot, err := tc.pool.Allocate()
		if err != nil {
			tc.releaseAll()
			return err
		}
		handle, err := tc.uploader.UploadTexture(img, slot)
		if err != nil {
			tc.pool.Free(slot)
			tc.releaseAll()
			return err
		}
		tc.base = append(tc.base, baseTexture{
			path:             mesh.TexturePaths[i],
			pixels:           img,
			handle:           handle,
			slot:             slot,
			hasAlphaVariance: hasAlphaVariance(img),
		})
	}

	tc.paths = append([]string(nil), mesh.TexturePaths...)
	core.LogDebug("texture cache refreshed: %d base textures", len(tc.base))
	return nil
}

// Invalidate forgets the cached path list so the next EnsureTexturesFor
// rebuilds even when the mesh presents an identical list. Used when a
// source file changed on disk behind the cache's back.
func (tc *TextureCache) Invalidate() {
	tc.paths = nil
}

// needsComposition reports whether the submesh's material parameters
// require a synthesized variant instead of the base color texture.
func needsComposition(sub *resources.Submesh) bool {
	return sub.OpacityTextureIndex >= 0 ||
		sub.AlphaCutoutEnabled ||
		sub.OpacityTextureInverted ||
		sub.Opacity < transparencyOpacityThreshold
}

// Resolve returns the texture to bind for a submesh. ok is false when
// the submesh has no usable color texture; the caller falls back to the
// wireframe pass.
func (tc *TextureCache) Resolve(sub *resources.Submesh) (ResolvedTexture, bool) {
	ci := sub.TextureIndex
	if ci < 0 || int(ci) >= len(tc.base) {
		return ResolvedTexture{}, false
	}
	color := &tc.base[ci]

	opacityHandle := TextureNone
	if oi := sub.OpacityTextureIndex; oi >= 0 && int(oi) < len(tc.base) {
		opacityHandle = tc.base[oi].handle
	}

	if !needsComposition(sub) {
		return ResolvedTexture{
			Handle:        color.handle,
			OpacityHandle: opacityHandle,
			AlphaHint:     color.hasAlphaVariance,
		}, true
	}

	key := composedKey{
		colorIndex:   ci,
		opacityIndex: sub.OpacityTextureIndex,
		opacityBits:  m.Float32bits(sub.Opacity),
		cutoffBits:   m.Float32bits(sub.AlphaCutoff),
		cutout:       sub.AlphaCutoutEnabled,
		invert:       sub.OpacityTextureInverted,
	}
	if entry, ok := tc.composed[key]; ok {
		return ResolvedTexture{
			Handle:        entry.handle,
			OpacityHandle: opacityHandle,
			AlphaHint:     true,
		}, true
	}

	img := tc.compose(color, sub)
	slot, err := tc.pool.Allocate()
	if err != nil {
		core.LogWarn("descriptor pool exhausted, composed texture skipped for %s", color.path)
		return ResolvedTexture{}, false
	}
	handle, err := tc.uploader.UploadTexture(img, slot)
	if err != nil {
		core.LogError("composed texture upload failed: %v", err)
		tc.pool.Free(slot)
		return ResolvedTexture{}, false
	}
	tc.composed[key] = composedEntry{handle: handle, slot: slot}

	return ResolvedTexture{
		Handle:        handle,
		OpacityHandle: opacityHandle,
		AlphaHint:     true,
	}, true
}

// compose synthesizes the opacity-blended variant of a color texture.
// The opacity source is the red channel of the opacity texture, remapped
// nearest-neighbor when dimensions differ, or fully opaque when the
// submesh has none.
func (tc *TextureCache) compose(color *baseTexture, sub *resources.Submesh) *image.RGBA {
	bounds := color.pixels.Bounds()
	out := image.NewRGBA(bounds)
	copy(out.Pix, color.pixels.Pix)

	var opacity *image.RGBA
	if oi := sub.OpacityTextureIndex; oi >= 0 && int(oi) < len(tc.base) {
		opacity = tc.base[oi].pixels
		if !opacity.Bounds().Eq(bounds) {
			remapped := image.NewRGBA(bounds)
			draw.NearestNeighbor.Scale(remapped, bounds, opacity, opacity.Bounds(), draw.Src, nil)
			opacity = remapped
		}
	}

	scale := clampUnit(sub.Opacity)
	cutoff := clampUnit(sub.AlphaCutoff)

	for i := 0; i+3 < len(out.Pix); i += 4 {
		sample := float32(1.0)
		if opacity != nil {
			sample = float32(opacity.Pix[i]) / 255.0
		}
		if sub.OpacityTextureInverted {
			sample = 1.0 - sample
		}

		alpha := scale * sample * (float32(color.pixels.Pix[i+3]) / 255.0)
		if sub.AlphaCutoutEnabled && alpha < cutoff {
			alpha = 0
		}
		out.Pix[i+3] = uint8(clampUnit(alpha)*255.0 + 0.5)
	}
	return out
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// releaseAll destroys every cached texture and frees its descriptor
// slot. Callers must have waited for GPU idle first.
func (tc *TextureCache) releaseAll() {
	for i := range tc.base {
		tc.uploader.DestroyTexture(tc.base[i].handle)
		tc.pool.Free(tc.base[i].slot)
	}
	tc.base = nil
	for _, entry := range tc.composed {
		tc.uploader.DestroyTexture(entry.handle)
		tc.pool.Free(entry.slot)
	}
	tc.composed = make(map[composedKey]composedEntry)
	tc.paths = nil
}

// Shutdown waits for the GPU and releases everything.
func (tc *TextureCache) Shutdown() {
	tc.uploader.WaitIdle()
	tc.releaseAll()
}

// BaseCount returns the number of cached base textures.
func (tc *TextureCache) BaseCount() int {
	return len(tc.base)
}

// ComposedCount returns the number of cached composed variants.
func (tc *TextureCache) ComposedCount() int {
	return len(tc.composed)
}
