package renderer

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// fakeUploader records uploads and destroys without touching a GPU.
type fakeUploader struct {
	nextHandle TextureHandle
	uploads    map[TextureHandle]*image.RGBA
	destroyed  []TextureHandle
	idleWaits  int
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		nextHandle: 1,
		uploads:    make(map[TextureHandle]*image.RGBA),
	}
}

func (f *fakeUploader) UploadTexture(img *image.RGBA, slot DescriptorSlot) (TextureHandle, error) {
	h := f.nextHandle
	f.nextHandle++
	f.uploads[h] = img
	return h, nil
}

func (f *fakeUploader) DestroyTexture(handle TextureHandle) {
	f.destroyed = append(f.destroyed, handle)
	delete(f.uploads, handle)
}

func (f *fakeUploader) WaitIdle() {
	f.idleWaits++
}

func writePNG(t *testing.T, dir, name string, w, h int, fill color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func opaqueSubmesh(colorIdx int32) resources.Submesh {
	return resources.Submesh{
		TextureIndex:        colorIdx,
		OpacityTextureIndex: -1,
		Opacity:             1.0,
	}
}

func TestEnsureTexturesForBuildsAndDedupes(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "a.png", 4, 4, color.RGBA{255, 0, 0, 255}),
		writePNG(t, dir, "b.png", 4, 4, color.RGBA{0, 255, 0, 128}),
	}}

	require.NoError(t, tc.EnsureTexturesFor(mesh))
	assert.Equal(t, 2, tc.BaseCount())
	assert.Equal(t, 1, up.idleWaits)

	// identical path list is a no-op, no second GPU sync
	require.NoError(t, tc.EnsureTexturesFor(mesh))
	assert.Equal(t, 1, up.idleWaits)
	assert.Len(t, up.uploads, 2)
}

func TestInvalidateForcesRefreshOfIdenticalList(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "a.png", 4, 4, color.RGBA{255, 0, 0, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))
	require.Equal(t, 1, up.idleWaits)

	tc.Invalidate()
	require.NoError(t, tc.EnsureTexturesFor(mesh))
	assert.Equal(t, 2, up.idleWaits)
	assert.Len(t, up.destroyed, 1)
	assert.Equal(t, 1, tc.BaseCount())
}

func TestEnsureTexturesForRefreshDestroysOldSet(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	meshA := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "a.png", 4, 4, color.RGBA{255, 0, 0, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(meshA))

	meshB := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "b.png", 4, 4, color.RGBA{0, 0, 255, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(meshB))

	assert.Len(t, up.destroyed, 1)
	assert.Equal(t, 1, tc.BaseCount())
	assert.Equal(t, 2, up.idleWaits)
}

func TestEnsureTexturesForDecodeFailureIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	good := writePNG(t, dir, "good.png", 4, 4, color.RGBA{255, 0, 0, 255})
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))

	mesh := &resources.MeshAsset{TexturePaths: []string{good, bad}}
	err := tc.EnsureTexturesFor(mesh)
	require.Error(t, err)

	var decodeErr *core.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, bad, decodeErr.Path)

	// nothing was uploaded: decode happens before any GPU work
	assert.Empty(t, up.uploads)
	assert.Equal(t, 0, tc.BaseCount())
}

func TestResolveBaseTextureWithoutComposition(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "a.png", 4, 4, color.RGBA{255, 0, 0, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))

	sub := opaqueSubmesh(0)
	resolved, ok := tc.Resolve(&sub)
	require.True(t, ok)
	assert.False(t, resolved.AlphaHint)
	assert.Equal(t, 0, tc.ComposedCount())

	missing := opaqueSubmesh(-1)
	_, ok = tc.Resolve(&missing)
	assert.False(t, ok)
}

func TestResolveAlphaHintFromDecodedPixels(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "semi.png", 4, 4, color.RGBA{0, 255, 0, 128}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))

	sub := opaqueSubmesh(0)
	resolved, ok := tc.Resolve(&sub)
	require.True(t, ok)
	assert.True(t, resolved.AlphaHint)
}

func TestResolveComposedVariantsCachedByKey(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "color.png", 4, 4, color.RGBA{255, 0, 0, 255}),
		writePNG(t, dir, "mask.png", 4, 4, color.RGBA{128, 128, 128, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))

	sub := resources.Submesh{
		TextureIndex:        0,
		OpacityTextureIndex: 1,
		Opacity:             0.5,
		AlphaCutoff:         0.1,
	}
	first, ok := tc.Resolve(&sub)
	require.True(t, ok)
	assert.Equal(t, 1, tc.ComposedCount())

	// identical parameters hit the cache
	again, ok := tc.Resolve(&sub)
	require.True(t, ok)
	assert.Equal(t, first.Handle, again.Handle)
	assert.Equal(t, 1, tc.ComposedCount())

	// any changed field synthesizes a new variant
	changed := sub
	changed.Opacity = 0.6
	other, ok := tc.Resolve(&changed)
	require.True(t, ok)
	assert.NotEqual(t, first.Handle, other.Handle)
	assert.Equal(t, 2, tc.ComposedCount())

	inverted := sub
	inverted.OpacityTextureInverted = true
	third, ok := tc.Resolve(&inverted)
	require.True(t, ok)
	assert.NotEqual(t, first.Handle, third.Handle)
	assert.Equal(t, 3, tc.ComposedCount())
}

func TestComposeAppliesOpacityAndCutout(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "color.png", 2, 2, color.RGBA{255, 0, 0, 255}),
		// red channel 51 -> opacity sample 0.2
		writePNG(t, dir, "mask.png", 2, 2, color.RGBA{51, 51, 51, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))

	sub := resources.Submesh{
		TextureIndex:        0,
		OpacityTextureIndex: 1,
		Opacity:             1.0,
	}
	resolved, ok := tc.Resolve(&sub)
	require.True(t, ok)
	composed := up.uploads[resolved.Handle]
	require.NotNil(t, composed)
	assert.InDelta(t, 51, int(composed.Pix[3]), 1)

	// cutout zeroes alpha below the cutoff
	cut := sub
	cut.AlphaCutoutEnabled = true
	cut.AlphaCutoff = 0.5
	resolved, ok = tc.Resolve(&cut)
	require.True(t, ok)
	composed = up.uploads[resolved.Handle]
	require.NotNil(t, composed)
	assert.Equal(t, uint8(0), composed.Pix[3])

	// inversion flips the sample above the cutoff
	inv := cut
	inv.OpacityTextureInverted = true
	resolved, ok = tc.Resolve(&inv)
	require.True(t, ok)
	composed = up.uploads[resolved.Handle]
	require.NotNil(t, composed)
	assert.InDelta(t, 204, int(composed.Pix[3]), 1)
}

func TestComposeRemapsMismatchedOpacityDimensions(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	tc := NewTextureCache(up, NewDescriptorPool(DescriptorPoolCapacity))

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "color.png", 8, 8, color.RGBA{255, 255, 255, 255}),
		writePNG(t, dir, "mask.png", 2, 2, color.RGBA{0, 0, 0, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))

	sub := resources.Submesh{
		TextureIndex:        0,
		OpacityTextureIndex: 1,
		Opacity:             1.0,
	}
	resolved, ok := tc.Resolve(&sub)
	require.True(t, ok)
	composed := up.uploads[resolved.Handle]
	require.NotNil(t, composed)
	assert.Equal(t, 8, composed.Bounds().Dx())
	// black mask makes everything fully transparent
	assert.Equal(t, uint8(0), composed.Pix[3])
}

func TestShutdownReleasesEverything(t *testing.T) {
	dir := t.TempDir()
	up := newFakeUploader()
	pool := NewDescriptorPool(DescriptorPoolCapacity)
	tc := NewTextureCache(up, pool)

	mesh := &resources.MeshAsset{TexturePaths: []string{
		writePNG(t, dir, "a.png", 4, 4, color.RGBA{255, 0, 0, 255}),
		writePNG(t, dir, "b.png", 4, 4, color.RGBA{0, 255, 0, 255}),
	}}
	require.NoError(t, tc.EnsureTexturesFor(mesh))

	sub := resources.Submesh{TextureIndex: 0, OpacityTextureIndex: 1, Opacity: 0.5}
	_, ok := tc.Resolve(&sub)
	require.True(t, ok)

	tc.Shutdown()
	assert.Empty(t, up.uploads)
	assert.Equal(t, 0, pool.InUse())
	assert.Equal(t, 0, tc.BaseCount())
	assert.Equal(t, 0, tc.ComposedCount())
}
