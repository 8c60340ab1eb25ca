package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadModelQuadWithMaterials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "demo.mtl", `
newmtl body
map_Kd body.png
d 0.5

newmtl glass
map_Kd glass.png
map_d glass_mask.png
`)
	objPath := writeFile(t, dir, "demo.obj", `
mtllib demo.mtl
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl body
f 1/1 2/2 3/3 4/4
usemtl glass
f 1/1 3/3 4/4
`)

	asset, err := LoadModel(objPath)
	require.NoError(t, err)

	// Quad fan-triangulates into 2 triangles, plus 1 for the glass face.
	assert.Equal(t, 3, asset.TriangleCount())
	assert.Len(t, asset.Positions, 4)
	assert.Len(t, asset.TexCoords, 4)

	require.Len(t, asset.Submeshes, 2)
	body, glass := asset.Submeshes[0], asset.Submeshes[1]

	assert.Equal(t, uint32(0), body.IndexStart)
	assert.Equal(t, uint32(6), body.IndexCount)
	assert.Equal(t, filepath.Join(dir, "body.png"), asset.TexturePath(body.TextureIndex))
	assert.Equal(t, int32(-1), body.OpacityTextureIndex)
	assert.InDelta(t, 0.5, body.Opacity, 1e-6)

	assert.Equal(t, uint32(6), glass.IndexStart)
	assert.Equal(t, uint32(3), glass.IndexCount)
	assert.Equal(t, filepath.Join(dir, "glass.png"), asset.TexturePath(glass.TextureIndex))
	assert.Equal(t, filepath.Join(dir, "glass_mask.png"), asset.TexturePath(glass.OpacityTextureIndex))
	assert.InDelta(t, 1.0, glass.Opacity, 1e-6)

	assert.Equal(t, filepath.Join(dir, "body.png"), asset.PrimaryTexturePath)
	assert.Len(t, asset.TexturePaths, 3)
}

func TestLoadModelNegativeIndices(t *testing.T) {
	dir := t.TempDir()
	objPath := writeFile(t, dir, "tri.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)

	asset, err := LoadModel(objPath)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, asset.Indices)
}

func TestLoadModelFlipsTexcoordV(t *testing.T) {
	dir := t.TempDir()
	objPath := writeFile(t, dir, "tri.obj", `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0.25
vt 1 0.25
vt 0 1
f 1/1 2/2 3/3
`)

	asset, err := LoadModel(objPath)
	require.NoError(t, err)
	require.Len(t, asset.TexCoords, 3)
	assert.InDelta(t, 0.75, asset.TexCoords[0].Y, 1e-6)
	assert.InDelta(t, 0.0, asset.TexCoords[2].Y, 1e-6)
}

func TestLoadModelErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModel(filepath.Join(dir, "missing.obj"))
	assert.Error(t, err)

	empty := writeFile(t, dir, "empty.obj", "# nothing here\n")
	_, err = LoadModel(empty)
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.obj", "v 0 0 0\nf 1 2 9\n")
	_, err = LoadModel(bad)
	assert.Error(t, err)
}

func TestWatcherReportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "a.png", "one")
	writeFile(t, dir, "b.png", "other")

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.WatchFiles([]string{watched}))

	require.NoError(t, os.WriteFile(watched, []byte("two"), 0o644))

	var changes []string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		changes = w.TakeChanges()
		if len(changes) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Len(t, changes, 1)
	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	assert.Equal(t, abs, changes[0])

	// Unwatched siblings never show up.
	assert.Empty(t, w.TakeChanges())
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	w.Close()
	w.Close()
	assert.Error(t, w.WatchFiles([]string{"x"}))
}
