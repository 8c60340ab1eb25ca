package renderer

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/resources"
)

func singleTriangleMesh() *resources.MeshAsset {
	return &resources.MeshAsset{
		Positions: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		Indices:   []uint32{0, 1, 2},
	}
}

func TestMeshValidity(t *testing.T) {
	assert.True(t, singleTriangleMesh().Valid())

	assert.False(t, (&resources.MeshAsset{Indices: []uint32{0, 1, 2}}).Valid())
	assert.False(t, (&resources.MeshAsset{Positions: []math.Vec3{{}}}).Valid())
	var nilMesh *resources.MeshAsset
	assert.False(t, nilMesh.Valid())
}

func TestProjectVerticesAllValidInFrontOfCamera(t *testing.T) {
	mesh := singleTriangleMesh()
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)

	verts := ProjectVertices(mesh, mvp, 800, 600, false)
	require.Len(t, verts, 3)
	for i, v := range verts {
		assert.True(t, v.Valid, "vertex %d", i)
		assert.GreaterOrEqual(t, v.X, float32(0))
		assert.LessOrEqual(t, v.X, float32(800))
	}
}

func TestProjectVerticesBehindCameraInvalid(t *testing.T) {
	mesh := &resources.MeshAsset{
		Positions: []math.Vec3{{X: 0, Y: 0, Z: 50}},
		Indices:   []uint32{0, 0, 0},
	}
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)

	verts := ProjectVertices(mesh, mvp, 800, 600, false)
	assert.False(t, verts[0].Valid)
}

func TestProjectVerticesDepthRangeCheck(t *testing.T) {
	// a vertex past the far plane projects to ndc z > 1
	mesh := &resources.MeshAsset{
		Positions: []math.Vec3{{X: 0, Y: 0, Z: -200}},
		Indices:   []uint32{0, 0, 0},
	}
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)

	loose := ProjectVertices(mesh, mvp, 800, 600, false)
	strict := ProjectVertices(mesh, mvp, 800, 600, true)
	assert.True(t, loose[0].Valid)
	assert.False(t, strict[0].Valid)
}

func TestWireframeEmitsThreeSegmentsPerTriangle(t *testing.T) {
	mesh := singleTriangleMesh()
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)
	verts := ProjectVertices(mesh, mvp, 800, 600, false)

	segs := BuildWireframe(mesh, verts)
	assert.Len(t, segs, 3)
}

func TestUntexturedMeshProducesNoPrimitives(t *testing.T) {
	mesh := singleTriangleMesh()
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)
	verts := ProjectVertices(mesh, mvp, 800, 600, false)

	prims := BuildPrimitives(mesh, verts, func(sub *resources.Submesh) (ResolvedTexture, bool) {
		return ResolvedTexture{}, false
	})
	assert.Empty(t, prims)

	// no submeshes at all behaves the same
	assert.Empty(t, BuildPrimitives(mesh, verts, nil))

	// the wireframe pass is not gated by textures
	assert.Len(t, BuildWireframe(mesh, verts), 3)
}

func TestBuildPrimitivesSkipsInvalidTriangles(t *testing.T) {
	mesh := &resources.MeshAsset{
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 50}, // behind the camera
		},
		Indices: []uint32{
			0, 1, 2, // fully valid
			0, 1, 3, // one invalid vertex
			0, 1, 9, // out-of-range index
		},
		Submeshes: []resources.Submesh{{
			IndexStart:          0,
			IndexCount:          9,
			TextureIndex:        0,
			OpacityTextureIndex: -1,
			Opacity:             1.0,
		}},
	}
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)
	verts := ProjectVertices(mesh, mvp, 800, 600, false)

	prims := BuildPrimitives(mesh, verts, func(sub *resources.Submesh) (ResolvedTexture, bool) {
		return ResolvedTexture{Handle: 1}, true
	})
	assert.Len(t, prims, 1)
}

func TestTransparencyFlagSources(t *testing.T) {
	mesh := singleTriangleMesh()
	mesh.Submeshes = []resources.Submesh{{
		IndexStart:          0,
		IndexCount:          3,
		TextureIndex:        0,
		OpacityTextureIndex: -1,
		Opacity:             1.0,
	}}
	mvp := CameraMatrix(0, 0, 0, 4.0, 800, 600)
	verts := ProjectVertices(mesh, mvp, 800, 600, false)

	build := func(mutate func(*resources.Submesh), hint bool) bool {
		m := *mesh
		m.Submeshes = append([]resources.Submesh(nil), mesh.Submeshes...)
		mutate(&m.Submeshes[0])
		prims := BuildPrimitives(&m, verts, func(sub *resources.Submesh) (ResolvedTexture, bool) {
			return ResolvedTexture{Handle: 1, AlphaHint: hint}, true
		})
		if len(prims) != 1 {
			t.Fatalf("expected one primitive, got %d", len(prims))
		}
		return prims[0].Transparent
	}

	assert.False(t, build(func(s *resources.Submesh) {}, false))
	assert.True(t, build(func(s *resources.Submesh) { s.IsTransparent = true }, false))
	assert.True(t, build(func(s *resources.Submesh) { s.AlphaCutoutEnabled = true }, false))
	assert.True(t, build(func(s *resources.Submesh) { s.OpacityTextureIndex = 0 }, false))
	assert.True(t, build(func(s *resources.Submesh) { s.Opacity = 0.5 }, false))
	assert.True(t, build(func(s *resources.Submesh) {}, true))
}

func TestSortPrimitivesOrdering(t *testing.T) {
	prims := []Primitive{
		{Transparent: true, Depth: 0.1},
		{Transparent: false, Depth: 0.9},
		{Transparent: true, Depth: 0.8},
		{Transparent: false, Depth: 0.2},
		{Transparent: true, Depth: 0.5},
		{Transparent: false, Depth: 0.5},
	}
	SortPrimitives(prims)

	// all opaque precede all transparent
	firstTransparent := sort.Search(len(prims), func(i int) bool { return prims[i].Transparent })
	for i, p := range prims {
		assert.Equal(t, i >= firstTransparent, p.Transparent)
	}

	// opaque: non-decreasing depth; transparent: non-increasing
	for i := 1; i < firstTransparent; i++ {
		assert.LessOrEqual(t, prims[i-1].Depth, prims[i].Depth)
	}
	for i := firstTransparent + 1; i < len(prims); i++ {
		assert.GreaterOrEqual(t, prims[i-1].Depth, prims[i].Depth)
	}
}

func TestBatchPrimitivesCoalescesRuns(t *testing.T) {
	prims := []Primitive{
		{ColorTexture: 1, Transparent: false},
		{ColorTexture: 1, Transparent: false},
		{ColorTexture: 2, Transparent: false},
		{ColorTexture: 2, OpacityTexture: 5, Transparent: false},
		{ColorTexture: 2, OpacityTexture: 5, Transparent: true},
		{ColorTexture: 2, OpacityTexture: 5, Transparent: true},
	}
	batches := BatchPrimitives(prims)
	require.Len(t, batches, 4)

	assert.Equal(t, Batch{ColorTexture: 1, Start: 0, Count: 2}, batches[0])
	assert.Equal(t, Batch{ColorTexture: 2, Start: 2, Count: 1}, batches[1])
	assert.Equal(t, Batch{ColorTexture: 2, OpacityTexture: 5, Start: 3, Count: 1}, batches[2])
	assert.Equal(t, Batch{ColorTexture: 2, OpacityTexture: 5, Transparent: true, Start: 4, Count: 2}, batches[3])
}

func TestCameraDistanceClamped(t *testing.T) {
	mesh := singleTriangleMesh()

	near := CameraMatrix(0, 0, 0, 0.01, 800, 600)
	clamped := CameraMatrix(0, 0, 0, CameraMinDistance, 800, 600)
	assert.Equal(t, clamped, near)

	far := CameraMatrix(0, 0, 0, 500, 800, 600)
	clampedFar := CameraMatrix(0, 0, 0, CameraMaxDistance, 800, 600)
	assert.Equal(t, clampedFar, far)

	verts := ProjectVertices(mesh, near, 800, 600, false)
	assert.True(t, verts[0].Valid)
}
