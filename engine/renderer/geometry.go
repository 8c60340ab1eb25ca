package renderer

import (
	"sort"

	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// projection epsilon below which a homogeneous w marks a vertex as
// behind the camera or degenerate
const wEpsilon float32 = 1e-4

// transparencyOpacityThreshold: submesh opacity below this forces the
// blended path even without any texture flag.
const transparencyOpacityThreshold float32 = 0.999

// ProjectedVertex is one mesh vertex after the full MVP transform,
// in window coordinates.
type ProjectedVertex struct {
	X, Y  float32
	Depth float32
	U, V  float32
	Valid bool
}

// ResolvedTexture is what the texture cache hands back for a submesh:
// the handle to bind plus the transparency hint derived from the base
// image's alpha channel.
type ResolvedTexture struct {
	Handle        TextureHandle
	OpacityHandle TextureHandle
	AlphaHint     bool
}

// Primitive is one projected triangle ready for sorting and batching.
type Primitive struct {
	V [3]ProjectedVertex

	ColorTexture   TextureHandle
	OpacityTexture TextureHandle
	Transparent    bool
	Depth          float32
}

// Batch is a run of consecutive primitives sharing one texture binding
// and blend state, submitted with a single draw call.
type Batch struct {
	ColorTexture   TextureHandle
	OpacityTexture TextureHandle
	Transparent    bool
	Start, Count   int
}

// LineSegment is one wireframe edge in window coordinates.
type LineSegment struct {
	X0, Y0 float32
	X1, Y1 float32
}

// CameraMatrix builds the combined model-view-projection matrix for the
// orbit camera. Rotation is applied to the model, the camera sits on
// the +Z axis at the clamped distance looking at the origin.
func CameraMatrix(yaw, pitch, roll, cameraDistance float32, width, height uint32) math.Mat4 {
	dist := math.Clamp(cameraDistance, CameraMinDistance, CameraMaxDistance)

	model := math.NewMat4EulerXYZ(math.DegToRad(pitch), math.DegToRad(yaw), math.DegToRad(roll))
	view := math.NewMat4LookAt(math.Vec3{X: 0, Y: 0, Z: dist}, math.Vec3{}, math.Vec3{X: 0, Y: 1, Z: 0})

	aspect := float32(width) / float32(height)
	proj := math.NewMat4Perspective(math.DegToRad(CameraFovDegrees), aspect, CameraNearClip, CameraFarClip)

	mvp := model.Mul(view)
	return mvp.Mul(proj)
}

// ProjectVertices transforms every mesh position into window
// coordinates. A vertex with homogeneous w at or below epsilon is
// marked invalid; with depthRangeCheck set, so is one whose normalized
// depth leaves [-1, 1].
func ProjectVertices(mesh *resources.MeshAsset, mvp math.Mat4, width, height uint32, depthRangeCheck bool) []ProjectedVertex {
	out := make([]ProjectedVertex, len(mesh.Positions))
	hasUV := len(mesh.TexCoords) == len(mesh.Positions)

	for i, p := range mesh.Positions {
		clip := math.NewVec4Create(p.X, p.Y, p.Z, 1.0).Transform(mvp)
		if clip.W <= wEpsilon {
			continue
		}
		inv := 1.0 / clip.W
		ndcX := clip.X * inv
		ndcY := clip.Y * inv
		ndcZ := clip.Z * inv
		if depthRangeCheck && (ndcZ < -1.0 || ndcZ > 1.0) {
			continue
		}

		v := &out[i]
		v.X = (ndcX*0.5 + 0.5) * float32(width)
		v.Y = (1.0 - (ndcY*0.5 + 0.5)) * float32(height)
		v.Depth = ndcZ
		if hasUV {
			v.U = mesh.TexCoords[i].X
			v.V = mesh.TexCoords[i].Y
		}
		v.Valid = true
	}
	return out
}

// TextureResolver resolves a submesh to a bindable texture. ok is false
// when the submesh has no usable color texture, in which case it is
// drawn by the wireframe pass only.
type TextureResolver func(sub *resources.Submesh) (ResolvedTexture, bool)

// BuildPrimitives walks every submesh with a resolvable texture and
// emits one primitive per fully valid triangle. Triangles with an
// out-of-range index or an invalid vertex are skipped.
func BuildPrimitives(mesh *resources.MeshAsset, verts []ProjectedVertex, resolve TextureResolver) []Primitive {
	prims := make([]Primitive, 0, mesh.TriangleCount())

	for si := range mesh.Submeshes {
		sub := &mesh.Submeshes[si]
		resolved, ok := resolve(sub)
		if !ok {
			continue
		}

		transparent := sub.IsTransparent ||
			sub.AlphaCutoutEnabled ||
			sub.OpacityTextureIndex >= 0 ||
			resolved.AlphaHint ||
			sub.Opacity < transparencyOpacityThreshold

		end := sub.IndexStart + sub.IndexCount
		if end > uint32(len(mesh.Indices)) {
			end = uint32(len(mesh.Indices))
		}
		for i := sub.IndexStart; i+2 < end; i += 3 {
			i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
			if int(i0) >= len(verts) || int(i1) >= len(verts) || int(i2) >= len(verts) {
				continue
			}
			v0, v1, v2 := verts[i0], verts[i1], verts[i2]
			if !v0.Valid || !v1.Valid || !v2.Valid {
				continue
			}

			prims = append(prims, Primitive{
				V:              [3]ProjectedVertex{v0, v1, v2},
				ColorTexture:   resolved.Handle,
				OpacityTexture: resolved.OpacityHandle,
				Transparent:    transparent,
				Depth:          (v0.Depth + v1.Depth + v2.Depth) / 3.0,
			})
		}
	}
	return prims
}

// SortPrimitives orders primitives for correct blending with minimal
// overdraw: opaque before transparent, opaque front-to-back, and
// transparent back-to-front (painter's algorithm).
func SortPrimitives(prims []Primitive) {
	sort.SliceStable(prims, func(a, b int) bool {
		pa, pb := &prims[a], &prims[b]
		if pa.Transparent != pb.Transparent {
			return !pa.Transparent
		}
		if pa.Transparent {
			return pa.Depth > pb.Depth
		}
		return pa.Depth < pb.Depth
	})
}

// BatchPrimitives coalesces consecutive sorted primitives that share
// the same texture binding and blend state.
func BatchPrimitives(prims []Primitive) []Batch {
	var batches []Batch
	for i := range prims {
		p := &prims[i]
		if n := len(batches); n > 0 {
			last := &batches[n-1]
			if last.ColorTexture == p.ColorTexture &&
				last.OpacityTexture == p.OpacityTexture &&
				last.Transparent == p.Transparent {
				last.Count++
				continue
			}
		}
		batches = append(batches, Batch{
			ColorTexture:   p.ColorTexture,
			OpacityTexture: p.OpacityTexture,
			Transparent:    p.Transparent,
			Start:          i,
			Count:          1,
		})
	}
	return batches
}

// BuildWireframe emits three line segments per triangle whose vertices
// are all valid. It is not gated by texture availability.
func BuildWireframe(mesh *resources.MeshAsset, verts []ProjectedVertex) []LineSegment {
	segs := make([]LineSegment, 0, mesh.TriangleCount()*3)
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(i0) >= len(verts) || int(i1) >= len(verts) || int(i2) >= len(verts) {
			continue
		}
		v0, v1, v2 := verts[i0], verts[i1], verts[i2]
		if !v0.Valid || !v1.Valid || !v2.Valid {
			continue
		}
		segs = append(segs,
			LineSegment{v0.X, v0.Y, v1.X, v1.Y},
			LineSegment{v1.X, v1.Y, v2.X, v2.Y},
			LineSegment{v2.X, v2.Y, v0.X, v0.Y},
		)
	}
	return segs
}
