package resources

import (
	"github.com/spaghettifunk/prisma/engine/math"
)

// Submesh is a contiguous index range drawn with one material. Texture
// indices point into the owning MeshAsset's TexturePaths; -1 means the
// channel is unused.
type Submesh struct {
	IndexStart uint32
	IndexCount uint32

	TextureIndex         int32
	OpacityTextureIndex  int32
	NormalTextureIndex   int32
	EmissiveTextureIndex int32
	SpecularTextureIndex int32

	Opacity     float32
	AlphaCutoff float32

	IsTransparent          bool
	AlphaCutoutEnabled     bool
	OpacityTextureInverted bool
}

// AnimationClip names a baked animation carried by the source file. The
// viewer lists clips but does not play them back.
type AnimationClip struct {
	Name            string
	DurationSeconds float32
	TicksPerSecond  float32
}

// MeshAsset is a fully loaded triangle mesh plus its material table. It
// is the unit handed to the renderer facade each frame.
type MeshAsset struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Indices   []uint32

	PrimaryTexturePath string
	TexturePaths       []string

	Submeshes  []Submesh
	Animations []AnimationClip

	SourcePath string
}

// Valid reports whether the asset carries drawable geometry.
func (m *MeshAsset) Valid() bool {
	return m != nil && len(m.Positions) > 0 && len(m.Indices) > 0
}

// TriangleCount returns the number of whole triangles in the index
// buffer. Trailing indices that do not complete a triangle are ignored.
func (m *MeshAsset) TriangleCount() int {
	return len(m.Indices) / 3
}

// TexturePath resolves a submesh texture index to a path, or "" when
// the index is out of range or unused.
func (m *MeshAsset) TexturePath(index int32) string {
	if index < 0 || int(index) >= len(m.TexturePaths) {
		return ""
	}
	return m.TexturePaths[index]
}
