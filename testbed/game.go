package testbed

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/prisma/engine"
	"github.com/spaghettifunk/prisma/engine/assets"
	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/resources"
)

type demoState struct {
	assetsDir    string
	generatedDir string
}

// NewDemoGame builds the default content for the viewer: the first OBJ
// found under <assetsDir>/models, or a procedurally generated cube with
// runtime-written textures when no model ships with the install.
func NewDemoGame(assetsDir string) *engine.Game {
	state := &demoState{assetsDir: assetsDir}
	game := &engine.Game{State: state}

	game.FnInitialize = func() (*resources.MeshAsset, error) {
		if mesh := loadShippedModel(assetsDir); mesh != nil {
			return mesh, nil
		}
		return state.buildDemoCube()
	}
	game.FnShutdown = func() error {
		if state.generatedDir != "" {
			os.RemoveAll(state.generatedDir)
			state.generatedDir = ""
		}
		return nil
	}
	return game
}

func loadShippedModel(assetsDir string) *resources.MeshAsset {
	matches, err := filepath.Glob(filepath.Join(assetsDir, "models", "*.obj"))
	if err != nil || len(matches) == 0 {
		return nil
	}
	mesh, err := assets.LoadModel(matches[0])
	if err != nil {
		core.LogWarn("failed to load %s, falling back to generated demo mesh: %v", matches[0], err)
		return nil
	}
	return mesh
}

// buildDemoCube assembles a unit cube with per-face texcoords. The side
// faces are opaque checkerboard; top and bottom carry an opacity mask
// with alpha cutout so the translucent paths get exercised out of the
// box.
func (s *demoState) buildDemoCube() (*resources.MeshAsset, error) {
	dir, err := os.MkdirTemp("", "prisma-demo-")
	if err != nil {
		return nil, err
	}
	s.generatedDir = dir

	checkerPath := filepath.Join(dir, "checker.png")
	if err := writePNG(checkerPath, checkerImage(128)); err != nil {
		return nil, err
	}
	gradientPath := filepath.Join(dir, "gradient.png")
	if err := writePNG(gradientPath, gradientImage(128)); err != nil {
		return nil, err
	}
	maskPath := filepath.Join(dir, "mask.png")
	if err := writePNG(maskPath, ringMaskImage(128)); err != nil {
		return nil, err
	}

	mesh := &resources.MeshAsset{
		TexturePaths:       []string{checkerPath, gradientPath, maskPath},
		PrimaryTexturePath: checkerPath,
	}

	addQuad := func(a, b, c, d math.Vec3) {
		base := uint32(len(mesh.Positions))
		mesh.Positions = append(mesh.Positions, a, b, c, d)
		mesh.TexCoords = append(mesh.TexCoords,
			math.Vec2{X: 0, Y: 1}, math.Vec2{X: 1, Y: 1},
			math.Vec2{X: 1, Y: 0}, math.Vec2{X: 0, Y: 0})
		mesh.Indices = append(mesh.Indices,
			base, base+1, base+2,
			base, base+2, base+3)
	}

	// Side faces first so they form one contiguous index range.
	addQuad(v3(-1, -1, 1), v3(1, -1, 1), v3(1, 1, 1), v3(-1, 1, 1))     // front
	addQuad(v3(1, -1, -1), v3(-1, -1, -1), v3(-1, 1, -1), v3(1, 1, -1)) // back
	addQuad(v3(-1, -1, -1), v3(-1, -1, 1), v3(-1, 1, 1), v3(-1, 1, -1)) // left
	addQuad(v3(1, -1, 1), v3(1, -1, -1), v3(1, 1, -1), v3(1, 1, 1))     // right
	sideIndexCount := uint32(len(mesh.Indices))

	addQuad(v3(-1, 1, 1), v3(1, 1, 1), v3(1, 1, -1), v3(-1, 1, -1))     // top
	addQuad(v3(-1, -1, -1), v3(1, -1, -1), v3(1, -1, 1), v3(-1, -1, 1)) // bottom

	mesh.Submeshes = []resources.Submesh{
		{
			IndexStart:           0,
			IndexCount:           sideIndexCount,
			TextureIndex:         0,
			OpacityTextureIndex:  -1,
			NormalTextureIndex:   -1,
			EmissiveTextureIndex: -1,
			SpecularTextureIndex: -1,
			Opacity:              1.0,
			AlphaCutoff:          0.5,
		},
		{
			IndexStart:           sideIndexCount,
			IndexCount:           uint32(len(mesh.Indices)) - sideIndexCount,
			TextureIndex:         1,
			OpacityTextureIndex:  2,
			NormalTextureIndex:   -1,
			EmissiveTextureIndex: -1,
			SpecularTextureIndex: -1,
			Opacity:              0.85,
			AlphaCutoff:          0.5,
			AlphaCutoutEnabled:   true,
		},
	}

	core.LogInfo("no model found under %s, showing generated demo cube", s.assetsDir)
	return mesh, nil
}

func v3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func checkerImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / 8
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 205, G: 90, B: 60, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 240, G: 230, B: 215, A: 255})
			}
		}
	}
	return img
}

func gradientImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(40 + 180*x/size),
				G: uint8(60 + 120*y/size),
				B: 200,
				A: 255,
			})
		}
	}
	return img
}

// ringMaskImage is the opacity texture: opaque ring, transparent center
// and corners. The red channel carries the mask.
func ringMaskImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			dist := dx*dx + dy*dy
			inner := (center * 0.35) * (center * 0.35)
			outer := (center * 0.95) * (center * 0.95)
			val := uint8(0)
			if dist >= inner && dist <= outer {
				val = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: val, G: val, B: val, A: 255})
		}
	}
	return img
}
