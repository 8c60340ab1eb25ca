package assets

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/prisma/engine/core"
	"github.com/spaghettifunk/prisma/engine/math"
	"github.com/spaghettifunk/prisma/engine/resources"
)

// objMaterial carries the subset of MTL state the viewer renders with.
type objMaterial struct {
	name       string
	diffuseMap string
	opacityMap string
	opacity    float32
}

// LoadModel parses a Wavefront OBJ file plus its MTL library into a
// MeshAsset. Faces with more than three vertices are fan-triangulated.
// Texture paths are resolved relative to the OBJ's directory and
// deduplicated into the asset's texture table.
func LoadModel(path string) (*resources.MeshAsset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dir := filepath.Dir(path)

	// Raw OBJ arrays; indices in face records refer into these.
	var rawPositions []math.Vec3
	var rawTexCoords []math.Vec2

	materials := map[string]*objMaterial{}

	asset := &resources.MeshAsset{SourcePath: path}
	textureIndex := map[string]int32{}
	internTexture := func(file string) int32 {
		if file == "" {
			return -1
		}
		resolved := filepath.Join(dir, filepath.FromSlash(file))
		if idx, ok := textureIndex[resolved]; ok {
			return idx
		}
		idx := int32(len(asset.TexturePaths))
		asset.TexturePaths = append(asset.TexturePaths, resolved)
		textureIndex[resolved] = idx
		return idx
	}

	// Each OBJ v/vt pair becomes one final vertex, shared across faces.
	type vertexKey struct{ v, vt int }
	vertexIndex := map[vertexKey]uint32{}
	internVertex := func(v, vt int) (uint32, error) {
		key := vertexKey{v: v, vt: vt}
		if idx, ok := vertexIndex[key]; ok {
			return idx, nil
		}
		if v < 0 || v >= len(rawPositions) {
			return 0, fmt.Errorf("%s: vertex index %d out of range", path, v+1)
		}
		idx := uint32(len(asset.Positions))
		asset.Positions = append(asset.Positions, rawPositions[v])
		if vt >= 0 && vt < len(rawTexCoords) {
			asset.TexCoords = append(asset.TexCoords, rawTexCoords[vt])
		} else {
			asset.TexCoords = append(asset.TexCoords, math.Vec2{})
		}
		vertexIndex[key] = idx
		return idx, nil
	}

	var current *objMaterial
	submeshStart := uint32(0)
	flushSubmesh := func() {
		count := uint32(len(asset.Indices)) - submeshStart
		if count == 0 {
			return
		}
		sub := resources.Submesh{
			IndexStart:           submeshStart,
			IndexCount:           count,
			TextureIndex:         -1,
			OpacityTextureIndex:  -1,
			NormalTextureIndex:   -1,
			EmissiveTextureIndex: -1,
			SpecularTextureIndex: -1,
			Opacity:              1.0,
			AlphaCutoff:          0.5,
		}
		if current != nil {
			sub.TextureIndex = internTexture(current.diffuseMap)
			sub.OpacityTextureIndex = internTexture(current.opacityMap)
			sub.Opacity = current.opacity
		}
		asset.Submeshes = append(asset.Submeshes, sub)
		submeshStart = uint32(len(asset.Indices))
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: malformed vertex", path, lineNo)
			}
			x, errX := parseFloat(fields[1])
			y, errY := parseFloat(fields[2])
			z, errZ := parseFloat(fields[3])
			if errX != nil || errY != nil || errZ != nil {
				return nil, fmt.Errorf("%s:%d: malformed vertex", path, lineNo)
			}
			rawPositions = append(rawPositions, math.Vec3{X: x, Y: y, Z: z})

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("%s:%d: malformed texcoord", path, lineNo)
			}
			u, errU := parseFloat(fields[1])
			v, errV := parseFloat(fields[2])
			if errU != nil || errV != nil {
				return nil, fmt.Errorf("%s:%d: malformed texcoord", path, lineNo)
			}
			// OBJ uses a bottom-left origin; images are top-left.
			rawTexCoords = append(rawTexCoords, math.Vec2{X: u, Y: 1 - v})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 vertices", path, lineNo)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				v, vt, err := parseFaceRef(ref, len(rawPositions), len(rawTexCoords))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				idx, err := internVertex(v, vt)
				if err != nil {
					return nil, err
				}
				corners = append(corners, idx)
			}
			for i := 2; i < len(corners); i++ {
				asset.Indices = append(asset.Indices, corners[0], corners[i-1], corners[i])
			}

		case "usemtl":
			flushSubmesh()
			name := strings.Join(fields[1:], " ")
			current = materials[name]
			if current == nil {
				core.LogWarn("%s:%d: unknown material %q", path, lineNo, name)
			}

		case "mtllib":
			for _, lib := range fields[1:] {
				if err := loadMaterialLibrary(filepath.Join(dir, lib), materials); err != nil {
					core.LogWarn("failed to load material library %s: %v", lib, err)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flushSubmesh()

	if !asset.Valid() {
		return nil, fmt.Errorf("%s: no drawable geometry", path)
	}
	if len(asset.TexturePaths) > 0 {
		asset.PrimaryTexturePath = asset.TexturePaths[0]
	}
	core.LogInfo("loaded model %s: %d vertices, %d triangles, %d submeshes, %d textures",
		filepath.Base(path), len(asset.Positions), asset.TriangleCount(), len(asset.Submeshes), len(asset.TexturePaths))
	return asset, nil
}

// parseFaceRef parses one face corner ("7", "7/3", "7/3/2", "7//2").
// Returned indices are zero-based; negative OBJ indices count from the
// end. vt is -1 when the corner has no texcoord.
func parseFaceRef(ref string, numPositions, numTexCoords int) (v, vt int, err error) {
	parts := strings.Split(ref, "/")

	v, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed face corner %q", ref)
	}
	v = resolveIndex(v, numPositions)

	vt = -1
	if len(parts) > 1 && parts[1] != "" {
		raw, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("malformed face corner %q", ref)
		}
		vt = resolveIndex(raw, numTexCoords)
	}
	return v, vt, nil
}

func resolveIndex(idx, count int) int {
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}

// loadMaterialLibrary parses the MTL statements the viewer cares
// about: map_Kd (color texture), map_d (opacity texture) and d
// (scalar opacity). Everything else is ignored.
func loadMaterialLibrary(path string, out map[string]*objMaterial) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var current *objMaterial
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "newmtl":
			current = &objMaterial{
				name:    strings.Join(fields[1:], " "),
				opacity: 1.0,
			}
			out[current.name] = current
		case "map_Kd":
			if current != nil {
				current.diffuseMap = fields[len(fields)-1]
			}
		case "map_d":
			if current != nil {
				current.opacityMap = fields[len(fields)-1]
			}
		case "d":
			if current == nil {
				continue
			}
			if val, err := parseFloat(fields[1]); err == nil {
				current.opacity = val
			}
		case "Tr":
			if current == nil {
				continue
			}
			if val, err := parseFloat(fields[1]); err == nil {
				current.opacity = 1 - val
			}
		}
	}
	return scanner.Err()
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}
