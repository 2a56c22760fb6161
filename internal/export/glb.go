package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshbake/pkg/formats"
	"github.com/Faultbox/meshbake/pkg/math"
)

// GLBPath returns the path ExportGLB writes for name.
func (e *Exporter) GLBPath(name string) string {
	return filepath.Join(e.outDir, name+".glb")
}

// ExportGLB writes the asset as a single binary glTF with the albedo
// embedded as PNG. It is written alongside the OBJ triad, never instead.
func (e *Exporter) ExportGLB(name string, a *Asset) (string, error) {
	if len(a.UVs) != len(a.Positions) {
		return "", fmt.Errorf("export %s: %d UVs for %d vertices", name, len(a.UVs), len(a.Positions))
	}
	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	positions := make([][3]float32, len(a.Positions))
	for i, p := range a.Positions {
		positions[i] = p.Float32()
	}
	// glTF puts the texture origin at the top-left, OBJ at the bottom-left.
	texcoords := make([][2]float32, len(a.UVs))
	for i, uv := range a.UVs {
		texcoords[i] = [2]float32{float32(uv.X), float32(1 - uv.Y)}
	}
	indices := make([]uint32, 0, len(a.Faces)*3)
	for _, f := range a.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}

	png, err := formats.EncodePNG(a.Texture.Image())
	if err != nil {
		return "", fmt.Errorf("encoding texture: %w", err)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "meshbake"

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, vertexNormals(a.Positions, a.Faces))
	uvAccessor := modeler.WriteTextureCoord(doc, texcoords)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	imageIdx, err := modeler.WriteImage(doc, name+"_albedo.png", "image/png", png)
	if err != nil {
		return "", fmt.Errorf("embedding texture: %w", err)
	}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(uint32(imageIdx))}}

	doc.Materials = []*gltf.Material{{
		Name:      formats.DefaultMaterialName,
		AlphaMode: gltf.AlphaOpaque,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{1, 1, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
			MetallicFactor:   gltf.Float(0),
			RoughnessFactor:  gltf.Float(1),
		},
	}}

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(posAccessor),
			gltf.NORMAL:     uint32(normalAccessor),
			gltf.TEXCOORD_0: uint32(uvAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	doc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	path := e.GLBPath(name)
	if err := gltf.SaveBinary(doc, path); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// vertexNormals averages the face normals around each vertex.
func vertexNormals(positions []math.Vec3, faces [][3]int) [][3]float32 {
	acc := make([]math.Vec3, len(positions))
	for _, f := range faces {
		p0, p1, p2 := positions[f[0]], positions[f[1]], positions[f[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, vi := range f {
			acc[vi] = acc[vi].Add(n)
		}
	}

	out := make([][3]float32, len(positions))
	for i, n := range acc {
		n = n.Normalize()
		if n == (math.Vec3{}) {
			n = math.Vec3{Y: 1}
		}
		out[i] = n.Float32()
	}
	return out
}
