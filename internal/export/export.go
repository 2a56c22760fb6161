// Package export writes baked meshes to disk as an OBJ/MTL/albedo triad.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/meshbake/pkg/bake"
	"github.com/Faultbox/meshbake/pkg/formats"
	"github.com/Faultbox/meshbake/pkg/math"
)

// Asset is the final geometry and texture to export. UVs holds one
// coordinate per vertex.
type Asset struct {
	Positions []math.Vec3
	Faces     [][3]int
	UVs       []math.Vec2
	Texture   *bake.Texture
}

// Paths lists the files written by one export.
type Paths struct {
	OBJ     string
	MTL     string
	Texture string
}

// Exporter writes assets into a directory.
type Exporter struct {
	outDir      string
	imageFormat formats.ImageFormat
}

// New creates an exporter writing into outDir with the given texture format.
func New(outDir string, imageFormat formats.ImageFormat) *Exporter {
	return &Exporter{outDir: outDir, imageFormat: imageFormat}
}

// PathsFor returns the file paths an export of name would produce.
func (e *Exporter) PathsFor(name string) Paths {
	return Paths{
		OBJ:     filepath.Join(e.outDir, name+".obj"),
		MTL:     filepath.Join(e.outDir, name+".mtl"),
		Texture: filepath.Join(e.outDir, name+"_albedo"+e.imageFormat.Ext()),
	}
}

// Export writes <name>_albedo.<ext>, <name>.mtl and <name>.obj and returns
// the OBJ path. Files already written are left in place if a later write
// fails.
func (e *Exporter) Export(name string, a *Asset) (string, error) {
	if len(a.UVs) != len(a.Positions) {
		return "", fmt.Errorf("export %s: %d UVs for %d vertices", name, len(a.UVs), len(a.Positions))
	}
	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	paths := e.PathsFor(name)

	if err := writeFile(paths.Texture, func(f *os.File) error {
		return formats.EncodeImage(f, a.Texture.Image(), e.imageFormat)
	}); err != nil {
		return "", err
	}

	if err := writeFile(paths.MTL, func(f *os.File) error {
		return formats.WriteMTL(f, formats.BakedMaterial(filepath.Base(paths.Texture)))
	}); err != nil {
		return "", err
	}

	if err := writeFile(paths.OBJ, func(f *os.File) error {
		return formats.WriteOBJ(f, filepath.Base(paths.MTL), formats.DefaultMaterialName, a.Positions, a.UVs, a.Faces)
	}); err != nil {
		return "", err
	}

	return paths.OBJ, nil
}

// writeFile creates path, runs write and closes the file on every path.
// A close failure is reported when write itself succeeded.
func writeFile(path string, write func(f *os.File) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
