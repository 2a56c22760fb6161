// Package pipeline runs the bake from input mesh to exported files:
// unwrap, resample, rasterize, fill, export.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/internal/config"
	"github.com/Faultbox/meshbake/internal/export"
	"github.com/Faultbox/meshbake/internal/unwrap"
	"github.com/Faultbox/meshbake/pkg/bake"
	"github.com/Faultbox/meshbake/pkg/encoding"
	"github.com/Faultbox/meshbake/pkg/formats"
	"github.com/Faultbox/meshbake/pkg/mesh"
)

// ErrEmptyMesh is returned for inputs without faces.
var ErrEmptyMesh = errors.New("mesh has no faces")

// Result describes one finished bake.
type Result struct {
	Name     string
	OBJPath  string
	GLBPath  string // empty unless GLB export is enabled
	Vertices int    // UV-split vertex count
	Faces    int
	Raster   bake.RasterStats
	Fill     bake.FillStats
}

// Pipeline bakes meshes according to a config.
type Pipeline struct {
	cfg      *config.Config
	log      *zap.Logger
	exporter *export.Exporter
}

// New creates a pipeline. cfg must already be validated.
func New(cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	format, err := formats.ParseImageFormat(cfg.Export.ImageFormat)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		exporter: export.New(cfg.Export.OutDir, format),
	}, nil
}

// RunFile bakes an OBJ that carries vertex colors and a UV layout.
// The export name comes from the config.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, err
	}
	p.log.Info("loaded mesh",
		zap.String("path", path),
		zap.Int("vertices", len(obj.Vertices)),
		zap.Int("faces", len(obj.Faces)),
		zap.Bool("colors", obj.Colors != nil))

	if !obj.HasTexCoords() {
		return nil, fmt.Errorf("%s: %w", path, unwrap.ErrNoParameterization)
	}
	return p.Run(p.cfg.Export.Name, obj.Mesh(), unwrap.FromCorners(obj.TexCoords, obj.TexFaces))
}

// Run bakes m using unwrapper uw and exports it under name.
func (p *Pipeline) Run(name string, m *mesh.Mesh, uw unwrap.Func) (*Result, error) {
	start := time.Now()
	name = encoding.SafeFileName(name)
	log := p.log.With(zap.String("name", name))

	if len(m.Faces) == 0 {
		return nil, ErrEmptyMesh
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating mesh: %w", err)
	}

	colors := m.Colors
	if !m.HasColors() {
		log.Warn("mesh has no vertex colors, baking white")
		colors = make([]mesh.Color, m.VertexCount())
		for i := range colors {
			colors[i] = mesh.White
		}
	}

	uv, err := uw(m.Positions, m.Faces)
	if err != nil {
		return nil, fmt.Errorf("unwrapping: %w", err)
	}
	if err := uv.Validate(m.VertexCount()); err != nil {
		return nil, fmt.Errorf("validating UV map: %w", err)
	}

	newColors, err := mesh.ResampleColors(colors, uv.Mapping)
	if err != nil {
		return nil, fmt.Errorf("resampling colors: %w", err)
	}
	newPositions, err := mesh.ResamplePositions(m.Positions, uv.Mapping)
	if err != nil {
		return nil, fmt.Errorf("resampling positions: %w", err)
	}
	log.Debug("resampled attributes",
		zap.Int("original", m.VertexCount()),
		zap.Int("split", uv.VertexCount()))

	opts := p.cfg.BakeOptions()
	opts.Logger = log
	baked, err := bake.Bake(uv, newColors, opts)
	if err != nil {
		return nil, fmt.Errorf("baking texture: %w", err)
	}
	if n := len(baked.Raster.Degenerate); n > 0 {
		log.Warn("skipped degenerate faces", zap.Int("count", n))
	}
	if baked.Fill.Remaining > 0 {
		log.Info("texels left uncovered after hole fill", zap.Int("count", baked.Fill.Remaining))
	}

	asset := &export.Asset{
		Positions: newPositions,
		Faces:     uv.Faces,
		UVs:       uv.UVs,
		Texture:   baked.Texture,
	}
	objPath, err := p.exporter.Export(name, asset)
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}

	if p.cfg.Export.Verify {
		if err := p.exporter.VerifyTexture(name, baked.Texture); err != nil {
			return nil, fmt.Errorf("verifying export: %w", err)
		}
		log.Debug("verified texture")
	}

	res := &Result{
		Name:     name,
		OBJPath:  objPath,
		Vertices: uv.VertexCount(),
		Faces:    len(uv.Faces),
		Raster:   baked.Raster,
		Fill:     baked.Fill,
	}

	if p.cfg.Export.GLB {
		res.GLBPath, err = p.exporter.ExportGLB(name, asset)
		if err != nil {
			return nil, fmt.Errorf("exporting GLB: %w", err)
		}
	}

	log.Info("exported asset",
		zap.String("obj", objPath),
		zap.Int("resolution", opts.Resolution),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}
