package bake

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/pkg/mesh"
)

// DefaultResolution is the default texture side length.
const DefaultResolution = 1024

// Options configures a full bake.
type Options struct {
	Resolution int
	Workers    int
	FillPasses int
	Divisor    Divisor
	Logger     *zap.Logger
}

// DefaultOptions returns the standard bake settings.
func DefaultOptions() Options {
	return Options{
		Resolution: DefaultResolution,
		FillPasses: DefaultFillPasses,
		Divisor:    DivisorFixed,
	}
}

// Result holds the baked texture and what happened while producing it.
type Result struct {
	Texture *Texture
	Mask    *CoverageMask
	Raster  RasterStats
	Fill    FillStats
}

// Bake rasterizes colors over the UV layout and fills seam holes.
func Bake(uv *mesh.UVMap, colors []mesh.Color, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tex, mask, rstats, err := Rasterize(uv, colors, RasterOptions{
		Resolution: opts.Resolution,
		Workers:    opts.Workers,
		Logger:     log,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("rasterized",
		zap.Int("faces", rstats.Faces),
		zap.Int("degenerate", len(rstats.Degenerate)),
		zap.Int("written", rstats.Written),
		zap.Int("covered", mask.Count()))

	fstats := FillHoles(tex, mask, FillOptions{
		Passes:  opts.FillPasses,
		Divisor: opts.Divisor,
		Workers: opts.Workers,
	})
	log.Debug("filled holes",
		zap.Int("passes", fstats.Passes),
		zap.Int("filled", fstats.Filled),
		zap.Int("remaining", fstats.Remaining),
		zap.Stringer("divisor", opts.Divisor))

	return &Result{Texture: tex, Mask: mask, Raster: rstats, Fill: fstats}, nil
}
