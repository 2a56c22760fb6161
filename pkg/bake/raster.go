package bake

import (
	"fmt"
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/meshbake/pkg/math"
	"github.com/Faultbox/meshbake/pkg/mesh"
)

const (
	// degenerateEpsilon bounds the barycentric system determinant below
	// which a face is treated as zero-area.
	degenerateEpsilon = 1e-12
	// insideEpsilon lets pixel centers sitting on a shared edge land in
	// both neighbors so seams do not open up.
	insideEpsilon = -1e-6
)

// RasterOptions controls rasterization.
type RasterOptions struct {
	Resolution int
	Workers    int         // row bands rasterized concurrently; 0 = NumCPU
	Logger     *zap.Logger // receives per-face diagnostics; nil = no-op
}

// RasterStats summarizes one rasterization.
type RasterStats struct {
	Faces      int   // faces submitted
	Degenerate []int // indices of faces skipped as zero-area
	Written    int   // texel writes, counting overwrites
}

// triangle is the pixel-space setup of one face.
type triangle struct {
	a      math.Vec2
	v0, v1 math.Vec2
	colors [3][3]float64

	d00, d01, d11, denom float64
	x0, x1, y0, y1       int
}

// Rasterize fills a fresh texture from the UV footprint of every face.
// colors holds one entry per UV-split vertex. Faces are drawn in order;
// where footprints overlap the later face wins.
func Rasterize(uv *mesh.UVMap, colors []mesh.Color, opts RasterOptions) (*Texture, *CoverageMask, RasterStats, error) {
	stats := RasterStats{Faces: len(uv.Faces)}

	tex, err := NewTexture(opts.Resolution)
	if err != nil {
		return nil, nil, stats, err
	}
	if len(colors) != len(uv.UVs) {
		return nil, nil, stats, fmt.Errorf("%w: %d colors for %d UV vertices",
			mesh.ErrColorCount, len(colors), len(uv.UVs))
	}
	if err := mesh.CheckFaces(uv.Faces, len(uv.UVs)); err != nil {
		return nil, nil, stats, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	size := opts.Resolution
	mask := NewCoverageMask(size)

	tris := make([]triangle, 0, len(uv.Faces))
	for fi, f := range uv.Faces {
		tri, ok := setupTriangle(uv.UVs, colors, f, size)
		if !ok {
			stats.Degenerate = append(stats.Degenerate, fi)
			log.Debug("skipping degenerate face",
				zap.Int("face", fi),
				zap.Float64("denom", tri.denom))
			continue
		}
		tris = append(tris, tri)
	}

	written := make([]int, workerCount(opts.Workers, size))
	forEachBand(size, opts.Workers, func(band, y0, y1 int) {
		for i := range tris {
			written[band] += tris[i].draw(tex, mask, y0, y1)
		}
	})
	for _, n := range written {
		stats.Written += n
	}

	return tex, mask, stats, nil
}

// toPixel maps a UV coordinate into pixel space. Row 0 is v = 1.
func toPixel(uv math.Vec2, size int) math.Vec2 {
	s := float64(size - 1)
	return math.Vec2{X: uv.X * s, Y: (1 - uv.Y) * s}
}

// setupTriangle computes the pixel-space data for a face. It returns false
// when the face has (near) zero area.
func setupTriangle(uvs []math.Vec2, colors []mesh.Color, f [3]int, size int) (triangle, bool) {
	a := toPixel(uvs[f[0]], size)
	b := toPixel(uvs[f[1]], size)
	c := toPixel(uvs[f[2]], size)

	var t triangle
	t.a = a
	t.v0 = b.Sub(a)
	t.v1 = c.Sub(a)
	t.d00 = t.v0.Dot(t.v0)
	t.d01 = t.v0.Dot(t.v1)
	t.d11 = t.v1.Dot(t.v1)
	t.denom = t.d00*t.d11 - t.d01*t.d01
	// Negated so a NaN determinant also counts as degenerate.
	if !(stdmath.Abs(t.denom) >= degenerateEpsilon) {
		return t, false
	}

	for i, vi := range f {
		col := colors[vi]
		t.colors[i] = [3]float64{float64(col.R), float64(col.G), float64(col.B)}
	}

	t.x0 = max(int(stdmath.Floor(min(a.X, b.X, c.X))), 0)
	t.x1 = min(int(stdmath.Ceil(max(a.X, b.X, c.X))), size-1)
	t.y0 = max(int(stdmath.Floor(min(a.Y, b.Y, c.Y))), 0)
	t.y1 = min(int(stdmath.Ceil(max(a.Y, b.Y, c.Y))), size-1)
	return t, true
}

// barycentric returns the weights of p relative to the triangle corners.
func (t *triangle) barycentric(p math.Vec2) (w0, w1, w2 float64) {
	v2 := p.Sub(t.a)
	d20 := v2.Dot(t.v0)
	d21 := v2.Dot(t.v1)
	w1 = (t.d11*d20 - t.d01*d21) / t.denom
	w2 = (t.d00*d21 - t.d01*d20) / t.denom
	w0 = 1 - w1 - w2
	return w0, w1, w2
}

// draw writes the triangle's texels inside rows [rowMin, rowMax) and
// returns how many it wrote.
func (t *triangle) draw(tex *Texture, mask *CoverageMask, rowMin, rowMax int) int {
	y0 := max(t.y0, rowMin)
	y1 := min(t.y1, rowMax-1)

	n := 0
	for y := y0; y <= y1; y++ {
		for x := t.x0; x <= t.x1; x++ {
			p := math.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			w0, w1, w2 := t.barycentric(p)
			if w0 < insideEpsilon || w1 < insideEpsilon || w2 < insideEpsilon {
				continue
			}
			tex.Set(x, y, t.blend(w0, w1, w2))
			mask.Set(x, y)
			n++
		}
	}
	return n
}

// blend interpolates the corner colors, clamping and truncating to bytes.
func (t *triangle) blend(w0, w1, w2 float64) mesh.Color {
	var out [3]uint8
	for ch := 0; ch < 3; ch++ {
		v := w0*t.colors[0][ch] + w1*t.colors[1][ch] + w2*t.colors[2][ch]
		out[ch] = uint8(stdmath.Min(stdmath.Max(v, 0), 255))
	}
	return mesh.Color{R: out[0], G: out[1], B: out[2]}
}
