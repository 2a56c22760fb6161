package bake

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshbake/pkg/mesh"
)

// DefaultFillPasses is the number of dilation passes run by default.
const DefaultFillPasses = 8

// fixedDivisor is the full 3x3 window size used by DivisorFixed.
const fixedDivisor = 9

// Divisor selects how a hole texel's neighbor sum is normalized.
type Divisor int

const (
	// DivisorFixed divides by 9 regardless of how many neighbors were
	// covered. Edges of the filled region darken toward black.
	DivisorFixed Divisor = iota
	// DivisorCovered divides by the number of covered samples, giving the
	// plain average of the covered neighbors.
	DivisorCovered
)

// String returns the config name of the divisor.
func (d Divisor) String() string {
	switch d {
	case DivisorFixed:
		return "fixed"
	case DivisorCovered:
		return "covered"
	default:
		return fmt.Sprintf("Divisor(%d)", int(d))
	}
}

// ParseDivisor parses "fixed" or "covered".
func ParseDivisor(s string) (Divisor, error) {
	switch strings.ToLower(s) {
	case "fixed", "":
		return DivisorFixed, nil
	case "covered":
		return DivisorCovered, nil
	default:
		return 0, fmt.Errorf("unknown fill divisor %q (want fixed or covered)", s)
	}
}

// FillOptions controls hole filling.
type FillOptions struct {
	Passes  int // maximum passes; 0 means none
	Divisor Divisor
	Workers int // row bands filled concurrently; 0 = NumCPU
}

// FillStats summarizes one hole-filling run.
type FillStats struct {
	Passes    int // passes that updated at least one texel
	Filled    int // texels newly covered
	Remaining int // texels still uncovered afterwards
}

// FillHoles dilates covered texels into uncovered ones, updating tex and
// mask in place. Each pass reads a snapshot taken at its start, so the
// result does not depend on scan order. Texels farther than opts.Passes
// steps from any covered texel stay uncovered and black.
func FillHoles(tex *Texture, mask *CoverageMask, opts FillOptions) FillStats {
	var stats FillStats
	size := tex.Size

	for pass := 0; pass < opts.Passes; pass++ {
		if mask.Count() == len(mask.Covered) {
			break
		}

		srcTex := tex.Clone()
		srcMask := mask.Clone()

		filled := make([]int, workerCount(opts.Workers, size))
		forEachBand(size, opts.Workers, func(band, y0, y1 int) {
			for y := y0; y < y1; y++ {
				for x := 0; x < size; x++ {
					if srcMask.At(x, y) {
						continue
					}
					c, ok := dilate(srcTex, srcMask, x, y, opts.Divisor)
					if !ok {
						continue
					}
					tex.Set(x, y, c)
					mask.Set(x, y)
					filled[band]++
				}
			}
		})

		n := 0
		for _, f := range filled {
			n += f
		}
		if n == 0 {
			break
		}
		stats.Passes++
		stats.Filled += n
	}

	stats.Remaining = len(mask.Covered) - mask.Count()
	return stats
}

// dilate computes the fill color for the uncovered texel (x, y) from its
// eight neighbors. Out-of-grid neighbors repeat the nearest edge texel.
func dilate(tex *Texture, mask *CoverageMask, x, y int, div Divisor) (mesh.Color, bool) {
	last := tex.Size - 1
	var sum [3]int
	samples := 0

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := clamp(x+dx, 0, last)
			ny := clamp(y+dy, 0, last)
			if !mask.At(nx, ny) {
				continue
			}
			c := tex.At(nx, ny)
			sum[0] += int(c.R)
			sum[1] += int(c.G)
			sum[2] += int(c.B)
			samples++
		}
	}
	if samples == 0 {
		return mesh.Color{}, false
	}

	d := fixedDivisor
	if div == DivisorCovered {
		d = samples
	}
	return mesh.Color{R: uint8(sum[0] / d), G: uint8(sum[1] / d), B: uint8(sum[2] / d)}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
