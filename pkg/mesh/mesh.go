// Package mesh defines triangle meshes, UV-split vertex maps and the
// per-vertex attribute resampling that moves data from one to the other.
package mesh

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/meshbake/pkg/math"
)

// Mesh validation errors.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrColorCount      = errors.New("vertex color count mismatch")
	ErrUVRange         = errors.New("UV coordinate outside unit square")
	ErrUVCount         = errors.New("UV coordinate count mismatch")
	ErrNonFinite       = errors.New("non-finite vertex position")
)

// uvEpsilon is the slack allowed around [0,1] for unwrapper rounding.
const uvEpsilon = 1e-6

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
)

// Mesh is an indexed triangle mesh with optional per-vertex colors.
type Mesh struct {
	Positions []math.Vec3
	Faces     [][3]int
	Colors    []Color // nil or len(Positions)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// HasColors reports whether the mesh carries per-vertex colors.
func (m *Mesh) HasColors() bool {
	return len(m.Colors) > 0
}

// Validate checks positions, face indices and color count. All violations
// are reported.
func (m *Mesh) Validate() error {
	var err error
	for i, p := range m.Positions {
		if !p.IsFinite() {
			err = multierr.Append(err, fmt.Errorf("%w: vertex %d = %v", ErrNonFinite, i, p))
			break
		}
	}
	if m.HasColors() && len(m.Colors) != len(m.Positions) {
		err = multierr.Append(err, fmt.Errorf("%w: %d colors for %d vertices",
			ErrColorCount, len(m.Colors), len(m.Positions)))
	}
	err = multierr.Append(err, CheckFaces(m.Faces, len(m.Positions)))
	return err
}

// UVMap is the output of a UV unwrap: a re-indexed vertex set where every
// new vertex carries exactly one UV coordinate.
type UVMap struct {
	UVs     []math.Vec2
	Mapping []int    // new vertex index -> original vertex index
	Faces   [][3]int // faces over the new indexing
}

// VertexCount returns the number of UV-split vertices.
func (u *UVMap) VertexCount() int {
	return len(u.UVs)
}

// Validate checks the map against the original vertex count.
func (u *UVMap) Validate(originalCount int) error {
	var err error
	if len(u.Mapping) != len(u.UVs) {
		err = multierr.Append(err, fmt.Errorf("%w: %d UVs for %d mapped vertices",
			ErrUVCount, len(u.UVs), len(u.Mapping)))
	}
	err = multierr.Append(err, checkMapping(u.Mapping, originalCount))
	for i, uv := range u.UVs {
		if !uv.IsFinite() || !uv.InUnitSquare(uvEpsilon) {
			err = multierr.Append(err, fmt.Errorf("%w: uv[%d] = (%g, %g)", ErrUVRange, i, uv.X, uv.Y))
			break
		}
	}
	err = multierr.Append(err, CheckFaces(u.Faces, len(u.UVs)))
	return err
}

// CheckFaces reports the first face that references a missing vertex.
func CheckFaces(faces [][3]int, vertexCount int) error {
	for fi, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= vertexCount {
				return fmt.Errorf("%w: face %d references vertex %d (vertex count %d)",
					ErrIndexOutOfRange, fi, idx, vertexCount)
			}
		}
	}
	return nil
}

func checkMapping(mapping []int, originalCount int) error {
	for i, src := range mapping {
		if src < 0 || src >= originalCount {
			return fmt.Errorf("%w: mapping[%d] = %d (vertex count %d)",
				ErrIndexOutOfRange, i, src, originalCount)
		}
	}
	return nil
}
