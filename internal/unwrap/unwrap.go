// Package unwrap defines the boundary to UV parameterization. Computing a
// parameterization is left to external tools; this package only adapts
// their output into a mesh.UVMap.
package unwrap

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshbake/pkg/math"
	"github.com/Faultbox/meshbake/pkg/mesh"
)

// ErrNoParameterization is returned when the input carries no UV layout.
var ErrNoParameterization = errors.New("mesh has no UV parameterization")

// Func is an unwrapper: given geometry it returns the UV-split vertex map.
// Implementations must not modify their inputs.
type Func func(positions []math.Vec3, faces [][3]int) (*mesh.UVMap, error)

// FromCorners returns a Func that reuses an existing parameterization, as
// found in an OBJ file with "vt" records and "f v/vt" corners. Every
// distinct (vertex, texcoord) pair becomes one new vertex, numbered in
// order of first appearance.
func FromCorners(texcoords []math.Vec2, texFaces [][3]int) Func {
	return func(positions []math.Vec3, faces [][3]int) (*mesh.UVMap, error) {
		if len(texFaces) == 0 {
			return nil, ErrNoParameterization
		}
		if len(texFaces) != len(faces) {
			return nil, fmt.Errorf("%d texcoord faces for %d faces", len(texFaces), len(faces))
		}

		type corner struct{ v, t int }
		index := make(map[corner]int)
		out := &mesh.UVMap{Faces: make([][3]int, len(faces))}

		for fi, f := range faces {
			for k := 0; k < 3; k++ {
				c := corner{v: f[k], t: texFaces[fi][k]}
				if c.v < 0 || c.v >= len(positions) {
					return nil, fmt.Errorf("%w: face %d vertex %d", mesh.ErrIndexOutOfRange, fi, c.v)
				}
				if c.t < 0 || c.t >= len(texcoords) {
					return nil, fmt.Errorf("%w: face %d texcoord %d", mesh.ErrIndexOutOfRange, fi, c.t)
				}
				ni, ok := index[c]
				if !ok {
					ni = len(out.UVs)
					index[c] = ni
					out.UVs = append(out.UVs, texcoords[c.t])
					out.Mapping = append(out.Mapping, c.v)
				}
				out.Faces[fi][k] = ni
			}
		}
		return out, nil
	}
}
