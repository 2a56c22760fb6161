// Package formats provides readers and writers for the mesh, material and
// image files produced by a bake.
// OBJ (Wavefront geometry) format parser and writer.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshbake/pkg/math"
	"github.com/Faultbox/meshbake/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedOBJ = errors.New("malformed OBJ data")
	ErrMixedTexFace = errors.New("OBJ mixes faces with and without texture coordinates")
)

// OBJ holds the subset of a Wavefront OBJ file used by the baker.
// Polygons are fan-triangulated on load.
type OBJ struct {
	Vertices     []math.Vec3
	Colors       []mesh.Color // per-vertex colors from "v x y z r g b", nil if absent
	TexCoords    []math.Vec2
	Faces        [][3]int // 0-based vertex indices
	TexFaces     [][3]int // 0-based texcoord indices, parallel to Faces; nil if absent
	MaterialLibs []string
	Materials    []string // usemtl names in file order
}

// HasTexCoords reports whether every face carries texture coordinates.
func (o *OBJ) HasTexCoords() bool {
	return len(o.TexFaces) > 0 && len(o.TexFaces) == len(o.Faces)
}

// Mesh converts the geometry to a mesh.Mesh.
func (o *OBJ) Mesh() *mesh.Mesh {
	return &mesh.Mesh{Positions: o.Vertices, Faces: o.Faces, Colors: o.Colors}
}

// ParseOBJ parses OBJ text from r.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	colored := 0
	withVT, withoutVT := 0, 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, objError(ln, "vertex needs 3 coordinates")
			}
			p, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, objError(ln, err.Error())
			}
			obj.Vertices = append(obj.Vertices, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
			if len(fields) >= 7 {
				c, err := parseFloats(fields[4:7])
				if err != nil {
					return nil, objError(ln, err.Error())
				}
				obj.Colors = append(obj.Colors, mesh.Color{R: unitToByte(c[0]), G: unitToByte(c[1]), B: unitToByte(c[2])})
				colored++
			}

		case "vt":
			if len(fields) < 2 {
				return nil, objError(ln, "texcoord needs at least u")
			}
			n := min(len(fields)-1, 2)
			uv, err := parseFloats(fields[1 : 1+n])
			if err != nil {
				return nil, objError(ln, err.Error())
			}
			vt := math.Vec2{X: uv[0]}
			if n == 2 {
				vt.Y = uv[1]
			}
			obj.TexCoords = append(obj.TexCoords, vt)

		case "f":
			if len(fields) < 4 {
				return nil, objError(ln, "face needs at least 3 corners")
			}
			verts := make([]int, 0, len(fields)-1)
			texs := make([]int, 0, len(fields)-1)
			for _, corner := range fields[1:] {
				vi, ti, err := parseCorner(corner, len(obj.Vertices), len(obj.TexCoords))
				if err != nil {
					return nil, objError(ln, err.Error())
				}
				verts = append(verts, vi)
				if ti >= 0 {
					texs = append(texs, ti)
				}
			}
			if len(texs) != 0 && len(texs) != len(verts) {
				return nil, objError(ln, "texcoords on some corners only")
			}
			for i := 1; i+1 < len(verts); i++ {
				obj.Faces = append(obj.Faces, [3]int{verts[0], verts[i], verts[i+1]})
				if len(texs) > 0 {
					obj.TexFaces = append(obj.TexFaces, [3]int{texs[0], texs[i], texs[i+1]})
					withVT++
				} else {
					withoutVT++
				}
			}

		case "mtllib":
			obj.MaterialLibs = append(obj.MaterialLibs, strings.Join(fields[1:], " "))
		case "usemtl":
			obj.Materials = append(obj.Materials, strings.Join(fields[1:], " "))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if withVT > 0 && withoutVT > 0 {
		return nil, ErrMixedTexFace
	}
	switch {
	case colored == 0:
		obj.Colors = nil
	case colored != len(obj.Vertices):
		return nil, fmt.Errorf("%w: %d of %d vertices carry colors", ErrMalformedOBJ, colored, len(obj.Vertices))
	}

	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// indices. ti is -1 when the corner has no texcoord. Negative OBJ indices
// count back from the most recent element.
func parseCorner(s string, nv, nt int) (vi, ti int, err error) {
	parts := strings.Split(s, "/")
	vi, err = resolveIndex(parts[0], nv)
	if err != nil {
		return 0, 0, fmt.Errorf("vertex %q: %w", s, err)
	}
	ti = -1
	if len(parts) > 1 && parts[1] != "" {
		ti, err = resolveIndex(parts[1], nt)
		if err != nil {
			return 0, 0, fmt.Errorf("texcoord %q: %w", s, err)
		}
	}
	return vi, ti, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	default:
		return 0, fmt.Errorf("index %d out of range (count %d)", i, count)
	}
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// unitToByte maps a [0,1] color channel to a byte.
func unitToByte(v float64) uint8 {
	return uint8(stdmath.Round(stdmath.Min(stdmath.Max(v, 0), 1) * 255))
}

func objError(line int, msg string) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedOBJ, line, msg)
}

// WriteOBJ writes a textured triangle mesh. Every vertex has exactly one
// texcoord, so each face corner uses the same 1-based index in both slots.
// Coordinates are written with 6 decimals.
func WriteOBJ(w io.Writer, mtlLib, material string, vertices []math.Vec3, uvs []math.Vec2, faces [][3]int) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "mtllib %s\n", mtlLib)
	fmt.Fprintf(bw, "usemtl %s\n", material)

	buf := make([]byte, 0, 96)
	for _, v := range vertices {
		buf = append(buf[:0], "v "...)
		buf = appendFixed(buf, v.X)
		buf = append(buf, ' ')
		buf = appendFixed(buf, v.Y)
		buf = append(buf, ' ')
		buf = appendFixed(buf, v.Z)
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	for _, uv := range uvs {
		buf = append(buf[:0], "vt "...)
		buf = appendFixed(buf, uv.X)
		buf = append(buf, ' ')
		buf = appendFixed(buf, uv.Y)
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	for _, f := range faces {
		buf = append(buf[:0], 'f')
		for _, idx := range f {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(idx+1), 10)
			buf = append(buf, '/')
			buf = strconv.AppendInt(buf, int64(idx+1), 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	return bw.Flush()
}

func appendFixed(buf []byte, v float64) []byte {
	return strconv.AppendFloat(buf, v, 'f', 6, 64)
}
