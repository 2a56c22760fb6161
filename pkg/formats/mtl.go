// Package formats provides readers and writers for the mesh, material and
// image files produced by a bake.
// MTL (Wavefront material library) parser and writer.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MTL format errors.
var ErrMalformedMTL = errors.New("malformed MTL data")

// DefaultMaterialName is the material written for baked meshes.
const DefaultMaterialName = "material0"

// Material is one newmtl block.
type Material struct {
	Name       string
	Ambient    [3]float64 // Ka
	Diffuse    [3]float64 // Kd
	Specular   [3]float64 // Ks
	Shininess  float64    // Ns
	Dissolve   float64    // d, 1 = opaque
	DiffuseMap string     // map_Kd
}

// BakedMaterial returns the single white, opaque, non-specular material
// that references the baked albedo texture.
func BakedMaterial(texture string) Material {
	return Material{
		Name:       DefaultMaterialName,
		Ambient:    [3]float64{1, 1, 1},
		Diffuse:    [3]float64{1, 1, 1},
		Specular:   [3]float64{0, 0, 0},
		Shininess:  10,
		Dissolve:   1,
		DiffuseMap: texture,
	}
}

// WriteMTL writes a single material block.
func WriteMTL(w io.Writer, m Material) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "newmtl %s\n", m.Name)
	fmt.Fprintf(bw, "Ka %.3f %.3f %.3f\n", m.Ambient[0], m.Ambient[1], m.Ambient[2])
	fmt.Fprintf(bw, "Kd %.3f %.3f %.3f\n", m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
	fmt.Fprintf(bw, "Ks %.3f %.3f %.3f\n", m.Specular[0], m.Specular[1], m.Specular[2])
	fmt.Fprintf(bw, "Ns %.3f\n", m.Shininess)
	fmt.Fprintf(bw, "d %.1f\n", m.Dissolve)
	if m.DiffuseMap != "" {
		fmt.Fprintf(bw, "map_Kd %s\n", m.DiffuseMap)
	}
	return bw.Flush()
}

// ParseMTL parses every material block in r.
func ParseMTL(r io.Reader) ([]Material, error) {
	var mats []Material
	var cur *Material

	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if key == "newmtl" {
			mats = append(mats, Material{Name: rest, Dissolve: 1})
			cur = &mats[len(mats)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: line %d: %s before newmtl", ErrMalformedMTL, ln, key)
		}

		var err error
		switch key {
		case "Ka":
			cur.Ambient, err = parseTriple(rest)
		case "Kd":
			cur.Diffuse, err = parseTriple(rest)
		case "Ks":
			cur.Specular, err = parseTriple(rest)
		case "Ns":
			cur.Shininess, err = strconv.ParseFloat(rest, 64)
		case "d":
			cur.Dissolve, err = strconv.ParseFloat(rest, 64)
		case "map_Kd":
			cur.DiffuseMap = rest
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMTL, ln, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL: %w", err)
	}
	return mats, nil
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MTL file: %w", err)
	}
	defer f.Close()
	return ParseMTL(f)
}

func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return out, fmt.Errorf("expected 3 values, got %d", len(fields))
	}
	vals, err := parseFloats(fields)
	if err != nil {
		return out, err
	}
	copy(out[:], vals)
	return out, nil
}
