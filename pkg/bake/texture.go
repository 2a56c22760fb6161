// Package bake rasterizes per-vertex colors into a UV-space texture and
// fills the uncovered texels left around UV seams.
package bake

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/meshbake/pkg/mesh"
)

// MaxResolution caps the texture side length (about 768 MiB of RGB).
const MaxResolution = 16384

// ErrInvalidResolution is returned for sizes outside [1, MaxResolution].
var ErrInvalidResolution = errors.New("texture resolution out of range")

// Texture is a square RGB image stored row-major, 3 bytes per texel.
// Row 0 corresponds to v = 1.
type Texture struct {
	Size int
	Pix  []uint8
}

// NewTexture allocates a zeroed size x size texture.
func NewTexture(size int) (*Texture, error) {
	if size <= 0 || size > MaxResolution {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidResolution, size, MaxResolution)
	}
	return &Texture{Size: size, Pix: make([]uint8, size*size*3)}, nil
}

// At returns the texel at (x, y).
func (t *Texture) At(x, y int) mesh.Color {
	i := (y*t.Size + x) * 3
	return mesh.Color{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2]}
}

// Set writes the texel at (x, y).
func (t *Texture) Set(x, y int, c mesh.Color) {
	i := (y*t.Size + x) * 3
	t.Pix[i] = c.R
	t.Pix[i+1] = c.G
	t.Pix[i+2] = c.B
}

// Clone returns a deep copy.
func (t *Texture) Clone() *Texture {
	pix := make([]uint8, len(t.Pix))
	copy(pix, t.Pix)
	return &Texture{Size: t.Size, Pix: pix}
}

// Image converts the texture to an opaque RGBA image.
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Size, t.Size))
	for y := 0; y < t.Size; y++ {
		for x := 0; x < t.Size; x++ {
			c := t.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// CoverageMask marks texels that hold a rasterized or filled value.
type CoverageMask struct {
	Size    int
	Covered []bool
}

// NewCoverageMask allocates an all-false mask.
func NewCoverageMask(size int) *CoverageMask {
	return &CoverageMask{Size: size, Covered: make([]bool, size*size)}
}

// At reports whether (x, y) is covered.
func (m *CoverageMask) At(x, y int) bool {
	return m.Covered[y*m.Size+x]
}

// Set marks (x, y) covered.
func (m *CoverageMask) Set(x, y int) {
	m.Covered[y*m.Size+x] = true
}

// Count returns the number of covered texels.
func (m *CoverageMask) Count() int {
	n := 0
	for _, c := range m.Covered {
		if c {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (m *CoverageMask) Clone() *CoverageMask {
	covered := make([]bool, len(m.Covered))
	copy(covered, m.Covered)
	return &CoverageMask{Size: m.Size, Covered: covered}
}
