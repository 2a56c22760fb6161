package export

import (
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/meshbake/pkg/bake"
	"github.com/Faultbox/meshbake/pkg/formats"
	"github.com/Faultbox/meshbake/pkg/mesh"
)

// ErrVerifyMismatch is returned when a written texture does not decode to
// the texture that was baked.
var ErrVerifyMismatch = errors.New("exported texture differs from baked texture")

// VerifyTexture decodes the albedo written for name and compares it texel
// by texel with want.
func (e *Exporter) VerifyTexture(name string, want *bake.Texture) error {
	path := e.PathsFor(name).Texture
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := formats.DecodeImage(f, e.imageFormat)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() != want.Size || b.Dy() != want.Size {
		return fmt.Errorf("%w: %s is %dx%d, baked %dx%d", ErrVerifyMismatch, path, b.Dx(), b.Dy(), want.Size, want.Size)
	}
	for y := 0; y < want.Size; y++ {
		for x := 0; x < want.Size; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			got := mesh.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}
			if exp := want.At(x, y); got != exp {
				return fmt.Errorf("%w: %s texel (%d,%d) = %v, baked %v", ErrVerifyMismatch, path, x, y, got, exp)
			}
		}
	}
	return nil
}
