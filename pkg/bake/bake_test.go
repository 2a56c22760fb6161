package bake

import (
	"errors"
	"testing"

	"github.com/Faultbox/meshbake/pkg/mesh"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Resolution != 1024 {
		t.Errorf("expected resolution 1024, got %d", opts.Resolution)
	}
	if opts.FillPasses != 8 {
		t.Errorf("expected 8 fill passes, got %d", opts.FillPasses)
	}
	if opts.Divisor != DivisorFixed {
		t.Errorf("expected fixed divisor, got %v", opts.Divisor)
	}
}

func TestBake_QuadScenario(t *testing.T) {
	colors := []mesh.Color{red, green, blue, mesh.White}

	for _, div := range []Divisor{DivisorFixed, DivisorCovered} {
		t.Run(div.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Resolution = 4
			opts.Divisor = div

			res, err := Bake(quadUVMap(), colors, opts)
			if err != nil {
				t.Fatalf("Bake() error = %v", err)
			}
			if res.Mask.Count() != 16 {
				t.Errorf("expected all 16 texels covered, got %d", res.Mask.Count())
			}
			if res.Fill.Remaining != 0 {
				t.Errorf("expected no holes, got %d", res.Fill.Remaining)
			}

			// UV (1,1) maps to pixel (3,0).
			c := res.Texture.At(3, 0)
			if c.B <= c.R || c.B <= c.G {
				t.Errorf("texel nearest UV (1,1) = %v, want blue dominant", c)
			}
			// The nearest rasterized texel sits on the shared diagonal.
			if c := res.Texture.At(2, 0); c.B < 200 || c.G != 0 {
				t.Errorf("texel (2,0) = %v, want mostly blue", c)
			}
		})
	}
}

func TestBake_Deterministic(t *testing.T) {
	colors := []mesh.Color{red, green, blue, mesh.White}
	opts := DefaultOptions()
	opts.Resolution = 32

	a, err := Bake(quadUVMap(), colors, opts)
	if err != nil {
		t.Fatalf("Bake() error = %v", err)
	}
	opts.Workers = 3
	b, err := Bake(quadUVMap(), colors, opts)
	if err != nil {
		t.Fatalf("Bake() error = %v", err)
	}
	if string(a.Texture.Pix) != string(b.Texture.Pix) {
		t.Error("expected identical textures across runs")
	}
}

func TestBake_InvalidResolution(t *testing.T) {
	for _, res := range []int{0, -4, MaxResolution + 1, 100000} {
		opts := DefaultOptions()
		opts.Resolution = res
		_, err := Bake(quadUVMap(), []mesh.Color{red, green, blue, mesh.White}, opts)
		if !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("resolution %d: expected ErrInvalidResolution, got %v", res, err)
		}
	}
}

func TestTexture_Image(t *testing.T) {
	tex, err := NewTexture(2)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	tex.Set(1, 0, mesh.Color{R: 1, G: 2, B: 3})

	img := tex.Image()
	r, g, b, a := img.At(1, 0).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 || a>>8 != 255 {
		t.Errorf("unexpected pixel: %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}
