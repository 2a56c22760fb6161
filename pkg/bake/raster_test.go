package bake

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshbake/pkg/math"
	"github.com/Faultbox/meshbake/pkg/mesh"
)

var (
	red   = mesh.Color{R: 255}
	green = mesh.Color{G: 255}
	blue  = mesh.Color{B: 255}
)

// quadUVMap is the unit square split along its diagonal.
func quadUVMap() *mesh.UVMap {
	return &mesh.UVMap{
		UVs:     []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Mapping: []int{0, 1, 2, 3},
		Faces:   [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func singleTriangle(a, b, c math.Vec2) *mesh.UVMap {
	return &mesh.UVMap{
		UVs:     []math.Vec2{a, b, c},
		Mapping: []int{0, 1, 2},
		Faces:   [][3]int{{0, 1, 2}},
	}
}

func TestRasterize_QuadCoverage(t *testing.T) {
	colors := []mesh.Color{red, green, blue, mesh.White}

	_, mask, stats, err := Rasterize(quadUVMap(), colors, RasterOptions{Resolution: 4, Workers: 1})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if len(stats.Degenerate) != 0 {
		t.Errorf("expected no degenerate faces, got %v", stats.Degenerate)
	}

	// Pixel centers at 3.5 fall outside the [0,3] footprint, leaving the
	// last row and column for the hole filler.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := x < 3 && y < 3
			if mask.At(x, y) != want {
				t.Errorf("mask(%d,%d) = %v, want %v", x, y, mask.At(x, y), want)
			}
		}
	}
}

func TestRasterize_ConvexCombinationBound(t *testing.T) {
	colors := []mesh.Color{{R: 200, G: 10, B: 50}, {R: 20, G: 180, B: 90}, {R: 60, G: 60, B: 240}}
	uv := singleTriangle(math.Vec2{X: 0.05, Y: 0.1}, math.Vec2{X: 0.95, Y: 0.3}, math.Vec2{X: 0.4, Y: 0.92})

	tex, mask, _, err := Rasterize(uv, colors, RasterOptions{Resolution: 64, Workers: 1})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if mask.Count() == 0 {
		t.Fatal("expected covered texels")
	}

	lo := [3]int{20, 10, 50}
	hi := [3]int{200, 180, 240}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if !mask.At(x, y) {
				continue
			}
			c := tex.At(x, y)
			got := [3]int{int(c.R), int(c.G), int(c.B)}
			for ch := range got {
				// Truncation may land one below an exact corner value.
				if got[ch] < lo[ch]-1 || got[ch] > hi[ch] {
					t.Fatalf("texel (%d,%d) channel %d = %d outside [%d,%d]", x, y, ch, got[ch], lo[ch], hi[ch])
				}
			}
		}
	}
}

func TestRasterize_VertexColorReproduction(t *testing.T) {
	const res = 256
	uv := singleTriangle(math.Vec2{X: 0.1, Y: 0.1}, math.Vec2{X: 0.9, Y: 0.1}, math.Vec2{X: 0.1, Y: 0.9})
	colors := []mesh.Color{red, green, blue}

	tex, mask, _, err := Rasterize(uv, colors, RasterOptions{Resolution: res, Workers: 1})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}

	for i, corner := range uv.UVs {
		p := toPixel(corner, res)
		x, y := int(p.X), int(p.Y)
		if !mask.At(x, y) {
			t.Errorf("corner %d: texel (%d,%d) not covered", i, x, y)
			continue
		}
		got := tex.At(x, y)
		want := colors[i]
		if absDiff(got.R, want.R) > 2 || absDiff(got.G, want.G) > 2 || absDiff(got.B, want.B) > 2 {
			t.Errorf("corner %d: texel (%d,%d) = %v, want ~%v", i, x, y, got, want)
		}
	}
}

func TestRasterize_VerticalFlip(t *testing.T) {
	// A thin band along v = 1 must land in row 0.
	uv := singleTriangle(math.Vec2{X: 0, Y: 1}, math.Vec2{X: 1, Y: 1}, math.Vec2{X: 0, Y: 0.7})

	_, mask, _, err := Rasterize(uv, []mesh.Color{red, red, red}, RasterOptions{Resolution: 16, Workers: 1})
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if !mask.At(0, 0) {
		t.Error("expected top-left texel to be covered")
	}
	if mask.At(0, 15) {
		t.Error("expected bottom-left texel to stay uncovered")
	}
}

func TestRasterize_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		uv   *mesh.UVMap
	}{
		{
			name: "collinear",
			uv:   singleTriangle(math.Vec2{X: 0, Y: 0}, math.Vec2{X: 0.5, Y: 0.5}, math.Vec2{X: 1, Y: 1}),
		},
		{
			name: "coincident",
			uv:   singleTriangle(math.Vec2{X: 0.3, Y: 0.3}, math.Vec2{X: 0.3, Y: 0.3}, math.Vec2{X: 0.3, Y: 0.3}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			opts := RasterOptions{Resolution: 32, Workers: 1, Logger: zap.New(core)}

			tex, mask, stats, err := Rasterize(tt.uv, []mesh.Color{red, green, blue}, opts)
			if err != nil {
				t.Fatalf("degenerate face must not be fatal, got %v", err)
			}
			if stats.Written != 0 || mask.Count() != 0 {
				t.Errorf("expected zero texels written, got %d (mask %d)", stats.Written, mask.Count())
			}
			if !bytes.Equal(tex.Pix, make([]uint8, len(tex.Pix))) {
				t.Error("expected texture to stay black")
			}
			if len(stats.Degenerate) != 1 || stats.Degenerate[0] != 0 {
				t.Errorf("expected face 0 reported degenerate, got %v", stats.Degenerate)
			}
			if logs.FilterMessage("skipping degenerate face").Len() != 1 {
				t.Errorf("expected one diagnostic, got %d log entries", logs.Len())
			}
		})
	}
}

func TestBlend_ClampsThenTruncates(t *testing.T) {
	tri := triangle{colors: [3][3]float64{{255, 0, 10}, {255, 0, 10}, {255, 0, 10}}}

	// Weights a hair short of 1 truncate rather than round.
	if got := tri.blend(0.3, 0.3, 0.3999999); got.R != 254 || got.B != 9 {
		t.Errorf("blend() = %v, want {254 0 9}", got)
	}
	// Slightly outside the triangle the sum overshoots and is clamped.
	if got := tri.blend(0.5, 0.5, 0.1); got.R != 255 || got.B != 11 {
		t.Errorf("blend() = %v, want {255 0 11}", got)
	}
	if got := tri.blend(-1, 0, 0); got != (mesh.Color{}) {
		t.Errorf("blend() = %v, want black", got)
	}
}

func TestRasterize_LastWriteWins(t *testing.T) {
	uv := &mesh.UVMap{
		UVs: []math.Vec2{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		},
		Mapping: []int{0, 1, 2, 0, 1, 2},
		Faces:   [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
	colors := []mesh.Color{red, red, red, blue, blue, blue}

	for _, workers := range []int{1, 4} {
		tex, mask, _, err := Rasterize(uv, colors, RasterOptions{Resolution: 16, Workers: workers})
		if err != nil {
			t.Fatalf("Rasterize() error = %v", err)
		}
		covered := 0
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				if !mask.At(x, y) {
					continue
				}
				covered++
				// Blending three equal corners may truncate 254.99 to 254.
				if c := tex.At(x, y); c.R != 0 || c.G != 0 || c.B < 254 {
					t.Fatalf("workers=%d: texel (%d,%d) = %v, want later face color %v", workers, x, y, c, blue)
				}
			}
		}
		if covered == 0 {
			t.Fatalf("workers=%d: no texels covered", workers)
		}
	}
}

func TestRasterize_ParallelMatchesSerial(t *testing.T) {
	uv, colors := randomLayout(rand.New(rand.NewSource(42)), 200)

	serialTex, serialMask, serialStats, err := Rasterize(uv, colors, RasterOptions{Resolution: 128, Workers: 1})
	if err != nil {
		t.Fatalf("serial Rasterize() error = %v", err)
	}

	for _, workers := range []int{2, 3, 7, 200} {
		tex, mask, stats, err := Rasterize(uv, colors, RasterOptions{Resolution: 128, Workers: workers})
		if err != nil {
			t.Fatalf("workers=%d: Rasterize() error = %v", workers, err)
		}
		if !bytes.Equal(tex.Pix, serialTex.Pix) {
			t.Errorf("workers=%d: texture differs from serial result", workers)
		}
		for i := range mask.Covered {
			if mask.Covered[i] != serialMask.Covered[i] {
				t.Errorf("workers=%d: mask differs at %d", workers, i)
				break
			}
		}
		if stats.Written != serialStats.Written {
			t.Errorf("workers=%d: written = %d, want %d", workers, stats.Written, serialStats.Written)
		}
	}
}

func TestRasterize_Errors(t *testing.T) {
	colors := []mesh.Color{red, green, blue, mesh.White}

	tests := []struct {
		name    string
		uv      *mesh.UVMap
		colors  []mesh.Color
		res     int
		wantErr error
	}{
		{"zero resolution", quadUVMap(), colors, 0, ErrInvalidResolution},
		{"negative resolution", quadUVMap(), colors, -4, ErrInvalidResolution},
		{"color count", quadUVMap(), colors[:3], 4, mesh.ErrColorCount},
		{
			name: "face out of range",
			uv: &mesh.UVMap{
				UVs:     []math.Vec2{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
				Mapping: []int{0, 1, 2, 3},
				Faces:   [][3]int{{0, 1, 4}},
			},
			colors:  colors,
			res:     4,
			wantErr: mesh.ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Rasterize(tt.uv, tt.colors, RasterOptions{Resolution: tt.res})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// randomLayout builds overlapping triangles with a fixed seed.
func randomLayout(rng *rand.Rand, faces int) (*mesh.UVMap, []mesh.Color) {
	uv := &mesh.UVMap{}
	var colors []mesh.Color
	for f := 0; f < faces; f++ {
		base := len(uv.UVs)
		for k := 0; k < 3; k++ {
			uv.UVs = append(uv.UVs, math.Vec2{X: rng.Float64(), Y: rng.Float64()})
			uv.Mapping = append(uv.Mapping, base+k)
			colors = append(colors, mesh.Color{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))})
		}
		uv.Faces = append(uv.Faces, [3]int{base, base + 1, base + 2})
	}
	return uv, colors
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
