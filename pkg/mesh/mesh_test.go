package mesh

import (
	"errors"
	stdmath "math"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/meshbake/pkg/math"
)

func TestResampleColors(t *testing.T) {
	colors := []Color{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	mapping := []int{0, 1, 1, 2, 0}

	got, err := ResampleColors(colors, mapping)
	if err != nil {
		t.Fatalf("ResampleColors() error = %v", err)
	}
	if len(got) != len(mapping) {
		t.Fatalf("expected %d colors, got %d", len(mapping), len(got))
	}
	for i, src := range mapping {
		if got[i] != colors[src] {
			t.Errorf("color[%d] = %v, want %v", i, got[i], colors[src])
		}
	}
}

func TestResampleColors_OutOfRange(t *testing.T) {
	colors := []Color{White, Black}

	tests := []struct {
		name    string
		mapping []int
	}{
		{"past end", []int{0, 2}},
		{"negative", []int{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResampleColors(colors, tt.mapping)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("expected ErrIndexOutOfRange, got %v", err)
			}
			if got != nil {
				t.Errorf("expected nil result on error, got %v", got)
			}
		})
	}
}

func TestResamplePositions(t *testing.T) {
	positions := []math.Vec3{{X: 1}, {Y: 2}}
	got, err := ResamplePositions(positions, []int{1, 0, 1})
	if err != nil {
		t.Fatalf("ResamplePositions() error = %v", err)
	}
	want := []math.Vec3{{Y: 2}, {X: 1}, {Y: 2}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMesh_Validate(t *testing.T) {
	tri := []math.Vec3{{}, {X: 1}, {Y: 1}}

	tests := []struct {
		name    string
		mesh    Mesh
		wantErr []error
	}{
		{
			name: "valid",
			mesh: Mesh{Positions: tri, Faces: [][3]int{{0, 1, 2}}, Colors: []Color{White, White, White}},
		},
		{
			name: "no colors is valid",
			mesh: Mesh{Positions: tri, Faces: [][3]int{{0, 1, 2}}},
		},
		{
			name:    "face out of range",
			mesh:    Mesh{Positions: tri, Faces: [][3]int{{0, 1, 3}}},
			wantErr: []error{ErrIndexOutOfRange},
		},
		{
			name:    "color count and face both wrong",
			mesh:    Mesh{Positions: tri, Faces: [][3]int{{0, -1, 2}}, Colors: []Color{White}},
			wantErr: []error{ErrColorCount, ErrIndexOutOfRange},
		},
		{
			name:    "NaN position",
			mesh:    Mesh{Positions: []math.Vec3{{}, {X: stdmath.NaN()}, {Y: 1}}, Faces: [][3]int{{0, 1, 2}}},
			wantErr: []error{ErrNonFinite},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if got := len(multierr.Errors(err)); got != len(tt.wantErr) {
				t.Errorf("expected %d errors, got %d (%v)", len(tt.wantErr), got, err)
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("expected %v in %v", want, err)
				}
			}
		})
	}
}

func TestUVMap_Validate(t *testing.T) {
	valid := UVMap{
		UVs:     []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		Mapping: []int{0, 1, 2, 2},
		Faces:   [][3]int{{0, 1, 2}, {1, 3, 2}},
	}
	if err := valid.Validate(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badMapping := valid
	badMapping.Mapping = []int{0, 1, 2, 5}
	if err := badMapping.Validate(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}

	badUV := valid
	badUV.UVs = []math.Vec2{{X: 0, Y: 0}, {X: 1.5, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	if err := badUV.Validate(3); !errors.Is(err, ErrUVRange) {
		t.Errorf("expected ErrUVRange, got %v", err)
	}

	badCount := valid
	badCount.Mapping = []int{0, 1, 2}
	if err := badCount.Validate(3); !errors.Is(err, ErrUVCount) {
		t.Errorf("expected ErrUVCount, got %v", err)
	}
}
