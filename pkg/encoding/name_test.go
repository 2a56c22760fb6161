package encoding

import (
	"strings"
	"testing"
)

func TestFoldAccents(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Café", "Cafe"},
		{"naïve façade", "naive facade"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := FoldAccents(tt.in); got != tt.want {
			t.Errorf("FoldAccents(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already safe", "asset_0", "asset_0"},
		{"spaces", "a red chair", "a_red_chair"},
		{"accents", "crème brûlée", "creme_brulee"},
		{"path separators", "../etc/passwd", "etc_passwd"},
		{"collapse runs", "a  //  b", "a_b"},
		{"non latin", "椅子", DefaultName},
		{"empty", "", DefaultName},
		{"keeps dots and dashes", "mesh-v1.2", "mesh-v1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFileName(tt.in); got != tt.want {
				t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeFileName_Length(t *testing.T) {
	got := SafeFileName(strings.Repeat("x", 500))
	if len(got) != maxNameLength {
		t.Errorf("expected length %d, got %d", maxNameLength, len(got))
	}
}
