package viz

import (
	"strings"
	"testing"
)

func TestComposeMergesPlates(t *testing.T) {
	a := newPlate(2, 1, "#ff0000")
	b := newPlate(2, 1, "#00ff00")
	a.canvas.Set(0, 0)
	b.canvas.Set(1, 0)

	out := compose(2, 1, []plate{a, b}, nil)
	runes := []rune(strings.TrimSuffix(stripANSI(out), "\n"))

	if len(runes) != 2 {
		t.Fatalf("expected 2 cells, got %q", string(runes))
	}
	if runes[0] != 0x2809 {
		t.Errorf("expected merged dots 1 and 4, got %U", runes[0])
	}
	if runes[1] != brailleBlank {
		t.Errorf("expected blank second cell, got %U", runes[1])
	}
}

func TestComposeDensityUnderDots(t *testing.T) {
	p := newPlate(3, 1, "#ffffff")
	p.canvas.Set(0, 0)
	density := [][]float64{{1, 0.3, 0}}

	runes := []rune(strings.TrimSuffix(stripANSI(compose(3, 1, []plate{p}, density)), "\n"))

	if runes[0] != 0x2801 {
		t.Errorf("dots should win over heat, got %U", runes[0])
	}
	if runes[1] != '▒' {
		t.Errorf("expected medium shade, got %q", runes[1])
	}
	if runes[2] != brailleBlank {
		t.Errorf("expected blank, got %U", runes[2])
	}
}

func TestShade(t *testing.T) {
	tests := []struct {
		d    float64
		want rune
	}{
		{0.1, '░'},
		{0.3, '▒'},
		{0.6, '▓'},
		{1, '█'},
	}
	for _, tt := range tests {
		if got := shade(tt.d); got != tt.want {
			t.Errorf("shade(%.1f) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// stripANSI drops escape sequences so cell runes can be compared.
func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			esc = true
		case esc && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
