package theme

import (
	"strings"
	"testing"
)

const gpl = `GIMP Palette
Name: mono
Columns: 2
# comment
0 0 0	black
255 255 255	white
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "mono" || len(p.Colors) != 2 {
		t.Fatalf("got %+v", p)
	}
}

func TestParseGPLEmpty(t *testing.T) {
	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("expected an error for a palette without colors")
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0.5, RGB{100, 50, 25}},
		{2, RGB{200, 100, 50}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestNewFallsBackToDefault(t *testing.T) {
	th := New(nil)
	if th.Palette == nil || len(th.Palette.Colors) == 0 {
		t.Fatal("theme without palette")
	}
	if th.Accent() == "" {
		t.Error("empty accent color")
	}
}
