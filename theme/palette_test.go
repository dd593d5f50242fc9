package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}

	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{0.5, RGB{100, 50, 25}},
		{1, RGB{200, 100, 50}},
		{2, RGB{200, 100, 50}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gpl")
	content := "GIMP Palette\nName: test\nColumns: 2\n# comment\n255 0 0\tred\n0 0 255\tblue\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL() error = %v", err)
	}
	if p.Name != "test" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Colors) != 2 || p.Colors[0] != (RGB{255, 0, 0}) || p.Colors[1] != (RGB{0, 0, 255}) {
		t.Errorf("Colors = %v", p.Colors)
	}
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err == nil {
		t.Error("LoadGPL() on a palette without colors should fail")
	}
}

func TestThemeColor(t *testing.T) {
	th := New(&Palette{Colors: []RGB{{1, 2, 3}}})
	if got := string(th.Color(0.3)); got != "#010203" {
		t.Errorf("Color() = %s, want #010203", got)
	}
}
