package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Sets.Extension != ".mset" {
		t.Errorf("Extension = %q, want .mset", cfg.Sets.Extension)
	}
	if cfg.Display.Line1Max != 16 || cfg.Display.Line2Max != 15 {
		t.Errorf("line limits = %d/%d, want 16/15", cfg.Display.Line1Max, cfg.Display.Line2Max)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
sets:
  dir: /tmp/sets
  maxVersion: 9
display:
  refreshInterval: 40ms
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Sets.Dir != "/tmp/sets" {
		t.Errorf("Dir = %q", cfg.Sets.Dir)
	}
	if cfg.Sets.MaxVersion != 9 {
		t.Errorf("MaxVersion = %d, want 9", cfg.Sets.MaxVersion)
	}
	if cfg.Display.RefreshInterval != 40*time.Millisecond {
		t.Errorf("RefreshInterval = %v, want 40ms", cfg.Display.RefreshInterval)
	}
	// untouched sections keep defaults
	if cfg.Controls.EncoderCC != 28 {
		t.Errorf("EncoderCC = %d, want 28", cfg.Controls.EncoderCC)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty extension", "sets:\n  extension: \"\"\n"},
		{"zero poll interval", "ui:\n  pollInterval: 0s\n"},
		{"zero reconnect interval", "ui:\n  reconnectInterval: 0s\n"},
		{"negative refresh interval", "display:\n  refreshInterval: -1s\n"},
		{"zero confirm timeout", "ui:\n  confirmTimeout: 0s\n"},
		{"zero step timeout", "scan:\n  stepTimeout: 0s\n"},
		{"zero bpm", "clock:\n  bpm: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Errorf("LoadFile(%q) should fail", tt.data)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Clock.BPM = 133
	cfg.UI.ConfirmTimeout = 5 * time.Second

	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.Clock.BPM != 133 {
		t.Errorf("BPM = %d, want 133", got.Clock.BPM)
	}
	if got.UI.ConfirmTimeout != 5*time.Second {
		t.Errorf("ConfirmTimeout = %v, want 5s", got.UI.ConfirmTimeout)
	}
}
