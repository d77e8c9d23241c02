package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name:   "smallest grid",
			mutate: func(c *Config) { c.Terrain.GridSize = 1 },
		},
		{
			name:    "zero grid",
			mutate:  func(c *Config) { c.Terrain.GridSize = 0 },
			wantErr: "terrain.gridSize must be a positive power of two",
		},
		{
			name:    "negative grid",
			mutate:  func(c *Config) { c.Terrain.GridSize = -8 },
			wantErr: "terrain.gridSize must be a positive power of two",
		},
		{
			name:    "non power of two grid",
			mutate:  func(c *Config) { c.Terrain.GridSize = 100 },
			wantErr: "terrain.gridSize must be a positive power of two",
		},
		{
			name:    "zero octaves",
			mutate:  func(c *Config) { c.Terrain.Octaves = 0 },
			wantErr: "terrain.octaves must be between 1 and 20",
		},
		{
			name:    "too many octaves",
			mutate:  func(c *Config) { c.Terrain.Octaves = 21 },
			wantErr: "terrain.octaves must be between 1 and 20",
		},
		{
			name:   "flat max height",
			mutate: func(c *Config) { c.Terrain.MaxHeight = 0 },
		},
		{
			name:    "negative max height",
			mutate:  func(c *Config) { c.Terrain.MaxHeight = -1 },
			wantErr: "terrain.maxHeight must be between 0 and 255",
		},
		{
			name:    "max height above byte range",
			mutate:  func(c *Config) { c.Terrain.MaxHeight = 256 },
			wantErr: "terrain.maxHeight must be between 0 and 255",
		},
		{
			name:   "single color palette",
			mutate: func(c *Config) { c.Export.MaxColors = 1 },
		},
		{
			name:    "zero palette",
			mutate:  func(c *Config) { c.Export.MaxColors = 0 },
			wantErr: "export.maxColors must be between 1 and 256",
		},
		{
			name:    "oversized palette",
			mutate:  func(c *Config) { c.Export.MaxColors = 300 },
			wantErr: "export.maxColors must be between 1 and 256",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Fatalf("config = %+v, want %+v", cfg, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "land.json")
	body := `{
  "terrain": {"seed": 42, "gridSize": 256, "octaves": 8, "maxHeight": 32,
    "ground": "#102030", "grass1": "#405060", "grass2": "708090", "water": "#a0b0c0"},
  "export": {"maxColors": 64}
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Terrain.Seed != 42 || cfg.Terrain.GridSize != 256 || cfg.Terrain.Octaves != 8 {
		t.Fatalf("terrain = %+v", cfg.Terrain)
	}
	if cfg.Terrain.Ground != (Color{R: 0x10, G: 0x20, B: 0x30}) {
		t.Fatalf("ground = %v", cfg.Terrain.Ground)
	}
	if cfg.Terrain.Grass2 != (Color{R: 0x70, G: 0x80, B: 0x90}) {
		t.Fatalf("grass2 = %v, want bare hex to parse", cfg.Terrain.Grass2)
	}
	if cfg.Terrain.Water != (Color{R: 0xA0, G: 0xB0, B: 0xC0}) {
		t.Fatalf("water = %v, want lowercase hex to parse", cfg.Terrain.Water)
	}
	if cfg.Export.MaxColors != 64 {
		t.Fatalf("maxColors = %d, want 64", cfg.Export.MaxColors)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "land.yaml")
	body := `terrain:
  seed: 7
  gridSize: 128
  octaves: 6
  maxHeight: 48
  ground: "#8C7D73"
  grass1: "#485020"
  grass2: "#444E28"
  water: "#3C6478"
export:
  maxColors: 16
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Terrain.Seed != 7 || cfg.Terrain.GridSize != 128 {
		t.Fatalf("terrain = %+v", cfg.Terrain)
	}
	if cfg.Terrain.Water != (Color{R: 0x3C, G: 0x64, B: 0x78}) {
		t.Fatalf("water = %v", cfg.Terrain.Water)
	}
	if cfg.Export.MaxColors != 16 {
		t.Fatalf("maxColors = %d, want 16", cfg.Export.MaxColors)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"terrain": {"gridSize": 100}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "terrain.gridSize must be a positive power of two") {
		t.Fatalf("error = %v", err)
	}
}

func TestColorText(t *testing.T) {
	c := Color{R: 0x8C, G: 0x7D, B: 0x73}
	text, err := c.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(text) != "#8C7D73" {
		t.Fatalf("text = %q", text)
	}

	var back Color
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != c {
		t.Fatalf("round trip = %v, want %v", back, c)
	}

	if err := back.UnmarshalText([]byte("#12345")); err == nil {
		t.Fatal("expected error for short value")
	}
	if err := back.UnmarshalText([]byte("#12345G")); err == nil {
		t.Fatal("expected error for non-hex value")
	}
}
