package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an RGB triple that reads and writes as a "#RRGGBB" string in
// configuration files, for both the JSON and the YAML decoders.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. A leading '#' is
// optional and hex digits are case insensitive.
func (c *Color) UnmarshalText(text []byte) error {
	trimmed := strings.TrimSpace(string(text))
	trimmed = strings.TrimPrefix(trimmed, "#")
	if len(trimmed) != 6 {
		return fmt.Errorf("color: %q is not a #RRGGBB value", string(text))
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return fmt.Errorf("color: parse %q: %w", string(text), err)
	}
	c.R = uint8(v >> 16)
	c.G = uint8(v >> 8)
	c.B = uint8(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("color: decode yaml value: %w", err)
	}
	return c.UnmarshalText([]byte(s))
}

// Config captures the tunable parameters for one terrain generation run.
type Config struct {
	Terrain TerrainConfig `json:"terrain" yaml:"terrain"`
	Export  ExportConfig  `json:"export" yaml:"export"`
}

type TerrainConfig struct {
	Seed      int64 `json:"seed" yaml:"seed"`
	GridSize  int   `json:"gridSize" yaml:"gridSize"`   // square side, power of two
	Octaves   int   `json:"octaves" yaml:"octaves"`     // fractal detail layers
	MaxHeight int   `json:"maxHeight" yaml:"maxHeight"` // voxel column scale, 0 disables
	Ground    Color `json:"ground" yaml:"ground"`
	Grass1    Color `json:"grass1" yaml:"grass1"`
	Grass2    Color `json:"grass2" yaml:"grass2"`
	Water     Color `json:"water" yaml:"water"`
}

type ExportConfig struct {
	MaxColors int `json:"maxColors" yaml:"maxColors"` // palette size for quantized outputs
}

// Load reads configuration from a JSON or YAML file, chosen by extension.
// An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Seed:      1337,
			GridSize:  512,
			Octaves:   10,
			MaxHeight: 64,
			Ground:    Color{R: 0x8C, G: 0x7D, B: 0x73},
			Grass1:    Color{R: 0x48, G: 0x50, B: 0x20},
			Grass2:    Color{R: 0x44, G: 0x4E, B: 0x28},
			Water:     Color{R: 0x3C, G: 0x64, B: 0x78},
		},
		Export: ExportConfig{
			MaxColors: 256,
		},
	}
}

func (c *Config) Validate() error {
	size := c.Terrain.GridSize
	if size <= 0 || size&(size-1) != 0 {
		return errors.New("terrain.gridSize must be a positive power of two")
	}
	if c.Terrain.Octaves < 1 || c.Terrain.Octaves > 20 {
		return errors.New("terrain.octaves must be between 1 and 20")
	}
	if c.Terrain.MaxHeight < 0 || c.Terrain.MaxHeight > 255 {
		return errors.New("terrain.maxHeight must be between 0 and 255")
	}
	if c.Export.MaxColors < 1 || c.Export.MaxColors > 256 {
		return errors.New("export.maxColors must be between 1 and 256")
	}
	return nil
}
