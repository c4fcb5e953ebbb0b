package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/zoomimage/subsampling"
)

// Config holds the settings shared by every command. Values come from an
// optional YAML file and are overridden by flags.
type Config struct {
	TileSize        int    `yaml:"tile_size"`
	MaxDecodePixels int64  `yaml:"max_decode_pixels"`
	Workers         int    `yaml:"workers"`
	OutputDir       string `yaml:"output_dir"`
	Verbose         bool   `yaml:"verbose"`
}

// LoadConfig reads a YAML config file. Fields not set in the file keep
// their zero values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flag overrides and fills in defaults. Flags win when
// they are non-zero.
func (c *Config) Resolve(flags Config) {
	if flags.TileSize > 0 {
		c.TileSize = flags.TileSize
	}
	if flags.MaxDecodePixels > 0 {
		c.MaxDecodePixels = flags.MaxDecodePixels
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Verbose {
		c.Verbose = true
	}

	if c.TileSize <= 0 {
		c.TileSize = subsampling.DefaultTileSize
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.OutputDir == "" {
		c.OutputDir = "tiles"
	}
}

// Planner returns the pyramid planner for this configuration.
func (c Config) Planner() subsampling.Planner {
	return subsampling.Planner{MaxDecodePixels: c.MaxDecodePixels, TileSize: c.TileSize}
}
