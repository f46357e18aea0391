// Package config provides configuration loading and management for photoplate.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Plate parameters
	Plate struct {
		// DPI is the default scan resolution in dots per inch,
		// used until the operator enters one for the loaded plate
		DPI float64 `yaml:"dpi"`

		// Offset is the default physical offset in mm added to
		// every recorded position
		Offset float64 `yaml:"offset"`

		// PreviewHeight is the height in pixels of the rescaled
		// plate preview strip
		PreviewHeight int `yaml:"previewHeight"`
	} `yaml:"plate"`

	// Catalog parameters
	Catalog struct {
		// Tolerance is the maximum physical distance in mm between
		// the cursor and a record for delete/comment to match it
		Tolerance float64 `yaml:"tolerance"`
	} `yaml:"catalog"`

	// Plot parameters
	Plot struct {
		// Width and Height are the exported profile plot dimensions
		// in centimetres
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`

		// MirrorZoom divides the viewport width to get the half-width
		// of the mirrored magnifier window
		MirrorZoom float64 `yaml:"mirrorZoom"`
	} `yaml:"plot"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default plate parameters. 2400 DPI matches a common
	// flatbed scan of archival plates.
	cfg.Plate.DPI = 2400
	cfg.Plate.Offset = 0
	cfg.Plate.PreviewHeight = 125

	// Set default catalog parameters
	cfg.Catalog.Tolerance = 0.05

	// Set default plot parameters
	cfg.Plot.Width = 25
	cfg.Plot.Height = 8
	cfg.Plot.MirrorZoom = 10

	// Set default output parameters
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
