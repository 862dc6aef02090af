package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-datx/internal/logging"
	"github.com/robert-malhotra/go-datx/surface"
)

// Config is a processing profile for the datx command.
type Config struct {
	Quantity string  `yaml:"quantity"`
	Op       string  `yaml:"op"`
	Output   string  `yaml:"output"`
	Logging  Logging `yaml:"logging"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Quantity: "Surface",
		Op:       string(surface.OpRaw),
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads a profile from path. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the profile values.
func (c *Config) Validate() error {
	if c.Quantity == "" {
		return fmt.Errorf("quantity must not be empty")
	}
	if _, err := surface.ParseOp(c.Op); err != nil {
		return err
	}
	_, err := logging.ParseLevel(c.Logging.Level)
	return err
}
