package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "Surface", config.Quantity)
	assert.Equal(t, "raw", config.Op)
	assert.Empty(t, config.Output)
	assert.Equal(t, "info", config.Logging.Level)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "profile.yaml")
		expected := &Config{
			Quantity: "Intensity",
			Op:       "baseline",
			Output:   "out.txt",
			Logging:  Logging{Level: "debug"},
		}
		data, err := yaml.Marshal(expected)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(configPath, data, 0o600))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expected, loaded)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("op: fill\n"), 0o600))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "fill", loaded.Op)
		assert.Equal(t, "Surface", loaded.Quantity)
		assert.Equal(t, "info", loaded.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("op: [fill\n"), 0o600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("op: smooth\n"), 0o600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty quantity", func(c *Config) { c.Quantity = "" }, true},
		{"unknown op", func(c *Config) { c.Op = "smooth" }, true},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, true},
		{"warn level", func(c *Config) { c.Logging.Level = "warn" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
