// Package config holds the assembler options read from config.toml.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config represents the assembler configuration
type Config struct {
	// Output settings
	Output struct {
		ObjectExtension  string `toml:"object_extension"`
		ListingExtension string `toml:"listing_extension"`
		EmitListing      bool   `toml:"emit_listing"`
		BytesPerLine     int    `toml:"bytes_per_line"`
	} `toml:"output"`

	// Assembler settings
	Assembler struct {
		OSSymbols bool `toml:"os_symbols"`
		OSMacros  bool `toml:"os_macros"`
	} `toml:"assembler"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Output defaults
	cfg.Output.ObjectExtension = ".pepo"
	cfg.Output.ListingExtension = ".pepl"
	cfg.Output.EmitListing = true
	cfg.Output.BytesPerLine = 16

	// Assembler defaults
	cfg.Assembler.OSSymbols = true
	cfg.Assembler.OSMacros = true

	return cfg
}

// GetConfigPath locates config.toml inside a pep10 directory under the
// user's configuration root, creating the directory on first use. Without a
// usable per-user location the file lives in the working directory.
func GetConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	dir := filepath.Join(base, "pep10")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the user's config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom decodes path over the defaults, so a partial file only overrides
// the keys it names. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	switch _, err := toml.DecodeFile(path, cfg); {
	case err == nil, os.IsNotExist(err):
		return cfg, nil
	default:
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration as TOML to path, creating parent
// directories as needed.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrapf(err, "creating config directory for %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "writing config %s", path)
	}
	return nil
}
