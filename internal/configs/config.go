package configs

import (
	"fmt"
	"os"

	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
)

// Envelope output formats.
const (
	EnvelopeTagged = "tagged"
	EnvelopeLegacy = "legacy"
)

// Key store backends.
const (
	StoreTOML   = "toml"
	StoreSQLite = "sqlite"
)

// Key sizers used for the chunk limit.
const (
	SizerEstimate = "estimate"
	SizerModulus  = "modulus"
)

type Config struct {
	Keys     KeysConfig     `toml:"keys"`
	Envelope EnvelopeConfig `toml:"envelope"`
	History  HistoryConfig  `toml:"history"`
}

type KeysConfig struct {
	DefaultSize int    `toml:"default_size"`
	Store       string `toml:"store"`
}

type EnvelopeConfig struct {
	Format   string `toml:"format"`
	KeySizer string `toml:"key_sizer"`
}

type HistoryConfig struct {
	Disabled bool `toml:"disabled"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Keys: KeysConfig{
			DefaultSize: 2048,
			Store:       StoreTOML,
		},
		Envelope: EnvelopeConfig{
			Format:   EnvelopeTagged,
			KeySizer: SizerEstimate,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Keys.DefaultSize < 1024 || c.Keys.DefaultSize > 8192 || c.Keys.DefaultSize%256 != 0 {
		return fmt.Errorf("%w: keys.default_size %d must be a multiple of 256 between 1024 and 8192", kerrors.ErrInvalidConfig, c.Keys.DefaultSize)
	}
	switch c.Keys.Store {
	case StoreTOML, StoreSQLite:
	default:
		return fmt.Errorf("%w: keys.store %q must be %q or %q", kerrors.ErrInvalidConfig, c.Keys.Store, StoreTOML, StoreSQLite)
	}
	switch c.Envelope.Format {
	case EnvelopeTagged, EnvelopeLegacy:
	default:
		return fmt.Errorf("%w: envelope.format %q must be %q or %q", kerrors.ErrInvalidConfig, c.Envelope.Format, EnvelopeTagged, EnvelopeLegacy)
	}
	switch c.Envelope.KeySizer {
	case SizerEstimate, SizerModulus:
	default:
		return fmt.Errorf("%w: envelope.key_sizer %q must be %q or %q", kerrors.ErrInvalidConfig, c.Envelope.KeySizer, SizerEstimate, SizerModulus)
	}
	return nil
}

// LoadConfig loads config.toml over the defaults. A missing file yields the defaults.
func LoadConfig() (*Config, error) {
	configPath := UserRsakitSettings.ConfigFilePath()
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig validates and writes config.toml.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(UserRsakitSettings.ConfigFilePath(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ConfigExists reports whether config.toml has been written.
func ConfigExists() bool {
	_, err := os.Stat(UserRsakitSettings.ConfigFilePath())
	return err == nil
}
