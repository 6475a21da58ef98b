// Package config loads faraid.yaml: the default madhab, currency precision,
// logging and per-madhab rule overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"faraid/internal/madhab"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up from the working directory.
const DefaultFileName = "faraid.yaml"

// Config holds all faraid configuration.
type Config struct {
	// Madhab used when a command does not name one
	DefaultMadhab string `yaml:"default_madhab"`

	Currency CurrencyConfig `yaml:"currency"`

	Logging LoggingConfig `yaml:"logging"`

	// Per-madhab rule overrides keyed by madhab id
	Madhabs map[string]madhab.Override `yaml:"madhabs,omitempty"`
}

// CurrencyConfig sets the precision of amounts.
type CurrencyConfig struct {
	Places int32 `yaml:"places"` // minor-unit decimal places
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultMadhab: string(madhab.Shafii),
		Currency: CurrencyConfig{
			Places: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("FARAID_MADHAB"); v != "" {
		c.DefaultMadhab = v
	}
	if v := os.Getenv("FARAID_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FARAID_CURRENCY_PLACES"); v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid FARAID_CURRENCY_PLACES %q: %w", v, err)
		}
		c.Currency.Places = int32(n)
	}
	if v := os.Getenv("FARAID_DEBUG"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid FARAID_DEBUG %q: %w", v, err)
		}
		c.Logging.DebugMode = b
	}
	return nil
}

// MaxCurrencyPlaces bounds currency.places.
const MaxCurrencyPlaces = 8

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	if _, err := madhab.ParseID(c.DefaultMadhab); err != nil {
		errs = append(errs, fmt.Errorf("default_madhab: %w", err))
	}
	if c.Currency.Places < 0 || c.Currency.Places > MaxCurrencyPlaces {
		errs = append(errs, fmt.Errorf("currency.places must be between 0 and %d, got %d", MaxCurrencyPlaces, c.Currency.Places))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Catalog(); err != nil {
		errs = append(errs, fmt.Errorf("madhabs: %w", err))
	}
	return errors.Join(errs...)
}

// Catalog returns the classical rules with the configured overrides applied.
func (c *Config) Catalog() (madhab.Catalog, error) {
	return madhab.Default().WithOverrides(c.Madhabs)
}

// FindConfig walks up from the working directory looking for faraid.yaml and
// falls back to the working directory itself.
func FindConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		path := filepath.Join(dir, DefaultFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(originalDir, DefaultFileName), nil
}
