package config

import (
	"fmt"
	"strings"

	"faraid/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn, error
	Format     string          `yaml:"format"`               // json, console
	Dir        string          `yaml:"dir,omitempty"`        // per-category files; empty = stderr
	DebugMode  bool            `yaml:"debug_mode"`           // Master toggle - false = no logging (production)
	Categories map[string]bool `yaml:"categories,omitempty"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false (production mode).
// Returns true if debug_mode is true and category is enabled (or not specified).
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Validate rejects unknown levels, formats and categories.
func (c *LoggingConfig) Validate() error {
	if c.Level != "" && !logging.ValidLevel(c.Level) {
		return fmt.Errorf("logging.level: unknown level %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q (valid: json, console)", c.Format)
	}
	for name := range c.Categories {
		known := false
		for _, cat := range logging.Categories {
			if string(cat) == name {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("logging.categories: unknown category %q", name)
		}
	}
	return nil
}

// Options converts to the logging package's mirror struct.
func (c *LoggingConfig) Options() logging.Config {
	return logging.Config{
		DebugMode:  c.DebugMode,
		Level:      c.Level,
		Format:     c.Format,
		Dir:        c.Dir,
		Categories: c.Categories,
	}
}
