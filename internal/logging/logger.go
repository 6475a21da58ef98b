// Package logging provides config-driven categorized zap loggers for faraid.
// Each category gets its own named logger. When a log directory is set, each
// category writes to its own file under it; otherwise everything goes to
// stderr. Logging is controlled by debug_mode: when false, every category
// returns a no-op logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category.
type Category string

const (
	CategoryEngine  Category = "engine"  // Per-stage calculation entries
	CategoryCompare Category = "compare" // Cross-madhab fan-out
	CategoryBattery Category = "battery" // Scenario battery runs
	CategoryConfig  Category = "config"  // Config loading and overrides
	CategoryCLI     Category = "cli"     // Command dispatch
)

// Categories lists every category in a stable order.
var Categories = []Category{CategoryEngine, CategoryCompare, CategoryBattery, CategoryConfig, CategoryCLI}

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	DebugMode  bool
	Level      string // debug, info, warn, error
	Format     string // json, console
	Dir        string // per-category files; empty means stderr
	Categories map[string]bool
}

var (
	mu      sync.RWMutex
	current Config
	loggers = make(map[Category]*zap.Logger)
)

// Initialize replaces the active configuration. Loggers handed out before the
// call keep writing to their old sinks.
func Initialize(cfg Config) error {
	if cfg.DebugMode && cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	syncLocked()
	current = cfg
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// IsDebugMode reports whether logging is enabled at all.
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return current.DebugMode
}

// IsCategoryEnabled returns false in production mode. In debug mode a
// category is enabled unless it is explicitly switched off.
func IsCategoryEnabled(c Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabledLocked(c)
}

func enabledLocked(c Category) bool {
	if !current.DebugMode {
		return false
	}
	if current.Categories == nil {
		return true
	}
	enabled, ok := current.Categories[string(c)]
	if !ok {
		return true
	}
	return enabled
}

// Get returns the logger for a category, or a no-op logger when the category
// is disabled. A category whose sink cannot be opened also gets a no-op logger.
func Get(c Category) *zap.Logger {
	mu.RLock()
	l, ok := loggers[c]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c]; ok {
		return l
	}
	if !enabledLocked(c) {
		return zap.NewNop()
	}
	l, err := build(current, c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %s: %v\n", c, err)
		l = zap.NewNop()
	}
	loggers[c] = l
	return l
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// ValidLevel reports whether s names a zap level.
func ValidLevel(s string) bool {
	_, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	return err == nil
}

// FilePath is where category c writes when dir is set.
func FilePath(dir string, c Category) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), c))
}

func build(cfg Config, c Category) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	switch strings.ToLower(cfg.Format) {
	case "console", "text":
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.Dir != "" {
		zc.OutputPaths = []string{FilePath(cfg.Dir, c)}
	}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Named(string(c)), nil
}

// CloseAll flushes every open logger and forgets them (call at shutdown).
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	syncLocked()
	loggers = make(map[Category]*zap.Logger)
}

func syncLocked() {
	for _, l := range loggers {
		// stderr sinks report EINVAL on sync on some platforms
		_ = l.Sync()
	}
}
