package logging

import (
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		CloseAll()
		if err := Initialize(Config{}); err != nil {
			t.Fatalf("reset: %v", err)
		}
	})
}

// TestAllCategoriesWrite checks that every category gets its own file in
// debug mode.
func TestAllCategoriesWrite(t *testing.T) {
	reset(t)
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	if err := Initialize(Config{DebugMode: true, Level: "debug", Format: "json", Dir: tempDir}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("Expected debug mode to be enabled")
	}

	for _, cat := range Categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		Get(cat).Debug("test entry", zap.String("category", string(cat)))
	}
	CloseAll()

	for _, cat := range Categories {
		content, err := os.ReadFile(FilePath(tempDir, cat))
		if err != nil {
			t.Errorf("No log file for %s: %v", cat, err)
			continue
		}
		if !strings.Contains(string(content), `"logger":"`+string(cat)+`"`) {
			t.Errorf("Log file for %s lacks the logger name: %s", cat, content)
		}
	}
}

// TestDebugModeDisabled checks that production mode writes nothing.
func TestDebugModeDisabled(t *testing.T) {
	reset(t)
	tempDir := t.TempDir()

	if err := Initialize(Config{DebugMode: false, Dir: tempDir}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	for _, cat := range Categories {
		if IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be disabled in production mode", cat)
		}
		if Get(cat).Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("Category %s should get a no-op logger", cat)
		}
	}
	CloseAll()

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no log files, found %d", len(entries))
	}
}

func TestCategoryToggles(t *testing.T) {
	reset(t)
	err := Initialize(Config{
		DebugMode:  true,
		Dir:        t.TempDir(),
		Categories: map[string]bool{"compare": false, "engine": true},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if IsCategoryEnabled(CategoryCompare) {
		t.Error("compare was switched off")
	}
	if !IsCategoryEnabled(CategoryEngine) {
		t.Error("engine was switched on")
	}
	if !IsCategoryEnabled(CategoryBattery) {
		t.Error("unspecified categories default to enabled")
	}
	if Get(CategoryCompare).Core().Enabled(zapcore.ErrorLevel) {
		t.Error("disabled category should get a no-op logger")
	}
}

func TestGetCachesPerCategory(t *testing.T) {
	reset(t)
	if err := Initialize(Config{DebugMode: true, Dir: t.TempDir()}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if Get(CategoryEngine) != Get(CategoryEngine) {
		t.Error("expected the same logger for repeated calls")
	}
}

func TestLevelFiltering(t *testing.T) {
	reset(t)
	if err := Initialize(Config{DebugMode: true, Level: "warn", Dir: t.TempDir()}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	l := Get(CategoryConfig)
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be filtered at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{" WARN ", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"", zapcore.InfoLevel, true},
		{"loud", zapcore.InfoLevel, false},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got := ValidLevel(tt.in); got != tt.ok {
			t.Errorf("ValidLevel(%q) = %v, want %v", tt.in, got, tt.ok)
		}
	}
}
