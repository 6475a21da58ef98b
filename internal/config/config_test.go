package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faraid/internal/madhab"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultMadhab != "shafii" {
		t.Errorf("expected DefaultMadhab=shafii, got %s", cfg.DefaultMadhab)
	}
	if cfg.Currency.Places != 2 {
		t.Errorf("expected Places=2, got %d", cfg.Currency.Places)
	}
	if cfg.Logging.DebugMode {
		t.Error("expected production logging by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("FARAID_MADHAB", "")
	t.Setenv("FARAID_CURRENCY_PLACES", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "faraid.yaml")

	shares := madhab.GrandfatherShares
	yes := true
	cfg := DefaultConfig()
	cfg.DefaultMadhab = "hanbali"
	cfg.Currency.Places = 3
	cfg.Madhabs = map[string]madhab.Override{
		"shafii": {GrandfatherWithSiblings: &shares, RaddToSpouse: &yes},
	}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DefaultMadhab != "hanbali" {
		t.Errorf("expected DefaultMadhab=hanbali, got %s", loaded.DefaultMadhab)
	}
	if loaded.Currency.Places != 3 {
		t.Errorf("expected Places=3, got %d", loaded.Currency.Places)
	}

	catalog, err := loaded.Catalog()
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	shafii, _ := catalog.Lookup("shafii")
	if shafii.Rules.GrandfatherWithSiblings != madhab.GrandfatherShares || !shafii.Rules.RaddToSpouse {
		t.Errorf("override not applied: %+v", shafii.Rules)
	}
	hanafi, _ := catalog.Lookup("hanafi")
	if hanafi.Rules != madhab.Default().List()[1].Rules {
		t.Errorf("hanafi should keep its defaults: %+v", hanafi.Rules)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("FARAID_MADHAB", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultMadhab != "shafii" || cfg.Currency.Places != 2 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faraid.yaml")
	if err := os.WriteFile(path, []byte("currency: [1, 2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultMadhab = "zahiri"
	cfg.Currency.Places = -1
	cfg.Logging.Level = "loud"
	bad := madhab.GrandfatherRule("sometimes")
	cfg.Madhabs = map[string]madhab.Override{"hanafi": {GrandfatherWithSiblings: &bad}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"default_madhab", "currency.places", "logging.level", "grandfather_with_siblings"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q lacks %q", err, want)
		}
	}

	cfg = DefaultConfig()
	cfg.Madhabs = map[string]madhab.Override{"jafari": {}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown override id to fail")
	}

	cfg = DefaultConfig()
	cfg.Logging.Categories = map[string]bool{"kernel": true}
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown logging category to fail")
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	if c.IsCategoryEnabled("engine") {
		t.Error("production mode disables every category")
	}
	c.DebugMode = true
	if !c.IsCategoryEnabled("engine") {
		t.Error("debug mode enables categories by default")
	}
	c.Categories = map[string]bool{"engine": false}
	if c.IsCategoryEnabled("engine") {
		t.Error("explicit false should disable the category")
	}
	if !c.IsCategoryEnabled("compare") {
		t.Error("unspecified categories stay enabled")
	}

	opts := c.Options()
	if !opts.DebugMode || opts.Categories["engine"] {
		t.Errorf("unexpected logging options: %+v", opts)
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DefaultFileName), []byte("default_madhab: maliki\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	origWD, _ := os.Getwd()
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindConfig()
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	want := filepath.Join(root, DefaultFileName)
	if resolved, err := filepath.EvalSymlinks(want); err == nil {
		want = resolved
	}
	if resolvedGot, err := filepath.EvalSymlinks(got); err == nil {
		got = resolvedGot
	}
	if got != want {
		t.Fatalf("FindConfig=%q, want %q", got, want)
	}
}
