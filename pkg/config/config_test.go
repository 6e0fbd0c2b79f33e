package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := InitConfig(path)
	if *cfg != *DefaultConfig() {
		t.Errorf("InitConfig on a missing file = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not created: %v", err)
	}

	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig on generated file: %v", err)
	}
	if *again != *DefaultConfig() {
		t.Errorf("generated file decodes to %+v", again)
	}
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeFile(t, FileName, `
[server]
max_limit = 20
allow_insert = true

[index]
enable_substring = false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.MaxLimit != 20 || !cfg.Server.AllowInsert {
		t.Errorf("server section not applied: %+v", cfg.Server)
	}
	if cfg.Index.EnableSubstring {
		t.Error("enable_substring not applied")
	}
	if cfg.Index.CacheSize != DefaultConfig().Index.CacheSize {
		t.Errorf("cache_size = %d, want default", cfg.Index.CacheSize)
	}
	if cfg.CLI != DefaultConfig().CLI {
		t.Errorf("cli section changed: %+v", cfg.CLI)
	}
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_limit has the wrong type, so the typed decode fails as a whole
	path := writeFile(t, FileName, `
[server]
max_limit = "lots"
max_query = 40

[cli]
default_limit = 5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.MaxLimit != DefaultConfig().Server.MaxLimit {
		t.Errorf("bad max_limit should keep default, got %d", cfg.Server.MaxLimit)
	}
	if cfg.Server.MaxQuery != 40 {
		t.Errorf("max_query = %d, want 40", cfg.Server.MaxQuery)
	}
	if cfg.CLI.DefaultLimit != 5 {
		t.Errorf("cli.default_limit = %d, want 5", cfg.CLI.DefaultLimit)
	}
}

func TestLoadConfigUnparseable(t *testing.T) {
	path := writeFile(t, FileName, "this is [not toml")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unparseable file")
	}
	if cfg := InitConfig(path); *cfg != *DefaultConfig() {
		t.Errorf("InitConfig should fall back to defaults, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		mutate      func(*Config)
		check       func(*Config) bool
		description string
	}{
		{
			func(c *Config) { c.Server.MaxLimit = 0 },
			func(c *Config) bool { return c.Server.MaxLimit == 64 },
			"Zero max limit restored",
		},
		{
			func(c *Config) { c.Server.DefaultLimit = 500 },
			func(c *Config) bool { return c.Server.DefaultLimit == 10 },
			"Default limit above max",
		},
		{
			func(c *Config) { c.Server.MinQuery = 200 },
			func(c *Config) bool { return c.Server.MinQuery == 0 },
			"Min query above max query",
		},
		{
			func(c *Config) { c.Index.CacheSize = -1 },
			func(c *Config) bool { return c.Index.CacheSize == 0 },
			"Negative cache size disables the cache",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
			if !tc.check(cfg) {
				t.Errorf("value not repaired: %+v", cfg)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadConfigWithPriority(t *testing.T) {
	custom := writeFile(t, "custom.toml", "[server]\nmax_limit = 7\ndefault_limit = 3\n")
	cfg, path := LoadConfigWithPriority(custom, nil)
	if path != custom || cfg.Server.MaxLimit != 7 {
		t.Errorf("custom config not used: path=%q cfg=%+v", path, cfg.Server)
	}

	cfg, path = LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"), nil)
	if path != "" || *cfg != *DefaultConfig() {
		t.Errorf("missing custom config without resolver should yield defaults, got %q", path)
	}
}
