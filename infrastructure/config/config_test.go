package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRODMETAS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("APP_ADDR", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("MIGRATIONS_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q, want :8080", cfg.Addr)
	}
	if cfg.SQLitePath != "prodmetas.db" {
		t.Errorf("sqlite_path = %q, want prodmetas.db", cfg.SQLitePath)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9999\"\nsqlite_path: from-file.db\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PRODMETAS_CONFIG", path)
	t.Setenv("APP_ADDR", "")
	t.Setenv("SQLITE_PATH", "from-env.db")
	t.Setenv("MIGRATIONS_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("addr = %q, want :9999", cfg.Addr)
	}
	if cfg.SQLitePath != "from-env.db" {
		t.Errorf("sqlite_path = %q, want env override from-env.db", cfg.SQLitePath)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PRODMETAS_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}
