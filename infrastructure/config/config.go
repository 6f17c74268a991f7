package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the few runtime knobs the dashboard needs.
type Config struct {
	Addr          string `yaml:"addr"`
	SQLitePath    string `yaml:"sqlite_path"`
	MigrationsDir string `yaml:"migrations_dir"`
}

// Load reads config.yaml (or $PRODMETAS_CONFIG) and applies env overrides.
// A missing file is fine; defaults cover a local run.
func Load() (Config, error) {
	cfg := Config{
		Addr:       ":8080",
		SQLitePath: "prodmetas.db",
	}

	path := "config.yaml"
	if envPath := os.Getenv("PRODMETAS_CONFIG"); envPath != "" {
		path = envPath
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	envOverride(&cfg.Addr, "APP_ADDR")
	envOverride(&cfg.SQLitePath, "SQLITE_PATH")
	envOverride(&cfg.MigrationsDir, "MIGRATIONS_DIR")

	if cfg.Addr == "" {
		return cfg, fmt.Errorf("addr must not be empty")
	}
	if cfg.SQLitePath == "" {
		return cfg, fmt.Errorf("sqlite_path must not be empty")
	}
	return cfg, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
