package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing config, got %v", err)
	}
	if cfg.Log.Path != nil || cfg.Charts.Bins != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[log]
path = "/var/mail/email_log.csv"
delimiter = ";"
on-malformed = "skip"
cache = true

[charts]
bins = 20

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Log.Path == nil || *cfg.Log.Path != "/var/mail/email_log.csv" {
		t.Fatalf("unexpected log path: %v", cfg.Log.Path)
	}
	if cfg.Log.Delimiter == nil || *cfg.Log.Delimiter != ";" {
		t.Fatalf("unexpected delimiter: %v", cfg.Log.Delimiter)
	}
	if cfg.Log.Cache == nil || !*cfg.Log.Cache {
		t.Fatalf("expected cache enabled")
	}
	if cfg.Charts.Bins == nil || *cfg.Charts.Bins != 20 {
		t.Fatalf("unexpected bins: %v", cfg.Charts.Bins)
	}
	if cfg.Charts.Top != nil {
		t.Fatalf("expected top unset, got %d", *cfg.Charts.Top)
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %v", cfg.Server.Addr)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nfile = \"x.csv\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultConfigPathUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/xdg", "maildash", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
}
