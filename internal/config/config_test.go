package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `version: 1
command: /opt/local/bin/zonememstat
timeout: 2m
on_malformed: strict
history: /var/db/zms.db
cache: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if got := cfg.Argv(); got[0] != "/opt/local/bin/zonememstat" {
		t.Errorf("Argv()[0] = %q, want override", got[0])
	}
	if cfg.Timeout() != 2*time.Minute {
		t.Errorf("Timeout() = %v, want 2m", cfg.Timeout())
	}
	if cfg.Policy() != PolicyStrict {
		t.Errorf("Policy() = %q, want strict", cfg.Policy())
	}
	if cfg.History != "/var/db/zms.db" {
		t.Errorf("History = %q", cfg.History)
	}
	if cfg.CacheSize() != 10 {
		t.Errorf("CacheSize() = %d, want 10", cfg.CacheSize())
	}
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want default", cfg.Timeout())
	}
	if cfg.Policy() != PolicySkip {
		t.Errorf("Policy() = %q, want skip", cfg.Policy())
	}
	if cfg.CacheSize() != DefaultCacheSize {
		t.Errorf("CacheSize() = %d, want default", cfg.CacheSize())
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "command: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestArgv_Defaults(t *testing.T) {
	cfg := &Config{}
	got := cfg.Argv()
	if len(got) != 3 || got[0] != "zonememstat" || got[1] != "-H" || got[2] != "-a" {
		t.Errorf("Argv() = %v, want [zonememstat -H -a]", got)
	}
}

func TestArgv_CommandOverrideKeepsFlags(t *testing.T) {
	cfg := &Config{Command: "/tmp/fake"}
	got := cfg.Argv()
	if len(got) != 3 || got[0] != "/tmp/fake" || got[1] != "-H" || got[2] != "-a" {
		t.Errorf("Argv() = %v, want [/tmp/fake -H -a]", got)
	}
}

func TestArgv_FullOverride(t *testing.T) {
	cfg := &Config{Command: "cat", Args: []string{"fixture.txt"}}
	got := cfg.Argv()
	if len(got) != 2 || got[0] != "cat" || got[1] != "fixture.txt" {
		t.Errorf("Argv() = %v, want [cat fixture.txt]", got)
	}
}

func TestPolicy_UnknownFallsBackToSkip(t *testing.T) {
	cfg := &Config{OnMalformed: "explode"}
	if cfg.Policy() != PolicySkip {
		t.Errorf("Policy() = %q, want skip", cfg.Policy())
	}
}
