// Copyright 2026 Chainborn

package vconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.PolicyDir == "" {
		t.Error("expected a default policy directory")
	}
	if cfg.CacheMaxEntries != 100 {
		t.Errorf("CacheMaxEntries = %d, want 100", cfg.CacheMaxEntries)
	}
	if cfg.MetricsEnabled {
		t.Error("expected metrics disabled by default")
	}
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("CHAINBORN_POLICY_DIR", "/tmp/policies")
	t.Setenv("CHAINBORN_CACHE_MAX_ENTRIES", "250")
	t.Setenv("CHAINBORN_METRICS_ENABLED", "true")

	cfg := Load()

	if cfg.PolicyDir != "/tmp/policies" {
		t.Errorf("PolicyDir = %q", cfg.PolicyDir)
	}
	if cfg.CacheMaxEntries != 250 {
		t.Errorf("CacheMaxEntries = %d", cfg.CacheMaxEntries)
	}
	if !cfg.MetricsEnabled {
		t.Error("expected metrics enabled via env override")
	}
}

func TestLoadFileOverridesMissingFileIsNotError(t *testing.T) {
	overrides, err := LoadFileOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error for a missing config file: %v", err)
	}
	if overrides.PolicyDir != "" {
		t.Error("expected zero-value overrides for a missing file")
	}
}

func TestLoadFileOverridesSubstitutesEnvVars(t *testing.T) {
	t.Setenv("CACHE_DIR_OVERRIDE", "/data/cache")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "cacheDir: ${CACHE_DIR_OVERRIDE:-/default/cache}\nmetricsAddr: \":9999\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadFileOverrides(path)
	if err != nil {
		t.Fatal(err)
	}
	if overrides.CacheDir != "/data/cache" {
		t.Errorf("CacheDir = %q", overrides.CacheDir)
	}
	if overrides.MetricsAddr != ":9999" {
		t.Errorf("MetricsAddr = %q", overrides.MetricsAddr)
	}
}

func TestLoadFileOverridesFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "cacheDir: ${UNSET_VAR_FOR_TEST:-/fallback}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadFileOverrides(path)
	if err != nil {
		t.Fatal(err)
	}
	if overrides.CacheDir != "/fallback" {
		t.Errorf("CacheDir = %q", overrides.CacheDir)
	}
}

func TestApplyOnlyOverridesNonZeroFields(t *testing.T) {
	cfg := &Config{PolicyDir: "/original", CacheMaxEntries: 100, VerifierTimeout: 5 * time.Second}
	overrides := &FileOverrides{CacheMaxEntries: 500}

	overrides.Apply(cfg)

	if cfg.PolicyDir != "/original" {
		t.Errorf("expected untouched field to survive, got %q", cfg.PolicyDir)
	}
	if cfg.CacheMaxEntries != 500 {
		t.Errorf("CacheMaxEntries = %d, want 500", cfg.CacheMaxEntries)
	}
	if cfg.VerifierTimeout != 5*time.Second {
		t.Errorf("expected untouched VerifierTimeout to survive, got %v", cfg.VerifierTimeout)
	}
}

func TestApplyNilOverridesIsNoOp(t *testing.T) {
	cfg := &Config{PolicyDir: "/original"}
	var overrides *FileOverrides

	overrides.Apply(cfg)

	if cfg.PolicyDir != "/original" {
		t.Error("expected nil overrides to leave config untouched")
	}
}
