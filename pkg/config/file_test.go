package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileYAML)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadFileAppliesValues(t *testing.T) {
	path := writeTempConfig(t, `
schedule: "0 9 * * 1"
lookback: 14d
query_timeout: 2m
output_dir: /tmp/reports
exclude_app_ids:
  - "12"
  - "  "
  - "15"
exclude_ips:
  - 192.0.2.10
attack_types:
  21: custom bot rule
`)

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := DefaultConfig()
	if err := fc.ApplyTo(cfg); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}

	if cfg.Schedule != "0 9 * * 1" {
		t.Fatalf("unexpected schedule: %q", cfg.Schedule)
	}
	if cfg.Lookback != 14*24*time.Hour {
		t.Fatalf("unexpected lookback: %v", cfg.Lookback)
	}
	if cfg.QueryTimeout != 2*time.Minute {
		t.Fatalf("unexpected query timeout: %v", cfg.QueryTimeout)
	}
	if cfg.OutputDir != "/tmp/reports" {
		t.Fatalf("unexpected output dir: %q", cfg.OutputDir)
	}
	if len(cfg.ExcludeAppIDs) != 2 {
		t.Fatalf("empty entries should be dropped: %v", cfg.ExcludeAppIDs)
	}
	if got := cfg.AttackTypes.Name(21); got != "custom bot rule" {
		t.Fatalf("attack type override missing, got %q", got)
	}
}

func TestLoadFileInvalidDuration(t *testing.T) {
	path := writeTempConfig(t, "lookback: nonsense\n")

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if err := fc.ApplyTo(DefaultConfig()); err == nil {
		t.Fatal("expected error for invalid lookback duration")
	}
}

func TestLoadFirstExistingFileSkipsMissing(t *testing.T) {
	path := writeTempConfig(t, "output_dir: /data/reports\n")

	fc, loaded, err := LoadFirstExistingFile([]string{
		filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		"",
		path,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != path {
		t.Fatalf("expected %q to be loaded, got %q", path, loaded)
	}
	if fc.OutputDir != "/data/reports" {
		t.Fatalf("unexpected output dir: %q", fc.OutputDir)
	}
}

func TestLoadFirstExistingFileNoCandidates(t *testing.T) {
	fc, loaded, err := LoadFirstExistingFile([]string{
		filepath.Join(t.TempDir(), "missing.yaml"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc != nil || loaded != "" {
		t.Fatalf("expected no config, got %+v from %q", fc, loaded)
	}
}
