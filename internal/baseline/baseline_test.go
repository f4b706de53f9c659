package baseline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wafreport/wafreport/internal/models"
)

func TestLoadMissingFileReturnsNil(t *testing.T) {
	file, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file != nil {
		t.Fatalf("expected nil snapshot for missing file, got %+v", file)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "baseline.json")

	saved := File{
		PeriodStart: "2026-03-02",
		PeriodEnd:   "2026-03-09",
		GeneratedAt: time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC),
		Summary: models.Summary{
			TotalRequests:   12000,
			TotalDenied:     340,
			BlacklistDenied: 25,
			Uncaught:        10,
		},
	}
	if err := Save(path, saved); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected snapshot")
	}
	if loaded.Version != fileVersion {
		t.Fatalf("unexpected version: %d", loaded.Version)
	}
	if loaded.PeriodEnd != "2026-03-09" {
		t.Fatalf("unexpected period end: %q", loaded.PeriodEnd)
	}
	if loaded.Summary != saved.Summary {
		t.Fatalf("summary mismatch: %+v", loaded.Summary)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected version error")
	}
}

func TestLoadRejectsCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCompare(t *testing.T) {
	prev := &File{
		PeriodEnd: "2026-03-02",
		Summary: models.Summary{
			TotalRequests: 10000,
			TotalDenied:   400,
			Uncaught:      20,
		},
	}
	current := models.Summary{
		TotalRequests: 12000,
		TotalDenied:   340,
		Uncaught:      10,
	}

	delta := Compare(prev, current)
	if delta == nil {
		t.Fatal("expected delta")
	}
	if delta.Requests != 2000 || delta.Denied != -60 || delta.Uncaught != -10 {
		t.Fatalf("unexpected delta: %+v", delta)
	}
	if delta.PeriodEnd != "2026-03-02" {
		t.Fatalf("unexpected compared period: %q", delta.PeriodEnd)
	}

	if Compare(nil, current) != nil {
		t.Fatal("expected nil delta without a snapshot")
	}
}
