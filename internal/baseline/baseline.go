package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wafreport/wafreport/internal/models"
)

const (
	// DefaultPath is used when no explicit baseline path is configured.
	DefaultPath = ".wafreport-baseline.json"
	fileVersion = 1
)

// File is the persisted snapshot of the previous run's totals. It lets
// the next report show week-over-week movement without keeping history
// in the database.
type File struct {
	Version     int            `json:"version"`
	PeriodStart string         `json:"period_start"`
	PeriodEnd   string         `json:"period_end"`
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     models.Summary `json:"summary"`
}

// Delta is the movement between the previous snapshot and the current
// summary.
type Delta struct {
	Requests      int64
	Denied        int64
	Uncaught      int64
	InterceptRate float64
	PeriodEnd     string
}

// Load reads a baseline file. A missing file returns nil with no error;
// the first run of a new deployment has nothing to compare against.
func Load(path string) (*File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("baseline path is empty")
	}

	data, err := os.ReadFile(trimmed)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read baseline file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse baseline file: %w", err)
	}
	if file.Version != 0 && file.Version != fileVersion {
		return nil, fmt.Errorf("unsupported baseline version: %d", file.Version)
	}

	return &file, nil
}

// Save writes the current run's totals as the new baseline.
func Save(path string, file File) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return errors.New("baseline path is empty")
	}

	dir := filepath.Dir(trimmed)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create baseline directory: %w", err)
		}
	}

	file.Version = fileVersion
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal baseline file: %w", err)
	}

	if err := os.WriteFile(trimmed, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write baseline file: %w", err)
	}

	return nil
}

// Compare returns the movement from a previous snapshot to the current
// summary, or nil when there is no snapshot to compare against.
func Compare(prev *File, current models.Summary) *Delta {
	if prev == nil {
		return nil
	}
	return &Delta{
		Requests:      current.TotalRequests - prev.Summary.TotalRequests,
		Denied:        current.TotalDenied - prev.Summary.TotalDenied,
		Uncaught:      current.Uncaught - prev.Summary.Uncaught,
		InterceptRate: current.InterceptRate() - prev.Summary.InterceptRate(),
		PeriodEnd:     prev.PeriodEnd,
	}
}
