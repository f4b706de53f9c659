// Package app drives one report run end to end: collect, render, spool
// locally, deliver, and advance the baseline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wafreport/wafreport/internal/baseline"
	"github.com/wafreport/wafreport/internal/collector"
	"github.com/wafreport/wafreport/internal/models"
	"github.com/wafreport/wafreport/internal/period"
	"github.com/wafreport/wafreport/internal/report"
	"github.com/wafreport/wafreport/internal/uploader"
	"github.com/wafreport/wafreport/pkg/config"
)

// ErrRunInProgress is returned when a run is requested while another
// one is still active.
var ErrRunInProgress = errors.New("a report run is already in progress")

// CollectError marks a failure while querying the WAF database.
type CollectError struct {
	Err error
}

func (e *CollectError) Error() string { return "collect statistics: " + e.Err.Error() }
func (e *CollectError) Unwrap() error { return e.Err }

// DeliveryError marks a failure while delivering the finished report.
// The report itself was rendered and spooled locally.
type DeliveryError struct {
	LocalPath string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver report (local copy at %s): %v", e.LocalPath, e.Err)
}
func (e *DeliveryError) Unwrap() error { return e.Err }

// RunResult describes one completed run.
type RunResult struct {
	Metadata     models.Metadata
	Statistics   *models.Statistics
	Delta        *baseline.Delta
	LocalPath    string
	ArtifactPath string
	RemotePath   string
}

// Runner executes report runs one at a time.
type Runner struct {
	config       *config.Config
	collector    collector.Collector
	builder      *report.Builder
	uploader     uploader.Uploader
	baselinePath string
	now          func() time.Time

	mu sync.Mutex
}

// NewRunner wires a runner from its parts. A nil now function defaults
// to the wall clock.
func NewRunner(cfg *config.Config, col collector.Collector, builder *report.Builder, up uploader.Uploader, baselinePath string, now func() time.Time) *Runner {
	if now == nil {
		now = time.Now
	}
	if baselinePath == "" {
		baselinePath = baseline.DefaultPath
	}
	return &Runner{
		config:       cfg,
		collector:    col,
		builder:      builder,
		uploader:     up,
		baselinePath: baselinePath,
		now:          now,
	}
}

// Run executes one full report run. Overlapping invocations are
// refused rather than queued; a weekly batch that is still running
// when the next trigger fires is a problem to surface, not to stack.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	if !r.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer r.mu.Unlock()

	generatedAt := r.now()
	p := period.Lookback(generatedAt, r.config.Lookback)
	slog.Info("starting report run", "period", p.String())

	stats, err := r.collector.Collect(ctx, p)
	if err != nil {
		return nil, &CollectError{Err: err}
	}

	prev, err := baseline.Load(r.baselinePath)
	if err != nil {
		// A broken snapshot only costs the week-over-week section.
		slog.Warn("ignoring unreadable baseline", "path", r.baselinePath, "error", err)
		prev = nil
	}
	delta := baseline.Compare(prev, stats.Summary)

	doc, err := r.builder.Build(stats, delta, p, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	meta := r.builder.Metadata(p, generatedAt)
	localPath, artifactPath, err := spool(r.config.OutputDir, doc, &models.Artifact{
		Metadata:   meta,
		Statistics: stats,
	})
	if err != nil {
		return nil, fmt.Errorf("spool report: %w", err)
	}

	result := &RunResult{
		Metadata:     meta,
		Statistics:   stats,
		Delta:        delta,
		LocalPath:    localPath,
		ArtifactPath: artifactPath,
	}

	if r.config.DryRun {
		slog.Info("dry run, skipping delivery", "local", localPath)
	} else {
		remote, err := r.uploader.Upload(doc.Filename, doc.Bytes, generatedAt)
		if err != nil {
			return result, &DeliveryError{LocalPath: localPath, Err: err}
		}
		result.RemotePath = remote
		slog.Info("report delivered", "remote", remote)
	}

	if err := baseline.Save(r.baselinePath, baseline.File{
		PeriodStart: p.StartDate(),
		PeriodEnd:   p.EndDate(),
		GeneratedAt: generatedAt,
		Summary:     stats.Summary,
	}); err != nil {
		slog.Warn("failed to save baseline", "path", r.baselinePath, "error", err)
	}

	return result, nil
}
