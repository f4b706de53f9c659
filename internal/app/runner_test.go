package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wafreport/wafreport/internal/baseline"
	"github.com/wafreport/wafreport/internal/models"
	"github.com/wafreport/wafreport/internal/period"
	"github.com/wafreport/wafreport/internal/report"
	"github.com/wafreport/wafreport/pkg/config"
)

type fakeCollector struct {
	stats    *models.Statistics
	err      error
	block    chan struct{}
	collects int
}

func (f *fakeCollector) Collect(ctx context.Context, _ period.Period) (*models.Statistics, error) {
	f.collects++
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeCollector) Close() error { return nil }

type fakeUploader struct {
	err     error
	uploads []string
}

func (f *fakeUploader) Upload(filename string, _ []byte, day time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	remote := "report/jane.doe/" + day.Format("20060102") + "/" + filename
	f.uploads = append(f.uploads, remote)
	return remote, nil
}

func testStats() *models.Statistics {
	return &models.Statistics{
		Summary: models.Summary{
			TotalRequests: 12000,
			TotalDenied:   340,
			Uncaught:      10,
		},
	}
}

func testRunner(t *testing.T, col *fakeCollector, up *fakeUploader) *Runner {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ProjectName = "Acme Corp"
	cfg.ReportOwner = "jane.doe"
	cfg.OutputDir = dir

	now := func() time.Time {
		return time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	}
	builder := report.NewBuilder(cfg, "test")
	return NewRunner(cfg, col, builder, up, filepath.Join(dir, "baseline.json"), now)
}

func TestRunProducesAndDeliversReport(t *testing.T) {
	col := &fakeCollector{stats: testStats()}
	up := &fakeUploader{}
	r := testRunner(t, col, up)

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if result.Metadata.PeriodEnd != "2026-03-09" {
		t.Fatalf("unexpected period end: %q", result.Metadata.PeriodEnd)
	}
	if _, err := os.Stat(result.LocalPath); err != nil {
		t.Fatalf("expected spooled report: %v", err)
	}
	if _, err := os.Stat(result.ArtifactPath); err != nil {
		t.Fatalf("expected statistics sidecar: %v", err)
	}
	if len(up.uploads) != 1 || result.RemotePath != up.uploads[0] {
		t.Fatalf("unexpected delivery: %v vs %q", up.uploads, result.RemotePath)
	}
	if !strings.Contains(result.RemotePath, "/20260309/") {
		t.Fatalf("expected dated remote collection, got %q", result.RemotePath)
	}

	saved, err := baseline.Load(r.baselinePath)
	if err != nil || saved == nil {
		t.Fatalf("expected saved baseline, got %+v, %v", saved, err)
	}
	if saved.Summary.TotalRequests != 12000 {
		t.Fatalf("unexpected baseline summary: %+v", saved.Summary)
	}
}

func TestRunSecondRunCarriesDelta(t *testing.T) {
	col := &fakeCollector{stats: testStats()}
	r := testRunner(t, col, &fakeUploader{})

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected first run error: %v", err)
	}

	col.stats = &models.Statistics{
		Summary: models.Summary{TotalRequests: 15000, TotalDenied: 400, Uncaught: 5},
	}
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected second run error: %v", err)
	}

	if result.Delta == nil {
		t.Fatal("expected week-over-week delta on the second run")
	}
	if result.Delta.Requests != 3000 || result.Delta.Uncaught != -5 {
		t.Fatalf("unexpected delta: %+v", result.Delta)
	}
}

func TestRunCollectFailure(t *testing.T) {
	col := &fakeCollector{err: errors.New("connection refused")}
	r := testRunner(t, col, &fakeUploader{})

	_, err := r.Run(context.Background())
	var collectErr *CollectError
	if !errors.As(err, &collectErr) {
		t.Fatalf("expected CollectError, got %v", err)
	}
}

func TestRunDeliveryFailureKeepsLocalCopy(t *testing.T) {
	col := &fakeCollector{stats: testStats()}
	up := &fakeUploader{err: errors.New("507 Insufficient Storage")}
	r := testRunner(t, col, up)

	result, err := r.Run(context.Background())

	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if result == nil || result.LocalPath == "" {
		t.Fatal("expected partial result with local path")
	}
	if _, statErr := os.Stat(deliveryErr.LocalPath); statErr != nil {
		t.Fatalf("expected local copy to survive delivery failure: %v", statErr)
	}
}

func TestRunDryRunSkipsDelivery(t *testing.T) {
	col := &fakeCollector{stats: testStats()}
	up := &fakeUploader{}
	r := testRunner(t, col, up)
	r.config.DryRun = true

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if result.RemotePath != "" || len(up.uploads) != 0 {
		t.Fatal("expected no delivery in dry run")
	}
}

func TestRunRefusesOverlap(t *testing.T) {
	block := make(chan struct{})
	col := &fakeCollector{stats: testStats(), block: block}
	r := testRunner(t, col, &fakeUploader{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Run(context.Background())
	}()

	// Wait for the first run to take the lock.
	for i := 0; i < 100; i++ {
		if col.collects > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err := r.Run(context.Background())
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(block)
	wg.Wait()
}

func TestWriteSummary(t *testing.T) {
	col := &fakeCollector{stats: testStats()}
	r := testRunner(t, col, &fakeUploader{})

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	var sb strings.Builder
	WriteSummary(&sb, result)

	out := sb.String()
	for _, want := range []string{"Acme Corp", "12000", "interception rate", result.LocalPath} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
