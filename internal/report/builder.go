// Package report turns collected firewall statistics into the weekly
// report document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/wafreport/wafreport/internal/baseline"
	"github.com/wafreport/wafreport/internal/models"
	"github.com/wafreport/wafreport/internal/period"
	"github.com/wafreport/wafreport/pkg/config"
)

// Document is a rendered report ready for delivery.
type Document struct {
	Filename string
	Bytes    []byte
}

// Builder renders report documents for one configured project.
type Builder struct {
	config  *config.Config
	version string
}

// NewBuilder returns a builder for the configured project. The version
// string appears in the document footer.
func NewBuilder(cfg *config.Config, version string) *Builder {
	return &Builder{config: cfg, version: version}
}

// Metadata describes the run a document was built for.
func (b *Builder) Metadata(p period.Period, generatedAt time.Time) models.Metadata {
	return models.Metadata{
		ProjectName:  b.config.ProjectName,
		ReportOwner:  b.config.ReportOwner,
		PeriodStart:  p.StartDate(),
		PeriodEnd:    p.EndDate(),
		LookbackDays: p.Days(),
		GeneratedAt:  generatedAt,
		Version:      b.version,
	}
}

// Build renders the document for one reporting window. The generation
// time is a parameter so repeated builds over the same input produce
// identical bytes.
func (b *Builder) Build(stats *models.Statistics, delta *baseline.Delta, p period.Period, generatedAt time.Time) (*Document, error) {
	if stats == nil {
		return nil, fmt.Errorf("no statistics to report")
	}

	pw := &pdfWriter{
		meta:     b.Metadata(p, generatedAt),
		stats:    stats,
		delta:    delta,
		fontPath: b.config.FontFile,
	}
	data, err := pw.render()
	if err != nil {
		return nil, err
	}

	return &Document{
		Filename: documentFilename(b.config.ProjectName, p),
		Bytes:    data,
	}, nil
}

// documentFilename builds the delivery filename, for example
// "acme_2026-03-02_to_2026-03-09_waf_weekly_report.pdf".
func documentFilename(project string, p period.Period) string {
	return fmt.Sprintf("%s_%s_waf_weekly_report.pdf",
		sanitizeFilename(project), p.FilenameFragment())
}

// sanitizeFilename lowercases the project name and replaces anything
// that is unsafe in a path segment. Names with no ASCII letters or
// digits at all (for example a fully Chinese project name) would
// otherwise collapse to underscores, so those fall back to "report".
func sanitizeFilename(name string) string {
	var sb strings.Builder
	alnum := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			alnum = true
			sb.WriteRune(r)
		case r == '-', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if !alnum {
		return "report"
	}
	return sb.String()
}

func signedCount(n int64) string {
	return fmt.Sprintf("%+d", n)
}
