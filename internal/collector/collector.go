package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wafreport/wafreport/internal/models"
	"github.com/wafreport/wafreport/internal/period"
	"github.com/wafreport/wafreport/pkg/config"
)

// Collector gathers the statistics a weekly report is built from.
type Collector interface {
	Collect(ctx context.Context, p period.Period) (*models.Statistics, error)
	Close() error
}

// StatsCollector runs the report queries sequentially against the WAF
// database and assembles the result.
type StatsCollector struct {
	client *PostgresClient
	config *config.Config
}

// NewStatsCollector connects to the database and returns a collector.
func NewStatsCollector(cfg *config.Config) (*StatsCollector, error) {
	client, err := NewPostgresClient(cfg)
	if err != nil {
		return nil, err
	}
	return &StatsCollector{client: client, config: cfg}, nil
}

// newStatsCollector wraps an existing client; tests use it with a mock
// database handle.
func newStatsCollector(client *PostgresClient, cfg *config.Config) *StatsCollector {
	return &StatsCollector{client: client, config: cfg}
}

// Collect runs every report query for the window. Queries run one at a
// time; a partial result is never returned.
func (s *StatsCollector) Collect(ctx context.Context, p period.Period) (*models.Statistics, error) {
	slog.Debug("collecting statistics", "start", p.StartDate(), "end", p.EndDate())

	summary, err := s.client.FetchSummary(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}

	apps, err := s.client.FetchApplications(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("applications query: %w", err)
	}

	geoTop, err := s.client.FetchGeoTop(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("geo access query: %w", err)
	}

	sourceTop, err := s.client.FetchSourceTop(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("source access query: %w", err)
	}

	attackTypes, err := s.client.FetchAttackTypes(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("attack types query: %w", err)
	}

	attackerTop, err := s.client.FetchAttackerTop(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("attacker access query: %w", err)
	}

	uncaught, err := s.client.FetchUncaught(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("uncaught attacks query: %w", err)
	}

	stats := &models.Statistics{
		Summary:      summary,
		Applications: apps,
		GeoTop:       geoTop,
		SourceTop:    sourceTop,
		AttackTypes:  attackTypes,
		AttackerTop:  attackerTop,
		Uncaught:     uncaught,
	}
	s.resolveAttackTypeNames(stats)

	slog.Debug("statistics collected",
		"applications", len(stats.Applications),
		"attack_types", len(stats.AttackTypes),
		"uncaught", len(stats.Uncaught))

	return stats, nil
}

// resolveAttackTypeNames fills in display names for every numeric attack
// type code in the result set.
func (s *StatsCollector) resolveAttackTypeNames(stats *models.Statistics) {
	types := s.config.AttackTypes
	for i := range stats.AttackTypes {
		stats.AttackTypes[i].Name = types.Name(stats.AttackTypes[i].Code)
	}
	for i := range stats.AttackerTop {
		stats.AttackerTop[i].TypeName = types.Name(stats.AttackerTop[i].TypeCode)
	}
	for i := range stats.Uncaught {
		stats.Uncaught[i].TypeName = types.Name(stats.Uncaught[i].TypeCode)
	}
}

// Close releases the database connection.
func (s *StatsCollector) Close() error {
	return s.client.Close()
}
