package config

import "time"

// Config holds all runtime configuration
type Config struct {
	// Database settings
	DatabaseURL  string
	QueryTimeout time.Duration
	QueryRate    int // queries per second against the production database

	// Narrative fields substituted into the report
	ProjectName string
	ReportOwner string

	// WebDAV delivery settings
	WebDAVHostname string
	WebDAVLogin    string
	WebDAVPassword string
	WebDAVTimeout  time.Duration

	// Reporting window and schedule
	Lookback time.Duration
	Schedule string // cron expression for the schedule command

	// Output settings
	OutputDir string
	// FontFile optionally points to a TTF with CJK coverage; the PDF
	// core fonts cannot render Chinese location or application names.
	FontFile string

	// Exclusion lists (internal/testing traffic that should not skew the report)
	ExcludeAppIDs []string
	ExcludeIPs    []string

	// Attack-type code to display-name dictionary
	AttackTypes AttackTypes

	// Operational flags
	DryRun bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		QueryTimeout:  5 * time.Minute,
		QueryRate:     5,
		WebDAVTimeout: 2 * time.Minute,
		Lookback:      7 * 24 * time.Hour,
		Schedule:      "0 12 * * *", // daily at noon
		OutputDir:     "./report",
		ExcludeAppIDs: []string{},
		ExcludeIPs:    []string{},
		AttackTypes:   DefaultAttackTypes(),
		DryRun:        false,
	}
}
