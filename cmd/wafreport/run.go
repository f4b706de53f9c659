package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wafreport/wafreport/internal/app"
	"github.com/wafreport/wafreport/internal/collector"
	"github.com/wafreport/wafreport/internal/report"
	"github.com/wafreport/wafreport/internal/uploader"
	"github.com/wafreport/wafreport/pkg/config"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var (
		dryRun       bool
		outputDir    string
		baselinePath string
		lookbackStr  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and deliver one report immediately",
		Long: `Generate a report for the window ending at the current instant and
deliver it to the configured WebDAV share.

Required environment variables: DATABASE_URL, PROJECT_NAME,
REPORT_OWNER, WEBDAV_HOSTNAME, WEBDAV_LOGIN, WEBDAV_PASSWORD.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dryRun, outputDir, lookbackStr)
			if err != nil {
				return err
			}

			result, err := runReport(cmd, cfg, baselinePath)
			if err != nil {
				return err
			}
			app.WriteSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render and spool the report without uploading")
	cmd.Flags().StringVar(&outputDir, "output", "", "Local output directory (default: OUTPUT_DIR or ./report)")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "Path to the week-over-week baseline snapshot")
	cmd.Flags().StringVar(&lookbackStr, "lookback", "", "Reporting window length (e.g. 7d, 24h)")

	return cmd
}

// loadConfig loads the environment configuration and applies command
// line overrides.
func loadConfig(dryRun bool, outputDir, lookbackStr string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if dryRun {
		cfg.DryRun = true
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if lookbackStr != "" {
		lookback, err := config.ParseDuration(lookbackStr)
		if err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("invalid --lookback duration: %w", err)}
		}
		cfg.Lookback = lookback
	}

	return cfg, nil
}

// runReport wires the pipeline and executes a single run.
func runReport(cmd *cobra.Command, cfg *config.Config, baselinePath string) (*app.RunResult, error) {
	col, err := collector.NewStatsCollector(cfg)
	if err != nil {
		return nil, &app.CollectError{Err: err}
	}
	defer func() {
		if err := col.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing database connection: %v\n", err)
		}
	}()

	runner := app.NewRunner(cfg,
		col,
		report.NewBuilder(cfg, version),
		uploader.NewWebDAVUploader(cfg),
		baselinePath,
		nil)

	return runner.Run(cmd.Context())
}
