package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/wafreport/wafreport/internal/app"
	"github.com/wafreport/wafreport/internal/collector"
	"github.com/wafreport/wafreport/internal/report"
	"github.com/wafreport/wafreport/internal/uploader"
)

// NewScheduleCmd creates the schedule command.
func NewScheduleCmd() *cobra.Command {
	var (
		dryRun       bool
		outputDir    string
		baselinePath string
		lookbackStr  string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run as a long-lived process generating reports on a cron schedule",
		Long: `Run in the foreground and generate a report every time the configured
cron expression fires. The expression comes from REPORT_SCHEDULE and
defaults to daily at noon. A trigger that fires while the previous run
is still active is skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(dryRun, outputDir, lookbackStr)
			if err != nil {
				return err
			}

			if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
				return &ConfigError{Err: fmt.Errorf("invalid cron expression %q: %w", cfg.Schedule, err)}
			}

			col, err := collector.NewStatsCollector(cfg)
			if err != nil {
				return &app.CollectError{Err: err}
			}
			defer func() { _ = col.Close() }()

			runner := app.NewRunner(cfg,
				col,
				report.NewBuilder(cfg, version),
				uploader.NewWebDAVUploader(cfg),
				baselinePath,
				nil)

			return runSchedule(cmd.Context(), cfg.Schedule, runner, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render and spool reports without uploading")
	cmd.Flags().StringVar(&outputDir, "output", "", "Local output directory (default: OUTPUT_DIR or ./report)")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "Path to the week-over-week baseline snapshot")
	cmd.Flags().StringVar(&lookbackStr, "lookback", "", "Reporting window length (e.g. 7d, 24h)")

	return cmd
}

// runSchedule blocks running scheduled reports until the context is
// canceled or a termination signal arrives.
func runSchedule(parent context.Context, spec string, runner *app.Runner, out io.Writer) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := &cronLogger{}
	sched := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(logger),
		cron.Recover(logger),
	))

	_, err := sched.AddFunc(spec, func() {
		result, err := runner.Run(ctx)
		if err != nil {
			if errors.Is(err, app.ErrRunInProgress) {
				slog.Warn("previous run still active, skipping trigger")
				return
			}
			slog.Error("scheduled run failed", slog.String("error", err.Error()))
			var deliveryErr *app.DeliveryError
			if errors.As(err, &deliveryErr) {
				slog.Warn("report kept locally", "path", deliveryErr.LocalPath)
			}
			return
		}
		app.WriteSummary(out, result)
	})
	if err != nil {
		return &ConfigError{Err: fmt.Errorf("invalid cron expression %q: %w", spec, err)}
	}

	slog.Info("schedule started", "cron", spec)
	sched.Start()

	<-ctx.Done()
	slog.Info("shutting down, waiting for active run")
	<-sched.Stop().Done()
	return nil
}

// cronLogger adapts the scheduler's logging to slog.
type cronLogger struct{}

func (l *cronLogger) Info(msg string, kv ...interface{}) {
	slog.Debug("scheduler: "+msg, kv...)
}

func (l *cronLogger) Error(err error, msg string, kv ...interface{}) {
	kv = append(kv, "error", err)
	slog.Error("scheduler: "+msg, kv...)
}
