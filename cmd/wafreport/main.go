package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wafreport/wafreport/internal/app"
	"github.com/wafreport/wafreport/internal/logging"
)

var (
	version = "1.0.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess  = 0
	ExitInternal = 1
	ExitConfig   = 2
	ExitDatabase = 5
	ExitDelivery = 6
)

// ConfigError marks a failure in configuration loading or validation.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

func main() {
	logging.Init(false)

	root := &cobra.Command{
		Use:   "wafreport",
		Short: "WAF weekly report generator",
		Long: `wafreport reads usage and attack statistics from a web application
firewall's PostgreSQL database, renders a weekly PDF report, and
delivers it to the report owner's WebDAV share.

Configuration comes from environment variables; see the run command
help for the required set.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewRunCmd())
	root.AddCommand(NewScheduleCmd())
	root.AddCommand(NewVersionCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(classifyError(err))
	}
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}

	var collectErr *app.CollectError
	if errors.As(err, &collectErr) {
		return ExitDatabase
	}

	var deliveryErr *app.DeliveryError
	if errors.As(err, &deliveryErr) {
		return ExitDelivery
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "environment variable") ||
		strings.Contains(msg, "invalid cron") ||
		strings.Contains(msg, "invalid duration") {
		return ExitConfig
	}

	if strings.Contains(msg, "database") ||
		strings.Contains(msg, "sqlstate") {
		return ExitDatabase
	}

	if strings.Contains(msg, "webdav") {
		return ExitDelivery
	}

	return ExitInternal
}
