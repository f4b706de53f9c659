package logging

import (
	"log/slog"
	"os"
)

// Init installs the process-wide slog default. Scheduled runs stay quiet
// unless something is wrong; verbose mode enables debug output for
// troubleshooting query and upload behavior.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
