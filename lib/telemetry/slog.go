package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog replaces the default slog logger with a text handler on stderr.
// stdout is left alone since scrape progress is written there.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
