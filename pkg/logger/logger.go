// Package logger provides the ambient structured-logging facility
// used by the fillymidi command-line tools: a package-level
// slog.Logger selected by a textual level, falling back to
// slog.Default() until initialized.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var globalLogger *slog.Logger

// InitLogger configures the package-level logger at the given level
// ("debug", "info", "warn", "error", "off"). "off" discards all
// output, which embedders of the builder library (as opposed to the
// cmd/smfgen CLI) may prefer over a silent default-to-stdout logger.
func InitLogger(level string) error {
	if level == "off" {
		globalLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(globalLogger)
		return nil
	}

	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger returns the package-level logger, or the slog default if
// InitLogger has not been called yet.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
