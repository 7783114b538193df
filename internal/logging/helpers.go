package logging

import (
	"context"
	"log/slog"
)

// Debug logs at debug level when a logger is configured.
func Debug(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// Info logs an info message when a logger is configured.
func Info(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

// Warn logs a warning when a logger is configured.
func Warn(logger *slog.Logger, msg string, args ...any) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

// Error logs an error when a logger is configured.
func Error(logger *slog.Logger, msg string, err error, args ...any) {
	if logger == nil {
		return
	}
	if err != nil {
		args = append(args, "error", err)
	}
	logger.Error(msg, args...)
}

// Scoped resolves the request logger from ctx and tags it with the given attributes.
func Scoped(ctx context.Context, fallback *slog.Logger, args ...any) *slog.Logger {
	logger := FromContext(ctx, fallback)
	if logger == nil || len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
