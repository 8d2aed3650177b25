// Package logging provides structured logging configuration.
//
// This package wraps log/slog to keep logging consistent across the
// CLI, the action entrypoint, and the local receiver. It supports
// configurable log levels and output formats.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("webhook delivered", "status", 200)
//	logger.Error("delivery failed", "error", err)
//
// Logs go to stderr by default so command output on stdout stays
// machine-readable.
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an
// option. If no logger is provided, use logging.Nop() for a no-op
// logger.
package logging
