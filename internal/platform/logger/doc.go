// Package logger configures the process-wide slog JSON logger and carries
// request-scoped loggers and correlation IDs through context.Context.
package logger
