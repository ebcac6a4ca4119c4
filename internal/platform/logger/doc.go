// Package logger provides structured logging functionality for the application.
//
// It uses the standard library log/slog package to write JSON log lines with a
// configurable level, and carries request-scoped loggers through a
// context.Context so that trace identifiers follow a request through the
// service and store layers.
package logger
