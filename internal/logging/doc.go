// Package logging assembles structured slog loggers used across relief.
//
// It owns the console and JSON handlers, parses levels, routes output to
// stderr and the optional log file, and exposes helpers for component and
// request-scoped loggers. Command output is written to stdout by the CLI, so
// loggers default to stderr to keep the two streams separate. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
