// Package logging assembles structured slog loggers for dirprint.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr plus an optional JSON log file), and exposes attribute helpers so
// warnings carry the same event_type / error_hint / impact fields everywhere.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
