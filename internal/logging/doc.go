// Package logging assembles structured slog loggers and formatting helpers used
// across captiongen.
//
// It owns the console and JSON handlers, the per-run log file tee, and
// context-aware helpers that tag log lines with the run ID, stage, and source
// file. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
//
// Structured logs are diagnostic. The progress lines a user sees on stdout
// are printed by the command layer and never routed through here.
package logging
