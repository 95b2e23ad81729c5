// Package logging assembles structured slog loggers and formatting helpers used
// across admkit.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so codec and flow code can tag
// log lines with the file being processed and the S-ADM flow it belongs to.
// The package also provides a no-op logger for tests and library callers that
// do not want output.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape and routing.
package logging
