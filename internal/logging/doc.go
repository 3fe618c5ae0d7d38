// Package logging assembles the structured slog loggers used by subfit.
//
// It owns the console and JSON handlers, level parsing and output routing
// (stderr plus an optional log file under the configured log directory), and
// exposes context-aware helpers so command code can tag log lines with run
// identifiers and stage names. Logs never go to stdout because subtitle
// documents may be streamed there.
package logging
