// Package logging assembles structured slog loggers for plexrr.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes context-aware helpers so command and webhook code can tag log
// lines with source names and correlation IDs. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
package logging
