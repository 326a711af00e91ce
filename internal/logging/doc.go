// Package logging builds the slog loggers used across relink.
//
// It parses log levels and formats from configuration, fans output to one or
// more destinations, and provides attribute helpers plus a no-op logger so
// components never need nil checks around logging calls.
package logging
