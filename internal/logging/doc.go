// Package logging builds slog loggers for the CLI.
//
// Two output formats exist: a console handler producing compact single-line
// records for humans, and a JSON handler for machine consumption. Diagnostic
// logging is separate from the conversion status stream, which prints to
// stdout directly.
package logging
