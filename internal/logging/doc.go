// Package logging assembles the structured slog loggers used across the
// jellyfinapi bindings and CLI.
//
// It owns console/JSON handler selection, level and output plumbing, and
// token redaction so request URLs can be logged without leaking credentials.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the module.
package logging
