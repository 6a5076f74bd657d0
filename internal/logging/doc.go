// Package logging assembles structured slog loggers and formatting helpers used
// across lplmaker.
//
// It owns the console and JSON handlers, tees output to an optional log file,
// and exposes context-aware helpers so engine code automatically tags log
// lines with the catalog being generated, the engine stage, and the run ID.
// A no-op logger is provided for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
