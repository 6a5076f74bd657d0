// Package services defines shared utilities consumed by the catalog engine and
// the CLI wiring around it.
//
// Key responsibilities:
//   - Context helpers that stamp catalog names, stages, and run identifiers
//     for logging and history rows.
//   - Structured error markers plus the Wrap helper that classify failures as
//     fatal for the run, fatal for one catalog, or local to one archive.
//
// Use these helpers when adding engine code so failure isolation stays
// uniform: one bad catalog or archive must never stop the rest of a run.
package services
