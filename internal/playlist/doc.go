// Package playlist renders RetroArch playlist records and generates whole
// playlist files.
//
// FormatRecord produces the fixed six-line record RetroArch reads. The
// Generator drives one catalog through Scanning, Writing, PendingCommit and
// finally Committed, Aborted, or Failed: it scans the source directory,
// streams records into a staging file, asks a Confirmer before replacing an
// existing playlist, and commits by renaming a sibling copy over the
// destination. The staging file is removed and the Progress reporter is
// stopped on every exit path.
package playlist
