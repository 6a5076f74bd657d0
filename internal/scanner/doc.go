// Package scanner discovers playlist entries in a ROM directory.
//
// Scan lists the immediate children of a source directory and splits them
// into plain ROM files (matched by extension suffix) and zip archives that
// may hold more ROMs. ExpandArchive opens one archive read-only and turns
// each matching member into an Entry whose path uses the
// "<archive>#<member>" form RetroArch understands.
//
// Matching is a literal, case-sensitive suffix test against the configured
// extensions; optional doublestar patterns exclude names before matching.
package scanner
