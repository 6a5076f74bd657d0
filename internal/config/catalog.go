package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DetectCore is the sentinel RetroArch resolves at load time instead of a
// fixed core library path or core name.
const DetectCore = "DETECT"

// Catalog is a fully resolved playlist specification handed to the catalog
// engine. All required values are present and paths are absolute.
type Catalog struct {
	Key          string
	Name         string
	SourceDir    string
	Extensions   []string
	ScanArchives bool
	CoreLibrary  string
	CoreName     string
	OutputPath   string
	LookupTitles bool
	Exclude      []string
}

// FileName returns the playlist file name written into every record.
func (c Catalog) FileName() string {
	return c.Name + ".lpl"
}

// MissingFieldsError reports a playlist table lacking required options.
type MissingFieldsError struct {
	Playlist string
	Source   string
	Fields   []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("playlist %q (%s) is missing the following required option(s): %s. It will be skipped",
		e.Playlist, e.Source, strings.Join(e.Fields, ", "))
}

// InvalidPatternError reports Exclude patterns that are not valid globs.
type InvalidPatternError struct {
	Playlist string
	Source   string
	Patterns []string
}

func (e *InvalidPatternError) Error() string {
	quoted := make([]string, len(e.Patterns))
	for i, p := range e.Patterns {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("playlist %q (%s) has invalid Exclude pattern(s): %s. It will be skipped",
		e.Playlist, e.Source, strings.Join(quoted, ", "))
}

// Catalogs resolves every playlist table into a Catalog, applying defaults for
// optional switches. Tables with missing required options are reported in the
// second return value and left out of the first, as are tables with invalid
// Exclude patterns.
func (c *Config) Catalogs() ([]Catalog, []error) {
	catalogs := make([]Catalog, 0, len(c.Playlists))
	var problems []error
	for _, pl := range c.Playlists {
		catalog, err := c.resolve(pl)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		catalogs = append(catalogs, catalog)
	}
	return catalogs, problems
}

func (c *Config) resolve(pl Playlist) (Catalog, error) {
	extensions := normalizeExtensions(pl.SupportedExtensions)

	var missing []string
	for _, field := range []struct {
		name  string
		empty bool
	}{
		{"RomsDir", strings.TrimSpace(pl.RomsDir) == ""},
		{"CoreLib", strings.TrimSpace(pl.CoreLib) == ""},
		{"CoreName", strings.TrimSpace(pl.CoreName) == ""},
		{"PlaylistName", strings.TrimSpace(pl.PlaylistName) == ""},
		{"SupportedExtensions", len(extensions) == 0},
	} {
		if field.empty {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		name := pl.Key
		if pl.PlaylistName != "" {
			name = pl.PlaylistName
		}
		return Catalog{}, &MissingFieldsError{Playlist: name, Source: pl.Source, Fields: missing}
	}

	name := strings.TrimSpace(pl.PlaylistName)
	exclude := normalizePatterns(pl.Exclude)
	var invalid []string
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			invalid = append(invalid, pattern)
		}
	}
	if len(invalid) > 0 {
		return Catalog{}, &InvalidPatternError{Playlist: name, Source: pl.Source, Patterns: invalid}
	}

	coreLib := strings.TrimSpace(pl.CoreLib)
	if coreLib != DetectCore {
		coreLib = joinUnlessAbsolute(c.CoresDir, coreLib)
	}

	return Catalog{
		Key:          pl.Key,
		Name:         name,
		SourceDir:    joinUnlessAbsolute(c.RomsDir, strings.TrimSpace(pl.RomsDir)),
		Extensions:   extensions,
		ScanArchives: boolOr(pl.ScanZips, defaultScanZips),
		CoreLibrary:  coreLib,
		CoreName:     strings.TrimSpace(pl.CoreName),
		OutputPath:   filepath.Join(c.PlaylistsDir(), name+".lpl"),
		LookupTitles: boolOr(pl.QueryMame, defaultQueryMame),
		Exclude:      exclude,
	}, nil
}

// joinUnlessAbsolute joins base and value, keeping value untouched when it is
// already absolute.
func joinUnlessAbsolute(base, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(base, value)
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// normalizeExtensions trims whitespace and a leading dot, then drops blanks and
// duplicates. Case is preserved: matching is a literal suffix test.
func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.TrimPrefix(strings.TrimSpace(value), ".")
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func normalizePatterns(values []string) []string {
	var out []string
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
