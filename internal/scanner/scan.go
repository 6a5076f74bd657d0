package scanner

import (
	"archive/zip"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"lplmaker/internal/services"
)

const archiveSuffix = ".zip"

// Matcher decides which names belong to a playlist.
type Matcher struct {
	suffixes []string
	exclude  []string
}

// NewMatcher builds a matcher for the given extensions (without the leading
// dot) and optional doublestar exclude patterns.
func NewMatcher(extensions, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		m.suffixes = append(m.suffixes, "."+ext)
	}
	if len(m.suffixes) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "matcher", "at least one extension is required", nil)
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, services.Wrap(services.ErrConfiguration, "scan", "matcher", fmt.Sprintf("invalid exclude pattern %q", pattern), nil)
		}
		m.exclude = append(m.exclude, pattern)
	}
	return m, nil
}

// Match reports whether name ends in one of the configured extensions and is
// not excluded.
func (m *Matcher) Match(name string) bool {
	return m.hasSuffix(name) && !m.Excluded(name)
}

// Excluded reports whether name matches an exclude pattern. Patterns are
// tested against the full name and against its last path element, so "*.txt"
// also excludes "docs/readme.txt" inside an archive.
func (m *Matcher) Excluded(name string) bool {
	base := path.Base(name)
	for _, pattern := range m.exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if base != name {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) hasSuffix(name string) bool {
	for _, suffix := range m.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Result holds the two sequences produced by Scan, both sorted by name.
type Result struct {
	Plain    []Entry
	Archives []Entry
}

// Scan lists the immediate children of dir. Children matching the extension
// set become plain entries; when scanArchives is set every ".zip" child is
// also returned as an archive candidate, whether or not it matched as plain.
// Directories are ignored.
func Scan(dir string, m *Matcher, scanArchives bool) (Result, error) {
	var result Result
	children, err := os.ReadDir(dir)
	if err != nil {
		return result, services.Wrap(services.ErrSourceUnreadable, "scan", "list directory", dir, err)
	}

	// os.ReadDir already returns entries sorted by file name.
	for _, child := range children {
		if child.IsDir() {
			continue
		}
		name := child.Name()
		entry := Entry{ContainerPath: filepath.Join(dir, name), BaseName: name}
		if m.Match(name) {
			result.Plain = append(result.Plain, entry)
		}
		if scanArchives && strings.HasSuffix(name, archiveSuffix) && !m.Excluded(name) {
			result.Archives = append(result.Archives, entry)
		}
	}
	return result, nil
}

// ExpandArchive opens the zip archive at archivePath read-only and returns one
// entry per member whose name matches, in central directory order.
func ExpandArchive(archivePath string, m *Matcher) ([]Entry, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, services.Wrap(services.ErrArchiveUnreadable, "scan", "open archive", archivePath, err)
	}
	defer reader.Close()

	var entries []Entry
	for _, member := range reader.File {
		if member.FileInfo().IsDir() {
			continue
		}
		if !m.Match(member.Name) {
			continue
		}
		entries = append(entries, Entry{
			ContainerPath: archivePath,
			Member:        member.Name,
			BaseName:      member.Name,
		})
	}
	return entries, nil
}
