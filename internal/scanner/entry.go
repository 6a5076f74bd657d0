package scanner

import "strings"

// ArchiveSeparator joins an archive path and a member name in playlist paths.
const ArchiveSeparator = "#"

// Entry is one discovered ROM: a file on disk or a member of a zip archive.
type Entry struct {
	// ContainerPath is the file on disk (the archive for members).
	ContainerPath string
	// Member is the path inside the archive; empty for plain files.
	Member string
	// BaseName is the name used to derive the title.
	BaseName string
}

// IsArchiveMember reports whether the entry lives inside an archive.
func (e Entry) IsArchiveMember() bool {
	return e.Member != ""
}

// Path renders the entry's playlist path. Archive members use
// "<archive>#<member>" with no escaping of '#'.
func (e Entry) Path() string {
	if e.Member == "" {
		return e.ContainerPath
	}
	return e.ContainerPath + ArchiveSeparator + e.Member
}

// Stem returns BaseName without its final extension. Leading dots of the last
// path element do not start an extension, so ".nes" stays ".nes".
func (e Entry) Stem() string {
	name := e.BaseName
	last := name[strings.LastIndex(name, "/")+1:]
	trimmed := strings.TrimLeft(last, ".")
	dot := strings.LastIndex(trimmed, ".")
	if dot < 0 {
		return name
	}
	return name[:len(name)-len(trimmed)+dot]
}
