package playlist

import "strings"

// CRCPlaceholder is written in place of a ROM checksum.
const CRCPlaceholder = "0|crc"

// RecordLines is the number of lines in every record.
const RecordLines = 6

// FormatRecord renders one playlist record: path, title, core library, core
// name, the CRC placeholder, and the playlist file name, each terminated by a
// newline. Values are written verbatim.
func FormatRecord(path, title, coreLibrary, coreName, catalogName string) string {
	var b strings.Builder
	b.Grow(len(path) + len(title) + len(coreLibrary) + len(coreName) + len(catalogName) + 16)
	lines := [RecordLines]string{path, title, coreLibrary, coreName, CRCPlaceholder, catalogName + ".lpl"}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
