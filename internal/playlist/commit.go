package playlist

import (
	"os"
	"path/filepath"

	"lplmaker/internal/fileutil"
	"lplmaker/internal/services"
)

const defaultPlaylistMode = 0o644

// commit replaces dest with the staged file. An existing destination keeps
// its permission bits.
func commit(staged, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrDestinationUnwritable, "commit", "create playlists directory", dir, err)
	}
	mode := fileutil.ExistingMode(dest, defaultPlaylistMode)
	if err := fileutil.ReplaceFile(staged, dest, mode); err != nil {
		return services.Wrap(services.ErrDestinationUnwritable, "commit", "replace playlist", dest, err)
	}
	return nil
}
