package testsupport

import (
	"path/filepath"
	"testing"

	"lplmaker/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// RomsDir, RetroArchDir, StateDir and ScratchDir all live under one
// t.TempDir. Mame points at a path that does not exist, so lookups fall back
// to file names unless a test installs a script there with WithMame.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.RomsDir = filepath.Join(base, "roms")
	cfgVal.CoresDir = filepath.Join(base, "cores")
	cfgVal.RetroArchDir = filepath.Join(base, "retroarch")
	cfgVal.StateDir = filepath.Join(base, "state")
	cfgVal.ScratchDir = filepath.Join(base, "scratch")
	cfgVal.Mame = filepath.Join(base, "bin", "mame")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithPlaylist appends a playlist table. Key defaults to PlaylistName.
func WithPlaylist(pl config.Playlist) ConfigOption {
	return func(b *configBuilder) {
		if pl.Key == "" {
			pl.Key = pl.PlaylistName
		}
		if pl.Source == "" {
			pl.Source = "test"
		}
		b.cfg.Playlists = append(b.cfg.Playlists, pl)
	}
}

// WithMame sets the lookup executable.
func WithMame(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mame = path
	}
}

// WithoutTitleCache disables the persistent title cache.
func WithoutTitleCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TitleCache = false
	}
}

// BaseDir returns the root directory used by NewConfig for the given config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.StateDir)
}
