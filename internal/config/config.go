package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"lplmaker/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"Format"`
	Level  string `toml:"Level"`
	File   string `toml:"File"`
}

// Playlist is one [playlist.<key>] table as written in the configuration file.
// Optional switches are pointers so an absent key can be told apart from false.
type Playlist struct {
	RomsDir             string   `toml:"RomsDir"`
	CoreLib             string   `toml:"CoreLib"`
	CoreName            string   `toml:"CoreName"`
	PlaylistName        string   `toml:"PlaylistName"`
	SupportedExtensions []string `toml:"SupportedExtensions"`
	ScanZips            *bool    `toml:"ScanZips"`
	QueryMame           *bool    `toml:"QueryMame"`
	Exclude             []string `toml:"Exclude"`

	// Key is the table name under [playlist]; Source is the file it came from.
	Key    string `toml:"-"`
	Source string `toml:"-"`
}

// Config encapsulates all configuration values for lplmaker.
//
// Global settings locate the ROM tree, the libretro cores, the RetroArch
// configuration root (playlists are written to <RetroArchDir>/playlists) and
// the MAME executable used for title lookups. StateDir holds the run lock and
// the history database.
type Config struct {
	RomsDir      string
	CoresDir     string
	RetroArchDir string
	Mame         string
	StateDir     string
	ScratchDir   string
	TitleCache   bool
	Logging      Logging
	Playlists    []Playlist
}

// fileConfig mirrors one configuration file. Pointer fields record which
// globals the file actually sets so later files only override those.
type fileConfig struct {
	RomsDir      *string             `toml:"RomsDir"`
	CoresDir     *string             `toml:"CoresDir"`
	RetroArchDir *string             `toml:"RetroArchDir"`
	Mame         *string             `toml:"Mame"`
	StateDir     *string             `toml:"StateDir"`
	ScratchDir   *string             `toml:"ScratchDir"`
	TitleCache   *bool               `toml:"TitleCache"`
	Logging      *Logging            `toml:"Logging"`
	Playlist     map[string]Playlist `toml:"playlist"`
}

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lplmaker.toml")
}

// Load locates, parses, merges, and validates configuration files. With an
// explicit path only that file is read. Otherwise ./lplmaker.toml and
// ~/.config/lplmaker.toml are both read when present, in that order. The
// returned slice lists the files that were loaded.
//
// A .env file in the working directory is loaded first; variables already set
// in the environment win over it.
func Load(path string) (*Config, []string, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.applyEnvironment()

	paths, err := resolveConfigPaths(path)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, services.Wrap(services.ErrConfiguration, "config", "locate", "no configuration file present, can't continue", nil)
	}

	for _, p := range paths {
		fc, err := decodeFile(p)
		if err != nil {
			return nil, nil, err
		}
		cfg.merge(fc, p)
	}

	if err := cfg.normalize(); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &cfg, paths, nil
}

func resolveConfigPaths(path string) ([]string, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, services.Wrap(services.ErrConfiguration, "config", "locate", expanded+" does not exist", nil)
			}
			return nil, fmt.Errorf("stat config: %w", err)
		}
		return []string{expanded}, nil
	}

	projectPath, err := filepath.Abs("lplmaker.toml")
	if err != nil {
		return nil, err
	}
	userPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}

	var found []string
	for _, candidate := range []string{projectPath, userPath} {
		if len(found) > 0 && found[0] == candidate {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			found = append(found, candidate)
		}
	}
	return found, nil
}

func decodeFile(path string) (fileConfig, error) {
	var fc fileConfig
	file, err := os.Open(path)
	if err != nil {
		return fc, services.Wrap(services.ErrConfiguration, "config", "open", path, err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(&fc); err != nil {
		return fc, services.Wrap(services.ErrConfiguration, "config", "parse", path, err)
	}
	return fc, nil
}

func (c *Config) merge(fc fileConfig, source string) {
	setString(&c.RomsDir, fc.RomsDir)
	setString(&c.CoresDir, fc.CoresDir)
	setString(&c.RetroArchDir, fc.RetroArchDir)
	setString(&c.Mame, fc.Mame)
	setString(&c.StateDir, fc.StateDir)
	setString(&c.ScratchDir, fc.ScratchDir)
	if fc.TitleCache != nil {
		c.TitleCache = *fc.TitleCache
	}
	if fc.Logging != nil {
		if fc.Logging.Format != "" {
			c.Logging.Format = fc.Logging.Format
		}
		if fc.Logging.Level != "" {
			c.Logging.Level = fc.Logging.Level
		}
		if fc.Logging.File != "" {
			c.Logging.File = fc.Logging.File
		}
	}

	keys := make([]string, 0, len(fc.Playlist))
	for key := range fc.Playlist {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		pl := fc.Playlist[key]
		pl.Key = key
		pl.Source = source
		c.Playlists = append(c.Playlists, pl)
	}
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func (c *Config) applyEnvironment() {
	for env, dst := range map[string]*string{
		"LPLMAKER_ROMS_DIR":      &c.RomsDir,
		"LPLMAKER_CORES_DIR":     &c.CoresDir,
		"LPLMAKER_RETROARCH_DIR": &c.RetroArchDir,
		"LPLMAKER_MAME":          &c.Mame,
		"LPLMAKER_STATE_DIR":     &c.StateDir,
	} {
		if value, ok := os.LookupEnv(env); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
}

// EnsureDirectories creates the directories lplmaker owns.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.StateDir}
	if c.ScratchDir != "" {
		dirs = append(dirs, c.ScratchDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PlaylistsDir returns the RetroArch playlist directory.
func (c *Config) PlaylistsDir() string {
	return filepath.Join(c.RetroArchDir, "playlists")
}

// HistoryPath returns the location of the generation history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.StateDir, "history.db")
}

// LockPath returns the lock file guarding a generation run.
func (c *Config) LockPath() string {
	return filepath.Join(c.StateDir, "lplmaker.lock")
}

// StagingDir returns where catalogs are staged before commit.
func (c *Config) StagingDir() string {
	if c.ScratchDir != "" {
		return c.ScratchDir
	}
	return os.TempDir()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
