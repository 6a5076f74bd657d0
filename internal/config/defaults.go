package config

const (
	defaultRomsDir      = "~/Roms"
	defaultCoresDir     = "/usr/lib/libretro"
	defaultRetroArchDir = "~/.config/retroarch"
	defaultMame         = "/usr/games/mame"
	defaultStateDir     = "~/.local/share/lplmaker"
	defaultTitleCache   = true
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	defaultScanZips  = true
	defaultQueryMame = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		RomsDir:      defaultRomsDir,
		CoresDir:     defaultCoresDir,
		RetroArchDir: defaultRetroArchDir,
		Mame:         defaultMame,
		StateDir:     defaultStateDir,
		TitleCache:   defaultTitleCache,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
