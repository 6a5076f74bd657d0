package config

import (
	"lplmaker/internal/services"
)

// Validate ensures the global configuration is usable. Playlist tables are
// checked separately by Catalogs so one broken table only skips itself.
func (c *Config) Validate() error {
	for name, value := range map[string]string{
		"RomsDir":      c.RomsDir,
		"CoresDir":     c.CoresDir,
		"RetroArchDir": c.RetroArchDir,
		"StateDir":     c.StateDir,
		"Mame":         c.Mame,
	} {
		if value == "" {
			return services.Wrap(services.ErrConfiguration, "config", "validate", name+" must be set", nil)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return services.Wrap(services.ErrConfiguration, "config", "validate", "Logging.Level must be one of debug, info, warn, error", nil)
	}
	return nil
}
