package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMame()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.RomsDir, err = expandPath(strings.TrimSpace(c.RomsDir)); err != nil {
		return fmt.Errorf("RomsDir: %w", err)
	}
	if c.CoresDir, err = expandPath(strings.TrimSpace(c.CoresDir)); err != nil {
		return fmt.Errorf("CoresDir: %w", err)
	}
	if c.RetroArchDir, err = expandPath(strings.TrimSpace(c.RetroArchDir)); err != nil {
		return fmt.Errorf("RetroArchDir: %w", err)
	}
	if strings.TrimSpace(c.StateDir) == "" {
		c.StateDir = defaultStateDir
	}
	if c.StateDir, err = expandPath(strings.TrimSpace(c.StateDir)); err != nil {
		return fmt.Errorf("StateDir: %w", err)
	}
	if c.ScratchDir, err = expandPath(strings.TrimSpace(c.ScratchDir)); err != nil {
		return fmt.Errorf("ScratchDir: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("Logging.File: %w", err)
	}
	return nil
}

// normalizeMame expands the lookup executable only when it looks like a path;
// a bare command name is left for PATH resolution.
func (c *Config) normalizeMame() {
	c.Mame = strings.TrimSpace(c.Mame)
	if strings.HasPrefix(c.Mame, "~") || strings.ContainsRune(c.Mame, '/') {
		if expanded, err := expandPath(c.Mame); err == nil {
			c.Mame = expanded
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
