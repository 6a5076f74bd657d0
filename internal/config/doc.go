// Package config loads, normalizes, and validates lplmaker configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), merges the TOML files found in the working directory and in
// ~/.config, and honours LPLMAKER_* environment fallbacks. Playlist tables are
// resolved into Catalog values: fully defaulted, immutable descriptions of one
// playlist file that the catalog engine can generate without further lookups.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, defaulted options, and clear validation errors.
package config
