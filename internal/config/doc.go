// Package config loads, normalizes, and validates mediaorg configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MEDIA_ORGANIZER_* environment
// overrides. The Naming section doubles as the naming configuration consumed by
// the scanner, renamer and metadata manager: it owns the episode and movie
// name formats so filenames and embedded titles always agree.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, normalized extensions, and clear validation errors.
package config
