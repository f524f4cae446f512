package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNaming() error {
	if !validPadding(c.Naming.EpisodePadding) {
		return fmt.Errorf("naming.episode_padding must be 2 or 3, got %d", c.Naming.EpisodePadding)
	}
	if len(c.Naming.MediaExtensions) == 0 {
		return errors.New("naming.media_extensions must list at least one extension")
	}
	if err := ensureNonNegativeMap(map[string]int{
		"naming.default_year":    c.Naming.DefaultYear,
		"naming.default_season":  c.Naming.DefaultSeason,
		"naming.default_episode": c.Naming.DefaultEpisode,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	return ensurePositiveMap(map[string]int{
		"tools.write_timeout_seconds": c.Tools.WriteTimeoutSeconds,
		"tools.read_timeout_seconds":  c.Tools.ReadTimeoutSeconds,
		"tools.probe_timeout_seconds": c.Tools.ProbeTimeoutSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_size_mb and logging.max_backups must not be negative")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

func ensureNonNegativeMap(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	return nil
}
