package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables honoured on top of the config file.
const (
	EnvRoot           = "MEDIA_ORGANIZER_ROOT"
	EnvExtensions     = "MEDIA_ORGANIZER_EXTENSIONS"
	EnvYear           = "MEDIA_ORGANIZER_YEAR"
	EnvSeason         = "MEDIA_ORGANIZER_SEASON"
	EnvEpisode        = "MEDIA_ORGANIZER_EPISODE"
	EnvEpisodePadding = "MEDIA_ORGANIZER_EPISODE_PADDING"
	EnvMKVPropEdit    = "MEDIA_ORGANIZER_MKVPROPEDIT"
	EnvLogLevel       = "MEDIA_ORGANIZER_LOG_LEVEL"
)

// applyEnv overlays environment values. Unparsable numbers are ignored, as is
// a padding other than 2 or 3.
func (c *Config) applyEnv() {
	if value, ok := lookupEnv(EnvRoot); ok {
		c.Paths.DefaultRoot = value
	}
	if value, ok := lookupEnv(EnvExtensions); ok {
		c.Naming.MediaExtensions = strings.Split(value, ",")
	}
	if n, ok := lookupEnvInt(EnvYear); ok {
		c.Naming.DefaultYear = n
	}
	if n, ok := lookupEnvInt(EnvSeason); ok {
		c.Naming.DefaultSeason = n
	}
	if n, ok := lookupEnvInt(EnvEpisode); ok {
		c.Naming.DefaultEpisode = n
	}
	if n, ok := lookupEnvInt(EnvEpisodePadding); ok && validPadding(n) {
		c.Naming.EpisodePadding = n
	}
	if value, ok := lookupEnv(EnvMKVPropEdit); ok {
		c.Tools.MKVPropEdit = value
	}
	if value, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func lookupEnvInt(key string) (int, bool) {
	value, ok := lookupEnv(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNaming()
	c.normalizeTools()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DefaultRoot) == "" {
		c.Paths.DefaultRoot = defaultRoot
	}
	if c.Paths.DefaultRoot, err = expandPath(c.Paths.DefaultRoot); err != nil {
		return fmt.Errorf("paths.default_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNaming() {
	c.Naming.MediaExtensions = NormalizeExtensions(c.Naming.MediaExtensions)
	if len(c.Naming.MediaExtensions) == 0 {
		c.Naming.MediaExtensions = NormalizeExtensions(defaultMediaExtensions)
	}
}

func (c *Config) normalizeTools() {
	c.Tools.MKVPropEdit = strings.TrimSpace(c.Tools.MKVPropEdit)
	if c.Tools.MKVPropEdit == "" {
		c.Tools.MKVPropEdit = defaultMKVPropEdit
	}
	c.Tools.MKVInfo = strings.TrimSpace(c.Tools.MKVInfo)
	if c.Tools.MKVInfo == "" {
		c.Tools.MKVInfo = defaultMKVInfo
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays <= 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
}
