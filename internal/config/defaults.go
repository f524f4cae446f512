package config

const (
	defaultConfigPath          = "~/.config/mediaorg/config.toml"
	defaultRoot                = "~"
	defaultStateDir            = "~/.local/share/mediaorg"
	defaultLogDir              = "~/.local/share/mediaorg/logs"
	defaultYear                = 2000
	defaultSeason              = 1
	defaultEpisode             = 1
	defaultEpisodePadding      = 3
	defaultMKVPropEdit         = "mkvpropedit"
	defaultMKVInfo             = "mkvinfo"
	defaultFFprobe             = "ffprobe"
	defaultWriteTimeoutSeconds = 60
	defaultReadTimeoutSeconds  = 30
	defaultProbeTimeoutSeconds = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogMaxSizeMB        = 10
	defaultLogMaxBackups       = 5
	defaultLogRetentionDays    = 30
)

var defaultMediaExtensions = []string{".mp4", ".mkv", ".m4v", ".avi"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DefaultRoot: defaultRoot,
			StateDir:    defaultStateDir,
			LogDir:      defaultLogDir,
		},
		Naming: Naming{
			MediaExtensions: append([]string(nil), defaultMediaExtensions...),
			DefaultYear:     defaultYear,
			DefaultSeason:   defaultSeason,
			DefaultEpisode:  defaultEpisode,
			EpisodePadding:  defaultEpisodePadding,
		},
		Tools: Tools{
			MKVPropEdit:         defaultMKVPropEdit,
			MKVInfo:             defaultMKVInfo,
			FFprobe:             defaultFFprobe,
			WriteTimeoutSeconds: defaultWriteTimeoutSeconds,
			ReadTimeoutSeconds:  defaultReadTimeoutSeconds,
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			MaxSizeMB:     defaultLogMaxSizeMB,
			MaxBackups:    defaultLogMaxBackups,
			RetentionDays: defaultLogRetentionDays,
		},
		Journal: Journal{
			Enabled: true,
		},
	}
}
