package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mediaorganizer/internal/config"
)

// ConfigOption adjusts a test configuration after its directories are laid out.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns a default config whose paths all live under a fresh temp
// directory. Only the media root exists up front; state and log directories
// are created by the code under test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DefaultRoot = filepath.Join(base, "media")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := os.MkdirAll(cfg.Paths.DefaultRoot, 0o755); err != nil {
		t.Fatalf("create media root: %v", err)
	}
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// BaseDir is the temp directory NewConfig placed cfg's paths under.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

func WithJournalDisabled() ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Journal.Enabled = false
	}
}

// WithStubbedBinaries installs no-op executables for names (mkvpropedit and
// mkvinfo when none are given), points the tool config at them and puts
// their directory first on PATH for the rest of the test.
func WithStubbedBinaries(names ...string) ConfigOption {
	if len(names) == 0 {
		names = []string{"mkvpropedit", "mkvinfo"}
	}
	return func(t testing.TB, base string, cfg *config.Config) {
		dir := filepath.Join(base, "bin")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("create stub dir: %v", err)
		}
		tools := map[string]*string{
			"mkvpropedit": &cfg.Tools.MKVPropEdit,
			"mkvinfo":     &cfg.Tools.MKVInfo,
			"ffprobe":     &cfg.Tools.FFprobe,
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
			if field, ok := tools[name]; ok {
				*field = path
			}
		}

		previous := os.Getenv("PATH")
		if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+previous); err != nil {
			t.Fatalf("prepend PATH: %v", err)
		}
		t.Cleanup(func() { _ = os.Setenv("PATH", previous) })
	}
}
