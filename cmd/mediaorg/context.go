package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediaorganizer/internal/batch"
	"mediaorganizer/internal/config"
	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/metadata"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verboseFlag != nil && *c.verboseFlag {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// log returns the CLI logger. A broken log directory degrades to stderr only.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			cfg = nil
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging unavailable (%v); continuing with stderr only\n", err)
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console", OutputPaths: []string{"stderr"}})
		}
		c.logger = logger
	})
	return c.logger
}

// openJournal returns nil when the journal is disabled.
func (c *commandContext) openJournal(cfg *config.Config) (*journal.Journal, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	j, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// requireJournal is openJournal for commands that cannot work without one.
func (c *commandContext) requireJournal(cfg *config.Config) (*journal.Journal, error) {
	j, err := c.openJournal(cfg)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, fmt.Errorf("the operation journal is disabled; set [journal] enabled = true in %s", c.displayConfigPath())
	}
	return j, nil
}

// newRunner wires a batch runner. naming carries any per-command padding
// override so file names and embedded titles agree.
func (c *commandContext) newRunner(cfg *config.Config, naming config.Naming, j *journal.Journal) *batch.Runner {
	logger := c.log()
	scoped := *cfg
	scoped.Naming = naming
	manager := metadata.NewDefaultManager(&scoped, logger)
	var recorder batch.Journal
	if j != nil {
		recorder = j
	}
	return batch.NewRunner(batch.NewRenamerFactory(naming, logger), manager, recorder, logger)
}

func (c *commandContext) displayConfigPath() string {
	if c.configPath == "" {
		return "the config file"
	}
	return c.configPath
}

// resolveRoot returns the directory argument, or the configured default root.
func resolveRoot(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ExpandPath(args[0])
	}
	return cfg.Paths.DefaultRoot, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
