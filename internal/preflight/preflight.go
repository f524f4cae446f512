package preflight

import (
	"context"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. The journal
// directory is only checked when the journal is enabled.
func RunAll(ctx context.Context, cfg *config.Config, runner services.Executor) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Default root", cfg.Paths.DefaultRoot),
	}
	if cfg.Journal.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	results = append(results,
		CheckToolVersion(ctx, runner, "mkvpropedit", cfg.Tools.MKVPropEdit, cfg.Tools.ProbeTimeout()),
	)
	return results
}
