package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaorganizer/internal/preflight"
	"mediaorganizer/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, tool availability and directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			w := newStatusWriter(cmd.OutOrStdout())

			w.section("Configuration")
			if ctx.configExists {
				w.line("Config file", statusOK, ctx.displayConfigPath())
			} else {
				w.line("Config file", statusInfo, ctx.displayConfigPath()+" (not found, using defaults)")
			}
			w.line("Default root", statusInfo, cfg.Paths.DefaultRoot)
			w.line("Extensions", statusInfo, strings.Join(cfg.Naming.MediaExtensions, " "))
			w.line("Episode padding", statusInfo, fmt.Sprintf("%d digits", cfg.Naming.EpisodePadding))
			if cfg.Journal.Enabled {
				w.line("Journal", statusInfo, cfg.JournalPath())
			} else {
				w.line("Journal", statusInfo, "disabled")
			}
			fmt.Fprintln(w.out)

			w.section("Dependencies")
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				kind, msg := statusOK, dep.Resolved
				if !dep.Available {
					kind, msg = statusError, dep.Detail
					if dep.Optional {
						kind = statusWarn
					}
				}
				if dep.Description != "" {
					msg = fmt.Sprintf("%s (%s)", msg, dep.Description)
				}
				w.line(dep.Name, kind, msg)
			}
			fmt.Fprintln(w.out)

			w.section("Checks")
			for _, result := range preflight.RunAll(cmd.Context(), cfg, services.CommandExecutor{}) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				w.line(result.Name, kind, result.Detail)
			}
			return nil
		},
	}
}
