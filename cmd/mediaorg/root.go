package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)
	cc := newCommandContext(&configPath, &verbose)

	root := &cobra.Command{
		Use:   "mediaorg",
		Short: "Rename and tag movie and TV episode files",
		Long: "mediaorg renames media files to \"Title S01 EP001.ext\" or \"Title (2002).ext\",\n" +
			"writes title and genre tags into MP4 and Matroska containers, and keeps a\n" +
			"journal so rename batches can be undone.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cc.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Configuration file path")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newScanCommand(cc),
		newRenameCommand(cc),
		newTagCommand(cc),
		newOrganizeCommand(cc),
		newShowCommand(cc),
		newInspectCommand(cc),
		newGenresCommand(),
		newStatusCommand(cc),
		newHistoryCommand(cc),
		newUndoCommand(cc),
		newConfigCommand(cc),
	)
	return root
}
