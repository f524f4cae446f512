package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaorganizer/internal/batch"
	"mediaorganizer/internal/config"
	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/preflight"
)

// numberingFlags are shared by rename, tag and organize.
type numberingFlags struct {
	title   string
	season  int
	episode int
	movie   bool
	year    int
	padding int
	ext     string
	asJSON  bool
}

func (f *numberingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Series or movie title (required)")
	cmd.Flags().IntVarP(&f.season, "season", "s", 0, "Season number (default from config)")
	cmd.Flags().IntVarP(&f.episode, "episode", "e", 0, "Starting episode number (default from config)")
	cmd.Flags().BoolVar(&f.movie, "movie", false, "Treat files as movies instead of episodes")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "Release year (default from config)")
	cmd.Flags().IntVar(&f.padding, "padding", 0, "Episode digits, 2 or 3 (default from config)")
	cmd.Flags().StringVar(&f.ext, "ext", "", "Only process files with this extension")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Emit the batch summary as JSON")
	_ = cmd.MarkFlagRequired("title")
}

// resolve fills unset season and episode numbers from the configuration.
// The year stays zero unless given so tags never carry an implied year.
func (f *numberingFlags) resolve(cmd *cobra.Command, naming config.Naming) {
	if !cmd.Flags().Changed("season") {
		f.season = naming.DefaultSeason
	}
	if !cmd.Flags().Changed("episode") {
		f.episode = naming.DefaultEpisode
	}
}

// naming applies the padding override.
func (f *numberingFlags) naming(base config.Naming) (config.Naming, error) {
	if f.padding == 0 {
		return base, nil
	}
	return base.WithPadding(f.padding)
}

func (f *numberingFlags) renameRequest(root string, includeYear, dryRun bool) batch.RenameRequest {
	return batch.RenameRequest{
		Root:        root,
		Title:       strings.TrimSpace(f.title),
		Season:      f.season,
		Episode:     f.episode,
		Episodic:    !f.movie,
		Year:        f.year,
		IncludeYear: includeYear,
		Padding:     f.padding,
		DryRun:      dryRun,
	}
}

// batchRun is the resolved state a batch command executes with.
type batchRun struct {
	cfg    *config.Config
	naming config.Naming
	root   string
	files  []*media.MediaFile
	runner *batch.Runner
}

// prepareBatch resolves config, checks the tree, takes the lock, scans and
// wires a runner. The returned release func is never nil.
func prepareBatch(cmd *cobra.Command, ctx *commandContext, args []string, flags *numberingFlags, readOnly bool) (*batchRun, func(), error) {
	noop := func() {}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, noop, err
	}
	flags.resolve(cmd, cfg.Naming)
	naming, err := flags.naming(cfg.Naming)
	if err != nil {
		return nil, noop, err
	}
	root, err := resolveRoot(cfg, args)
	if err != nil {
		return nil, noop, err
	}

	release := noop
	var j *journal.Journal
	if !readOnly {
		if check := preflight.CheckDirectoryAccess("Target", root); !check.Passed {
			return nil, noop, fmt.Errorf("target directory unusable: %s", check.Detail)
		}
		unlock, err := lockTree(cfg, root)
		if err != nil {
			return nil, noop, err
		}
		j, err = ctx.openJournal(cfg)
		if err != nil {
			unlock()
			return nil, noop, err
		}
		release = func() {
			if j != nil {
				_ = j.Close()
			}
			unlock()
		}
	}

	files, err := scanFiles(cmd.Context(), cfg, ctx.log(), root, flags.ext)
	if err != nil {
		release()
		return nil, noop, err
	}
	return &batchRun{
		cfg:    cfg,
		naming: naming,
		root:   root,
		files:  files,
		runner: ctx.newRunner(cfg, naming, j),
	}, release, nil
}

func finishBatch(cmd *cobra.Command, verb string, asJSON bool, summary batch.Summary, err error) error {
	if asJSON {
		if jsonErr := writeJSON(cmd, summary); jsonErr != nil {
			return jsonErr
		}
		return err
	}
	renderSummary(cmd.OutOrStdout(), verb, summary)
	return err
}

func batchProgress(cmd *cobra.Command, asJSON bool) batch.Progress {
	if asJSON {
		return nil
	}
	return eventPrinter(cmd.OutOrStdout())
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var flags numberingFlags
	var includeYear bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename [dir]",
		Short: "Rename media files to the standard naming pattern",
		Long: "Rename every media file below dir in name order. Episodes are numbered\n" +
			"from --episode and a number is only used up by a successful rename.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, release, err := prepareBatch(cmd, ctx, args, &flags, dryRun)
			defer release()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("include-year") {
				includeYear = run.naming.IncludeYear
			}
			req := flags.renameRequest(run.root, includeYear, dryRun)
			summary, err := run.runner.RenameAll(cmd.Context(), run.files, req, batchProgress(cmd, flags.asJSON))
			verb := "Renamed"
			if dryRun {
				verb = "Would rename"
			}
			return finishBatch(cmd, verb, flags.asJSON, summary, err)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&includeYear, "include-year", false, "Append (year) to movie names (default from config)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the planned names without renaming")
	return cmd
}

func newTagCommand(ctx *commandContext) *cobra.Command {
	var flags numberingFlags
	var genre string
	var collection string

	cmd := &cobra.Command{
		Use:   "tag [dir]",
		Short: "Write title and numbering metadata into media files",
		Long: "Write metadata into every media file below dir. Episodes are numbered\n" +
			"from --episode in name order; MP4 files receive every field, Matroska\n" +
			"files receive the title.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, release, err := prepareBatch(cmd, ctx, args, &flags, false)
			defer release()
			if err != nil {
				return err
			}
			meta := media.Metadata{
				Title:      strings.TrimSpace(flags.title),
				Genre:      genre,
				Year:       flags.year,
				Collection: collection,
			}
			if !flags.movie {
				meta.Season, meta.Episode = flags.season, flags.episode
			}
			summary, err := run.runner.TagAll(cmd.Context(), run.files, batch.TagRequest{Root: run.root, Metadata: meta}, batchProgress(cmd, flags.asJSON))
			return finishBatch(cmd, "Tagged", flags.asJSON, summary, err)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Genre, one of the names listed by mediaorg genres")
	cmd.Flags().StringVar(&collection, "collection", "", "Collection name")
	return cmd
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var flags numberingFlags
	var includeYear bool
	var dryRun bool
	var genre string
	var collection string

	cmd := &cobra.Command{
		Use:   "organize [dir]",
		Short: "Rename media files and tag them in one pass",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, release, err := prepareBatch(cmd, ctx, args, &flags, dryRun)
			defer release()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("include-year") {
				includeYear = run.naming.IncludeYear
			}
			req := batch.OrganizeRequest{
				RenameRequest: flags.renameRequest(run.root, includeYear, dryRun),
				Genre:         genre,
				Collection:    collection,
			}
			summary, err := run.runner.OrganizeAll(cmd.Context(), run.files, req, batchProgress(cmd, flags.asJSON))
			verb := "Organized"
			if dryRun {
				verb = "Would organize"
			}
			return finishBatch(cmd, verb, flags.asJSON, summary, err)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&includeYear, "include-year", false, "Append (year) to movie names (default from config)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the planned names without renaming or tagging")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Genre, one of the names listed by mediaorg genres")
	cmd.Flags().StringVar(&collection, "collection", "", "Collection name")
	return cmd
}
