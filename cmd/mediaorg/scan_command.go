package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/scanner"
)

// watchSettle collapses bursts of filesystem events into one rescan.
const watchSettle = 500 * time.Millisecond

type scanRow struct {
	Name string `json:"name"`
	Ext  string `json:"ext"`
	Size int64  `json:"size"`
	Dir  string `json:"dir"`
	Path string `json:"path"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var ext string
	var asJSON bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List media files below a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolveRoot(cfg, args)
			if err != nil {
				return err
			}
			list := func(c context.Context) error {
				files, err := scanFiles(c, cfg, ctx.log(), root, ext)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, scanRows(files))
				}
				renderScan(cmd.OutOrStdout(), root, files)
				return nil
			}
			if err := list(cmd.Context()); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchTree(cmd.Context(), ctx.log(), root, list)
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "", "Only list files with this extension")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rescan whenever the directory tree changes")
	return cmd
}

// scanFiles scans root and applies the optional extension filter.
func scanFiles(ctx context.Context, cfg *config.Config, logger *slog.Logger, root, ext string) ([]*media.MediaFile, error) {
	files, err := scanner.New(cfg.Naming, logger).Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	if ext != "" {
		files = scanner.FilterByExtension(files, ext)
	}
	return files, nil
}

func scanRows(files []*media.MediaFile) []scanRow {
	rows := make([]scanRow, 0, len(files))
	for _, f := range files {
		var size int64
		if info, err := os.Stat(f.Path); err == nil {
			size = info.Size()
		}
		rows = append(rows, scanRow{
			Name: f.Name(),
			Ext:  f.Extension(),
			Size: size,
			Dir:  f.Dir(),
			Path: f.Path,
		})
	}
	return rows
}

func renderScan(out io.Writer, root string, files []*media.MediaFile) {
	if len(files) == 0 {
		fmt.Fprintf(out, "No media files found in %s\n", root)
		return
	}
	rows := make([][]string, 0, len(files))
	for i, r := range scanRows(files) {
		dir := r.Dir
		if rel, err := filepath.Rel(root, r.Dir); err == nil {
			dir = rel
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), r.Name, r.Ext, humanBytes(r.Size), dir})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Name", "Ext", "Size", "Dir"},
		rows,
		rightAligned{0, 3},
	))
	fmt.Fprintf(out, "%d media files in %s\n", len(files), root)
}

// watchTree calls fn after every settled burst of changes below root until
// ctx is cancelled. New subdirectories are added to the watch set.
func watchTree(ctx context.Context, logger *slog.Logger, root string, fn func(context.Context) error) error {
	logger = logging.NewComponentLogger(logger, "watch")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}
	logger.Info("watching for changes", logging.String("root", root))

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, ev.Name); err != nil {
						logging.WarnWithContext(logger, "watch add failed", "watch_add_failed",
							logging.String("dir", ev.Name),
							logging.Error(err),
							logging.String(logging.FieldImpact, "changes below this directory are not noticed"),
						)
					}
				}
			}
			logger.Debug("filesystem event", logging.String("event", ev.String()))
			settle = time.After(watchSettle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(logger, "watch error", "watch_error", logging.Error(err))
		case <-settle:
			settle = nil
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
