package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/ffprobe"
	"mediaorganizer/internal/metadata"
	"mediaorganizer/internal/services"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display the metadata stored in a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveFile(args[0])
			if err != nil {
				return err
			}
			manager := metadata.NewDefaultManager(cfg, ctx.log())
			meta := manager.ReadMetadata(cmd.Context(), path)
			if asJSON {
				return writeJSON(cmd, meta)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", path)
			if meta.IsZero() {
				fmt.Fprintln(out, "No metadata found")
				return nil
			}
			rows := [][]string{
				{"Title", meta.Title},
				{"Season", numberOrBlank(meta.Season)},
				{"Episode", numberOrBlank(meta.Episode)},
				{"Genre", meta.Genre},
				{"Year", numberOrBlank(meta.Year)},
				{"Collection", meta.Collection},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a media file's container and streams with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveFile(args[0])
			if err != nil {
				return err
			}
			result, err := probe(cmd.Context(), cfg, path)
			if err != nil {
				return err
			}
			if asJSON {
				_, err := cmd.OutOrStdout().Write(append(result.RawJSON(), '\n'))
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:     %s\n", path)
			fmt.Fprintf(out, "Format:   %s\n", result.Format.FormatName)
			fmt.Fprintf(out, "Duration: %.1fs\n", result.DurationSeconds())
			fmt.Fprintf(out, "Size:     %s\n", humanBytes(result.SizeBytes()))
			if title := result.Title(); title != "" {
				fmt.Fprintf(out, "Title:    %s\n", title)
			}
			rows := make([][]string, 0, len(result.Streams))
			for _, s := range result.Streams {
				detail := ""
				switch s.CodecType {
				case "video":
					detail = fmt.Sprintf("%dx%d", s.Width, s.Height)
				case "audio":
					detail = fmt.Sprintf("%d ch %s Hz", s.Channels, s.SampleRate)
				}
				rows = append(rows, []string{strconv.Itoa(s.Index), s.CodecType, s.CodecName, detail, s.Tags["language"]})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Type", "Codec", "Detail", "Lang"},
					rows,
					rightAligned{0},
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw ffprobe JSON")
	return cmd
}

func probe(ctx context.Context, cfg *config.Config, path string) (ffprobe.Result, error) {
	probeCtx, cancel := context.WithTimeout(ctx, cfg.Tools.ReadTimeout())
	defer cancel()
	return ffprobe.Inspect(probeCtx, services.CommandExecutor{}, cfg.Tools.FFprobe, path)
}

func resolveFile(arg string) (string, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("inspect path %q: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory; pass a media file", path)
	}
	return path, nil
}

func numberOrBlank(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
