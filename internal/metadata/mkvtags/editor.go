package mkvtags

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/ffprobe"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/services"
)

const titleMarker = "Title:"

// Editor reads and writes Matroska titles.
type Editor struct {
	tools  config.Tools
	runner services.Executor
	logger *slog.Logger
}

// Option configures an Editor.
type Option func(*Editor)

// WithExecutor overrides the command runner (used in tests).
func WithExecutor(runner services.Executor) Option {
	return func(e *Editor) {
		if runner != nil {
			e.runner = runner
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// New returns an editor using the tool locations and timeouts in tools.
func New(tools config.Tools, opts ...Option) *Editor {
	e := &Editor{tools: tools, runner: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "mkvtags")
	return e
}

func (e *Editor) SupportedExtensions() []string {
	return []string{".mkv"}
}

// Read returns the segment title. Failures are logged and yield an empty
// record.
func (e *Editor) Read(ctx context.Context, path string) media.Metadata {
	logger := logging.WithContext(ctx, e.logger).With(logging.String(logging.FieldFile, path))

	out, err := services.RunWithTimeout(ctx, e.runner, e.tools.ReadTimeout(), e.binary(e.tools.MKVInfo, "mkvinfo"), fileArg(path))
	if err != nil {
		if errors.Is(err, services.ErrExternalToolUnavailable) {
			logger.Debug("mkvinfo unavailable; falling back to ffprobe", logging.Error(err))
			return e.readWithFFprobe(ctx, logger, path)
		}
		logging.WarnWithContext(logger, "mkvinfo failed", "mkv_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "metadata shown as empty"),
			logging.String(logging.FieldErrorHint, "raise tools.read_timeout_seconds or check the file"),
		)
		return media.Metadata{}
	}
	if out.ExitCode != 0 {
		logging.WarnWithContext(logger, "mkvinfo exited with error", "mkv_read_failed",
			logging.Int("exit_code", out.ExitCode),
			logging.String("stderr", strings.TrimSpace(out.Stderr)),
			logging.String(logging.FieldImpact, "metadata shown as empty"),
		)
		return media.Metadata{}
	}
	return media.Metadata{Title: ParseTitle(out.Stdout)}
}

func (e *Editor) readWithFFprobe(ctx context.Context, logger *slog.Logger, path string) media.Metadata {
	probeCtx := ctx
	if timeout := e.tools.ReadTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result, err := ffprobe.Inspect(probeCtx, e.runner, e.binary(e.tools.FFprobe, "ffprobe"), path)
	if err != nil {
		logging.WarnWithContext(logger, "cannot read mkv title", "mkv_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "metadata shown as empty"),
			logging.String(logging.FieldErrorHint, "install MKVToolNix or ffprobe"),
		)
		return media.Metadata{}
	}
	return media.Metadata{Title: result.Title()}
}

// Write sets the segment title. An empty title succeeds without running
// mkvpropedit; the remaining fields are ignored.
func (e *Editor) Write(ctx context.Context, path string, meta media.Metadata) error {
	logger := logging.WithContext(ctx, e.logger).With(logging.String(logging.FieldFile, path))
	if meta.Title == "" {
		logger.Debug("no title to write; skipping mkvpropedit")
		return nil
	}

	// A started write runs to completion even if the batch is cancelled;
	// only the write timeout bounds it.
	binary := e.binary(e.tools.MKVPropEdit, "mkvpropedit")
	out, err := services.RunWithTimeout(context.WithoutCancel(ctx), e.runner, e.tools.WriteTimeout(), binary,
		fileArg(path), "--edit", "info", "--set", "title="+meta.Title)
	if err != nil {
		hint := "check the file and retry"
		switch {
		case errors.Is(err, services.ErrExternalToolUnavailable):
			hint = "install MKVToolNix or set tools.mkvpropedit"
		case errors.Is(err, services.ErrExternalToolTimeout):
			hint = "raise tools.write_timeout_seconds"
		}
		logging.ErrorWithContext(logger, "mkvpropedit failed", "mkv_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
		)
		return services.Wrap(services.ErrEditorWriteFailed, "mkvtags", "write", path, err)
	}
	if out.ExitCode != 0 {
		detail := strings.TrimSpace(out.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(out.Stdout)
		}
		logging.ErrorWithContext(logger, "mkvpropedit exited with error", "mkv_write_failed",
			logging.Int("exit_code", out.ExitCode),
			logging.String("stderr", detail),
		)
		return services.Wrap(services.ErrEditorWriteFailed, "mkvtags", "write",
			fmt.Sprintf("%s: exit status %d: %s", path, out.ExitCode, detail), nil)
	}
	logger.Debug("mkv title written", logging.String("title", meta.Title))
	return nil
}

// Available reports whether mkvpropedit runs.
func (e *Editor) Available(ctx context.Context) bool {
	out, err := services.RunWithTimeout(ctx, e.runner, e.tools.ProbeTimeout(), e.binary(e.tools.MKVPropEdit, "mkvpropedit"), "--version")
	if err != nil {
		e.logger.Debug("mkvpropedit probe failed", logging.Error(err))
		return false
	}
	return out.ExitCode == 0
}

func (e *Editor) binary(configured, fallback string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	return fallback
}

// fileArg keeps a relative path that starts with "-" from being read as an
// option; MKVToolNix has no "--" terminator.
func fileArg(path string) string {
	if strings.HasPrefix(path, "-") {
		return "." + string(filepath.Separator) + path
	}
	return path
}

// ParseTitle returns the value of the first "Title:" line in mkvinfo output.
func ParseTitle(output string) string {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if _, after, ok := strings.Cut(line, titleMarker); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}
