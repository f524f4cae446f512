package renamer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/fileutil"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/services"
	"mediaorganizer/internal/textutil"
)

// Renamer renames media files for a single title.
type Renamer struct {
	naming      config.Naming
	title       string
	year        int
	includeYear bool
	logger      *slog.Logger
}

// Option configures a Renamer.
type Option func(*Renamer)

// WithYear sets the release year used for movie names.
func WithYear(year int) Option {
	return func(r *Renamer) {
		r.year = year
	}
}

// WithIncludeYear controls whether movie names carry the year.
func WithIncludeYear(include bool) Option {
	return func(r *Renamer) {
		r.includeYear = include
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renamer) {
		r.logger = logger
	}
}

// New returns a renamer for title. The naming defaults for year and
// include-year apply unless overridden by options.
func New(naming config.Naming, title string, opts ...Option) *Renamer {
	r := &Renamer{
		naming:      naming,
		title:       strings.TrimSpace(title),
		year:        naming.DefaultYear,
		includeYear: naming.IncludeYear,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "renamer")
	return r
}

func (r *Renamer) Title() string { return r.title }

func (r *Renamer) Year() int { return r.year }

func (r *Renamer) IncludeYear() bool { return r.includeYear }

// ComputeName returns the directory and new base name for path. The
// directory is always the source directory and the extension is kept as is.
func (r *Renamer) ComputeName(path string, season, episode int, episodic bool) (string, string, error) {
	title := textutil.SanitizePathComponent(r.title)
	if title == "" {
		return "", "", services.Wrap(services.ErrInvalidArgument, "renamer", "compute name", "title is empty", nil)
	}
	if strings.TrimSpace(path) == "" {
		return "", "", services.Wrap(services.ErrInvalidArgument, "renamer", "compute name", "path is empty", nil)
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)

	var stem string
	switch {
	case episodic:
		if season < 0 || episode < 0 {
			return "", "", services.Wrap(
				services.ErrInvalidArgument,
				"renamer",
				"compute name",
				fmt.Sprintf("season and episode must be non-negative (got %d, %d)", season, episode),
				nil,
			)
		}
		stem = r.naming.FormatEpisodeName(title, season, episode)
	case r.includeYear:
		stem = r.naming.FormatMovieName(title, r.year)
	default:
		stem = title
	}
	return dir, stem + ext, nil
}

// Plan reports where path would be moved without touching it. Collides is
// true when the target is occupied by a different file.
func (r *Renamer) Plan(path string, season, episode int, episodic bool) (string, bool, error) {
	dir, name, err := r.ComputeName(path, season, episode, episodic)
	if err != nil {
		return "", false, err
	}
	target := filepath.Join(dir, name)
	if target == filepath.Clean(path) {
		return target, false, nil
	}
	exists, err := fileutil.Exists(target)
	if err != nil {
		return target, false, services.Wrap(services.ClassifyFS(err), "renamer", "plan", target, err)
	}
	return target, exists && !fileutil.SameFile(path, target), nil
}

// Rename moves path to its canonical name in the same directory.
func (r *Renamer) Rename(ctx context.Context, path string, season, episode int, episodic bool) media.RenameResult {
	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldFile, path))
	result, ok := checkSource(ctx, logger, path)
	if !ok {
		return result
	}
	dir, name, err := r.ComputeName(path, season, episode, episodic)
	if err != nil {
		return fail(logger, result, err, "cannot compute name", err.Error())
	}
	return move(logger, result, filepath.Join(dir, name))
}

// Move renames src to dst with the same collision rules as Rename. It is
// used to revert earlier renames.
func Move(ctx context.Context, logger *slog.Logger, src, dst string) media.RenameResult {
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "renamer")).
		With(logging.String(logging.FieldFile, src))
	result, ok := checkSource(ctx, logger, src)
	if !ok {
		return result
	}
	if strings.TrimSpace(dst) == "" {
		err := services.Wrap(services.ErrInvalidArgument, "renamer", "move", "empty target", nil)
		return fail(logger, result, err, "cannot move", err.Error())
	}
	return move(logger, result, filepath.Clean(dst))
}

func checkSource(ctx context.Context, logger *slog.Logger, path string) (media.RenameResult, bool) {
	result := media.RenameResult{OriginalPath: path}
	if err := ctx.Err(); err != nil {
		return fail(logger, result, err, "rename cancelled", err.Error()), false
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cause := services.Wrap(services.ErrSourceNotFound, "renamer", "rename", path, err)
			return fail(logger, result, cause, "source missing", "File does not exist: "+path), false
		}
		return osFailure(logger, result, err), false
	}
	return result, true
}

func move(logger *slog.Logger, result media.RenameResult, target string) media.RenameResult {
	path := result.OriginalPath
	if target == filepath.Clean(path) {
		result.Success = true
		result.NewPath = path
		logger.Debug("name already canonical", logging.String(logging.FieldEventType, "rename_unchanged"))
		return result
	}

	exists, err := fileutil.Exists(target)
	if err != nil {
		return osFailure(logger, result, err)
	}
	if exists {
		if !fileutil.SameFile(path, target) {
			return targetExists(logger, result, target, nil)
		}
		// Case-only change on a case-insensitive filesystem.
		err = os.Rename(path, target)
	} else {
		err = fileutil.RenameNoReplace(path, target)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return targetExists(logger, result, target, err)
		}
		return osFailure(logger, result, err)
	}

	result.Success = true
	result.NewPath = target
	logger.Info("file renamed",
		logging.String(logging.FieldTarget, target),
		logging.String("from", filepath.Base(path)),
		logging.String("to", filepath.Base(target)),
		logging.String(logging.FieldEventType, "rename_complete"),
	)
	return result
}

// RenameEntry renames entry and updates its Path on success.
func (r *Renamer) RenameEntry(ctx context.Context, entry *media.MediaFile, season, episode int, episodic bool) media.RenameResult {
	if entry == nil {
		err := services.Wrap(services.ErrInvalidArgument, "renamer", "rename", "nil entry", nil)
		return media.RenameResult{Error: err.Error(), Cause: err}
	}
	result := r.Rename(ctx, entry.Path, season, episode, episodic)
	if result.Success {
		entry.Path = result.NewPath
	}
	return result
}

func targetExists(logger *slog.Logger, result media.RenameResult, target string, err error) media.RenameResult {
	cause := services.Wrap(services.ErrTargetExists, "renamer", "rename", target, err)
	logging.WarnWithContext(logger, "rename target occupied", "rename_collision",
		logging.String(logging.FieldTarget, target),
		logging.String(logging.FieldErrorHint, "pick another episode number or move the existing file"),
	)
	result.Error = "Target file already exists: " + target
	result.Cause = cause
	return result
}

func osFailure(logger *slog.Logger, result media.RenameResult, err error) media.RenameResult {
	marker := services.ClassifyFS(err)
	cause := services.Wrap(marker, "renamer", "rename", result.OriginalPath, err)
	if errors.Is(marker, services.ErrPermissionDenied) {
		return fail(logger, result, cause, "rename not permitted", fmt.Sprintf("Permission denied: %v", err))
	}
	return fail(logger, result, cause, "rename failed", fmt.Sprintf("OS error during rename: %v", err))
}

func fail(logger *slog.Logger, result media.RenameResult, cause error, msg, display string) media.RenameResult {
	logging.ErrorWithContext(logger, msg, "rename_failed", logging.Error(cause))
	result.Error = display
	result.Cause = cause
	return result
}
