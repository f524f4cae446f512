package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/services"
	"mediaorganizer/internal/textutil"
)

// Scanner walks directory trees looking for media files.
type Scanner struct {
	extensions map[string]struct{}
	logger     *slog.Logger
}

// New returns a scanner matching the extensions configured in naming.
func New(naming config.Naming, logger *slog.Logger) *Scanner {
	return &Scanner{
		extensions: naming.ExtensionSet(),
		logger:     logging.NewComponentLogger(logger, "scanner"),
	}
}

// Scan walks dir recursively and returns one selected entry per media file.
//
// A missing or non-directory root yields an empty slice and an error wrapping
// services.ErrNotADirectory. Errors below the root are logged and the subtree
// skipped. When ctx is cancelled the entries found so far are returned along
// with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, dir string) ([]*media.MediaFile, error) {
	logger := logging.WithContext(ctx, s.logger)

	root, err := s.resolveRoot(dir)
	if err != nil {
		logging.ErrorWithContext(logger, "scan root unusable", "scan_root_invalid",
			logging.String("dir", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "choose an existing directory"),
		)
		return []*media.MediaFile{}, err
	}

	files := make([]*media.MediaFile, 0, 32)
	skipped := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			skipped++
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_path_skipped",
				logging.String(logging.FieldFile, path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "files below this path are not listed"),
				logging.String(logging.FieldErrorHint, "check permissions on the directory"),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.matches(path) {
			return nil
		}
		files = append(files, media.NewMediaFile(normalizePath(path, root, dir)))
		logger.Debug("found media file", logging.String(logging.FieldFile, path))
		return nil
	})

	sortByName(files)

	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			logger.Info("scan cancelled",
				logging.String("dir", dir),
				logging.Int("count", len(files)),
				logging.String(logging.FieldEventType, "scan_cancelled"),
			)
			return files, walkErr
		}
		// The root itself failed to read; report what we have as a partial result.
		logging.ErrorWithContext(logger, "scan aborted", "scan_failed",
			logging.String("dir", dir),
			logging.Error(walkErr),
		)
		return files, services.Wrap(services.ClassifyFS(walkErr), "scanner", "scan", dir, walkErr)
	}

	logger.Info("scan complete",
		logging.String("dir", dir),
		logging.Int("count", len(files)),
		logging.Int("skipped", skipped),
		logging.String(logging.FieldEventType, "scan_complete"),
	)
	return files, nil
}

func (s *Scanner) resolveRoot(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", services.Wrap(services.ErrNotADirectory, "scanner", "scan", "empty directory path", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", services.Wrap(services.ErrNotADirectory, "scanner", "scan", fmt.Sprintf("%s does not exist", dir), err)
	}
	if !info.IsDir() {
		return "", services.Wrap(services.ErrNotADirectory, "scanner", "scan", fmt.Sprintf("%s is not a directory", dir), nil)
	}
	// WalkDir does not descend into a symlinked root; a trailing separator
	// makes the initial Lstat resolve the link.
	if linfo, err := os.Lstat(dir); err == nil && linfo.Mode()&fs.ModeSymlink != 0 {
		return dir + string(filepath.Separator), nil
	}
	return dir, nil
}

func (s *Scanner) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	_, ok := s.extensions[ext]
	return ok
}

// normalizePath restores the caller's spelling of the root for entries found
// below a symlinked root.
func normalizePath(path, root, dir string) string {
	if root == dir {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.Join(dir, rel)
}

func sortByName(files []*media.MediaFile) {
	keys := make(map[*media.MediaFile]string, len(files))
	for _, f := range files {
		keys[f] = textutil.Fold(f.OriginalName)
	}
	sort.SliceStable(files, func(i, j int) bool {
		return keys[files[i]] < keys[files[j]]
	})
}

// FilterByExtension returns the entries whose extension matches ext, given
// with or without the leading dot in any case.
func FilterByExtension(files []*media.MediaFile, ext string) []*media.MediaFile {
	want := config.NormalizeExtension(ext)
	out := make([]*media.MediaFile, 0, len(files))
	for _, f := range files {
		if f.Extension() == want {
			out = append(out, f)
		}
	}
	return out
}

// Selected returns the entries whose Selected flag is set.
func Selected(files []*media.MediaFile) []*media.MediaFile {
	out := make([]*media.MediaFile, 0, len(files))
	for _, f := range files {
		if f.Selected {
			out = append(out, f)
		}
	}
	return out
}
