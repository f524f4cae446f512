package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/metadata/mkvtags"
	"mediaorganizer/internal/metadata/mp4tags"
	"mediaorganizer/internal/services"
)

const (
	errUnsupported = "unsupported file type"
	errWriteFailed = "editor write failed"
)

// Manager dispatches metadata operations by file extension.
type Manager struct {
	naming  config.Naming
	editors map[string]Editor
	logger  *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEditor registers editor for ext (any case, dot optional). A later
// registration for the same extension wins.
func WithEditor(ext string, editor Editor) ManagerOption {
	return func(m *Manager) {
		if ext = config.NormalizeExtension(ext); ext != "" && editor != nil {
			m.editors[ext] = editor
		}
	}
}

// WithEditorForAll registers editor for every extension it reports.
func WithEditorForAll(editor Editor) ManagerOption {
	return func(m *Manager) {
		if editor == nil {
			return
		}
		for _, ext := range editor.SupportedExtensions() {
			WithEditor(ext, editor)(m)
		}
	}
}

// NewManager returns a manager with only the given editors registered.
func NewManager(naming config.Naming, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		naming:  naming,
		editors: make(map[string]Editor),
		logger:  logging.NewComponentLogger(logger, "metadata"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewDefaultManager registers the MPEG-4 editor for .mp4/.m4v and the
// Matroska editor for .mkv.
func NewDefaultManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return NewManager(cfg.Naming, logger,
		WithEditorForAll(mp4tags.New(logger)),
		WithEditorForAll(mkvtags.New(cfg.Tools, mkvtags.WithLogger(logger))),
	)
}

// Editor returns the editor registered for ext, if any.
func (m *Manager) Editor(ext string) (Editor, bool) {
	editor, ok := m.editors[config.NormalizeExtension(ext)]
	return editor, ok
}

// SupportedExtensions lists the registered extensions in sorted order.
func (m *Manager) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.editors))
	for ext := range m.editors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ReadMetadata returns the metadata stored in path. Unsupported files and
// editor panics yield an empty record.
func (m *Manager) ReadMetadata(ctx context.Context, path string) (meta media.Metadata) {
	logger := logging.WithContext(ctx, m.logger).With(logging.String(logging.FieldFile, path))
	editor, ok := m.Editor(filepath.Ext(path))
	if !ok {
		logging.WarnWithContext(logger, "no metadata editor for file type", "metadata_unsupported",
			logging.String("extension", filepath.Ext(path)),
			logging.String(logging.FieldImpact, "metadata shown as empty"),
			logging.String(logging.FieldErrorHint, "supported: "+strings.Join(m.SupportedExtensions(), ", ")),
		)
		return media.Metadata{}
	}
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(logger, "metadata editor panicked", "metadata_read_panic",
				logging.String("panic", fmt.Sprint(r)),
			)
			meta = media.Metadata{}
		}
	}()
	logger.Debug("reading metadata")
	return editor.Read(ctx, path)
}

// UpdateMetadata writes meta to path. When title, season and episode are all
// set the title becomes the formatted episode name.
func (m *Manager) UpdateMetadata(ctx context.Context, path string, meta media.Metadata) media.MetadataUpdateResult {
	logger := logging.WithContext(ctx, m.logger).With(logging.String(logging.FieldFile, path))
	result := media.MetadataUpdateResult{FilePath: path}

	if meta.Title != "" && meta.IsEpisodic() {
		meta.Title = m.naming.FormatEpisodeName(meta.Title, meta.Season, meta.Episode)
	}

	editor, ok := m.Editor(filepath.Ext(path))
	if !ok {
		cause := services.Wrap(services.ErrUnsupportedFormat, "metadata", "update", filepath.Ext(path), nil)
		logging.WarnWithContext(logger, "no metadata editor for file type", "metadata_unsupported",
			logging.String("extension", filepath.Ext(path)),
			logging.String(logging.FieldErrorHint, "supported: "+strings.Join(m.SupportedExtensions(), ", ")),
		)
		result.Error = errUnsupported
		result.Cause = cause
		return result
	}

	if err := safeWrite(ctx, editor, path, meta); err != nil {
		result.Cause = err
		result.Error = err.Error()
		if errors.Is(err, services.ErrEditorWriteFailed) {
			result.Error = errWriteFailed
		}
		logging.ErrorWithContext(logger, "metadata update failed", "metadata_update_failed",
			logging.Error(err),
		)
		return result
	}

	result.Success = true
	logger.Info("metadata updated",
		logging.String("title", meta.Title),
		logging.Int("season", meta.Season),
		logging.Int("episode", meta.Episode),
		logging.String(logging.FieldEventType, "metadata_updated"),
	)
	return result
}

// UpdateMetadataFields accepts the map form of a record (see
// media.MetadataFromMap).
func (m *Manager) UpdateMetadataFields(ctx context.Context, path string, fields map[string]any) media.MetadataUpdateResult {
	return m.UpdateMetadata(ctx, path, media.MetadataFromMap(fields))
}

func safeWrite(ctx context.Context, editor Editor, path string, meta media.Metadata) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return editor.Write(ctx, path, meta)
}
