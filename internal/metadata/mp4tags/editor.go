package mp4tags

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	mp4 "github.com/abema/go-mp4"

	"mediaorganizer/internal/fileutil"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/services"
)

// Editor reads and writes MPEG-4 ilst tags in process.
type Editor struct {
	logger *slog.Logger
}

// New returns an MPEG-4 tag editor.
func New(logger *slog.Logger) *Editor {
	return &Editor{logger: logging.NewComponentLogger(logger, "mp4tags")}
}

func (e *Editor) SupportedExtensions() []string {
	return []string{".mp4", ".m4v"}
}

// Read returns the tags stored in path. Any failure is logged and yields an
// empty record; unparsable values read as zero.
func (e *Editor) Read(ctx context.Context, path string) media.Metadata {
	logger := logging.WithContext(ctx, e.logger).With(logging.String(logging.FieldFile, path))
	meta, err := ReadTags(path)
	if err != nil {
		logging.WarnWithContext(logger, "cannot read mp4 tags", "mp4_read_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "metadata shown as empty"),
			logging.String(logging.FieldErrorHint, "verify the file is a valid MP4"),
		)
		return media.Metadata{}
	}
	return meta
}

// Write stores the set fields of meta in path. Zero fields leave existing
// tags alone; a record with nothing to write succeeds without touching the
// file.
func (e *Editor) Write(ctx context.Context, path string, meta media.Metadata) error {
	logger := logging.WithContext(ctx, e.logger).With(logging.String(logging.FieldFile, path))
	tags := tagsFor(meta)
	if len(tags) == 0 {
		logger.Debug("no mp4 tags to write")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrEditorWriteFailed, "mp4tags", "write", path, err)
	}
	if err := WriteTags(path, meta); err != nil {
		logging.ErrorWithContext(logger, "mp4 tag write failed", "mp4_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the file is a valid MP4 and the directory is writable"),
		)
		return services.Wrap(services.ErrEditorWriteFailed, "mp4tags", "write", path, err)
	}
	logger.Debug("mp4 tags written", logging.Int("tags", len(tags)))
	return nil
}

// ReadTags decodes the tracked ilst items of path. The first occurrence of
// each item wins.
func ReadTags(path string) (media.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.Metadata{}, err
	}
	defer f.Close()

	var meta media.Metadata
	seen := make(map[mp4.BoxType]bool, 5)
	_, err = mp4.ReadBoxStructure(f, func(h *mp4.ReadHandle) (interface{}, error) {
		p := h.Path
		switch {
		case pathIs(p, typeMoov),
			pathIs(p, typeMoov, typeUdta),
			pathIs(p, typeMoov, typeUdta, typeMeta),
			pathIs(p, typeMoov, typeUdta, typeMeta, typeIlst):
			return h.Expand()
		case len(p) == 5 && pathIs(p[:4], typeMoov, typeUdta, typeMeta, typeIlst) && trackedTag(p[4]) && !seen[p[4]]:
			return h.Expand()
		case len(p) == 6 && p[5] == typeData && pathIs(p[:4], typeMoov, typeUdta, typeMeta, typeIlst) && !seen[p[4]]:
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if data, ok := box.(*mp4.Data); ok && applyTag(&meta, p[4], data) {
				seen[p[4]] = true
			}
		}
		return nil, nil
	})
	if err != nil {
		return media.Metadata{}, fmt.Errorf("%w: %w", services.ErrUnparseable, err)
	}
	return meta, nil
}

// WriteTags rewrites path so the set fields of meta replace the matching ilst
// items.
func WriteTags(path string, meta media.Metadata) error {
	tags := tagsFor(meta)
	if len(tags) == 0 {
		return nil
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	return fileutil.ReplaceFile(path, func(tmp *os.File) error {
		rw := newRewriter(src, tmp, tags)
		if err := rw.run(); err != nil {
			return err
		}
		threshold := rw.oldMoov.Offset + rw.oldMoov.Size
		return shiftChunkOffsets(tmp, rw.tables, threshold, rw.delta())
	})
}
