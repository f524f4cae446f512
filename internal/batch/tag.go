package batch

import (
	"context"
	"strings"
	"time"

	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/scanner"
)

// TagRequest configures a metadata batch. When Metadata.Episode is positive
// each selected file receives Episode+index.
type TagRequest struct {
	Root     string
	Metadata media.Metadata
}

// normalizeGenre returns the canonical spelling of genre, or an error when it
// is not one of the fixed genres. Empty stays empty.
func normalizeGenre(operation, genre string) (string, error) {
	if strings.TrimSpace(genre) == "" {
		return "", nil
	}
	g, ok := media.ParseGenre(genre)
	if !ok {
		return "", invalid(operation, "unknown genre "+genre)
	}
	return g.String(), nil
}

// TagAll writes metadata to every selected entry.
func (r *Runner) TagAll(ctx context.Context, files []*media.MediaFile, req TagRequest, progress Progress) (Summary, error) {
	if r.metadata == nil {
		return Summary{Kind: journal.KindMetadata}, invalid("tag", "no metadata manager configured")
	}
	base := req.Metadata
	genre, err := normalizeGenre("tag", base.Genre)
	if err != nil {
		return Summary{Kind: journal.KindMetadata}, err
	}
	base.Genre = genre
	if base.Season < 0 || base.Episode < 0 || base.Year < 0 {
		return Summary{Kind: journal.KindMetadata}, invalid("tag", "season, episode and year must not be negative")
	}

	started := time.Now()
	ctx, summary, err := r.begin(ctx, journal.KindMetadata, req.Root, false)
	if err != nil {
		return summary, err
	}
	todo := scanner.Selected(files)
	summary.Total = len(todo)
	summary.Skipped = len(files) - len(todo)

	for i, entry := range todo {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		meta := base
		if base.Episode > 0 {
			meta.Episode = base.Episode + i
		}
		res := r.metadata.UpdateMetadata(ctx, entry.Path, meta)
		r.recordMetadata(ctx, summary.BatchID, res)
		if res.Success {
			entry.Metadata = meta
		}
		summary.add(Event{
			Kind:    journal.KindMetadata,
			Index:   i,
			Total:   len(todo),
			Path:    entry.Path,
			Episode: meta.Episode,
			Success: res.Success,
			Message: res.Message(),
		}, progress)
	}
	return summary, r.finish(ctx, &summary, started)
}
