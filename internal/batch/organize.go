package batch

import (
	"context"
	"time"

	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/scanner"
)

// OrganizeRequest renames each selected file and then tags it with the same
// title and numbering.
type OrganizeRequest struct {
	RenameRequest
	Genre      string
	Collection string
}

// OrganizeAll renames then tags every selected entry. Tagging uses the
// post-rename path and is skipped when the rename fails. A dry run only plans
// the renames.
func (r *Runner) OrganizeAll(ctx context.Context, files []*media.MediaFile, req OrganizeRequest, progress Progress) (Summary, error) {
	fail := func(err error) (Summary, error) { return Summary{Kind: journal.KindOrganize}, err }
	if err := req.validate("organize"); err != nil {
		return fail(err)
	}
	if r.metadata == nil && !req.DryRun {
		return fail(invalid("organize", "no metadata manager configured"))
	}
	genre, err := normalizeGenre("organize", req.Genre)
	if err != nil {
		return fail(err)
	}
	rn, err := r.newRenamer(req.RenameRequest)
	if err != nil {
		return fail(err)
	}

	started := time.Now()
	ctx, summary, err := r.begin(ctx, journal.KindOrganize, req.Root, req.DryRun)
	if err != nil {
		return summary, err
	}
	todo := scanner.Selected(files)
	summary.Total = len(todo)
	summary.Skipped = len(files) - len(todo)

	s := sequence{next: req.Episode, episodic: req.Episodic}
	for i, entry := range todo {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		ev := Event{
			Kind:    journal.KindOrganize,
			Index:   i,
			Total:   len(todo),
			Path:    entry.Path,
			Episode: s.current(),
			DryRun:  req.DryRun,
		}
		if req.DryRun {
			planInto(&ev, rn.Plan, entry.Path, req.Season, s.next, req.Episodic)
			s.advance(true)
			summary.add(ev, progress)
			continue
		}

		res := rn.RenameEntry(ctx, entry, req.Season, s.next, req.Episodic)
		r.recordRename(ctx, summary.BatchID, res)
		ev.Target = res.NewPath
		if !res.Success {
			ev.Message = res.Message() + " (metadata skipped)"
			summary.add(ev, progress)
			continue
		}

		meta := media.Metadata{
			Title:      rn.Title(),
			Genre:      genre,
			Collection: req.Collection,
			Year:       req.Year,
		}
		if meta.Year == 0 && req.IncludeYear {
			meta.Year = rn.Year()
		}
		if req.Episodic {
			meta.Season, meta.Episode = req.Season, s.next
		}
		s.advance(true)
		update := r.metadata.UpdateMetadata(ctx, entry.Path, meta)
		r.recordMetadata(ctx, summary.BatchID, update)
		if update.Success {
			entry.Metadata = meta
		}
		ev.Success = update.Success
		if update.Success {
			ev.Message = res.Message() + ", tagged"
		} else {
			ev.Message = res.Message() + ", tagging failed: " + update.Error
		}
		summary.add(ev, progress)
	}
	return summary, r.finish(ctx, &summary, started)
}
