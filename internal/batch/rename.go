package batch

import (
	"context"
	"time"

	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/scanner"
)

// RenameRequest configures a rename batch. Season and Episode are the
// starting numbers for episodic batches.
type RenameRequest struct {
	Root        string
	Title       string
	Season      int
	Episode     int
	Episodic    bool
	Year        int
	IncludeYear bool
	Padding     int
	DryRun      bool
}

func (req RenameRequest) validate(operation string) error {
	if err := requireTitle(operation, req.Title); err != nil {
		return err
	}
	if req.Episodic && (req.Season < 0 || req.Episode < 0) {
		return invalid(operation, "season and episode must not be negative")
	}
	return nil
}

// RenameAll renames every selected entry. The episode number advances after
// each successful rename; a dry run assumes every rename succeeds.
func (r *Runner) RenameAll(ctx context.Context, files []*media.MediaFile, req RenameRequest, progress Progress) (Summary, error) {
	if err := req.validate("rename"); err != nil {
		return Summary{Kind: journal.KindRename}, err
	}
	rn, err := r.newRenamer(req)
	if err != nil {
		return Summary{Kind: journal.KindRename}, err
	}
	started := time.Now()
	ctx, summary, err := r.begin(ctx, journal.KindRename, req.Root, req.DryRun)
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
			Kind:    journal.KindRename,
			Index:   i,
			Total:   len(todo),
			Path:    entry.Path,
			Episode: s.current(),
			DryRun:  req.DryRun,
		}
		if req.DryRun {
			planInto(&ev, rn.Plan, entry.Path, req.Season, s.next, req.Episodic)
			s.advance(true)
		} else {
			res := rn.RenameEntry(ctx, entry, req.Season, s.next, req.Episodic)
			r.recordRename(ctx, summary.BatchID, res)
			ev.Success, ev.Target, ev.Message = res.Success, res.NewPath, res.Message()
			s.advance(res.Success)
		}
		summary.add(ev, progress)
	}
	return summary, r.finish(ctx, &summary, started)
}

// sequence hands out episode numbers for an episodic batch.
type sequence struct {
	next     int
	episodic bool
}

func (s *sequence) current() int {
	if !s.episodic {
		return 0
	}
	return s.next
}

func (s *sequence) advance(ok bool) {
	if s.episodic && ok {
		s.next++
	}
}

type planFunc func(path string, season, episode int, episodic bool) (string, bool, error)

func planInto(ev *Event, plan planFunc, path string, season, episode int, episodic bool) {
	target, collides, err := plan(path, season, episode, episodic)
	switch {
	case err != nil:
		ev.Message = "Failed: " + err.Error()
	case collides:
		ev.Target, ev.Collides = target, true
		ev.Message = "Would collide with " + target
	default:
		ev.Target, ev.Success = target, true
		ev.Message = "Would rename to " + target
	}
}
