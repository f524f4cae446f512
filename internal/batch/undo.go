package batch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/renamer"
	"mediaorganizer/internal/services"
)

// ErrAlreadyUndone reports an undo of a batch that was already reverted.
var ErrAlreadyUndone = errors.New("batch already undone")

// Undo moves every file renamed by a batch back to its original path, in
// reverse order. An empty id selects the newest rename or organize batch that
// has not been undone. The batch is marked undone only when every move
// succeeds. A retry after a partial undo skips the files already back in
// place.
func (r *Runner) Undo(ctx context.Context, id string, progress Progress) (Summary, error) {
	if r.journal == nil {
		return Summary{Kind: journal.KindUndo}, invalid("undo", "journal is disabled")
	}
	var (
		target journal.Batch
		err    error
	)
	if id == "" {
		target, err = r.journal.LatestBatch(ctx, journal.KindRename, journal.KindOrganize)
	} else {
		target, err = r.journal.GetBatch(ctx, id)
	}
	if err != nil {
		return Summary{Kind: journal.KindUndo}, err
	}
	if !target.Kind.Undoable() {
		return Summary{Kind: journal.KindUndo}, invalid("undo", "batch "+target.ID+" is a "+string(target.Kind)+" batch and has no renames to revert")
	}
	if target.Undone() {
		return Summary{Kind: journal.KindUndo}, services.Wrap(ErrAlreadyUndone, "batch", "undo", target.ID, nil)
	}
	ops, err := r.journal.Operations(ctx, target.ID)
	if err != nil {
		return Summary{Kind: journal.KindUndo}, err
	}
	moves := make([]journal.Operation, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Moved() {
			moves = append(moves, ops[i])
		}
	}

	started := time.Now()
	ctx, summary, err := r.begin(ctx, journal.KindUndo, target.Root, false)
	if err != nil {
		return summary, err
	}
	summary.Total = len(moves)
	for i, op := range moves {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		ev := Event{
			Kind:   journal.KindUndo,
			Index:  i,
			Total:  len(moves),
			Path:   op.Target,
			Target: op.Source,
		}
		if restored(op) {
			ev.Success, ev.Message = true, "Already restored to "+op.Source
		} else {
			res := renamer.Move(ctx, r.logger, op.Target, op.Source)
			r.recordRename(ctx, summary.BatchID, res)
			ev.Success, ev.Message = res.Success, res.Message()
		}
		summary.add(ev, progress)
	}
	if err := r.finish(ctx, &summary, started); err != nil {
		return summary, err
	}
	if summary.Failed == 0 {
		if err := r.journal.MarkUndone(context.WithoutCancel(ctx), target.ID); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// restored reports whether an earlier, partial undo already moved op back:
// the source name is occupied and the renamed file is gone.
func restored(op journal.Operation) bool {
	if _, err := os.Lstat(op.Target); !errors.Is(err, fs.ErrNotExist) {
		return false
	}
	_, err := os.Lstat(op.Source)
	return err == nil
}
