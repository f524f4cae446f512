package batch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediaorganizer/internal/config"
	"mediaorganizer/internal/journal"
	"mediaorganizer/internal/logging"
	"mediaorganizer/internal/media"
	"mediaorganizer/internal/renamer"
	"mediaorganizer/internal/services"
)

// MetadataUpdater writes metadata for one file.
type MetadataUpdater interface {
	UpdateMetadata(ctx context.Context, path string, meta media.Metadata) media.MetadataUpdateResult
}

// Journal records batches. *journal.Journal satisfies it.
type Journal interface {
	BeginBatch(ctx context.Context, kind journal.Kind, root string) (journal.Batch, error)
	RecordRename(ctx context.Context, batchID string, result media.RenameResult) error
	RecordMetadata(ctx context.Context, batchID string, result media.MetadataUpdateResult) error
	GetBatch(ctx context.Context, id string) (journal.Batch, error)
	LatestBatch(ctx context.Context, kinds ...journal.Kind) (journal.Batch, error)
	Operations(ctx context.Context, batchID string) ([]journal.Operation, error)
	MarkUndone(ctx context.Context, batchID string) error
}

var _ Journal = (*journal.Journal)(nil)

// RenamerFactory builds the renamer for one rename request.
type RenamerFactory func(req RenameRequest) (*renamer.Renamer, error)

// NewRenamerFactory returns a factory that applies the request's padding,
// year and include-year settings on top of naming.
func NewRenamerFactory(naming config.Naming, logger *slog.Logger) RenamerFactory {
	return func(req RenameRequest) (*renamer.Renamer, error) {
		n := naming
		if req.Padding != 0 {
			var err error
			if n, err = naming.WithPadding(req.Padding); err != nil {
				return nil, services.Wrap(services.ErrInvalidArgument, "batch", "rename", err.Error(), nil)
			}
		}
		opts := []renamer.Option{
			renamer.WithIncludeYear(req.IncludeYear),
			renamer.WithLogger(logger),
		}
		if req.Year > 0 {
			opts = append(opts, renamer.WithYear(req.Year))
		}
		return renamer.New(n, req.Title, opts...), nil
	}
}

// Event is the outcome of one file.
type Event struct {
	Kind     journal.Kind `json:"kind"`
	Index    int          `json:"index"`
	Total    int          `json:"total"`
	Path     string       `json:"path"`
	Target   string       `json:"target,omitempty"`
	Episode  int          `json:"episode,omitempty"`
	Success  bool         `json:"success"`
	DryRun   bool         `json:"dry_run,omitempty"`
	Collides bool         `json:"collides,omitempty"`
	Message  string       `json:"message"`
}

// Progress receives one Event per processed file.
type Progress func(Event)

// Summary collects the events of a finished batch.
type Summary struct {
	BatchID   string        `json:"batch_id"`
	Kind      journal.Kind  `json:"kind"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Cancelled bool          `json:"cancelled"`
	Duration  time.Duration `json:"duration"`
	Events    []Event       `json:"events"`
}

func (s *Summary) add(ev Event, progress Progress) {
	s.Events = append(s.Events, ev)
	if ev.Success {
		s.Succeeded++
	} else {
		s.Failed++
	}
	if progress != nil {
		progress(ev)
	}
}

// Runner executes batches sequentially.
type Runner struct {
	newRenamer RenamerFactory
	metadata   MetadataUpdater
	journal    Journal
	logger     *slog.Logger
}

// NewRunner wires a runner. metadata may be nil when only renames are run and
// j may be nil to skip journaling.
func NewRunner(newRenamer RenamerFactory, metadata MetadataUpdater, j Journal, logger *slog.Logger) *Runner {
	return &Runner{
		newRenamer: newRenamer,
		metadata:   metadata,
		journal:    j,
		logger:     logging.NewComponentLogger(logger, "batch"),
	}
}

// begin assigns the batch ID and annotates ctx for logging. Dry runs are not
// journaled. A batch cancelled before it starts returns a cancelled summary
// and ctx.Err() without touching the journal.
func (r *Runner) begin(ctx context.Context, kind journal.Kind, root string, dryRun bool) (context.Context, Summary, error) {
	summary := Summary{Kind: kind}
	if err := ctx.Err(); err != nil {
		summary.Cancelled = true
		return ctx, summary, err
	}
	if r.journal != nil && !dryRun {
		batch, err := r.journal.BeginBatch(context.WithoutCancel(ctx), kind, root)
		if err != nil {
			return ctx, summary, services.Wrap(services.ErrOS, "batch", "begin", "journal unavailable", err)
		}
		summary.BatchID = batch.ID
	} else {
		summary.BatchID = uuid.NewString()
	}
	ctx = services.WithBatchID(ctx, summary.BatchID)
	ctx = services.WithOperation(ctx, string(kind))
	logging.WithContext(ctx, r.logger).Info("batch started",
		logging.String("root", root),
		logging.Bool("dry_run", dryRun),
		logging.String(logging.FieldEventType, "batch_started"),
	)
	return ctx, summary, nil
}

func (r *Runner) finish(ctx context.Context, summary *Summary, started time.Time) error {
	summary.Duration = time.Since(started)
	attrs := []logging.Attr{
		logging.Int("total", summary.Total),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	}
	logger := logging.WithContext(ctx, r.logger)
	if summary.Cancelled {
		logger.Warn("batch cancelled", logging.Args(append(attrs,
			logging.String(logging.FieldEventType, "batch_cancelled"),
			logging.String(logging.FieldImpact, "remaining files were not processed"),
			logging.String(logging.FieldErrorHint, "rerun the command for the remaining files"),
		)...)...)
		return ctx.Err()
	}
	logger.Info("batch complete", logging.Args(append(attrs,
		logging.String(logging.FieldEventType, "batch_complete"),
	)...)...)
	return nil
}

// Journal writes ignore cancellation: the operation they describe has
// already happened and must stay undoable.

func (r *Runner) recordRename(ctx context.Context, batchID string, result media.RenameResult) {
	if r.journal == nil {
		return
	}
	if err := r.journal.RecordRename(context.WithoutCancel(ctx), batchID, result); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "journal write failed", "journal_write_failed",
			logging.String(logging.FieldFile, result.OriginalPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this rename cannot be undone automatically"),
		)
	}
}

func (r *Runner) recordMetadata(ctx context.Context, batchID string, result media.MetadataUpdateResult) {
	if r.journal == nil {
		return
	}
	if err := r.journal.RecordMetadata(context.WithoutCancel(ctx), batchID, result); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "journal write failed", "journal_write_failed",
			logging.String(logging.FieldFile, result.FilePath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "history is incomplete for this batch"),
		)
	}
}

func invalid(operation, message string) error {
	return services.Wrap(services.ErrInvalidArgument, "batch", operation, message, nil)
}

func requireTitle(operation, title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid(operation, "title is required")
	}
	return nil
}
