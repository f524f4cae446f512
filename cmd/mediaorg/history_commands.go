package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediaorganizer/internal/journal"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "List recorded batches, or the operations of one batch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			j, err := ctx.requireJournal(cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			if len(args) == 1 {
				b, err := j.GetBatch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				ops, err := j.Operations(cmd.Context(), b.ID)
				if err != nil {
					return err
				}
				if asJSON {
					b.Operations = len(ops)
					return writeJSON(cmd, struct {
						journal.Batch
						Entries []journal.Operation `json:"entries"`
					}{b, ops})
				}
				renderBatchOperations(cmd, b, ops)
				return nil
			}

			batches, err := j.ListBatches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, batches)
			}
			out := cmd.OutOrStdout()
			if len(batches) == 0 {
				fmt.Fprintln(out, "No batches recorded")
				return nil
			}
			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					shortID(b.ID),
					string(b.Kind),
					b.CreatedAt.Local().Format(historyTimeLayout),
					strconv.Itoa(b.Operations),
					strconv.Itoa(b.Failures),
					yesNo(b.Undone()),
					b.Root,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Batch", "Kind", "Created", "Files", "Failed", "Undone", "Root"},
				rows,
				rightAligned{3, 4},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of batches to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderBatchOperations(cmd *cobra.Command, b journal.Batch, ops []journal.Operation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch %s (%s) created %s\n", b.ID, b.Kind, b.CreatedAt.Local().Format(historyTimeLayout))
	if b.Undone() {
		fmt.Fprintf(out, "Undone %s\n", b.UndoneAt.Local().Format(time.RFC3339))
	}
	if len(ops) == 0 {
		fmt.Fprintln(out, "No operations recorded")
		return
	}
	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		result := "ok"
		if !op.Success {
			result = op.Error
		}
		target := ""
		if op.Target != "" {
			target = filepath.Base(op.Target)
		}
		rows = append(rows, []string{string(op.Kind), filepath.Base(op.Source), target, result})
	}
	fmt.Fprintln(out, renderTable([]string{"Kind", "Source", "Target", "Result"}, rows, nil))
}

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "undo [batch-id]",
		Short: "Revert the renames of a batch (default: the newest one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			j, err := ctx.requireJournal(cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			target, err := undoTarget(cmd, j, id)
			if err != nil {
				return err
			}
			if target.Root != "" {
				unlock, err := lockTree(cfg, target.Root)
				if err != nil {
					return err
				}
				defer unlock()
			}

			runner := ctx.newRunner(cfg, cfg.Naming, j)
			summary, err := runner.Undo(cmd.Context(), target.ID, batchProgress(cmd, asJSON))
			return finishBatch(cmd, "Restored", asJSON, summary, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the batch summary as JSON")
	return cmd
}

// undoTarget resolves the batch to revert so its root can be locked first.
func undoTarget(cmd *cobra.Command, j *journal.Journal, id string) (journal.Batch, error) {
	if id == "" {
		b, err := j.LatestBatch(cmd.Context(), journal.KindRename, journal.KindOrganize)
		if err != nil {
			return journal.Batch{}, fmt.Errorf("nothing to undo: %w", err)
		}
		return b, nil
	}
	return j.GetBatch(cmd.Context(), id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
