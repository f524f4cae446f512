package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediaorganizer/internal/media"
)

// ErrBatchNotFound is returned when a batch ID does not resolve.
var ErrBatchNotFound = errors.New("batch not found")

const batchColumns = `b.id, b.kind, b.root, b.created_at, b.undone_at,
    (SELECT COUNT(1) FROM operations o WHERE o.batch_id = b.id),
    (SELECT COUNT(1) FROM operations o WHERE o.batch_id = b.id AND o.success = 0)`

const operationColumns = "id, batch_id, kind, source, target, success, error, created_at"

// BeginBatch creates a batch with a fresh UUID.
func (j *Journal) BeginBatch(ctx context.Context, kind Kind, root string) (Batch, error) {
	batch := Batch{
		ID:        uuid.NewString(),
		Kind:      kind,
		Root:      root,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := j.execWithRetry(ctx,
		`INSERT INTO batches (id, kind, root, created_at) VALUES (?, ?, ?, ?)`,
		batch.ID, string(kind), nullableString(root), nullableTime(batch.CreatedAt),
	); err != nil {
		return Batch{}, fmt.Errorf("insert batch: %w", err)
	}
	return batch, nil
}

// RecordRename appends a rename outcome to a batch.
func (j *Journal) RecordRename(ctx context.Context, batchID string, result media.RenameResult) error {
	return j.record(ctx, batchID, KindRename, result.OriginalPath, result.NewPath, result.Success, result.Error)
}

// RecordMetadata appends a metadata update outcome to a batch.
func (j *Journal) RecordMetadata(ctx context.Context, batchID string, result media.MetadataUpdateResult) error {
	return j.record(ctx, batchID, KindMetadata, result.FilePath, "", result.Success, result.Error)
}

func (j *Journal) record(ctx context.Context, batchID string, kind Kind, source, target string, success bool, message string) error {
	if strings.TrimSpace(batchID) == "" {
		return errors.New("record operation: empty batch id")
	}
	if _, err := j.execWithRetry(ctx,
		`INSERT INTO operations (batch_id, kind, source, target, success, error, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		batchID, string(kind), source, nullableString(target), success, nullableString(message),
		nullableTime(time.Now().UTC()),
	); err != nil {
		return fmt.Errorf("insert %s operation: %w", kind, err)
	}
	return nil
}

// ListBatches returns the most recent batches, newest first. A limit of zero
// or less returns every batch.
func (j *Journal) ListBatches(ctx context.Context, limit int) ([]Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches b ORDER BY b.rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// GetBatch fetches a batch by ID or unique ID prefix.
func (j *Journal) GetBatch(ctx context.Context, id string) (Batch, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Batch{}, ErrBatchNotFound
	}
	rows, err := j.db.QueryContext(ensureContext(ctx),
		`SELECT `+batchColumns+` FROM batches b WHERE b.id = ? OR b.id LIKE ? ORDER BY b.id LIMIT 2`,
		id, id+"%",
	)
	if err != nil {
		return Batch{}, fmt.Errorf("get batch: %w", err)
	}
	defer rows.Close()

	var matches []Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return Batch{}, fmt.Errorf("scan batch: %w", err)
		}
		if batch.ID == id {
			return batch, nil
		}
		matches = append(matches, batch)
	}
	if err := rows.Err(); err != nil {
		return Batch{}, err
	}
	switch len(matches) {
	case 0:
		return Batch{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return Batch{}, fmt.Errorf("batch prefix %q is ambiguous", id)
	}
}

// LatestBatch returns the newest batch of one of kinds that has not been
// undone. It returns ErrBatchNotFound when there is none.
func (j *Journal) LatestBatch(ctx context.Context, kinds ...Kind) (Batch, error) {
	if len(kinds) == 0 {
		return Batch{}, errors.New("latest batch: no kinds given")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(kinds)), ",")
	args := make([]any, 0, len(kinds))
	for _, kind := range kinds {
		args = append(args, string(kind))
	}
	row := j.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+batchColumns+` FROM batches b
         WHERE b.undone_at IS NULL AND b.kind IN (`+placeholders+`)
         ORDER BY b.rowid DESC LIMIT 1`,
		args...,
	)
	batch, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, ErrBatchNotFound
	}
	if err != nil {
		return Batch{}, fmt.Errorf("latest batch: %w", err)
	}
	return batch, nil
}

// Operations returns the operations of a batch in the order they ran.
func (j *Journal) Operations(ctx context.Context, batchID string) ([]Operation, error) {
	rows, err := j.db.QueryContext(ensureContext(ctx),
		`SELECT `+operationColumns+` FROM operations WHERE batch_id = ? ORDER BY id`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// MarkUndone stamps a batch as reverted.
func (j *Journal) MarkUndone(ctx context.Context, batchID string) error {
	res, err := j.execWithRetry(ctx,
		`UPDATE batches SET undone_at = ? WHERE id = ? AND undone_at IS NULL`,
		nullableTime(time.Now().UTC()), batchID,
	)
	if err != nil {
		return fmt.Errorf("mark batch undone: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s (missing or already undone)", ErrBatchNotFound, batchID)
	}
	return nil
}

func scanBatch(scanner interface{ Scan(dest ...any) error }) (Batch, error) {
	var (
		id         string
		kind       string
		root       sql.NullString
		createdRaw sql.NullString
		undoneRaw  sql.NullString
		total      int
		failures   int
	)
	if err := scanner.Scan(&id, &kind, &root, &createdRaw, &undoneRaw, &total, &failures); err != nil {
		return Batch{}, err
	}
	return Batch{
		ID:         id,
		Kind:       Kind(kind),
		Root:       root.String,
		CreatedAt:  parseTime(createdRaw),
		UndoneAt:   parseTime(undoneRaw),
		Operations: total,
		Failures:   failures,
	}, nil
}

func scanOperation(scanner interface{ Scan(dest ...any) error }) (Operation, error) {
	var (
		op         Operation
		kind       string
		target     sql.NullString
		message    sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&op.ID, &op.BatchID, &kind, &op.Source, &target, &op.Success, &message, &createdRaw); err != nil {
		return Operation{}, err
	}
	op.Kind = Kind(kind)
	op.Target = target.String
	op.Error = message.String
	op.CreatedAt = parseTime(createdRaw)
	return op, nil
}
