package logging

const (
	// FieldComponent names the subsystem emitting the record.
	FieldComponent = "component"
	// FieldBatchID identifies the batch a file operation belongs to.
	FieldBatchID = "batch_id"
	// FieldOperation names the batch kind (rename, tag, organize, undo).
	FieldOperation = "operation"
	// FieldCorrelationID carries a per-invocation request identifier.
	FieldCorrelationID = "correlation_id"
	// FieldFile is the path of the media file being processed.
	FieldFile = "file"
	// FieldTarget is the destination path of a rename.
	FieldTarget = "target"
	// FieldEventType classifies the record for filtering (rename_failed, scan_complete, ...).
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags anomalies that should stand out.
	FieldAlert = "alert"
)
