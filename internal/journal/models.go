package journal

import "time"

// Kind names what a batch or operation did.
type Kind string

const (
	KindRename   Kind = "rename"
	KindMetadata Kind = "metadata"
	KindOrganize Kind = "organize"
	KindUndo     Kind = "undo"
)

// Undoable reports whether batches of this kind contain renames that can be
// reverted.
func (k Kind) Undoable() bool {
	return k == KindRename || k == KindOrganize
}

// Batch is one command run.
type Batch struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Root       string    `json:"root,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UndoneAt   time.Time `json:"undone_at,omitzero"`
	Operations int       `json:"operations"`
	Failures   int       `json:"failures"`
}

// Undone reports whether the batch has been reverted.
func (b Batch) Undone() bool {
	return !b.UndoneAt.IsZero()
}

// Operation is the outcome of one file within a batch.
type Operation struct {
	ID        int64     `json:"id"`
	BatchID   string    `json:"batch_id"`
	Kind      Kind      `json:"kind"`
	Source    string    `json:"source"`
	Target    string    `json:"target,omitempty"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Moved reports whether the operation is a successful rename that changed
// the path.
func (o Operation) Moved() bool {
	return o.Kind == KindRename && o.Success && o.Target != "" && o.Target != o.Source
}
