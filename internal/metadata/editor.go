package metadata

import (
	"context"

	"mediaorganizer/internal/media"
)

// Editor reads and writes metadata for one container family.
//
// Read never fails: problems are logged and yield an empty or partial record.
// Write applies the set fields of meta; zero fields leave existing tags alone.
// A non-nil error from Write should carry services.ErrEditorWriteFailed.
type Editor interface {
	SupportedExtensions() []string
	Read(ctx context.Context, path string) media.Metadata
	Write(ctx context.Context, path string, meta media.Metadata) error
}
