package media

import (
	"path/filepath"
	"strings"
)

// MediaFile is one entry produced by a scan. Path tracks the current location
// and is updated after a successful rename; OriginalName never changes.
type MediaFile struct {
	Path         string   `json:"path"`
	OriginalName string   `json:"original_name"`
	Metadata     Metadata `json:"metadata"`
	Selected     bool     `json:"selected"`
}

// NewMediaFile returns a selected entry for path.
func NewMediaFile(path string) *MediaFile {
	return &MediaFile{
		Path:         path,
		OriginalName: filepath.Base(path),
		Selected:     true,
	}
}

// Extension returns the lower-cased extension of the current path, dot included.
func (f *MediaFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// Name returns the base name of the current path.
func (f *MediaFile) Name() string {
	return filepath.Base(f.Path)
}

// Dir returns the directory holding the file.
func (f *MediaFile) Dir() string {
	return filepath.Dir(f.Path)
}
