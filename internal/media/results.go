package media

import "path/filepath"

// RenameResult describes the outcome of one rename. Cause carries the
// classified error for callers that need errors.Is; Error is the display text.
type RenameResult struct {
	Success      bool   `json:"success"`
	OriginalPath string `json:"original_path"`
	NewPath      string `json:"new_path,omitempty"`
	Error        string `json:"error,omitempty"`
	Cause        error  `json:"-"`
}

// Message renders the result for a status line.
func (r RenameResult) Message() string {
	if r.Success {
		if r.NewPath == "" {
			return "Renamed"
		}
		return "Renamed to " + filepath.Base(r.NewPath)
	}
	return failedMessage(r.Error)
}

// Unchanged reports a successful rename whose target was the source itself.
func (r RenameResult) Unchanged() bool {
	return r.Success && r.NewPath == r.OriginalPath
}

// MetadataUpdateResult describes the outcome of one metadata write.
type MetadataUpdateResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Error    string `json:"error,omitempty"`
	Cause    error  `json:"-"`
}

// Message renders the result for a status line.
func (r MetadataUpdateResult) Message() string {
	if r.Success {
		return "Updated"
	}
	return failedMessage(r.Error)
}

func failedMessage(detail string) string {
	if detail == "" {
		return "Failed"
	}
	return "Failed: " + detail
}
