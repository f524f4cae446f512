package services

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	ErrNotADirectory           = errors.New("not a directory")
	ErrSourceNotFound          = errors.New("source not found")
	ErrTargetExists            = errors.New("target already exists")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrExternalToolUnavailable = errors.New("external tool unavailable")
	ErrExternalToolTimeout     = errors.New("external tool timeout")
	ErrUnsupportedFormat       = errors.New("unsupported format")
	ErrEditorWriteFailed       = errors.New("editor write failed")
	ErrUnparseable             = errors.New("unparseable value")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrOS                      = errors.New("os error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrOS
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ClassifyFS maps a filesystem error onto the marker that best describes it.
func ClassifyFS(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrSourceNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrTargetExists
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return ErrOS
	}
}

// Marker returns the first sentinel from this package carried by err, or nil.
func Marker(err error) error {
	if err == nil {
		return nil
	}
	for _, marker := range []error{
		ErrNotADirectory,
		ErrSourceNotFound,
		ErrTargetExists,
		ErrPermissionDenied,
		ErrExternalToolUnavailable,
		ErrExternalToolTimeout,
		ErrUnsupportedFormat,
		ErrEditorWriteFailed,
		ErrUnparseable,
		ErrInvalidArgument,
		ErrOS,
	} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
