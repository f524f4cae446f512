package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// errNoReplaceUnsupported is returned by the platform no-replace rename when
// the kernel or filesystem cannot honour the flag.
var errNoReplaceUnsupported = errors.New("no-replace rename unsupported")

// Exists reports whether path names an existing entry. Errors other than
// "not exist" are returned so callers do not mistake an unreadable target for
// a free one.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SameFile reports whether a and b refer to the same file on disk. A missing
// path is never the same file.
func SameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// RenameNoReplace moves src to dst and fails with fs.ErrExist when dst is
// already present. Where the platform supports an atomic no-replace rename it
// is used; otherwise the target is checked immediately before os.Rename.
func RenameNoReplace(src, dst string) error {
	err := renameNoReplace(src, dst)
	if err == nil || !errors.Is(err, errNoReplaceUnsupported) {
		return err
	}
	exists, err := Exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	}
	return os.Rename(src, dst)
}

// ReplaceFile writes a new version of path through write and atomically swaps
// it into place. The temporary file lives next to path so the final rename
// never crosses filesystems; the original permission bits are kept. On any
// failure the original is left untouched and the temporary file is removed.
func ReplaceFile(path string, write func(*os.File) error) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
