package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, including parent directories, holding size bytes of
// filler. Sizes below one are rounded up to a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'B'}, int(max(size, 1))), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTree writes a small file at each slash-separated path below root and
// returns their absolute paths in argument order.
func WriteTree(t testing.TB, root string, relPaths ...string) []string {
	t.Helper()

	paths := make([]string, len(relPaths))
	for i, rel := range relPaths {
		paths[i] = filepath.Join(root, filepath.FromSlash(rel))
		WriteFile(t, paths[i], 16)
	}
	return paths
}

func ReadFile(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
