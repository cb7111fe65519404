package browse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestRoot builds a root with subdirectories docs and .git and files
// readme.txt and a.b.c.
func newTestRoot(t *testing.T) Root {
	t.Helper()

	dir := t.TempDir()
	mkdirs(t, dir, "docs", ".git")
	touch(t, dir, "readme.txt", "a.b.c")

	root, err := NewRoot(dir)
	require.NoError(t, err)

	return root
}

func mkdirs(t *testing.T, base string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(base, name), 0o755))
	}
}

func touch(t *testing.T, base string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(base, name), []byte("x"), 0o644))
	}
}
