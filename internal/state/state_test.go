package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotAndRevert(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.py")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	m, err := New(root)
	require.NoError(t, err)
	require.NoError(t, m.Snapshot([]string{"f.py"}))

	// Simulate the patch mutating the file.
	require.NoError(t, os.WriteFile(path, []byte("patched\n"), 0o644))

	restored, err := m.Revert()
	require.NoError(t, err)
	assert.Equal(t, []string{"f.py"}, restored)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))
}

func TestRevertRemovesCreatedFiles(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	require.NoError(t, err)

	// Snapshot a path that does not exist yet, then "create" it.
	require.NoError(t, m.Snapshot([]string{"new.py"}))
	path := filepath.Join(root, "new.py")
	require.NoError(t, os.WriteFile(path, []byte("created by patch\n"), 0o644))

	restored, err := m.Revert()
	require.NoError(t, err)
	assert.Equal(t, []string{"new.py"}, restored)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRevertWithoutSnapshot(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	restored, err := m.Revert()
	assert.NoError(t, err)
	assert.Empty(t, restored)
}

func TestSnapshotReplacesPrevious(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.py"), []byte("b\n"), 0o644))

	m, err := New(root)
	require.NoError(t, err)
	require.NoError(t, m.Snapshot([]string{"a.py"}))
	require.NoError(t, m.Snapshot([]string{"b.py"}))

	restored, err := m.Revert()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.py"}, restored)
}
