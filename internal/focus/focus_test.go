package focus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFromTraceFindsReferencedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/logic.py", "def add(a, b):\n    return a + b\n")
	writeFile(t, root, "tests/test_logic.py", "from app.logic import add\n")

	tail := "tests/test_logic.py:12: AssertionError\nfrom app.logic import add"
	files := New(root).FromTrace(tail)

	assert.Contains(t, files, "tests/test_logic.py")
	assert.Contains(t, files, filepath.Join("app", "logic.py"))
}

func TestFromTraceSkipsMissingFiles(t *testing.T) {
	root := t.TempDir()
	files := New(root).FromTrace("gone/away.py:3: ValueError")
	assert.Empty(t, files)
}

func TestFromTraceDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\n")
	files := New(root).FromTrace("a.py:1: Error\na.py:2: Error")
	assert.Equal(t, []string{"a.py"}, files)
}

func TestBuildFallsBackToRepoWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "print(1)\n")
	writeFile(t, root, "notes.txt", "ignored\n")

	fileList, excerpts := New(root).Build("no file references here")
	assert.Contains(t, fileList, "main.py")
	assert.NotContains(t, fileList, "notes.txt")
	assert.Contains(t, excerpts, "--- main.py")
	assert.Contains(t, excerpts, "   1 print(1)")
}

func TestSliceIsCapped(t *testing.T) {
	root := t.TempDir()
	big := ""
	for i := 0; i < 500; i++ {
		big += "some fairly long line of code to pad the file\n"
	}
	writeFile(t, root, "big.py", big)

	out := New(root).slice("big.py")
	assert.LessOrEqual(t, len(out), maxSliceBytes)
}
