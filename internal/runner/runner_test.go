package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTeesOutputToLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	r := New("echo one; echo two 1>&2", logPath)
	var console bytes.Buffer
	r.Console = &console

	require.NoError(t, r.Run(context.Background()))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "one")
	assert.Contains(t, string(data), "two")
	assert.Equal(t, string(data), console.String())
}

func TestRunSwallowsTestFailureExit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	r := New("echo FAILED; exit 1", logPath)
	r.Console = &bytes.Buffer{}

	assert.NoError(t, r.Run(context.Background()))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FAILED")
}

func TestRunDefaultCommand(t *testing.T) {
	r := New("", "x.log")
	assert.Equal(t, DefaultTestCmd, r.TestCmd)
}
