package stats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/pkg/errors"
)

// writeScript drops a shell script with an .R suffix so the runner can be
// exercised with sh instead of a full R installation.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name+".R")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

func TestRscriptRunner_Run(t *testing.T) {
	scriptDir := t.TempDir()
	workDir := t.TempDir()

	// The payload arrives as the first argument; echo it back inside the
	// result so argument passing is observable.
	writeScript(t, scriptDir, "echo_args", `#!/bin/sh
printf '{"status":"done","args":%s}' "$1"
`)

	runner := NewRscriptRunner("sh", scriptDir, workDir, 5*time.Second)
	result, err := runner.Run(context.Background(), "echo_args", map[string]interface{}{
		"file": "data.csv",
		"k":    3,
	})
	require.NoError(t, err)

	assert.Equal(t, "done", result["status"])
	args := result["args"].(map[string]interface{})
	assert.Equal(t, "data.csv", args["file"])
	assert.Equal(t, float64(3), args["k"])
}

func TestRscriptRunner_RunsInWorkDir(t *testing.T) {
	scriptDir := t.TempDir()
	workDir := t.TempDir()

	writeScript(t, scriptDir, "pwd", `#!/bin/sh
printf '{"dir":"%s"}' "$(pwd)"
`)

	runner := NewRscriptRunner("sh", scriptDir, workDir, 5*time.Second)
	result, err := runner.Run(context.Background(), "pwd", nil)
	require.NoError(t, err)

	got, err := filepath.EvalSymlinks(result["dir"].(string))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(workDir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRscriptRunner_ScriptError(t *testing.T) {
	scriptDir := t.TempDir()

	// A script that fails gracefully reports through the error key.
	writeScript(t, scriptDir, "broken", `#!/bin/sh
printf '{"error":"column not found"}'
`)

	runner := NewRscriptRunner("sh", scriptDir, t.TempDir(), 5*time.Second)
	_, err := runner.Run(context.Background(), "broken", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternal))
	assert.Contains(t, err.Error(), "column not found")
}

func TestRscriptRunner_NonZeroExit(t *testing.T) {
	scriptDir := t.TempDir()

	writeScript(t, scriptDir, "crash", `#!/bin/sh
echo "fatal: something went wrong" >&2
exit 1
`)

	runner := NewRscriptRunner("sh", scriptDir, t.TempDir(), 5*time.Second)
	_, err := runner.Run(context.Background(), "crash", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrExternal))
	assert.Contains(t, err.Error(), "something went wrong")
}

func TestRscriptRunner_Timeout(t *testing.T) {
	scriptDir := t.TempDir()

	writeScript(t, scriptDir, "slow", `#!/bin/sh
sleep 5
printf '{}'
`)

	runner := NewRscriptRunner("sh", scriptDir, t.TempDir(), 100*time.Millisecond)
	_, err := runner.Run(context.Background(), "slow", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTimeout))
}

func TestRscriptRunner_MalformedOutput(t *testing.T) {
	scriptDir := t.TempDir()

	writeScript(t, scriptDir, "garbage", `#!/bin/sh
printf 'not json'
`)

	runner := NewRscriptRunner("sh", scriptDir, t.TempDir(), 5*time.Second)
	_, err := runner.Run(context.Background(), "garbage", nil)
	assert.Error(t, err)
}
