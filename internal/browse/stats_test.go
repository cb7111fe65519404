package browse

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out   []byte
	err   error
	calls [][]string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.err
}

func TestStatsInvoker_Success(t *testing.T) {
	root := newTestRoot(t)
	runner := &fakeRunner{out: []byte("Language  files\nGo  3\n")}
	invoker := NewStatsInvoker("cloc", runner)

	result := invoker.Invoke(context.Background(), root, "docs")
	require.Equal(t, StatsOK, result.Status)
	assert.Equal(t, "Language  files\nGo  3\n", result.Output)
	assert.Empty(t, result.Message)
	assert.NoError(t, result.Err())
	assert.Equal(t, [][]string{{"cloc", root.Path() + "/docs"}}, runner.calls)
}

func TestStatsInvoker_InvalidPathSkipsTool(t *testing.T) {
	root := newTestRoot(t)
	runner := &fakeRunner{out: []byte("ignored")}
	invoker := NewStatsInvoker("cloc", runner)

	for _, rel := range []string{"doc.s", "missing", "../"} {
		result := invoker.Invoke(context.Background(), root, rel)
		assert.Equal(t, StatsInvalidPath, result.Status, rel)
		assert.Equal(t, "Invalid directory", result.Message)
		assert.ErrorIs(t, result.Err(), ErrInvalidDirectory)
	}
	assert.Empty(t, runner.calls)
}

func TestStatsInvoker_Failures(t *testing.T) {
	root := newTestRoot(t)

	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{name: "run error", runner: &fakeRunner{err: errors.New("exit status 2")}},
		{name: "empty output", runner: &fakeRunner{}},
		{name: "start error with output", runner: &fakeRunner{out: []byte("partial"), err: errors.New("fork failed")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewStatsInvoker("cloc", tt.runner).Invoke(context.Background(), root, "")
			assert.Equal(t, StatsUnavailable, result.Status)
			assert.Equal(t, "Failed to execute 'cloc' command.", result.Message)
			assert.Empty(t, result.Output)
			assert.ErrorIs(t, result.Err(), ErrStatsUnavailable)
			assert.Error(t, result.Cause)
		})
	}
}

func TestStatsInvoker_NonZeroExitWithOutput(t *testing.T) {
	root := newTestRoot(t)
	runner := &fakeRunner{out: []byte("summary\n"), err: &exec.ExitError{}}

	result := NewStatsInvoker("cloc", runner).Invoke(context.Background(), root, "docs")
	require.Equal(t, StatsOK, result.Status)
	assert.Equal(t, "summary\n", result.Output)
	assert.Empty(t, result.Message)
	assert.NoError(t, result.Err())
}

func TestStatsInvoker_NonZeroExitWithoutOutput(t *testing.T) {
	root := newTestRoot(t)
	runner := &fakeRunner{err: &exec.ExitError{}}

	result := NewStatsInvoker("cloc", runner).Invoke(context.Background(), root, "docs")
	assert.Equal(t, StatsUnavailable, result.Status)
	assert.Equal(t, "Failed to execute 'cloc' command.", result.Message)
}

func TestStatsInvoker_ScriptExitingNonZero(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	root := newTestRoot(t)
	script := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"summary for $1\"\nexit 1\n"), 0o755))

	result := NewStatsInvoker(script, nil).Invoke(context.Background(), root, "docs")
	require.Equal(t, StatsOK, result.Status, result.Message)
	assert.Equal(t, "summary for "+root.Path()+"/docs\n", result.Output)
}

func TestStatsInvoker_MissingTool(t *testing.T) {
	root := newTestRoot(t)
	invoker := NewStatsInvoker("index-listing-no-such-tool", nil)

	result := invoker.Invoke(context.Background(), root, "docs")
	assert.Equal(t, StatsUnavailable, result.Status)
	assert.Equal(t, "Failed to execute 'index-listing-no-such-tool' command.", result.Message)
}

func TestStatsStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatsOK.String())
	assert.Equal(t, "invalid_path", StatsInvalidPath.String())
	assert.Equal(t, "unavailable", StatsUnavailable.String())
	assert.Equal(t, "unknown", StatsStatus(42).String())
}
