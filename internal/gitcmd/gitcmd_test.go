package gitcmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		notFound bool
	}{
		{
			name:     "missing path at revision",
			stderr:   "fatal: path 'missing.txt' does not exist in 'deadbeef'",
			notFound: true,
		},
		{
			name:     "unknown revision",
			stderr:   "fatal: ambiguous argument 'xyz': unknown revision or path not in the working tree.",
			notFound: true,
		},
		{
			name:     "bad object name",
			stderr:   "fatal: Not a valid object name abc123",
			notFound: true,
		},
		{
			name:     "unrelated failure",
			stderr:   "fatal: this operation must be run in a work tree",
			notFound: false,
		},
		{
			name:     "empty stderr",
			stderr:   "",
			notFound: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.stderr)
			if tt.notFound {
				assert.ErrorIs(t, err, ErrNotFound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExitErrorMessageEmbedsCommandAndStderr(t *testing.T) {
	err := &ExitError{
		Args:     []string{"--git-dir", "/repo/.git", "show", "abc:file"},
		ExitCode: 128,
		Stderr:   "fatal: bad revision 'abc'\n",
		err:      ErrNotFound,
	}
	assert.Contains(t, err.Error(), "show abc:file")
	assert.Contains(t, err.Error(), "bad revision")
	assert.True(t, err.NotFound())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExitErrorWithoutCause(t *testing.T) {
	err := &ExitError{
		Args:     []string{"--git-dir", "/repo/.git", "fsck"},
		ExitCode: 2,
	}
	assert.Contains(t, err.Error(), "exit status 2")
	assert.False(t, err.NotFound())
}

// requireGit skips the test when no git binary is available.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestExecRunnerAgainstRealRepository(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(cmd.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init", "-q", ".")
	require.NoError(t, writeFile(dir, "a.txt", "hello\n"))
	run("add", "a.txt")
	run("commit", "-q", "-m", "initial")

	r := NewExecRunner(dir+"/.git", dir)

	out, err := r.Run(context.Background(), "show", "HEAD:a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))

	_, err = r.Run(context.Background(), "show", "HEAD:missing.txt")
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.NotFound())
	assert.ErrorIs(t, err, ErrNotFound)
}

func writeFile(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

func TestExecRunnerTimeout(t *testing.T) {
	requireGit(t)

	dir := t.TempDir()
	r := NewExecRunner(dir, "", WithTimeout(time.Nanosecond))
	_, err := r.Run(context.Background(), "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
}
