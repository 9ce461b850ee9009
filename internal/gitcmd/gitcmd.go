// Package gitcmd runs the git executable against a fixed repository and
// captures its output.
//
// This is a Tier 1 (Leaf) package: it imports only stdlib, zerolog and
// uuid. Higher layers decide what to run and how to cache results; this
// package only executes, collects and classifies.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is reported when git says a path or revision does not
// exist. Callers test for it with errors.Is to treat a missing path as
// "no data" instead of a hard failure.
var ErrNotFound = errors.New("path or revision not found")

// DefaultTimeout bounds a single git invocation. A hung subprocess
// would otherwise block every waiter coalesced onto its key forever.
const DefaultTimeout = 30 * time.Second

// Runner abstracts git execution so tests can script outputs without a
// git binary.
type Runner interface {
	// Run executes git with the given arguments and returns the raw
	// stdout bytes. A nonzero exit is returned as *ExitError.
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner runs the real git binary with a fixed --git-dir (and
// --work-tree, when the repository has one) prefix.
type ExecRunner struct {
	gitPath  string
	gitDir   string
	workTree string
	timeout  time.Duration
	log      zerolog.Logger
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithGitPath sets the git executable to run. Defaults to "git",
// resolved through PATH.
func WithGitPath(path string) Option {
	return func(r *ExecRunner) {
		if path != "" {
			r.gitPath = path
		}
	}
}

// WithTimeout bounds each invocation. Zero or negative disables the
// bound.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) { r.timeout = d }
}

// WithLogger sets the logger for per-invocation debug events.
func WithLogger(log zerolog.Logger) Option {
	return func(r *ExecRunner) { r.log = log }
}

// NewExecRunner creates a runner for the repository whose metadata
// directory is gitDir. workTree may be empty for bare repositories.
func NewExecRunner(gitDir, workTree string, opts ...Option) *ExecRunner {
	r := &ExecRunner{
		gitPath:  "git",
		gitDir:   gitDir,
		workTree: workTree,
		timeout:  DefaultTimeout,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := make([]string, 0, len(args)+4)
	argv = append(argv, "--git-dir", r.gitDir)
	if r.workTree != "" {
		argv = append(argv, "--work-tree", r.workTree)
	}
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, r.gitPath, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	id := uuid.NewString()
	start := time.Now()
	err := cmd.Run()
	took := time.Since(start)

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	r.log.Debug().
		Str("invocation", id).
		Strs("args", args).
		Dur("took", took).
		Int("exit", exitCode).
		Msg("gitcmd: ran git")

	if err != nil {
		cause := Classify(stderr.String())
		if cause == nil {
			cause = err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			cause = ctxErr
		}
		return nil, &ExitError{
			Args:     argv,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			err:      cause,
		}
	}
	return stdout.Bytes(), nil
}

// notFoundPatterns are the stderr shapes git emits for a missing path
// or revision. Matched case-insensitively as substrings.
var notFoundPatterns = []string{
	"does not exist",
	"unknown revision",
	"not a valid object name",
	"invalid object name",
	"bad revision",
	"no such path",
	"path not in the working tree",
}

// Classify maps captured stderr to ErrNotFound when it matches a known
// missing path/revision pattern, and nil otherwise.
func Classify(stderr string) error {
	s := strings.ToLower(stderr)
	for _, p := range notFoundPatterns {
		if strings.Contains(s, p) {
			return ErrNotFound
		}
	}
	return nil
}

// NewExitError builds an ExitError and classifies stderr. Fake
// runners use it to report failures the way the real executor would.
func NewExitError(args []string, exitCode int, stderr string) *ExitError {
	return &ExitError{
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		err:      Classify(stderr),
	}
}

// ExitError reports a failed git invocation. It embeds the full
// command line and the captured error stream; when the failure looks
// like a missing path or revision it unwraps to ErrNotFound.
type ExitError struct {
	Args     []string
	ExitCode int
	Stderr   string

	err error
}

func (e *ExitError) Error() string {
	msg := "git " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return msg + ": " + strings.TrimSpace(e.Stderr)
	}
	if e.err != nil {
		return msg + ": " + e.err.Error()
	}
	return msg + ": exit status " + strconv.Itoa(e.ExitCode)
}

// Unwrap exposes the classified cause, if any, to errors.Is.
func (e *ExitError) Unwrap() error {
	return e.err
}

// NotFound reports whether the failure was classified as a missing
// path or revision.
func (e *ExitError) NotFound() bool {
	return errors.Is(e.err, ErrNotFound)
}
