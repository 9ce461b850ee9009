package repofs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/repofs/internal/gitcmd"
)

// fakeRunner scripts git output so tests run without a git binary.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	handler func(args []string) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	if f.handler == nil {
		return nil, errors.New("fakeRunner: no handler")
	}
	return f.handler(args)
}

// countCalls returns how many recorded invocations ran the given git
// subcommand.
func (f *fakeRunner) countCalls(subcommand string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) > 0 && c[0] == subcommand {
			n++
		}
	}
	return n
}

// notFoundError mimics the executor's classification of a missing
// path or revision.
func notFoundError(stderr string) error {
	return gitcmd.NewExitError(nil, 128, stderr)
}

// fakeClock matches the one in pkg/coalesce tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testRepository builds a Repository whose metadata lives on an
// in-memory filesystem and whose subprocess calls hit the fake runner.
type testRepository struct {
	*Repository
	fs    billy.Filesystem
	run   *fakeRunner
	clock *fakeClock
}

func newTestRepository(t *testing.T, workTree string, opts ...Option) *testRepository {
	t.Helper()
	run := &fakeRunner{}
	clock := newFakeClock()
	opts = append([]Option{WithRunner(run), WithClock(clock.Now)}, opts...)
	r := newRepository(t.TempDir(), workTree, opts...)
	fs := memfs.New()
	r.gitFS = fs
	return &testRepository{Repository: r, fs: fs, run: run, clock: clock}
}

// writeMeta writes a metadata file (HEAD, packed-refs, a loose ref)
// into the in-memory git dir.
func (tr *testRepository) writeMeta(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, util.WriteFile(tr.fs, path, []byte(content), 0o644))
}

func testHash(c byte) string {
	return strings.Repeat(string(c), 40)
}
