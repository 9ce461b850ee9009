package repofs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/repofs/internal/gitcmd"
)

func showRefOutput() []byte {
	return []byte(
		testHash('1') + " refs/heads/main\n" +
			testHash('2') + " refs/tags/main\n" +
			testHash('3') + " refs/heads/feature/x\n" +
			testHash('4') + " refs/remotes/origin/main\n" +
			testHash('5') + " refs/remotes/origin/dev\n" +
			testHash('6') + " refs/remotes/upstream/dev\n" +
			testHash('7') + " refs/tags/v1\n")
}

func newRefsRepository(t *testing.T) *testRepository {
	tr := newTestRepository(t, "")
	tr.run.handler = func(args []string) ([]byte, error) {
		require.Equal(t, []string{"show-ref"}, args)
		return showRefOutput(), nil
	}
	return tr
}

func TestResolveRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		// Local branches shadow remote-tracking branches, which shadow
		// tags.
		{name: "bare name prefers local branch over tag", ref: "main", want: testHash('1')},
		{name: "bare name falls back to any remote", ref: "dev", want: testHash('5')},
		{name: "bare name falls back to tag", ref: "v1", want: testHash('7')},
		{name: "remote shorthand", ref: "origin/dev", want: testHash('5')},
		{name: "other remote shorthand", ref: "upstream/dev", want: testHash('6')},
		{name: "slashed local branch", ref: "feature/x", want: testHash('3')},
		{name: "qualified heads", ref: "heads/main", want: testHash('1')},
		{name: "qualified tags", ref: "tags/main", want: testHash('2')},
		{name: "qualified remotes", ref: "remotes/origin/main", want: testHash('4')},
		{name: "fully qualified", ref: "refs/tags/v1", want: testHash('7')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newRefsRepository(t)
			hash, err := tr.ResolveRef(context.Background(), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hash)
		})
	}
}

func TestResolveRefUnknown(t *testing.T) {
	tr := newRefsRepository(t)
	_, err := tr.ResolveRef(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownRef)

	_, err = tr.ResolveRef(context.Background(), "")
	require.ErrorIs(t, err, ErrUnknownRef)
}

func TestResolveRefSharesOneEnumeration(t *testing.T) {
	tr := newRefsRepository(t)

	_, err := tr.ResolveRef(context.Background(), "main")
	require.NoError(t, err)
	_, err = tr.ResolveRef(context.Background(), "dev")
	require.NoError(t, err)
	_, err = tr.ResolveRef(context.Background(), "v1")
	require.NoError(t, err)

	// The ref table is itself cached, so three lookups cost one
	// subprocess.
	assert.Equal(t, 1, tr.run.countCalls("show-ref"))
}

func TestResolveRefResultCachedPerName(t *testing.T) {
	tr := newRefsRepository(t)

	first, err := tr.ResolveRef(context.Background(), "main")
	require.NoError(t, err)

	// Swap the handler: a cached name must not re-enumerate.
	tr.run.handler = func([]string) ([]byte, error) {
		return []byte(testHash('9') + " refs/heads/main\n"), nil
	}
	again, err := tr.ResolveRef(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// Past the volatile TTL the new tip is observed.
	tr.clock.Advance(DefaultTTLPolicy.Volatile * 2)
	moved, err := tr.ResolveRef(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, testHash('9'), moved)
}

func TestResolveVersion(t *testing.T) {
	tr := newRefsRepository(t)
	tr.writeMeta(t, "HEAD", testHash('a')+"\n")

	v, err := tr.ResolveVersion(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, v.IsLive())

	v, err = tr.ResolveVersion(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.Equal(t, testHash('a'), v.Hash())

	v, err = tr.ResolveVersion(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, testHash('a'), v.Hash())

	v, err = tr.ResolveVersion(context.Background(), testHash('b'))
	require.NoError(t, err)
	assert.Equal(t, testHash('b'), v.Hash())

	v, err = tr.ResolveVersion(context.Background(), "origin/dev")
	require.NoError(t, err)
	assert.Equal(t, testHash('5'), v.Hash())

	_, err = tr.ResolveVersion(context.Background(), "missing-branch")
	require.ErrorIs(t, err, ErrUnknownRef)
}

func TestResolveRefEmptyRepository(t *testing.T) {
	// show-ref exits 1 with no output when the repository has no refs;
	// the name is simply unknown, not a subprocess failure.
	tr := newTestRepository(t, "")
	tr.run.handler = func(args []string) ([]byte, error) {
		return nil, gitcmd.NewExitError(args, 1, "")
	}

	_, err := tr.ResolveRef(context.Background(), "main")
	require.ErrorIs(t, err, ErrUnknownRef)
}
