package repofs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDirHistorical(t *testing.T) {
	tr := newTestRepository(t, "")
	hash := testHash('a')
	tr.run.handler = func(args []string) ([]byte, error) {
		require.Equal(t, []string{"show", hash + ":sub"}, args)
		return []byte("tree " + hash + ":sub\n\na.txt\nb.txt\nsub/\n"), nil
	}

	l, err := tr.ListDir(context.Background(), mustHistorical(t, hash), "sub")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, l.Files)
	assert.Equal(t, []string{"sub"}, l.Dirs)
}

func TestListDirHistoricalRoot(t *testing.T) {
	tr := newTestRepository(t, "")
	hash := testHash('a')
	tr.run.handler = func(args []string) ([]byte, error) {
		require.Equal(t, []string{"show", hash + ":"}, args)
		return []byte("tree " + hash + ":\n\nREADME.md\nsrc/\n"), nil
	}

	l, err := tr.ListDir(context.Background(), mustHistorical(t, hash), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, l.Files)
	assert.Equal(t, []string{"src"}, l.Dirs)
}

func TestListDirHistoricalOnBlob(t *testing.T) {
	tr := newTestRepository(t, "")
	hash := testHash('a')
	tr.run.handler = func(args []string) ([]byte, error) {
		// A blob path dumps file content, not a tree header.
		return []byte("just some file content\n"), nil
	}

	_, err := tr.ListDir(context.Background(), mustHistorical(t, hash), "a.txt")
	require.ErrorIs(t, err, ErrNotADirectory)
}

func TestListDirLive(t *testing.T) {
	workTree := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workTree, "a.txt"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(workTree, "sub"), 0o755))
	tr := newTestRepository(t, workTree)

	l, err := tr.ListDir(context.Background(), LiveVersion(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, l.Files)
	assert.Equal(t, []string{"sub"}, l.Dirs)
	assert.Empty(t, tr.run.calls)
}

func TestListDirLiveOnFile(t *testing.T) {
	workTree := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workTree, "a.txt"), nil, 0o644))
	tr := newTestRepository(t, workTree)

	_, err := tr.ListDir(context.Background(), LiveVersion(), "a.txt")
	require.ErrorIs(t, err, ErrNotADirectory)
}

func TestParseTreeListing(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    Listing
		wantErr bool
	}{
		{
			name: "files and dirs",
			out:  "tree deadbeef:x\n\na.txt\nsub/\n",
			want: Listing{Files: []string{"a.txt"}, Dirs: []string{"sub"}},
		},
		{
			name: "empty tree",
			out:  "tree deadbeef:x\n\n",
			want: Listing{},
		},
		{
			name:    "missing header",
			out:     "a.txt\nsub/\n",
			wantErr: true,
		},
		{
			name:    "header without blank line",
			out:     "tree deadbeef:x\na.txt\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := parseTreeListing(tt.out, "x")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotADirectory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}
