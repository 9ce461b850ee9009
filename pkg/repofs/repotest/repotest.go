// Package repotest builds throwaway on-disk git repositories for
// tests, using go-git so the git binary is not required to construct
// fixtures. Tests that exercise subprocess-backed reads still need a
// real git and should skip when it is absent.
package repotest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Repo is a real git repository in a temp directory.
type Repo struct {
	t    *testing.T
	repo *gogit.Repository

	// Root is the working tree root.
	Root string
}

// Init creates an empty repository under t.TempDir().
func Init(t *testing.T) *Repo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "init fixture repo")
	return &Repo{t: t, repo: repo, Root: dir}
}

// GitDir returns the metadata directory.
func (r *Repo) GitDir() string {
	return filepath.Join(r.Root, ".git")
}

// WriteFile writes a working-tree file and stages it.
func (r *Repo) WriteFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.Root, filepath.FromSlash(name))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))

	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	_, err = wt.Add(name)
	require.NoError(r.t, err)
}

// Commit commits everything staged and returns the commit hash.
func (r *Repo) Commit(msg string) string {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(r.t, err)
	return hash.String()
}

// HeadHash returns the current HEAD commit hash.
func (r *Repo) HeadHash() string {
	r.t.Helper()
	head, err := r.repo.Head()
	require.NoError(r.t, err)
	return head.Hash().String()
}

// SetRef writes a loose ref (e.g. "refs/heads/dev",
// "refs/remotes/origin/main", "refs/tags/v1") pointing at hash.
func (r *Repo) SetRef(name, hash string) {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), plumbing.NewHash(hash))
	require.NoError(r.t, r.repo.Storer.SetReference(ref))
}

// WritePackedRefs replaces the packed-refs file with content.
func (r *Repo) WritePackedRefs(content string) {
	r.t.Helper()
	require.NoError(r.t, os.WriteFile(filepath.Join(r.GitDir(), "packed-refs"), []byte(content), 0o644))
}

// RemoveLooseRef deletes a loose ref file so lookups must fall back to
// packed-refs.
func (r *Repo) RemoveLooseRef(name string) {
	r.t.Helper()
	require.NoError(r.t, os.Remove(filepath.Join(r.GitDir(), filepath.FromSlash(name))))
}
