package repofs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schmitthub/repofs/pkg/coalesce"
)

// Listing is a directory's entries partitioned into plain files and
// subdirectories, each sorted by name.
type Listing struct {
	Files []string
	Dirs  []string
}

// ListDir lists the directory at path for the given version.
// Historical versions go through git (the tree at that hash); the live
// version lists the working tree. A path that is not a directory is
// ErrNotADirectory.
func (r *Repository) ListDir(ctx context.Context, v Version, path string) (Listing, error) {
	if err := v.validate(); err != nil {
		return Listing{}, err
	}
	key := coalesce.Key("tree", v.key(), path)
	return r.trees.Do(ctx, key, r.ttl.For(v), func(ctx context.Context) (Listing, error) {
		if v.IsLive() {
			return r.listLiveDir(path)
		}
		return r.listTree(ctx, v, path)
	})
}

func (r *Repository) listTree(ctx context.Context, v Version, path string) (Listing, error) {
	out, err := r.runner.Run(ctx, "show", v.Hash()+":"+path)
	if err != nil {
		return Listing{}, err
	}
	return parseTreeListing(string(out), path)
}

// parseTreeListing parses `git show <hash>:<path>` output for a tree:
// a "tree ..." header, a blank line, then one entry per line with a
// trailing "/" marking directories. Any other shape means the path
// named a blob, not a tree.
func parseTreeListing(out, path string) (Listing, error) {
	lines := strings.Split(out, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "tree ") || lines[1] != "" {
		return Listing{}, fmt.Errorf("%w: %q", ErrNotADirectory, path)
	}
	var l Listing
	for _, line := range lines[2:] {
		if line == "" {
			continue
		}
		if name, ok := strings.CutSuffix(line, "/"); ok {
			l.Dirs = append(l.Dirs, name)
		} else {
			l.Files = append(l.Files, line)
		}
	}
	return l, nil
}

func (r *Repository) listLiveDir(path string) (Listing, error) {
	p, err := r.livePath(path)
	if err != nil {
		return Listing{}, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return Listing{}, err
	}
	if !fi.IsDir() {
		return Listing{}, fmt.Errorf("%w: %q", ErrNotADirectory, path)
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return Listing{}, err
	}
	var l Listing
	for _, e := range entries {
		if e.IsDir() {
			l.Dirs = append(l.Dirs, e.Name())
		} else {
			l.Files = append(l.Files, e.Name())
		}
	}
	return l, nil
}
