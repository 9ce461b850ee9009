package repofs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schmitthub/repofs/internal/gitcmd"
	"github.com/schmitthub/repofs/pkg/coalesce"
)

// ResolveRef resolves a branch or tag name to a commit hash.
//
// Name classification, first match wins:
//   - "refs/..." or a "heads/", "remotes/", "tags/" prefix: used as-is
//   - a name containing "/": "remotes/<name>" (remote-tracking
//     shorthand), then "heads/<name>" (branches may contain slashes),
//     then "tags/<name>"
//   - a bare name: "heads/<name>", then <any remote>/<name>, then
//     "tags/<name>"; local branches shadow remote-tracking branches,
//     which shadow tags.
//
// An unresolvable name is ErrUnknownRef. Results are cached per name
// with the volatile TTL, because branch tips move.
func (r *Repository) ResolveRef(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownRef)
	}
	return r.refs.Do(ctx, coalesce.Key("ref", name), r.ttl.Volatile, func(ctx context.Context) (string, error) {
		return r.resolveRef(ctx, name)
	})
}

func (r *Repository) resolveRef(ctx context.Context, name string) (string, error) {
	table, err := r.listRefs(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range refPatterns(name) {
		if hash := p.match(table); hash != "" {
			return hash, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRef, name)
}

// listRefs enumerates every ref and its hash with one show-ref call,
// cached under its own key so concurrent lookups of different names
// still share a single subprocess.
func (r *Repository) listRefs(ctx context.Context) ([]refEntry, error) {
	out, err := r.refs.Do(ctx, coalesce.Key("show-ref"), r.ttl.Volatile, func(ctx context.Context) (string, error) {
		b, runErr := r.runner.Run(ctx, "show-ref")
		if runErr != nil {
			// show-ref exits 1 without a message when the repository
			// has no refs at all; that is an empty table, not a failure.
			var exitErr *gitcmd.ExitError
			if errors.As(runErr, &exitErr) && exitErr.ExitCode == 1 && strings.TrimSpace(exitErr.Stderr) == "" {
				return "", nil
			}
		}
		return string(b), runErr
	})
	if err != nil {
		return nil, err
	}
	return parseShowRef(out), nil
}

// ResolveVersion maps a caller-supplied revision string to a Version:
// "live" is the working tree, "" and "HEAD" are the current HEAD
// commit, a 40-hex hash is used directly, and anything else is
// resolved as a branch or tag name.
func (r *Repository) ResolveVersion(ctx context.Context, rev string) (Version, error) {
	switch {
	case rev == LiveTag:
		return LiveVersion(), nil
	case rev == "" || rev == "HEAD":
		hash, err := r.HeadHash(ctx)
		if err != nil {
			return Version{}, err
		}
		return HistoricalVersion(hash)
	case isHash(rev):
		return HistoricalVersion(rev)
	default:
		hash, err := r.ResolveRef(ctx, rev)
		if err != nil {
			return Version{}, err
		}
		return HistoricalVersion(hash)
	}
}

// refEntry is one line of show-ref output.
type refEntry struct {
	hash string
	name string // fully qualified, e.g. refs/heads/main
}

func parseShowRef(out string) []refEntry {
	var entries []refEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, name, ok := strings.Cut(line, " ")
		if !ok || !isHash(hash) {
			continue
		}
		entries = append(entries, refEntry{hash: hash, name: name})
	}
	return entries
}

// refPattern is one candidate to try against the ref table: either an
// exact fully qualified name, or "<name> under any remote".
type refPattern struct {
	full      string
	anyRemote string
}

func (p refPattern) match(table []refEntry) string {
	for _, e := range table {
		if p.full != "" && e.name == p.full {
			return e.hash
		}
		if p.anyRemote != "" {
			rest, ok := strings.CutPrefix(e.name, "refs/remotes/")
			if ok && strings.HasSuffix(rest, "/"+p.anyRemote) {
				return e.hash
			}
		}
	}
	return ""
}

func refPatterns(name string) []refPattern {
	switch {
	case strings.HasPrefix(name, "refs/"):
		return []refPattern{{full: name}}
	case strings.HasPrefix(name, "heads/"),
		strings.HasPrefix(name, "remotes/"),
		strings.HasPrefix(name, "tags/"):
		return []refPattern{{full: "refs/" + name}}
	case strings.Contains(name, "/"):
		return []refPattern{
			{full: "refs/remotes/" + name},
			{full: "refs/heads/" + name},
			{full: "refs/tags/" + name},
		}
	default:
		return []refPattern{
			{full: "refs/heads/" + name},
			{anyRemote: name},
			{full: "refs/tags/" + name},
		}
	}
}
