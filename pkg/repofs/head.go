package repofs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6/util"
	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/schmitthub/repofs/pkg/coalesce"
)

// maintenanceLockFile serializes pack-refs maintenance across
// processes sharing a repository.
const maintenanceLockFile = "repofs-maintenance.lock"

// HeadHash returns the commit hash HEAD currently points to.
//
// The hot path reads and parses the repository metadata files directly
// (HEAD, packed-refs, the loose ref file) instead of invoking git; the
// only subprocess involved is a one-shot pack-refs when packed-refs is
// missing. The result is cached with the volatile TTL since HEAD moves.
func (r *Repository) HeadHash(ctx context.Context) (string, error) {
	return r.refs.Do(ctx, coalesce.Key("head"), r.ttl.Volatile, r.readHead)
}

func (r *Repository) readHead(ctx context.Context) (string, error) {
	raw, err := util.ReadFile(r.gitFS, "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}
	line := strings.TrimSpace(string(raw))
	if isHash(line) {
		// Detached HEAD holds the hash directly.
		return line, nil
	}
	refPath, ok := strings.CutPrefix(line, "ref:")
	if !ok {
		return "", fmt.Errorf("%w: HEAD contains %q", ErrParse, line)
	}
	refPath = strings.TrimSpace(refPath)

	// packed-refs and the loose ref file are independent; read them
	// concurrently and join before parsing.
	var packed, loose []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var readErr error
		packed, readErr = r.readPackedRefs(gctx)
		return readErr
	})
	g.Go(func() error {
		b, readErr := util.ReadFile(r.gitFS, refPath)
		if readErr != nil {
			// Not every ref is loose; absence is fine.
			if errors.Is(readErr, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("reading loose ref %s: %w", refPath, readErr)
		}
		loose = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if hash := firstHashLine(loose); hash != "" {
		return hash, nil
	}
	if hash := lookupPackedRef(packed, refPath); hash != "" {
		return hash, nil
	}
	return "", fmt.Errorf("%w: no hash for %s in loose or packed refs", ErrParse, refPath)
}

// readPackedRefs returns the packed-refs content. When the file is
// absent it runs pack-refs once (serialized across processes with a
// file lock) and retries the read; a repository with nothing to pack
// may legitimately still have no file afterwards.
func (r *Repository) readPackedRefs(ctx context.Context) ([]byte, error) {
	b, err := util.ReadFile(r.gitFS, "packed-refs")
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading packed-refs: %w", err)
	}
	if err := r.packRefs(ctx); err != nil {
		return nil, err
	}
	b, err = util.ReadFile(r.gitFS, "packed-refs")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading packed-refs after pack-refs: %w", err)
	}
	return b, nil
}

func (r *Repository) packRefs(ctx context.Context) error {
	lock := flock.New(filepath.Join(r.gitDir, maintenanceLockFile))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking for pack-refs: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck

	r.log.Debug().Str("git_dir", r.gitDir).Msg("repofs: packed-refs missing, running pack-refs")
	_, err := r.runner.Run(ctx, "pack-refs", "--all")
	return err
}

// firstHashLine extracts a 40-hex hash from the first line of a loose
// ref file, or "" when the content has no hash.
func firstHashLine(b []byte) string {
	line, _, _ := strings.Cut(string(b), "\n")
	line = strings.TrimSpace(line)
	if isHash(line) {
		return line
	}
	return ""
}

// lookupPackedRef scans packed-refs text for ref and returns its hash,
// or "". Lines are "<hash> <ref>"; comment (#) and peeled (^) lines
// are skipped.
func lookupPackedRef(b []byte, ref string) string {
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		hash, name, ok := strings.Cut(line, " ")
		if !ok || !isHash(hash) {
			continue
		}
		if name == ref {
			return hash
		}
	}
	return ""
}
