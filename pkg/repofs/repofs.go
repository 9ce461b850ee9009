package repofs

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"
	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/rs/zerolog"

	"github.com/schmitthub/repofs/internal/gitcmd"
	"github.com/schmitthub/repofs/pkg/coalesce"
)

// TTLPolicy maps version kinds to cache lifetimes. Historical data is
// content-addressed and effectively permanent; live working-tree and
// ref state can change between calls and is cached only briefly.
type TTLPolicy struct {
	Historical time.Duration
	Volatile   time.Duration
}

// DefaultTTLPolicy is used when no policy is configured.
var DefaultTTLPolicy = TTLPolicy{
	Historical: time.Hour,
	Volatile:   100 * time.Millisecond,
}

// For returns the TTL for values keyed by v.
func (p TTLPolicy) For(v Version) time.Duration {
	if v.IsLive() {
		return p.Volatile
	}
	return p.Historical
}

// Repository is a read-only handle on a git repository. It is created
// once per repository root, is immutable for its lifetime, and is safe
// for concurrent use.
type Repository struct {
	gitDir   string
	workTree string

	gitFS  billy.Filesystem // rooted at gitDir
	runner gitcmd.Runner
	log    zerolog.Logger
	ttl    TTLPolicy
	clock  func() time.Time

	gitPath     string
	execTimeout time.Duration

	// One coalescing cache per value type, all keyed
	// op \x00 version \x00 path... so distinct operations never collide.
	content *coalesce.Group[[]byte]
	sizes   *coalesce.Group[int64]
	trees   *coalesce.Group[Listing]
	logs    *coalesce.Group[[]Commit]
	refs    *coalesce.Group[string]

	watch *watcher
}

// Option configures a Repository.
type Option func(*Repository)

// WithGitPath sets the git executable used for subprocess reads.
func WithGitPath(path string) Option {
	return func(r *Repository) { r.gitPath = path }
}

// WithExecTimeout bounds each git invocation. Zero disables the bound.
func WithExecTimeout(d time.Duration) Option {
	return func(r *Repository) { r.execTimeout = d }
}

// WithTTLPolicy overrides the cache expiry policy.
func WithTTLPolicy(p TTLPolicy) Option {
	return func(r *Repository) { r.ttl = p }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Repository) { r.log = log }
}

// WithRunner replaces the subprocess runner. Tests use this to script
// git output without a git binary.
func WithRunner(runner gitcmd.Runner) Option {
	return func(r *Repository) { r.runner = runner }
}

// WithClock overrides the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.clock = now }
}

// Open creates a Repository for the git repository containing path.
// It walks up the directory tree looking for a .git directory (or the
// gitdir pointer file a linked worktree uses), and recognizes bare
// repository layouts. Returns ErrNotRepository (wrapped) when path is
// not inside a repository.
func Open(path string, opts ...Option) (*Repository, error) {
	gitDir, workTree, err := discover(path)
	if err != nil {
		return nil, err
	}
	return newRepository(gitDir, workTree, opts...), nil
}

func newRepository(gitDir, workTree string, opts ...Option) *Repository {
	r := &Repository{
		gitDir:   gitDir,
		workTree: workTree,
		log:      zerolog.Nop(),
		ttl:      DefaultTTLPolicy,
		clock:    time.Now,
		gitPath:  "git",
	}
	r.execTimeout = gitcmd.DefaultTimeout
	for _, opt := range opts {
		opt(r)
	}
	if r.gitFS == nil {
		r.gitFS = osfs.New(gitDir)
	}
	if r.runner == nil {
		r.runner = gitcmd.NewExecRunner(gitDir, workTree,
			gitcmd.WithGitPath(r.gitPath),
			gitcmd.WithTimeout(r.execTimeout),
			gitcmd.WithLogger(r.log),
		)
	}

	cacheOpts := []coalesce.Option{
		coalesce.WithClock(r.clock),
		coalesce.WithLogger(r.log),
	}
	r.content = coalesce.NewGroup[[]byte](cacheOpts...)
	r.sizes = coalesce.NewGroup[int64](cacheOpts...)
	r.trees = coalesce.NewGroup[Listing](cacheOpts...)
	r.logs = coalesce.NewGroup[[]Commit](cacheOpts...)
	r.refs = coalesce.NewGroup[string](cacheOpts...)
	return r
}

// GitDir returns the metadata directory.
func (r *Repository) GitDir() string { return r.gitDir }

// WorkTree returns the working tree root, or "" for a bare repository.
func (r *Repository) WorkTree() string { return r.workTree }

// Bare reports whether the repository has no working tree. Live reads
// are not permitted on bare repositories.
func (r *Repository) Bare() bool { return r.workTree == "" }

// Close releases resources held by the repository (currently only the
// optional watcher).
func (r *Repository) Close() error {
	if w := r.watch; w != nil {
		r.watch = nil
		return w.stop()
	}
	return nil
}

// InvalidateVolatile drops every cached value that can go stale while
// the process runs: live working-tree reads and resolved ref state.
// Historical entries are content-addressed and stay.
func (r *Repository) InvalidateVolatile() {
	liveKeyed := func(key string) bool {
		return coalesce.KeyPart(key, 1) == LiveTag
	}
	r.content.ForgetFunc(liveKeyed)
	r.sizes.ForgetFunc(liveKeyed)
	r.trees.ForgetFunc(liveKeyed)
	r.refs.ForgetFunc(func(string) bool { return true })
}

// discover locates the git metadata directory and working tree for
// path. PlainOpenWithOptions with DetectDotGit walks up parent
// directories like git itself does and understands the .git pointer
// file a linked worktree uses.
func discover(path string) (gitDir, workTree string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		// The walk-up looks for a .git entry, which a bare repository
		// does not have; the path itself may be the metadata directory.
		repo, err = gogit.PlainOpen(abs)
	}
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", "", fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return "", "", fmt.Errorf("opening repository at %s: %w", path, err)
	}

	st, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", "", fmt.Errorf("%w: %s has no on-disk metadata", ErrNotRepository, path)
	}
	gitDir = st.Filesystem().Root()

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return gitDir, "", nil
		}
		return "", "", err
	}
	return gitDir, wt.Filesystem.Root(), nil
}
