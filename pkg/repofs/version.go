package repofs

import "fmt"

// LiveTag is the version string naming the live working tree.
const LiveTag = "live"

// VersionKind discriminates the two version shapes.
type VersionKind uint8

const (
	// Historical names an immutable commit by its 40-hex hash.
	Historical VersionKind = iota
	// Live names the mutable working tree on disk.
	Live
)

// Version identifies which point of a repository to read: an immutable
// commit hash, or the live working tree. The zero value is not valid;
// construct Versions with LiveVersion, HistoricalVersion or
// ParseVersion.
type Version struct {
	kind VersionKind
	hash string
}

// LiveVersion returns the Version naming the working tree.
func LiveVersion() Version {
	return Version{kind: Live}
}

// HistoricalVersion returns the Version for a 40-character lowercase
// hex commit hash.
func HistoricalVersion(hash string) (Version, error) {
	if !isHash(hash) {
		return Version{}, fmt.Errorf("%w: %q is not a 40-hex commit hash", ErrInvalidVersion, hash)
	}
	return Version{kind: Historical, hash: hash}, nil
}

// ParseVersion parses a version tag: the literal "live" or a
// 40-character lowercase hex hash. Anything else is ErrInvalidVersion,
// reported before any I/O happens.
func ParseVersion(s string) (Version, error) {
	if s == LiveTag {
		return LiveVersion(), nil
	}
	return HistoricalVersion(s)
}

// Kind returns the version's shape.
func (v Version) Kind() VersionKind { return v.kind }

// IsLive reports whether the version names the working tree.
func (v Version) IsLive() bool { return v.kind == Live }

// Hash returns the commit hash for a Historical version, and "" for
// Live.
func (v Version) Hash() string { return v.hash }

// String returns the version tag: the hash, or "live".
func (v Version) String() string {
	if v.IsLive() {
		return LiveTag
	}
	return v.hash
}

// key returns the cache-key part for the version. Identical to
// String, but valid hashes and the live tag can never collide so the
// two version kinds always occupy distinct key spaces.
func (v Version) key() string { return v.String() }

// validate rejects version shapes that bypassed the constructors, in
// particular the zero value, whose empty hash would otherwise reach
// git as an index address. Accessors call it before any cache or I/O
// work.
func (v Version) validate() error {
	if v.kind == Historical && !isHash(v.hash) {
		return fmt.Errorf("%w: %q is not a 40-hex commit hash", ErrInvalidVersion, v.hash)
	}
	return nil
}

func isHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range []byte(s) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
