package repofs

import (
	"errors"

	"github.com/schmitthub/repofs/internal/gitcmd"
)

var (
	// ErrNotRepository is returned when a path is not inside a git
	// repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrInvalidVersion is returned for a version tag that is neither a
	// 40-character lowercase hex hash nor the live sentinel. It is
	// reported before any I/O is attempted.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrUnknownRef is returned when a branch or tag name resolves to
	// nothing.
	ErrUnknownRef = errors.New("unknown ref")

	// ErrNotFound is reported when git says a path or revision does not
	// exist at the requested version. Callers can treat it as "no data"
	// rather than a hard failure. Aliased from gitcmd so both packages
	// report the same sentinel.
	ErrNotFound = gitcmd.ErrNotFound

	// ErrParse is returned when repository metadata (HEAD, packed-refs,
	// loose refs) does not have the expected shape.
	ErrParse = errors.New("malformed repository metadata")

	// ErrNotADirectory is returned when a directory listing is requested
	// for a path that is not a tree.
	ErrNotADirectory = errors.New("not a directory")

	// ErrUnsupported is returned for operations undefined on the
	// requested version, such as history of the live working tree, or
	// live reads on a bare repository.
	ErrUnsupported = errors.New("operation not supported")
)
