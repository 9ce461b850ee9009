package repofs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/schmitthub/repofs/pkg/coalesce"
)

// Commit is one entry of a path's history.
type Commit struct {
	// Hash is the 40-hex commit id.
	Hash string
	// Fields holds the header lines ("Author: ...", "Date: ...") with
	// lower-cased field names.
	Fields map[string]string
	// Message is the commit message with the log indent stripped.
	Message string
}

// Author returns the author header field, if present.
func (c Commit) Author() string { return c.Fields["author"] }

// Date returns the date header field, if present.
func (c Commit) Date() string { return c.Fields["date"] }

// Subject returns the first line of the message.
func (c Commit) Subject() string {
	s, _, _ := strings.Cut(c.Message, "\n")
	return s
}

// LogOption configures a history query.
type LogOption func(*logOptions)

type logOptions struct {
	limit int
}

// WithLimit caps the number of returned commits. Zero means no cap.
func WithLimit(n int) LogOption {
	return func(o *logOptions) { o.limit = n }
}

// Log returns the commit history of path at the given version, newest
// first. An empty path means the whole tree. A path with no matching
// commits yields an empty slice, not an error. History is undefined
// for the live working tree and fails with ErrUnsupported.
func (r *Repository) Log(ctx context.Context, v Version, path string, opts ...LogOption) ([]Commit, error) {
	if v.IsLive() {
		return nil, fmt.Errorf("%w: log of the live working tree", ErrUnsupported)
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	var o logOptions
	for _, opt := range opts {
		opt(&o)
	}
	key := coalesce.Key("log", v.key(), path, strconv.Itoa(o.limit))
	return r.logs.Do(ctx, key, r.ttl.For(v), func(ctx context.Context) ([]Commit, error) {
		// -z separates entries with NUL, the one byte that cannot
		// appear in the text itself.
		args := []string{"log", "-z"}
		if o.limit > 0 {
			args = append(args, "-n", strconv.Itoa(o.limit))
		}
		args = append(args, v.Hash())
		if path != "" {
			args = append(args, "--", path)
		}
		out, err := r.runner.Run(ctx, args...)
		if err != nil {
			return nil, err
		}
		return parseLog(string(out))
	})
}

func parseLog(out string) ([]Commit, error) {
	commits := []Commit{}
	for _, chunk := range strings.Split(out, "\x00") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		c, err := parseCommit(chunk)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// parseCommit parses one log entry: a "commit <hash>" line, header
// fields until a blank line, then the indented message body.
func parseCommit(text string) (Commit, error) {
	lines := strings.Split(text, "\n")
	rest, ok := strings.CutPrefix(lines[0], "commit ")
	if !ok {
		return Commit{}, fmt.Errorf("%w: log entry starts with %q", ErrParse, lines[0])
	}
	hash, _, _ := strings.Cut(rest, " ")
	if !isHash(hash) {
		return Commit{}, fmt.Errorf("%w: log entry has commit id %q", ErrParse, hash)
	}

	c := Commit{Hash: hash, Fields: make(map[string]string)}
	i := 1
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		c.Fields[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	var msg []string
	for ; i < len(lines); i++ {
		msg = append(msg, strings.TrimPrefix(lines[i], "    "))
	}
	c.Message = strings.TrimRight(strings.Join(msg, "\n"), "\n")
	return c, nil
}
