package repofs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/schmitthub/repofs/pkg/coalesce"
)

// ReadOption configures a content read.
type ReadOption func(*readOptions)

type readOptions struct {
	encoding string
}

// WithEncoding decodes the content from the named IANA charset (e.g.
// "ISO-8859-1") into UTF-8. Without it, raw bytes are returned.
func WithEncoding(name string) ReadOption {
	return func(o *readOptions) { o.encoding = name }
}

// FileContent returns the content of path at the given version.
// Historical versions read the committed blob via git; the live
// version reads the working tree directly.
func (r *Repository) FileContent(ctx context.Context, v Version, path string, opts ...ReadOption) ([]byte, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	key := coalesce.Key("cat", v.key(), path, o.encoding)
	return r.content.Do(ctx, key, r.ttl.For(v), func(ctx context.Context) ([]byte, error) {
		b, err := r.readFile(ctx, v, path)
		if err != nil {
			return nil, err
		}
		if o.encoding != "" {
			return decodeCharset(b, o.encoding)
		}
		return b, nil
	})
}

func (r *Repository) readFile(ctx context.Context, v Version, path string) ([]byte, error) {
	if v.IsLive() {
		p, err := r.livePath(path)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(p)
	}
	return r.runner.Run(ctx, "cat-file", "blob", v.Hash()+":"+path)
}

// FileSize returns the size in bytes of path at the given version
// without reading its content.
func (r *Repository) FileSize(ctx context.Context, v Version, path string) (int64, error) {
	if err := v.validate(); err != nil {
		return 0, err
	}
	key := coalesce.Key("size", v.key(), path)
	return r.sizes.Do(ctx, key, r.ttl.For(v), func(ctx context.Context) (int64, error) {
		if v.IsLive() {
			p, err := r.livePath(path)
			if err != nil {
				return 0, err
			}
			fi, err := os.Stat(p)
			if err != nil {
				return 0, err
			}
			return fi.Size(), nil
		}
		out, err := r.runner.Run(ctx, "cat-file", "-s", v.Hash()+":"+path)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cat-file -s output %q", ErrParse, out)
		}
		return n, nil
	})
}

// livePath maps a repository-relative path into the working tree. The
// join cannot escape the tree root, so "../" tricks stay inside.
func (r *Repository) livePath(path string) (string, error) {
	if r.Bare() {
		return "", fmt.Errorf("%w: live reads on a bare repository", ErrUnsupported)
	}
	return securejoin.SecureJoin(r.workTree, path)
}

func decodeCharset(b []byte, name string) ([]byte, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: encoding %q", ErrUnsupported, name)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", name, err)
	}
	return out, nil
}
