package storage

import (
	"context"
	"strings"
)

// Content is what Get returns: the stored bytes plus the media type
// supplied at Put time, if any.
type Content struct {
	Bytes     []byte
	MediaType string
}

// Adapter is the narrow storage capability contract. Every backend
// normalizes path the same way (leading slashes stripped) and isolates
// domains from one another; writes under the same (domain, path)
// overwrite. The returned URI from Put is opaque — callers must not parse
// it, only round-trip it.
type Adapter interface {
	Put(ctx context.Context, domain, path string, content []byte, mediaType string) (uri string, err error)
	Get(ctx context.Context, domain, path string) (*Content, error)
	Exists(ctx context.Context, domain, path string) (bool, error)
}

// normalizePath strips leading slashes, per the adapter contract.
func normalizePath(path string) string {
	return strings.TrimLeft(path, "/")
}
