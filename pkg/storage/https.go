package storage

import (
	"context"
	"fmt"
)

// HTTPS is a storage adapter that builds https:// URIs with the exact
// layout the webvh layer publishes under — /.well-known/did/<slug>/...,
// /assets/<slug>/... — without performing any network I/O itself. The
// core constructs these artifacts and their addresses; actually serving
// them over HTTP is an integration concern outside this module, so
// content is retained in-process the same way Memory does, and Get
// returns exactly what was Put.
type HTTPS struct {
	backend *Memory
}

// NewHTTPS returns an HTTPS adapter backed by an in-process store.
func NewHTTPS() *HTTPS {
	return &HTTPS{backend: NewMemory()}
}

func (h *HTTPS) Put(ctx context.Context, domain, path string, content []byte, mediaType string) (string, error) {
	if _, err := h.backend.Put(ctx, domain, path, content, mediaType); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/%s", domain, normalizePath(path)), nil
}

func (h *HTTPS) Get(ctx context.Context, domain, path string) (*Content, error) {
	return h.backend.Get(ctx, domain, path)
}

func (h *HTTPS) Exists(ctx context.Context, domain, path string) (bool, error) {
	return h.backend.Exists(ctx, domain, path)
}
