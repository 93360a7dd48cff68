package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryPutGetExists(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	ok, err := m.Exists(ctx, "example.com", "/assets/abc/digest")
	require.NoError(t, err)
	require.False(t, ok)

	uri, err := m.Put(ctx, "example.com", "/assets/abc/digest", []byte("hello"), "image/png")
	require.NoError(t, err)
	require.Equal(t, "mem://example.com/assets/abc/digest", uri)

	ok, err = m.Exists(ctx, "example.com", "assets/abc/digest")
	require.NoError(t, err)
	require.True(t, ok)

	content, err := m.Get(ctx, "example.com", "assets/abc/digest")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), content.Bytes)
	require.Equal(t, "image/png", content.MediaType)
}

func TestMemoryDomainIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, err := m.Put(ctx, "a.com", "/x", []byte("a"), "")
	require.NoError(t, err)

	_, err = m.Get(ctx, "b.com", "/x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSBuildsURIAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	h := NewHTTPS()

	uri, err := h.Put(ctx, "example.com", "/.well-known/did/abc123/did.json", []byte(`{"id":"did:webvh:example.com:abc123"}`), "application/json")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/.well-known/did/abc123/did.json", uri)

	content, err := h.Get(ctx, "example.com", "/.well-known/did/abc123/did.json")
	require.NoError(t, err)
	require.Contains(t, string(content.Bytes), "did:webvh")
}

func TestFirestoreDisabledIsNoOp(t *testing.T) {
	ctx := context.Background()
	f, err := NewFirestore(ctx, &FirestoreConfig{Enabled: false})
	require.NoError(t, err)

	uri, err := f.Put(ctx, "example.com", "/x", []byte("data"), "")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/x", uri)

	ok, err := f.Exists(ctx, "example.com", "/x")
	require.NoError(t, err)
	require.False(t, ok)
}
