package webvh

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/layer/peer"
	"github.com/originals/cel/pkg/signing"
	"github.com/originals/cel/pkg/storage"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) signing.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := signing.NewEd25519Signer(priv, "")
	require.NoError(t, err)
	return signer
}

func TestMigratePeerToWebVH(t *testing.T) {
	ctx := context.Background()
	signer := newSigner(t)

	content := []byte("resource-bytes")
	d, err := digest.OfBytes(content)
	require.NoError(t, err)
	resource := cel.ExternalReference{DigestMultibase: d, MediaType: "image/png"}

	peerLog, err := peer.New().Create(ctx, "asset", []cel.ExternalReference{resource}, signer.VerificationMethod(), "2026-01-01T00:00:00Z", signer, signing.SignOptions{})
	require.NoError(t, err)

	mem := storage.NewMemory()
	mgr := New(mem)
	webLog, err := mgr.Migrate(ctx, peerLog, "example.com", map[string][]byte{string(d): content}, signer, signing.SignOptions{})
	require.NoError(t, err)
	require.Len(t, webLog.Events, 2)

	state, err := cel.ReplayState(webLog)
	require.NoError(t, err)
	require.Equal(t, cel.LayerWebVH, state.Layer)
	require.Regexp(t, `^did:webvh:example\.com:`, state.DID)
	require.Len(t, state.Provenance, 1)

	result, err := cel.Verify(ctx, webLog, cel.VerifyOptions{})
	require.NoError(t, err)
	require.True(t, result.Valid)

	ok, err := mem.Exists(ctx, "example.com", "/.well-known/did/"+slugFromDID(state.DID)+"/did.json")
	require.NoError(t, err)
	require.True(t, ok)
}

func slugFromDID(did string) string {
	for i := len(did) - 1; i >= 0; i-- {
		if did[i] == ':' {
			return did[i+1:]
		}
	}
	return ""
}

func TestMigrateRejectsNonPeerSource(t *testing.T) {
	ctx := context.Background()
	signer := newSigner(t)

	log, err := peer.New().Create(ctx, "asset", nil, signer.VerificationMethod(), "2026-01-01T00:00:00Z", signer, signing.SignOptions{})
	require.NoError(t, err)

	mgr := New(storage.NewMemory())
	log, err = mgr.Migrate(ctx, log, "example.com", nil, signer, signing.SignOptions{})
	require.NoError(t, err)

	_, err = mgr.Migrate(ctx, log, "example.com", nil, signer, signing.SignOptions{})
	require.Error(t, err)
}
