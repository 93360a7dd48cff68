package peer

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/signing"
	"github.com/stretchr/testify/require"
)

func resourceRef(t *testing.T, content string) cel.ExternalReference {
	t.Helper()
	d, err := digest.OfBytes([]byte(content))
	require.NoError(t, err)
	return cel.ExternalReference{DigestMultibase: d, MediaType: "image/png"}
}

func TestDeriveDIDIndependentOfOrder(t *testing.T) {
	a := resourceRef(t, "alpha")
	b := resourceRef(t, "beta")

	did1, err := DeriveDID([]cel.ExternalReference{a, b})
	require.NoError(t, err)
	did2, err := DeriveDID([]cel.ExternalReference{b, a})
	require.NoError(t, err)

	require.Equal(t, did1, did2)
	require.Regexp(t, `^did:peer:4`, did1)
}

func TestCreateEmitsPeerLayerEvent(t *testing.T) {
	ctx := context.Background()
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := signing.NewEd25519Signer(priv, "")
	require.NoError(t, err)

	resources := []cel.ExternalReference{resourceRef(t, "one")}
	log, err := New().Create(ctx, "asset", resources, signer.VerificationMethod(), "2026-01-01T00:00:00Z", signer, signing.SignOptions{})
	require.NoError(t, err)
	require.Len(t, log.Events, 1)

	state, err := cel.ReplayState(log)
	require.NoError(t, err)
	require.Equal(t, cel.LayerPeer, state.Layer)
	require.Equal(t, "asset", state.Name)
	require.Len(t, state.Resources, 1)

	result, err := cel.Verify(ctx, log, cel.VerifyOptions{})
	require.NoError(t, err)
	require.True(t, result.Valid)
}
