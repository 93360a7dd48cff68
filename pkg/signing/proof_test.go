package signing

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := NewEd25519Signer(priv, "")
	require.NoError(t, err)

	payload := map[string]interface{}{"name": "A", "value": 1}
	proof, err := Sign(context.Background(), payload, signer, SignOptions{})
	require.NoError(t, err)
	require.Equal(t, CryptosuiteEddsaJCS, proof.Cryptosuite)

	ok, err := Verify(context.Background(), payload, proof, nil)
	require.NoError(t, err)
	require.True(t, ok)

	_ = pub
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := NewEd25519Signer(priv, "")
	require.NoError(t, err)

	proof, err := Sign(context.Background(), map[string]interface{}{"a": 1}, signer, SignOptions{})
	require.NoError(t, err)

	ok, err := Verify(context.Background(), map[string]interface{}{"a": 2}, proof, nil)
	require.False(t, ok)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyWitnessRequiresRFC3339(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := NewEd25519Signer(priv, "")
	require.NoError(t, err)

	payload := map[string]interface{}{"digest": "udeadbeef"}
	proof, err := Sign(context.Background(), payload, signer, SignOptions{Created: time.Now()})
	require.NoError(t, err)

	wp := &WitnessProof{DataIntegrityProof: *proof, WitnessedAt: "not-a-time"}
	ok, err := VerifyWitness(context.Background(), payload, wp, nil, false)
	require.False(t, ok)
	require.Error(t, err)

	wp.WitnessedAt = time.Now().UTC().Format(time.RFC3339)
	ok, err = VerifyWitness(context.Background(), payload, wp, nil, true)
	require.NoError(t, err)
	require.True(t, ok)
}
