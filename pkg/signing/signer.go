// Package signing implements the opaque signer abstraction (C4) and the
// Data Integrity proof engine (C5): building and verifying eddsa-jcs-2022
// proofs over canonical JSON payloads.
package signing

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/originals/cel/pkg/multikey"
)

// KeyType identifies the signing curve a Signer uses. Only Ed25519 carries
// verification semantics in the proof engine; Secp256k1 is declarable (a
// signer may exist and produce proofValue bytes) but the core does not
// verify its signatures, matching the single supported cryptosuite.
type KeyType int

const (
	KeyTypeEd25519 KeyType = iota
	KeyTypeSecp256k1
)

// Signer is the narrow capability contract the core consumes: it never
// sees private key material, only an opaque sign(payload) call. A remote
// custodial key service, an HSM, or a local Ed25519 keypair can all satisfy
// this interface identically.
type Signer interface {
	// KeyType reports which curve this signer uses.
	KeyType() KeyType
	// VerificationMethod is the DID URL (typically did:key:... or a DID
	// document's assertionMethod entry) that a verifier resolves to find
	// this signer's public key.
	VerificationMethod() string
	// Sign returns the multibase-encoded proofValue for the given
	// canonicalized payload bytes.
	Sign(ctx context.Context, canonicalPayload []byte) (proofValue string, err error)
}

// Ed25519Signer is the core's one concrete, local Signer implementation.
// Integrators who need a remote or custodial signer implement Signer
// themselves; the core never requires this type.
type Ed25519Signer struct {
	verificationMethod string
	private            ed25519.PrivateKey
}

// NewEd25519Signer builds a signer whose verification method is the
// did:key: DID URL derived from priv's public key, unless verificationMethod
// overrides it (e.g. a DID document's own assertionMethod entry).
func NewEd25519Signer(priv ed25519.PrivateKey, verificationMethod string) (*Ed25519Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signing: invalid ed25519 private key size %d", len(priv))
	}
	if verificationMethod == "" {
		pub, ok := priv.Public().(ed25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("signing: could not derive ed25519 public key")
		}
		vm, err := DIDKeyVerificationMethod(pub)
		if err != nil {
			return nil, err
		}
		verificationMethod = vm
	}
	return &Ed25519Signer{verificationMethod: verificationMethod, private: priv}, nil
}

func (s *Ed25519Signer) KeyType() KeyType { return KeyTypeEd25519 }

func (s *Ed25519Signer) VerificationMethod() string { return s.verificationMethod }

func (s *Ed25519Signer) Sign(_ context.Context, canonicalPayload []byte) (string, error) {
	sig := ed25519.Sign(s.private, canonicalPayload)
	return EncodeSignature(sig)
}

// EncodeSignature multibase-encodes a raw signature (base58btc, no
// multicodec header — signatures, unlike keys, are not multicodec-tagged).
func EncodeSignature(sig []byte) (string, error) {
	return multibase.Encode(multibase.Base58BTC, sig)
}

// DecodeSignature reverses EncodeSignature, returning the raw signature
// bytes.
func DecodeSignature(proofValue string) ([]byte, error) {
	_, raw, err := multibase.Decode(proofValue)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid multibase proofValue: %v", ErrProofMalformed, err)
	}
	return raw, nil
}

// DIDKeyVerificationMethod derives the did:key:<multibase> DID URL for an
// Ed25519 public key, per the local did:key resolution path the proof
// engine supports for offline verification.
func DIDKeyVerificationMethod(pub ed25519.PublicKey) (string, error) {
	mk, err := multikey.NewEd25519PublicKey(pub)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("did:key:%s#%s", mk, mk), nil
}
