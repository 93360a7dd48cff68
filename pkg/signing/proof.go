package signing

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/originals/cel/pkg/codec"
	"github.com/originals/cel/pkg/multikey"
)

const (
	ProofType             = "DataIntegrityProof"
	CryptosuiteEddsaJCS   = "eddsa-jcs-2022"
	ProofPurposeAssertion = "assertionMethod"

	ed25519SignatureLen = 64
)

// DataIntegrityProof is a single controller or witness signature over a
// canonicalized payload.
type DataIntegrityProof struct {
	Type                string `json:"type" cbor:"type"`
	Cryptosuite         string `json:"cryptosuite" cbor:"cryptosuite"`
	Created             string `json:"created" cbor:"created"`
	VerificationMethod  string `json:"verificationMethod" cbor:"verificationMethod"`
	ProofPurpose        string `json:"proofPurpose" cbor:"proofPurpose"`
	ProofValue          string `json:"proofValue" cbor:"proofValue"`
}

// WitnessProof is a DataIntegrityProof binding a digest to a wall-clock
// moment via WitnessedAt, which is exposed for timeline reporting but is
// not itself cryptographically authoritative (see VerifyWitness below).
type WitnessProof struct {
	DataIntegrityProof
	WitnessedAt string `json:"witnessedAt" cbor:"witnessedAt"`
}

// DocumentLoader resolves a verificationMethod DID URL to an Ed25519
// public key for signature verification. Callers that only ever produce
// did:key: verification methods can pass a nil loader; Verify falls back
// to parsing the key directly out of the DID URL in that case.
type DocumentLoader func(ctx context.Context, verificationMethod string) (ed25519.PublicKey, error)

// SignOptions customizes proof construction.
type SignOptions struct {
	ProofPurpose string    // defaults to "assertionMethod"
	Created      time.Time // defaults to time.Now().UTC(); set for reproducible tests
}

func (o SignOptions) purpose() string {
	if o.ProofPurpose == "" {
		return ProofPurposeAssertion
	}
	return o.ProofPurpose
}

func (o SignOptions) created() time.Time {
	if o.Created.IsZero() {
		return time.Now().UTC()
	}
	return o.Created.UTC()
}

// Sign canonicalizes payload (which must not itself contain a "proof"
// field) and produces a DataIntegrityProof using signer.
func Sign(ctx context.Context, payload interface{}, signer Signer, opts SignOptions) (*DataIntegrityProof, error) {
	canon, err := codec.CanonicalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("signing: canonicalize payload: %w", err)
	}
	proofValue, err := signer.Sign(ctx, canon)
	if err != nil {
		return nil, fmt.Errorf("signing: sign: %w", err)
	}
	return &DataIntegrityProof{
		Type:                ProofType,
		Cryptosuite:         CryptosuiteEddsaJCS,
		Created:             opts.created().Format(time.RFC3339),
		VerificationMethod:  signer.VerificationMethod(),
		ProofPurpose:        opts.purpose(),
		ProofValue:          proofValue,
	}, nil
}

// Verify checks a single DataIntegrityProof over payload (canonicalized the
// same way Sign does, excluding any proof field). It never panics or
// returns a raw decode error for an untrusted proof — every failure mode
// resolves to (false, sentinel error) so that CEL verification can
// aggregate per-event results instead of aborting.
func Verify(ctx context.Context, payload interface{}, proof *DataIntegrityProof, loader DocumentLoader) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: nil proof", ErrProofMalformed)
	}
	if proof.Cryptosuite != CryptosuiteEddsaJCS {
		return false, fmt.Errorf("%w: %q", ErrUnsupportedCryptosuite, proof.Cryptosuite)
	}
	sig, err := DecodeSignature(proof.ProofValue)
	if err != nil {
		return false, err
	}
	if len(sig) != ed25519SignatureLen {
		return false, fmt.Errorf("%w: signature length %d, want %d", ErrProofMalformed, len(sig), ed25519SignatureLen)
	}

	canon, err := codec.CanonicalJSON(payload)
	if err != nil {
		return false, fmt.Errorf("%w: canonicalize payload: %v", ErrProofMalformed, err)
	}

	pub, err := resolveKey(ctx, proof.VerificationMethod, loader)
	if err != nil {
		return false, err
	}

	if !ed25519.Verify(pub, canon, sig) {
		return false, ErrSignatureInvalid
	}
	return true, nil
}

// VerifyWitness additionally requires WitnessedAt to parse as RFC3339; per
// the design notes, its value is accepted structurally and returned for
// timeline reporting, not treated as independently authoritative unless
// requireCryptographic is set and the verification method resolves.
func VerifyWitness(ctx context.Context, payload interface{}, wp *WitnessProof, loader DocumentLoader, requireCryptographic bool) (bool, error) {
	if wp == nil {
		return false, fmt.Errorf("%w: nil witness proof", ErrProofMalformed)
	}
	if _, err := time.Parse(time.RFC3339, wp.WitnessedAt); err != nil {
		return false, fmt.Errorf("%w: witnessedAt: %v", ErrProofMalformed, err)
	}
	if !requireCryptographic {
		return true, nil
	}
	return Verify(ctx, payload, &wp.DataIntegrityProof, loader)
}

func resolveKey(ctx context.Context, verificationMethod string, loader DocumentLoader) (ed25519.PublicKey, error) {
	if strings.HasPrefix(verificationMethod, "did:key:") {
		pub, err := parseDIDKey(verificationMethod)
		if err == nil {
			return pub, nil
		}
		if loader == nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyResolutionFailed, err)
		}
	}
	if loader == nil {
		return nil, fmt.Errorf("%w: no document loader for %q", ErrKeyResolutionFailed, verificationMethod)
	}
	pub, err := loader(ctx, verificationMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyResolutionFailed, err)
	}
	return pub, nil
}

// parseDIDKey extracts the Ed25519 public key from a did:key:<multibase>
// or did:key:<multibase>#<fragment> verification method.
func parseDIDKey(verificationMethod string) (ed25519.PublicKey, error) {
	rest := strings.TrimPrefix(verificationMethod, "did:key:")
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		rest = rest[:idx]
	}
	raw, err := multikey.DecodeEd25519PublicKey(multikey.PublicKey(rest))
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(raw), nil
}
