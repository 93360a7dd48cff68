package multikey

import (
	"fmt"

	"github.com/multiformats/go-multibase"
)

// DigestMultibase is an immutable multibase-encoded SHA-256 digest: a
// base64url ('u') or base58btc ('z') string whose decoded payload is
// exactly 32 bytes. The base64url form is what pkg/digest produces; the
// base58btc form is accepted on decode for interoperability with DID
// methods that prefer it (e.g. did:peer).
type DigestMultibase string

// NewDigestMultibase encodes 32 raw digest bytes using the given multibase
// encoding (multibase.Base64url or multibase.Base58BTC).
func NewDigestMultibase(raw []byte, base multibase.Encoding) (DigestMultibase, error) {
	if len(raw) != 32 {
		return "", fmt.Errorf("multikey: digest must be 32 bytes, got %d", len(raw))
	}
	s, err := multibase.Encode(base, raw)
	if err != nil {
		return "", fmt.Errorf("multikey: encode digest: %w", err)
	}
	return DigestMultibase(s), nil
}

// Decode returns the raw 32-byte digest, rejecting any value whose decoded
// payload is not exactly 32 bytes regardless of which base prefix was used.
func (d DigestMultibase) Decode() ([]byte, error) {
	if d == "" {
		return nil, fmt.Errorf("multikey: empty digest")
	}
	_, raw, err := multibase.Decode(string(d))
	if err != nil {
		return nil, fmt.Errorf("multikey: invalid digest multibase: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("multikey: digest must decode to 32 bytes, got %d", len(raw))
	}
	return raw, nil
}

// Valid reports whether d is well-formed per the above invariant.
func (d DigestMultibase) Valid() bool {
	_, err := d.Decode()
	return err == nil
}

func (d DigestMultibase) String() string { return string(d) }
