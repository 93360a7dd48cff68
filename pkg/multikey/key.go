package multikey

import (
	"fmt"

	"github.com/multiformats/go-multibase"
)

// sizeForType is the expected raw key length for each key type; decoding a
// header whose remaining bytes don't match is rejected rather than silently
// accepted, since a truncated or padded key would otherwise verify-fail far
// from the actual bug.
func sizeForType(t KeyType) int {
	switch t {
	case Ed25519:
		return 32
	case Secp256k1:
		return 33 // compressed point
	case Ed25519Priv:
		return 32
	default:
		return -1
	}
}

// EncodeKey produces the multibase string for a raw key of the given type:
// base58btc ('z') framing a 2-byte multicodec header followed by the key
// bytes.
func EncodeKey(t KeyType, raw []byte) (string, error) {
	want := sizeForType(t)
	if want >= 0 && len(raw) != want {
		return "", fmt.Errorf("multikey: key type %d expects %d bytes, got %d", t, want, len(raw))
	}
	header, err := headerFor(t)
	if err != nil {
		return "", err
	}
	buf := make([]byte, 0, len(header)+len(raw))
	buf = append(buf, header...)
	buf = append(buf, raw...)
	return multibase.Encode(multibase.Base58BTC, buf)
}

// DecodeKey parses a multibase-encoded key, verifying that the embedded
// multicodec header matches the expected KeyType. A header mismatch — e.g.
// a secp256k1 key presented where Ed25519 is declared — is rejected, never
// silently reinterpreted.
func DecodeKey(expected KeyType, s string) ([]byte, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("multikey: invalid multibase string: %w", err)
	}
	code, rest, err := splitHeader(data)
	if err != nil {
		return nil, err
	}
	if code != codeFor(expected) {
		return nil, fmt.Errorf("multikey: header code 0x%x does not match expected key type %d", code, expected)
	}
	want := sizeForType(expected)
	if want >= 0 && len(rest) != want {
		return nil, fmt.Errorf("multikey: decoded key has %d bytes, expected %d", len(rest), want)
	}
	return rest, nil
}
