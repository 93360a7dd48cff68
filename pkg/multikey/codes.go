// Package multikey encodes and decodes the multibase/multicodec
// representations used throughout the system: digests, and Ed25519/
// secp256k1 public and private keys.
package multikey

import (
	"fmt"

	"github.com/multiformats/go-varint"
)

// KeyType identifies the curve a Multikey's multicodec header declares.
type KeyType int

const (
	Ed25519 KeyType = iota
	Secp256k1
	Ed25519Priv
)

// Multicodec codes (unsigned-varint encoded integer identifiers, per the
// multicodec table). ed25519-pub=0xed, secp256k1-pub=0xe7, ed25519-priv=0x1300.
const (
	codeEd25519     = 0xed
	codeSecp256k1   = 0xe7
	codeEd25519Priv = 0x1300
)

func headerFor(t KeyType) ([]byte, error) {
	switch t {
	case Ed25519:
		return varint.ToUvarint(codeEd25519), nil
	case Secp256k1:
		return varint.ToUvarint(codeSecp256k1), nil
	case Ed25519Priv:
		return varint.ToUvarint(codeEd25519Priv), nil
	default:
		return nil, fmt.Errorf("multikey: unknown key type %d", t)
	}
}

// splitHeader reads the leading multicodec varint off data and returns the
// remaining key bytes alongside the decoded code.
func splitHeader(data []byte) (code uint64, rest []byte, err error) {
	code, n, err := varint.FromUvarint(data)
	if err != nil {
		return 0, nil, fmt.Errorf("multikey: malformed multicodec header: %w", err)
	}
	return code, data[n:], nil
}

func codeFor(t KeyType) uint64 {
	switch t {
	case Ed25519:
		return codeEd25519
	case Secp256k1:
		return codeSecp256k1
	case Ed25519Priv:
		return codeEd25519Priv
	default:
		return 0
	}
}
