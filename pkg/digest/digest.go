// Package digest computes the content-address used throughout the system:
// SHA-256 over the canonical JSON encoding of a value, represented as a
// base64url multibase digest.
package digest

import (
	"crypto/sha256"
	"sort"

	"github.com/multiformats/go-multibase"
	"github.com/originals/cel/pkg/codec"
	"github.com/originals/cel/pkg/multikey"
)

// Of returns multibase_base64url(SHA-256(canonical_json(value))).
func Of(value interface{}) (multikey.DigestMultibase, error) {
	canon, err := codec.CanonicalJSON(value)
	if err != nil {
		return "", err
	}
	return OfCanonicalBytes(canon)
}

// OfCanonicalBytes hashes bytes that are already known to be a canonical
// JSON encoding, skipping the re-canonicalization step.
func OfCanonicalBytes(canon []byte) (multikey.DigestMultibase, error) {
	sum := sha256.Sum256(canon)
	return multikey.NewDigestMultibase(sum[:], multibase.Base64url)
}

// OfBytes hashes opaque bytes directly (used for resource content, not for
// structured CEL/credential values, which always go through Of).
func OfBytes(raw []byte) (multikey.DigestMultibase, error) {
	sum := sha256.Sum256(raw)
	return multikey.NewDigestMultibase(sum[:], multibase.Base64url)
}

// SortedDigestsBytes returns the SHA-256 of the concatenation of the given
// digests' decoded bytes, sorted ascending. It is the primitive the peer
// layer uses to derive a did:peer DID deterministically from a resource
// set regardless of input order.
func SortedDigestsBytes(digests []multikey.DigestMultibase) ([]byte, error) {
	raws := make([][]byte, 0, len(digests))
	for _, d := range digests {
		raw, err := d.Decode()
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	sort.Slice(raws, func(i, j int) bool {
		return lessBytes(raws[i], raws[j])
	})
	h := sha256.New()
	for _, raw := range raws {
		h.Write(raw)
	}
	return h.Sum(nil), nil
}

func lessBytes(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
