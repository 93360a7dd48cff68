package credential

import (
	"fmt"
	"strings"
)

// PointerPartition splits a credential's disclosable fields into pointers
// that must always be revealed and pointers a holder may selectively
// withhold. The cryptographic derivation (BBS+ or similar) that actually
// produces a partial disclosure proof is a declared extension point —
// SelectiveSigner below — not implemented in the core; this package only
// validates pointer shape and preserves the partition for such a signer.
type PointerPartition struct {
	MandatoryPointers []string
	SelectivePointers []string
}

// NewPointerPartition validates that every pointer begins with "/" (RFC
// 6901 JSON Pointer syntax) and returns the partition, or ErrInvalidPointer
// naming the first offending pointer.
func NewPointerPartition(mandatory, selective []string) (*PointerPartition, error) {
	for _, p := range mandatory {
		if err := validatePointer(p); err != nil {
			return nil, err
		}
	}
	for _, p := range selective {
		if err := validatePointer(p); err != nil {
			return nil, err
		}
	}
	return &PointerPartition{MandatoryPointers: mandatory, SelectivePointers: selective}, nil
}

func validatePointer(p string) error {
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPointer, p)
	}
	return nil
}

// SelectiveSigner is the extension point a caller implements to actually
// derive a selective-disclosure proof (e.g. BBS+) over a credential given
// its PointerPartition. The core ships no implementation.
type SelectiveSigner interface {
	DeriveProof(vc *Credential, partition *PointerPartition) ([]byte, error)
}
