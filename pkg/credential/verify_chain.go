package credential

import (
	"context"
	"fmt"

	"github.com/originals/cel/pkg/signing"
)

// ChainVerification is the per-credential outcome of VerifyChain.
type ChainVerification struct {
	Index       int
	LinkValid   bool
	LinkError   error
	ProofValid  bool
	ProofError  error
}

// VerifyChain walks list, checking that each adjacent pair's
// previousCredential hash matches SHA-256(canonical(prev)), and that
// each credential's own proof verifies when present. It checks every
// credential rather than stopping at the first failure.
func VerifyChain(ctx context.Context, list []*Credential, loader signing.DocumentLoader) ([]ChainVerification, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("credential: empty chain")
	}

	results := make([]ChainVerification, len(list))
	for i, vc := range list {
		cv := ChainVerification{Index: i, LinkValid: true, ProofValid: true}

		if i > 0 {
			prevHash, err := ComputeCredentialHash(list[i-1])
			if err != nil {
				cv.LinkValid = false
				cv.LinkError = err
			} else {
				link := vc.CredentialSubject.PreviousCredential
				if link == nil {
					cv.LinkValid = false
					cv.LinkError = fmt.Errorf("%w: credential %d has no previousCredential", ErrChainBroken, i)
				} else if link.Hash != prevHash {
					cv.LinkValid = false
					cv.LinkError = fmt.Errorf("%w: credential %d hash mismatch", ErrChainBroken, i)
				}
			}
		}

		if vc.Proof != nil {
			unsigned := *vc
			unsigned.Proof = nil
			ok, err := signing.Verify(ctx, unsigned, vc.Proof, loader)
			if !ok {
				cv.ProofValid = false
				cv.ProofError = err
			}
		}

		results[i] = cv
	}
	return results, nil
}
