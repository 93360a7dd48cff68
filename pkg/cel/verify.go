package cel

import (
	"context"
	"fmt"

	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/signing"
)

// EventVerification is the per-entry outcome of Verify: whether its
// previousEvent link matched the actual prior entry's digest, and whether
// every proof in its proof array checked out.
type EventVerification struct {
	Index         int
	Type          EntryType
	ChainValid    bool
	ChainError    error
	ProofsValid   bool
	ProofErrors   []error
	WitnessCount  int
}

// VerificationResult aggregates EventVerification across an entire log.
type VerificationResult struct {
	Valid   bool
	Entries []EventVerification
}

// VerifyOptions customizes Verify.
type VerifyOptions struct {
	// Loader resolves non-did:key verification methods. May be nil if
	// every proof in the log uses a did:key verification method.
	Loader signing.DocumentLoader
	// RequireWitnessCryptographic, when true, verifies witness proof
	// signatures rather than only checking WitnessedAt's shape.
	RequireWitnessCryptographic bool
}

// Verify checks every entry in log: that its previousEvent digest (when
// present) matches the actual previous entry, that every proof in its
// proof array is cryptographically valid, and that no entry appears after
// a deactivate — deactivation is terminal. It never stops at the first
// failure — every entry is checked and reported, so callers can see the
// full extent of a corrupted log.
func Verify(ctx context.Context, log *EventLog, opts VerifyOptions) (VerificationResult, error) {
	if log == nil || len(log.Events) == 0 {
		return VerificationResult{}, ErrEmptyLog
	}

	result := VerificationResult{Valid: true, Entries: make([]EventVerification, len(log.Events))}

	deactivatedAt := -1
	for i, entry := range log.Events {
		ev := EventVerification{Index: i, Type: entry.Type, ChainValid: true, ProofsValid: true}

		if i == 0 {
			if entry.PreviousEvent != nil {
				ev.ChainValid = false
				ev.ChainError = fmt.Errorf("cel: entry 0 must not carry previousEvent")
			}
		} else {
			prev := log.Events[i-1]
			wantDigest, err := digest.Of(prev)
			if err != nil {
				ev.ChainValid = false
				ev.ChainError = fmt.Errorf("cel: digest entry %d: %w", i-1, err)
			} else if entry.PreviousEvent == nil {
				ev.ChainValid = false
				ev.ChainError = fmt.Errorf("cel: entry %d missing previousEvent", i)
			} else if *entry.PreviousEvent != wantDigest {
				ev.ChainValid = false
				ev.ChainError = fmt.Errorf("cel: entry %d previousEvent mismatch", i)
			}
		}

		if deactivatedAt >= 0 {
			ev.ChainValid = false
			if ev.ChainError == nil {
				ev.ChainError = fmt.Errorf("cel: entry %d appears after deactivate (entry %d)", i, deactivatedAt)
			}
		}
		if entry.Type == TypeDeactivate && deactivatedAt < 0 {
			deactivatedAt = i
		}

		payload := signable(entry)
		if len(entry.Proof) == 0 {
			ev.ProofsValid = false
			ev.ProofErrors = append(ev.ProofErrors, fmt.Errorf("cel: entry %d has no proof", i))
		}
		for _, p := range entry.Proof {
			p := p
			if p.IsWitness() {
				ev.WitnessCount++
				wp := signing.WitnessProof{DataIntegrityProof: p.DataIntegrityProof, WitnessedAt: p.WitnessedAt}
				ok, err := signing.VerifyWitness(ctx, payload, &wp, opts.Loader, opts.RequireWitnessCryptographic)
				if !ok {
					ev.ProofsValid = false
					ev.ProofErrors = append(ev.ProofErrors, err)
				}
				continue
			}
			ok, err := signing.Verify(ctx, payload, &p.DataIntegrityProof, opts.Loader)
			if !ok {
				ev.ProofsValid = false
				ev.ProofErrors = append(ev.ProofErrors, err)
			}
		}

		if !ev.ChainValid || !ev.ProofsValid {
			result.Valid = false
		}
		result.Entries[i] = ev
	}

	return result, nil
}
