package cel

import (
	"context"
	"fmt"

	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/signing"
)

// Create produces a new single-entry EventLog. data must not itself carry a
// "previousEvent" or "proof" key; Create owns both.
func Create(ctx context.Context, data Data, signer signing.Signer, opts signing.SignOptions) (*EventLog, error) {
	entry := LogEntry{Type: TypeCreate, Data: data}
	proof, err := signing.Sign(ctx, signable(entry), signer, opts)
	if err != nil {
		return nil, fmt.Errorf("cel: create: %w", err)
	}
	entry.Proof = []ProofEntry{{DataIntegrityProof: *proof}}
	return &EventLog{Events: []LogEntry{entry}}, nil
}

// Update appends an update entry to log, returning a new EventLog value;
// the input log is not mutated. Returns ErrLogClosed if the log's last
// entry is a deactivate.
func Update(ctx context.Context, log *EventLog, data Data, signer signing.Signer, opts signing.SignOptions) (*EventLog, error) {
	return appendEntry(ctx, log, TypeUpdate, data, signer, opts)
}

// Deactivate appends a deactivate entry. data typically carries a "reason"
// key; the event log accepts any shape. Returns ErrLogClosed if already
// deactivated.
func Deactivate(ctx context.Context, log *EventLog, data Data, signer signing.Signer, opts signing.SignOptions) (*EventLog, error) {
	return appendEntry(ctx, log, TypeDeactivate, data, signer, opts)
}

func appendEntry(ctx context.Context, log *EventLog, typ EntryType, data Data, signer signing.Signer, opts signing.SignOptions) (*EventLog, error) {
	if log == nil || len(log.Events) == 0 {
		return nil, ErrEmptyLog
	}
	last := log.Last()
	if last.Type == TypeDeactivate {
		return nil, ErrLogClosed
	}
	prevDigest, err := digest.Of(last)
	if err != nil {
		return nil, fmt.Errorf("cel: digest previous entry: %w", err)
	}

	entry := LogEntry{Type: typ, Data: data, PreviousEvent: &prevDigest}
	proof, err := signing.Sign(ctx, signable(entry), signer, opts)
	if err != nil {
		return nil, fmt.Errorf("cel: %s: %w", typ, err)
	}
	entry.Proof = []ProofEntry{{DataIntegrityProof: *proof}}

	next := make([]LogEntry, len(log.Events), len(log.Events)+1)
	copy(next, log.Events)
	next = append(next, entry)
	return &EventLog{Events: next, PreviousLog: log.PreviousLog}, nil
}

// AddWitnessProof appends a witness's attestation to the proof array of the
// entry at index, returning a new EventLog. It does not re-sign or alter
// any existing proof.
func AddWitnessProof(log *EventLog, index int, wp signing.WitnessProof) (*EventLog, error) {
	if log == nil || index < 0 || index >= len(log.Events) {
		return nil, fmt.Errorf("cel: witness: index %d out of range", index)
	}
	events := make([]LogEntry, len(log.Events))
	copy(events, log.Events)
	entry := events[index]
	proofs := make([]ProofEntry, len(entry.Proof), len(entry.Proof)+1)
	copy(proofs, entry.Proof)
	proofs = append(proofs, ProofEntry{DataIntegrityProof: wp.DataIntegrityProof, WitnessedAt: wp.WitnessedAt})
	entry.Proof = proofs
	events[index] = entry
	return &EventLog{Events: events, PreviousLog: log.PreviousLog}, nil
}

// signable returns the value actually canonicalized and signed for an
// entry: its data only. previousEvent is deliberately excluded — it is
// bound to the chain transitively, since the next entry's previousEvent
// digest covers this entire entry (data, previousEvent and proof array
// together) once appended.
func signable(entry LogEntry) interface{} {
	return entry.Data
}
