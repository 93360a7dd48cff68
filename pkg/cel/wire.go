package cel

import (
	"fmt"

	"github.com/originals/cel/pkg/codec"
)

// EncodeJSON renders log as the *.cel.json artifact: pretty-printed JSON
// with canonical (sorted) key order at every depth.
func EncodeJSON(log *EventLog) ([]byte, error) {
	canon, err := codec.CanonicalJSON(log)
	if err != nil {
		return nil, err
	}
	return codec.PrettyJSON(canon)
}

// EncodeCBOR renders log as the *.cel.cbor artifact: deterministic CBOR.
func EncodeCBOR(log *EventLog) ([]byte, error) {
	return codec.CanonicalCBOR(log)
}

// DecodeJSON parses a *.cel.json artifact and validates its wire shape.
// Unknown fields on proofs are dropped by the struct decode — the typed
// surface defines everything the log accepts.
func DecodeJSON(raw []byte) (*EventLog, error) {
	var log EventLog
	if err := codec.DecodeJSON(raw, &log); err != nil {
		return nil, err
	}
	if err := validateWire(&log); err != nil {
		return nil, err
	}
	return &log, nil
}

// DecodeCBOR parses a *.cel.cbor artifact and validates its wire shape.
func DecodeCBOR(raw []byte) (*EventLog, error) {
	var log EventLog
	if err := codec.DecodeCBOR(raw, &log); err != nil {
		return nil, err
	}
	if err := validateWire(&log); err != nil {
		return nil, err
	}
	return &log, nil
}

// validateWire enforces the structural rules a decoded log must satisfy
// before any verification runs: events present, every entry type in range,
// every proof carrying its required fields. Chain and signature validity
// are Verify's concern, not the codec boundary's.
func validateWire(log *EventLog) error {
	if log.Events == nil {
		return &codec.DecodeError{Reason: "event log missing events"}
	}
	if len(log.Events) == 0 {
		return &codec.DecodeError{Reason: "event log has no events"}
	}
	for i, entry := range log.Events {
		if !entry.Type.Valid() {
			return &codec.DecodeError{Reason: fmt.Sprintf("entry %d has unknown type %q", i, entry.Type)}
		}
		if len(entry.Proof) == 0 {
			return &codec.DecodeError{Reason: fmt.Sprintf("entry %d has no proof", i)}
		}
		for j, p := range entry.Proof {
			if err := validateProofFields(p); err != nil {
				return &codec.DecodeError{Reason: fmt.Sprintf("entry %d proof %d: %v", i, j, err)}
			}
		}
	}
	return nil
}

func validateProofFields(p ProofEntry) error {
	switch {
	case p.Type == "":
		return fmt.Errorf("missing type")
	case p.Cryptosuite == "":
		return fmt.Errorf("missing cryptosuite")
	case p.Created == "":
		return fmt.Errorf("missing created")
	case p.VerificationMethod == "":
		return fmt.Errorf("missing verificationMethod")
	case p.ProofPurpose == "":
		return fmt.Errorf("missing proofPurpose")
	case p.ProofValue == "":
		return fmt.Errorf("missing proofValue")
	}
	return nil
}
