package credential

import "encoding/json"

// MarshalJSON flattens whichever typed subject is populated directly into
// credentialSubject's fields, plus previousCredential when chained —
// credentialSubject is a single flat typed record on the wire, not a
// wrapper object one level further nested.
func (s Subject) MarshalJSON() ([]byte, error) {
	var typed interface{}
	switch {
	case s.ResourceCreated != nil:
		typed = s.ResourceCreated
	case s.ResourceUpdated != nil:
		typed = s.ResourceUpdated
	case s.MigrationCompleted != nil:
		typed = s.MigrationCompleted
	case s.OwnershipTransferred != nil:
		typed = s.OwnershipTransferred
	default:
		typed = struct{}{}
	}

	typedBytes, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var merged map[string]interface{}
	if err := json.Unmarshal(typedBytes, &merged); err != nil {
		return nil, err
	}
	if s.PreviousCredential != nil {
		merged["previousCredential"] = s.PreviousCredential
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes only previousCredential and retains the raw bytes;
// no typed shape is populated until the caller names Kind — see
// DecodeSubject.
func (s *Subject) UnmarshalJSON(data []byte) error {
	var raw struct {
		PreviousCredential *PreviousCredential `json:"previousCredential"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.PreviousCredential = raw.PreviousCredential
	s.rawJSON = append([]byte(nil), data...)
	return nil
}

// DecodeSubject re-decodes an unmarshaled Subject's raw JSON into the
// typed shape for kind. Callers know kind from the credential's Type
// array, which Subject.UnmarshalJSON does not have access to on its own.
func DecodeSubject(s *Subject, kind Kind) error {
	switch kind {
	case KindResourceCreated:
		s.ResourceCreated = &ResourceCreatedSubject{}
		return json.Unmarshal(s.rawJSON, s.ResourceCreated)
	case KindResourceUpdated:
		s.ResourceUpdated = &ResourceUpdatedSubject{}
		return json.Unmarshal(s.rawJSON, s.ResourceUpdated)
	case KindMigrationCompleted:
		s.MigrationCompleted = &MigrationCompletedSubject{}
		return json.Unmarshal(s.rawJSON, s.MigrationCompleted)
	case KindOwnershipTransferred:
		s.OwnershipTransferred = &OwnershipTransferredSubject{}
		return json.Unmarshal(s.rawJSON, s.OwnershipTransferred)
	default:
		return nil
	}
}
