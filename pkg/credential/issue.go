package credential

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
	"github.com/originals/cel/pkg/codec"
	"github.com/originals/cel/pkg/signing"
)

// IssueOptions customizes credential issuance; PreviousCredentialID/Hash
// set together inject a PreviousCredential link into the subject.
type IssueOptions struct {
	Issuer                  string
	IssuanceDate            string
	PreviousCredentialID    string
	PreviousCredentialHash  string
	SignOptions             signing.SignOptions
}

func (o IssueOptions) previousCredential() *PreviousCredential {
	if o.PreviousCredentialID == "" || o.PreviousCredentialHash == "" {
		return nil
	}
	return &PreviousCredential{ID: o.PreviousCredentialID, Hash: o.PreviousCredentialHash}
}

// newCredentialID returns a urn:uuid: credential identifier.
func newCredentialID() string {
	return "urn:uuid:" + uuid.NewString()
}

func issue(ctx context.Context, kind Kind, subject Subject, signer signing.Signer, opts IssueOptions) (*Credential, error) {
	subject.Kind = kind
	subject.PreviousCredential = opts.previousCredential()

	vc := &Credential{
		Context:           []string{"https://www.w3.org/ns/credentials/v2"},
		ID:                newCredentialID(),
		Type:              []string{"VerifiableCredential", string(kind)},
		Issuer:            opts.Issuer,
		IssuanceDate:      opts.IssuanceDate,
		CredentialSubject: subject,
	}

	unsigned := *vc
	unsigned.Proof = nil
	proof, err := signing.Sign(ctx, unsigned, signer, opts.SignOptions)
	if err != nil {
		return nil, fmt.Errorf("credential: sign: %w", err)
	}
	vc.Proof = proof
	return vc, nil
}

// IssueResourceCreated issues a ResourceCreated credential.
func IssueResourceCreated(ctx context.Context, subject ResourceCreatedSubject, signer signing.Signer, opts IssueOptions) (*Credential, error) {
	return issue(ctx, KindResourceCreated, Subject{ResourceCreated: &subject}, signer, opts)
}

// IssueResourceUpdated issues a ResourceUpdated credential.
func IssueResourceUpdated(ctx context.Context, subject ResourceUpdatedSubject, signer signing.Signer, opts IssueOptions) (*Credential, error) {
	return issue(ctx, KindResourceUpdated, Subject{ResourceUpdated: &subject}, signer, opts)
}

// IssueMigrationCompleted issues a MigrationCompleted credential.
func IssueMigrationCompleted(ctx context.Context, subject MigrationCompletedSubject, signer signing.Signer, opts IssueOptions) (*Credential, error) {
	return issue(ctx, KindMigrationCompleted, Subject{MigrationCompleted: &subject}, signer, opts)
}

// IssueOwnershipTransferred issues an OwnershipTransferred credential.
func IssueOwnershipTransferred(ctx context.Context, subject OwnershipTransferredSubject, signer signing.Signer, opts IssueOptions) (*Credential, error) {
	return issue(ctx, KindOwnershipTransferred, Subject{OwnershipTransferred: &subject}, signer, opts)
}

// ComputeCredentialHash is SHA-256 of vc's canonical JSON — the full,
// already-signed credential, proof included, matching the CEL chain's
// own convention of digesting the complete prior artifact rather than
// just its payload.
func ComputeCredentialHash(vc *Credential) (string, error) {
	canon, err := codec.CanonicalJSON(vc)
	if err != nil {
		return "", fmt.Errorf("credential: canonicalize: %w", err)
	}
	sum := sha256.Sum256(canon)
	return fmt.Sprintf("%x", sum), nil
}
