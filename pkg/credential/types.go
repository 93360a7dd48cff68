package credential

import "github.com/originals/cel/pkg/signing"

// Kind identifies one of the four credential shapes this package issues.
type Kind string

const (
	KindResourceCreated      Kind = "ResourceCreated"
	KindResourceUpdated      Kind = "ResourceUpdated"
	KindMigrationCompleted   Kind = "MigrationCompleted"
	KindOwnershipTransferred Kind = "OwnershipTransferred"
)

// PreviousCredential links a credential to its predecessor in a chain.
type PreviousCredential struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// Subject is the credentialSubject payload; exactly one of the typed
// fields below is populated depending on Kind.
type Subject struct {
	Kind Kind `json:"-"`

	ResourceCreated      *ResourceCreatedSubject      `json:"-"`
	ResourceUpdated      *ResourceUpdatedSubject      `json:"-"`
	MigrationCompleted   *MigrationCompletedSubject   `json:"-"`
	OwnershipTransferred *OwnershipTransferredSubject `json:"-"`

	PreviousCredential *PreviousCredential `json:"-"`

	// rawJSON retains the decoded bytes so DecodeSubject can re-parse
	// into the typed shape once the caller knows Kind (from the
	// credential's Type array) — Subject alone cannot tell them apart.
	rawJSON []byte
}

type ResourceCreatedSubject struct {
	ResourceID   string `json:"resourceId"`
	ResourceType string `json:"resourceType"`
	ContentHash  string `json:"contentHash"`
	ContentType  string `json:"contentType"`
	Creator      string `json:"creator"`
	CreatedAt    string `json:"createdAt"`
	ID           string `json:"id"`
}

type ResourceUpdatedSubject struct {
	ResourceID    string `json:"resourceId"`
	PreviousHash  string `json:"previousHash"`
	NewHash       string `json:"newHash"`
	FromVersion   int    `json:"fromVersion"`
	ToVersion     int    `json:"toVersion"`
	UpdatedAt     string `json:"updatedAt"`
	UpdateReason  string `json:"updateReason,omitempty"`
}

type MigrationCompletedSubject struct {
	SourceDid        string `json:"sourceDid"`
	TargetDid        string `json:"targetDid,omitempty"`
	FromLayer        string `json:"fromLayer"`
	ToLayer          string `json:"toLayer"`
	MigratedAt       string `json:"migratedAt"`
	Txid             string `json:"txid,omitempty"`
	InscriptionID    string `json:"inscriptionId,omitempty"`
	Satoshi          int64  `json:"satoshi,omitempty"`
	MigrationReason  string `json:"migrationReason,omitempty"`
}

type OwnershipTransferredSubject struct {
	PreviousOwner  string `json:"previousOwner"`
	NewOwner       string `json:"newOwner"`
	TransactionID  string `json:"transactionId"`
	TransferredAt  string `json:"transferredAt"`
	Satoshi        int64  `json:"satoshi,omitempty"`
	TransferReason string `json:"transferReason,omitempty"`
}

// Credential is a Data Integrity-secured verifiable credential.
type Credential struct {
	Context           []string                        `json:"@context"`
	ID                string                          `json:"id"`
	Type              []string                        `json:"type"`
	Issuer            string                          `json:"issuer"`
	IssuanceDate      string                          `json:"issuanceDate"`
	CredentialSubject Subject                         `json:"credentialSubject"`
	Proof             *signing.DataIntegrityProof `json:"proof,omitempty"`
}
