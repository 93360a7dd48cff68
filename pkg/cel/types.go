// Package cel implements the Cryptographic Event Log: hash-chained,
// signed events describing an asset's lifecycle, and the operations that
// create, append to, verify, and replay them.
package cel

import (
	"github.com/originals/cel/pkg/multikey"
	"github.com/originals/cel/pkg/signing"
)

// EntryType is the kind of a single LogEntry.
type EntryType string

const (
	TypeCreate     EntryType = "create"
	TypeUpdate     EntryType = "update"
	TypeDeactivate EntryType = "deactivate"
)

// Valid reports whether t is one of the three recognized entry types.
func (t EntryType) Valid() bool {
	switch t {
	case TypeCreate, TypeUpdate, TypeDeactivate:
		return true
	default:
		return false
	}
}

// Data is the arbitrary, layer-dependent payload of a LogEntry. It is
// always a JSON object at the top level, whether produced natively by a
// layer manager or decoded from the wire.
type Data map[string]interface{}

// ExternalReference is a pointer to content stored outside the log itself:
// a media file addressed by its digest, with an optional last-known
// public URL. Equality is digest-based — two references with the same
// digest are the same logical resource regardless of URL.
type ExternalReference struct {
	DigestMultibase multikey.DigestMultibase `json:"digestMultibase" cbor:"digestMultibase"`
	MediaType       string                   `json:"mediaType" cbor:"mediaType"`
	URL             string                   `json:"url,omitempty" cbor:"url,omitempty"`
}

// Equal compares two references by digest only, per the data model's
// digest-based equality rule.
func (r ExternalReference) Equal(other ExternalReference) bool {
	return r.DigestMultibase == other.DigestMultibase
}

// ProofEntry is a single proof in a LogEntry's proof array. WitnessedAt is
// present only for witness attestations; its zero value distinguishes a
// controller proof from a witness proof. Unrecognized fields present on
// the wire are dropped by this struct's decode shape — it defines the
// entire accepted surface.
type ProofEntry struct {
	signing.DataIntegrityProof
	WitnessedAt string `json:"witnessedAt,omitempty" cbor:"witnessedAt,omitempty"`
}

// IsWitness reports whether this proof carries a witness timestamp.
func (p ProofEntry) IsWitness() bool { return p.WitnessedAt != "" }

// LogEntry is one signed event in an EventLog.
type LogEntry struct {
	Type EntryType `json:"type" cbor:"type"`
	Data Data      `json:"data" cbor:"data"`
	// PreviousEvent is absent on the first entry and required on every
	// subsequent one.
	PreviousEvent *multikey.DigestMultibase `json:"previousEvent,omitempty" cbor:"previousEvent,omitempty"`
	Proof         []ProofEntry              `json:"proof" cbor:"proof"`
}

// EventLog is an ordered, hash-chained sequence of signed LogEntry values.
type EventLog struct {
	Events []LogEntry `json:"events" cbor:"events"`
	// PreviousLog supports log segmentation. It round-trips through both
	// codecs but is never referenced by Verify or ReplayState.
	PreviousLog *multikey.DigestMultibase `json:"previousLog,omitempty" cbor:"previousLog,omitempty"`
}

// Last returns the most recently appended entry. Callers must check
// len(log.Events) > 0 first; Last panics on an empty log the same way
// slice indexing would.
func (l EventLog) Last() LogEntry {
	return l.Events[len(l.Events)-1]
}

// Layer identifies one of the three progressively more durable identifier
// bindings an asset can be in.
type Layer string

const (
	LayerPeer  Layer = "peer"
	LayerWebVH Layer = "webvh"
	LayerBtco  Layer = "btco"
)

// AssetState is the derived (never stored) projection of replaying an
// EventLog's events in order.
type AssetState struct {
	DID              string
	Name             string
	Layer            Layer
	Resources        []ExternalReference
	Creator          string
	CreatedAt        string
	UpdatedAt        string
	Deactivated      bool
	DeactivateReason string
	Metadata         map[string]interface{}
	// Provenance records DIDs superseded by a migration's targetDid, oldest
	// first — e.g. the original did:peer retained once an asset publishes
	// to webvh.
	Provenance []string
}
