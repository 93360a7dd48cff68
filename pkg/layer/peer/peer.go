// Package peer implements the did:peer layer manager (C7): deterministic
// DID derivation from a resource set and the initial create event.
package peer

import (
	"context"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/layer"
	"github.com/originals/cel/pkg/multikey"
	"github.com/originals/cel/pkg/signing"
)

// prefix is the did:peer method-specific prefix this core always emits:
// numalgo 4, a content-derived (not transport-derived) peer DID.
const prefix = "did:peer:4"

// Manager creates peer-layer assets. It has no dependency on storage or
// a signer beyond what's passed to Create — peer DIDs are entirely
// local and offline.
type Manager struct{}

// New returns a peer layer manager. There is no configuration: DID
// derivation is a pure function of the resource set.
func New() *Manager { return &Manager{} }

func (m *Manager) Kind() layer.Kind { return layer.KindPeer }

// Create derives a did:peer DID from the sorted digests of resources and
// emits the log's sole create event, signed by signer.
func (m *Manager) Create(ctx context.Context, name string, resources []cel.ExternalReference, creator string, createdAt string, signer signing.Signer, opts signing.SignOptions) (*cel.EventLog, error) {
	did, err := DeriveDID(resources)
	if err != nil {
		return nil, fmt.Errorf("layer/peer: derive did: %w", err)
	}

	resourceData := make([]interface{}, len(resources))
	for i, r := range resources {
		resourceData[i] = map[string]interface{}{
			"digestMultibase": string(r.DigestMultibase),
			"mediaType":       r.MediaType,
			"url":             r.URL,
		}
	}

	data := cel.Data{
		"name":      name,
		"did":       did,
		"layer":     string(layer.KindPeer),
		"resources": resourceData,
		"creator":   creator,
		"createdAt": createdAt,
	}
	return cel.Create(ctx, data, signer, opts)
}

// Update appends an update entry with no layer-specific side effects.
func (m *Manager) Update(ctx context.Context, log *cel.EventLog, data cel.Data, signer signing.Signer, opts signing.SignOptions) (*cel.EventLog, error) {
	return cel.Update(ctx, log, data, signer, opts)
}

// DeriveDID computes did:peer:4<base58btc(SHA-256(sorted digests))> for
// the given resource set. The result is independent of input order.
func DeriveDID(resources []cel.ExternalReference) (string, error) {
	digests := make([]multikey.DigestMultibase, len(resources))
	for i, r := range resources {
		digests[i] = r.DigestMultibase
	}

	sum, err := digest.SortedDigestsBytes(digests)
	if err != nil {
		return "", err
	}
	encoded, err := multibase.Encode(multibase.Base58BTC, sum)
	if err != nil {
		return "", fmt.Errorf("layer/peer: encode did: %w", err)
	}
	// Base58BTC's own multibase prefix ('z') is dropped: did:peer:4 already
	// signals the encoding, per the method's numalgo-4 convention.
	return prefix + encoded[1:], nil
}
