// Package webvh implements the did:webvh layer manager (C7): publishing a
// peer-layer asset's DID document, event log, and resources to an HTTPS
// storage domain under a deterministic URL layout.
package webvh

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/codec"
	"github.com/originals/cel/pkg/layer"
	"github.com/originals/cel/pkg/signing"
	"github.com/originals/cel/pkg/storage"
)

const slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Manager migrates peer-layer assets to did:webvh.
type Manager struct {
	storage storage.Adapter
	now     func() time.Time
}

// New returns a webvh manager publishing through adapter.
func New(adapter storage.Adapter) *Manager {
	return &Manager{storage: adapter, now: time.Now}
}

func (m *Manager) Kind() layer.Kind { return layer.KindWebVH }

// Migrate publishes log's current resources and DID document to domain
// and appends the migration event. log must currently be at the peer
// layer. resourceContent supplies each resource's raw bytes, keyed by its
// DigestMultibase string — the log itself only carries digests.
func (m *Manager) Migrate(ctx context.Context, log *cel.EventLog, domain string, resourceContent map[string][]byte, signer signing.Signer, opts signing.SignOptions) (*cel.EventLog, error) {
	state, err := cel.ReplayState(log)
	if err != nil {
		return nil, fmt.Errorf("layer/webvh: replay state: %w", err)
	}
	if err := layer.CheckMigration(layer.Kind(state.Layer), layer.KindWebVH); err != nil {
		return nil, err
	}

	slug, err := newSlug()
	if err != nil {
		return nil, fmt.Errorf("layer/webvh: derive slug: %w", err)
	}
	targetDID := fmt.Sprintf("did:webvh:%s:%s", domain, slug)

	updatedResources := make([]cel.ExternalReference, len(state.Resources))
	for i, r := range state.Resources {
		raw, err := r.DigestMultibase.Decode()
		if err != nil {
			return nil, fmt.Errorf("layer/webvh: decode resource digest: %w", err)
		}
		path := fmt.Sprintf("/assets/%s/%x", slug, raw)
		uri, err := m.storage.Put(ctx, domain, path, resourceContent[string(r.DigestMultibase)], r.MediaType)
		if err != nil {
			return nil, fmt.Errorf("layer/webvh: put resource: %w", err)
		}
		r.URL = uri
		updatedResources[i] = r
	}

	didDoc := buildDIDDocument(targetDID, updatedResources)
	docBytes, err := codec.CanonicalJSON(didDoc)
	if err != nil {
		return nil, fmt.Errorf("layer/webvh: canonicalize did document: %w", err)
	}
	if _, err := m.storage.Put(ctx, domain, fmt.Sprintf("/.well-known/did/%s/did.json", slug), docBytes, "application/json"); err != nil {
		return nil, fmt.Errorf("layer/webvh: publish did document: %w", err)
	}

	logArtifact, err := buildLogArtifact(log)
	if err != nil {
		return nil, fmt.Errorf("layer/webvh: build log artifact: %w", err)
	}
	if _, err := m.storage.Put(ctx, domain, fmt.Sprintf("/.well-known/did/%s/did.jsonl", slug), logArtifact, "application/jsonl"); err != nil {
		return nil, fmt.Errorf("layer/webvh: publish log artifact: %w", err)
	}

	data := cel.Data{
		"sourceDid":  state.DID,
		"targetDid":  targetDID,
		"layer":      string(layer.KindWebVH),
		"domain":     domain,
		"migratedAt": m.now().UTC().Format(time.RFC3339),
		"resources":  resourcesToData(updatedResources),
	}
	return cel.Update(ctx, log, data, signer, opts)
}

func resourcesToData(resources []cel.ExternalReference) []interface{} {
	out := make([]interface{}, len(resources))
	for i, r := range resources {
		out[i] = map[string]interface{}{
			"digestMultibase": string(r.DigestMultibase),
			"mediaType":       r.MediaType,
			"url":             r.URL,
		}
	}
	return out
}

func buildDIDDocument(did string, resources []cel.ExternalReference) map[string]interface{} {
	return map[string]interface{}{
		"id":        did,
		"resources": resourcesToData(resources),
	}
}

func buildLogArtifact(log *cel.EventLog) ([]byte, error) {
	var out []byte
	for _, entry := range log.Events {
		line, err := codec.CanonicalJSON(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}

// newSlug returns 64 bits of randomness rendered in base36.
func newSlug() (string, error) {
	max := new(big.Int).Lsh(big.NewInt(1), 64)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return n.Text(36), nil
}
