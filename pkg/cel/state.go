package cel

import (
	"fmt"

	"github.com/originals/cel/pkg/multikey"
)

// recognizedUpdateFields are the update-entry keys that replace top-level
// AssetState fields directly; everything else in an update's data folds
// into state.Metadata instead.
var recognizedUpdateFields = map[string]bool{
	"name":      true,
	"resources": true,
	"updatedAt": true,
	"sourceDid": true,
	"targetDid": true,
	"layer":     true,
}

// ReplayState folds every entry in log, in order, into the AssetState it
// produces. It does not verify signatures or chaining — callers that need
// an authenticated projection should call Verify first and check
// result.Valid before trusting ReplayState's output.
func ReplayState(log *EventLog) (*AssetState, error) {
	if log == nil || len(log.Events) == 0 {
		return nil, ErrEmptyLog
	}

	state := &AssetState{Metadata: map[string]interface{}{}}

	for i, entry := range log.Events {
		switch entry.Type {
		case TypeCreate:
			if i != 0 {
				return nil, fmt.Errorf("cel: create entry at index %d, want 0", i)
			}
			applyCreate(state, entry.Data)
		case TypeUpdate:
			if state.Deactivated {
				return nil, fmt.Errorf("cel: update entry %d follows deactivate", i)
			}
			applyUpdate(state, entry.Data)
		case TypeDeactivate:
			applyDeactivate(state, entry.Data)
		default:
			return nil, fmt.Errorf("cel: unknown entry type %q at index %d", entry.Type, i)
		}
	}

	return state, nil
}

func applyCreate(state *AssetState, data Data) {
	if v, ok := data["did"].(string); ok {
		state.DID = v
	}
	if v, ok := data["name"].(string); ok {
		state.Name = v
	}
	if v, ok := data["layer"].(string); ok {
		state.Layer = Layer(v)
	}
	if v, ok := data["creator"].(string); ok {
		state.Creator = v
	}
	if v, ok := data["createdAt"].(string); ok {
		state.CreatedAt = v
		state.UpdatedAt = v
	}
	applyResources(state, data["resources"])
}

// applyUpdate implements getCurrentState's update-fold rule: name,
// resources, and updatedAt replace top-level state directly; a migration
// (sourceDid+targetDid+layer all present) replaces did and layer and
// records the superseded DID in Provenance; every other key merges into
// Metadata.
func applyUpdate(state *AssetState, data Data) {
	if v, ok := data["name"].(string); ok {
		state.Name = v
	}
	if raw, ok := data["resources"]; ok {
		applyResources(state, raw)
	}
	if v, ok := data["updatedAt"].(string); ok {
		state.UpdatedAt = v
	}

	sourceDid, hasSource := data["sourceDid"].(string)
	targetDid, hasTarget := data["targetDid"].(string)
	layer, hasLayer := data["layer"].(string)
	if hasSource && hasTarget && hasLayer {
		state.Provenance = append(state.Provenance, sourceDid)
		state.DID = targetDid
		state.Layer = Layer(layer)
	}

	for k, v := range data {
		if recognizedUpdateFields[k] {
			continue
		}
		state.Metadata[k] = v
	}
}

func applyDeactivate(state *AssetState, data Data) {
	state.Deactivated = true
	if v, ok := data["reason"].(string); ok {
		state.DeactivateReason = v
	}
	if v, ok := data["updatedAt"].(string); ok {
		state.UpdatedAt = v
	}
}

func applyResources(state *AssetState, raw interface{}) {
	list, ok := raw.([]interface{})
	if !ok {
		return
	}
	resources := make([]ExternalReference, 0, len(list))
	for _, r := range list {
		m, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		ref := ExternalReference{}
		if v, ok := m["digestMultibase"].(string); ok {
			ref.DigestMultibase = multikey.DigestMultibase(v)
		}
		if v, ok := m["mediaType"].(string); ok {
			ref.MediaType = v
		}
		if v, ok := m["url"].(string); ok {
			ref.URL = v
		}
		resources = append(resources, ref)
	}
	state.Resources = resources
}
