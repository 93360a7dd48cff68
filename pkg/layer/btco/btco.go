// Package btco implements the did:btco layer manager (C7): Bitcoin
// ordinal inscription of a webvh log as the terminal migration step.
package btco

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/codec"
	"github.com/originals/cel/pkg/inscription"
	"github.com/originals/cel/pkg/layer"
	"github.com/originals/cel/pkg/signing"
)

// mediaType is the contentType tag inscribed for a CEL-CBOR migration
// payload.
const mediaType = "application/cel+cbor"

// Manager migrates webvh-layer assets to did:btco by inscribing the log.
type Manager struct {
	provider inscription.BitcoinProvider
	now      func() time.Time
}

// New returns a btco manager broadcasting through provider.
func New(provider inscription.BitcoinProvider) *Manager {
	return &Manager{provider: provider, now: time.Now}
}

func (m *Manager) Kind() layer.Kind { return layer.KindBtco }

// MigrateOptions carries the commit-transaction inputs a caller must
// supply — the manager builds the inscription payload itself from log,
// but UTXOs, fee rate, and network are the caller's wallet concerns.
type MigrateOptions struct {
	Utxos         []inscription.Utxo
	ChangeAddress string
	Destination   string
	FeeRate       float64
	Network       *chaincfg.Params
}

// Migrate serializes log (which must currently be at the webvh layer) as
// canonical CBOR, constructs and broadcasts the commit+reveal inscription
// pair via m.provider, and appends the resulting migration event. Direct
// peer→btco migration is rejected by pkg/layer.CheckMigration.
func (m *Manager) Migrate(ctx context.Context, log *cel.EventLog, opts MigrateOptions, signer signing.Signer, signOpts signing.SignOptions) (*cel.EventLog, error) {
	state, err := cel.ReplayState(log)
	if err != nil {
		return nil, fmt.Errorf("layer/btco: replay state: %w", err)
	}
	if err := layer.CheckMigration(layer.Kind(state.Layer), layer.KindBtco); err != nil {
		return nil, err
	}

	payload, err := codec.CanonicalCBOR(log)
	if err != nil {
		return nil, fmt.Errorf("layer/btco: serialize log: %w", err)
	}

	commit, err := inscription.CreateCommitTransaction(inscription.CommitOptions{
		Content:       payload,
		ContentType:   mediaType,
		Utxos:         opts.Utxos,
		ChangeAddress: opts.ChangeAddress,
		FeeRate:       opts.FeeRate,
		Network:       opts.Network,
	})
	if err != nil {
		return nil, fmt.Errorf("layer/btco: create commit transaction: %w", err)
	}

	result, err := m.provider.InscribeData(ctx, commit, payload)
	if err != nil {
		return nil, fmt.Errorf("layer/btco: inscribe: %w", err)
	}

	targetDID := fmt.Sprintf("did:btco:%s", result.InscriptionID)
	data := cel.Data{
		"sourceDid":     state.DID,
		"targetDid":     targetDID,
		"layer":         string(layer.KindBtco),
		"txid":          result.Txid,
		"inscriptionId": result.InscriptionID,
		"satoshi":       result.Satoshi,
		"migratedAt":    m.now().UTC().Format(time.RFC3339),
	}
	return cel.Update(ctx, log, data, signer, signOpts)
}
