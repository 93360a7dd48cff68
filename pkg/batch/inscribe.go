package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/codec"
	"github.com/originals/cel/pkg/inscription"
	"github.com/originals/cel/pkg/layer"
	"github.com/originals/cel/pkg/layer/btco"
	"github.com/originals/cel/pkg/signing"
)

// minSingleTxSavingsBatchSize is the batch size at or above which a
// single-transaction inscribe must achieve at least 30% cost savings.
const minSingleTxSavingsBatchSize = 5

// minSingleTxSavingsPercent is the floor a qualifying batch's costSavings
// percentage must meet.
const minSingleTxSavingsPercent = 30.0

// InscribeOptions controls whether batchInscribe combines every asset into
// one reveal transaction or dispatches each as its own.
type InscribeOptions struct {
	SingleTransaction bool
	Options
	btco.MigrateOptions
}

// InscribeResult is batchInscribe's return shape: Result for the
// per-asset dispatch path, or a shared Txid/CostSavings for the
// single-transaction path (Successful/Failed still populated per asset,
// but every success carries the same Txid).
type InscribeResult struct {
	*Result
	Txid        string
	CostSavings *CostSavings
}

// BatchInscribe migrates a set of webvh-layer logs to did:btco. In
// single-transaction mode every asset's canonical-CBOR log is concatenated
// into one combined payload, inscribed with a single commit+reveal pair,
// and the resulting fee is apportioned back to each asset proportionally
// to its byte length (CostSplit); success is atomic — the provider call
// either inscribes all assets or none. Otherwise each asset dispatches its
// own independent btco.Migrate concurrently, as with the other batch
// operations.
func BatchInscribe(ctx context.Context, logs []*cel.EventLog, opts InscribeOptions, signer signing.Signer, signOpts signing.SignOptions, provider inscription.BitcoinProvider) (*InscribeResult, error) {
	if len(logs) == 0 {
		return nil, ErrBatchEmpty
	}
	if !opts.SingleTransaction {
		mgr := btco.New(provider)
		result := dispatch(ctx, len(logs), opts.Options, func(ctx context.Context, i int) (*cel.EventLog, error) {
			return mgr.Migrate(ctx, logs[i], opts.MigrateOptions, signer, signOpts)
		})
		result.Operation = "inscribe"
		return &InscribeResult{Result: result}, nil
	}
	return batchInscribeSingleTx(ctx, logs, opts, signer, signOpts, provider)
}

func batchInscribeSingleTx(ctx context.Context, logs []*cel.EventLog, opts InscribeOptions, signer signing.Signer, signOpts signing.SignOptions, provider inscription.BitcoinProvider) (*InscribeResult, error) {
	start := time.Now()
	n := len(logs)
	payloads := make([][]byte, n)
	states := make([]*cel.AssetState, n)
	individualFees := make([]int64, n)

	for i, log := range logs {
		state, err := cel.ReplayState(log)
		if err != nil {
			return nil, fmt.Errorf("batch: replay state %d: %w", i, err)
		}
		if err := layer.CheckMigration(layer.Kind(state.Layer), layer.KindBtco); err != nil {
			return nil, err
		}
		payload, err := codec.CanonicalCBOR(log)
		if err != nil {
			return nil, fmt.Errorf("batch: serialize log %d: %w", i, err)
		}
		payloads[i] = payload
		states[i] = state

		individual, err := inscription.CreateCommitTransaction(inscription.CommitOptions{
			Content:       payload,
			ContentType:   "application/cel+cbor",
			Utxos:         opts.Utxos,
			ChangeAddress: opts.ChangeAddress,
			FeeRate:       opts.FeeRate,
			Network:       opts.Network,
		})
		if err != nil {
			return nil, fmt.Errorf("batch: estimate individual fee %d: %w", i, err)
		}
		individualFees[i] = individual.Fees.Commit
	}

	combined := make([]byte, 0)
	byteLens := make([]int, n)
	for i, p := range payloads {
		byteLens[i] = len(p)
		combined = append(combined, p...)
	}

	commit, err := inscription.CreateCommitTransaction(inscription.CommitOptions{
		Content:       combined,
		ContentType:   "application/cel+cbor",
		Utxos:         opts.Utxos,
		ChangeAddress: opts.ChangeAddress,
		FeeRate:       opts.FeeRate,
		Network:       opts.Network,
	})
	if err != nil {
		return nil, fmt.Errorf("batch: create combined commit transaction: %w", err)
	}

	inscribed, err := provider.InscribeData(ctx, commit, combined)
	if err != nil {
		return nil, fmt.Errorf("batch: inscribe combined payload: %w", err)
	}

	split := CostSplit(byteLens, commit.Fees.Commit)
	savings := ComputeSavings(individualFees, commit.Fees.Commit)
	if n >= minSingleTxSavingsBatchSize && savings.Percentage < minSingleTxSavingsPercent {
		return nil, fmt.Errorf("batch: single-transaction savings %.1f%% below required %.0f%% for a batch of %d", savings.Percentage, minSingleTxSavingsPercent, n)
	}

	result := &Result{
		BatchID:        inscribed.Txid,
		Operation:      "inscribe",
		Successful:     make([]ItemResult, 0, n),
		TotalProcessed: n,
	}

	targetDID := fmt.Sprintf("did:btco:%s", inscribed.InscriptionID)
	now := time.Now().UTC().Format(time.RFC3339)
	for i, log := range logs {
		updated, err := cel.Update(ctx, log, cel.Data{
			"sourceDid":     states[i].DID,
			"targetDid":     targetDID,
			"layer":         string(layer.KindBtco),
			"txid":          inscribed.Txid,
			"inscriptionId": inscribed.InscriptionID,
			"satoshi":       split[i].FeeSatoshi,
			"migratedAt":    now,
		}, signer, signOpts)
		if err != nil {
			result.Failed = append(result.Failed, ItemResult{Index: i, Err: err})
			continue
		}
		result.Successful = append(result.Successful, ItemResult{Index: i, Result: updated})
	}

	result.TotalDuration = time.Since(start)
	return &InscribeResult{Result: result, Txid: inscribed.Txid, CostSavings: &savings}, nil
}
