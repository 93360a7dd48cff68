package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/originals/cel/pkg/inscription"
)

// walletFile is the JSON document --wallet points at: the UTXOs and
// addresses the commit transaction will spend and pay to.
type walletFile struct {
	Utxos         []walletUtxo `json:"utxos"`
	ChangeAddress string       `json:"changeAddress"`
	Destination   string       `json:"destination"`
	FeeRate       float64      `json:"feeRate"`
}

type walletUtxo struct {
	Txid     string `json:"txid"`
	Vout     uint32 `json:"vout"`
	Value    int64  `json:"value"`
	PkScript string `json:"pkScript"` // hex
}

func loadWallet(path string) (*walletFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallet file: %w", err)
	}
	var w walletFile
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("parse wallet file %s: %w", path, err)
	}
	if len(w.Utxos) == 0 {
		return nil, fmt.Errorf("wallet file %s lists no utxos", path)
	}
	return &w, nil
}

func (w *walletFile) utxos() ([]inscription.Utxo, error) {
	out := make([]inscription.Utxo, len(w.Utxos))
	for i, u := range w.Utxos {
		script, err := hex.DecodeString(u.PkScript)
		if err != nil {
			return nil, fmt.Errorf("utxo %s:%d: invalid pkScript hex: %w", u.Txid, u.Vout, err)
		}
		out[i] = inscription.Utxo{Txid: u.Txid, Vout: u.Vout, Value: u.Value, PkScript: script}
	}
	return out, nil
}

// mockProvider stands in for a real Bitcoin provider: it constructs
// nothing on-chain and never broadcasts. The core ships no production
// provider — integrators supply one — so the CLI warns loudly and derives
// a deterministic placeholder txid from the payload.
type mockProvider struct{}

func (mockProvider) InscribeData(_ context.Context, commit *inscription.CommitTransaction, payload []byte) (*inscription.InscribeResult, error) {
	fmt.Fprintln(os.Stderr, "warning: mock bitcoin provider in use — transactions were constructed but NOT broadcast")
	sum := sha256.Sum256(payload)
	txid := hex.EncodeToString(sum[:])
	return &inscription.InscribeResult{
		Txid:          txid,
		InscriptionID: txid + "i0",
		Satoshi:       commit.CommitAmount,
	}, nil
}
