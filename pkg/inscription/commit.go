package inscription

import (
	"crypto/rand"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// DustLimit is the minimum standard output value, in satoshi.
const DustLimit int64 = 546

// maxScriptElementSize is the largest single data push txscript's builder
// accepts; inscription content above this must be chunked across pushes.
const maxScriptElementSize = 520

// LeafVersion is the tapscript leaf version ordinal inscriptions use.
const LeafVersion byte = 0xc0

// InscriptionScript is the tapscript committing to an envelope's content,
// plus the control block needed to spend it via the script path.
type InscriptionScript struct {
	Script       []byte
	ControlBlock []byte
	LeafVersion  byte
}

// Fees reports the fee actually paid by each phase of an inscription.
type Fees struct {
	Commit int64
}

// CommitTransaction is everything CreateCommitTransaction produces: an
// unsigned PSBT spending the caller's UTXOs into a Taproot commit output,
// plus the ephemeral reveal key material and script needed to later spend
// that output via CreateRevealTransaction.
type CommitTransaction struct {
	CommitPSBT       []byte
	CommitAddress    string
	CommitAmount     int64
	RevealPrivateKey *btcec.PrivateKey
	RevealPublicKey  *btcec.PublicKey
	InscriptionScript InscriptionScript
	Fees             Fees
	SelectedUtxos    []Utxo
}

// CommitOptions parameterizes CreateCommitTransaction.
type CommitOptions struct {
	Content       []byte
	ContentType   string
	Metadata      []byte // optional, CBOR-encoded
	Utxos         []Utxo
	ChangeAddress string
	FeeRate       float64 // sat/vB
	Network       *chaincfg.Params
	RevealFee     int64 // fee the reveal transaction will need to cover
}

// CreateCommitTransaction builds the commit phase of an ordinal-style
// inscription: an ephemeral taproot keypair, the inscription envelope
// script, its committing Taproot output, and an unsigned PSBT spending
// selected UTXOs into that output plus change.
func CreateCommitTransaction(opts CommitOptions) (*CommitTransaction, error) {
	if opts.FeeRate <= 0 {
		return nil, ErrInvalidFeeRate
	}

	script, err := buildInscriptionScript(opts.ContentType, opts.Metadata, opts.Content)
	if err != nil {
		return nil, err
	}
	if len(script) > txscript.MaxScriptSize {
		return nil, fmt.Errorf("%w: script %d bytes", ErrContentTooLarge, len(script))
	}

	revealPriv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("inscription: generate reveal key: %w", err)
	}
	revealPub := revealPriv.PubKey()

	leaf := txscript.NewTapLeaf(opts.leafVersion(), script)
	tree := txscript.AssembleTaprootScriptTree(leaf)
	merkleRoot := tree.RootNode.TapHash()
	outputKey := txscript.ComputeTaprootOutputKey(revealPub, merkleRoot[:])

	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), opts.Network)
	if err != nil {
		return nil, fmt.Errorf("inscription: derive commit address: %w", err)
	}
	commitScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("inscription: commit pkScript: %w", err)
	}

	controlBlock := txscript.ControlBlock{
		InternalKey:     revealPub,
		OutputKeyYIsOdd: outputKey.SerializeCompressed()[0] == secp256k1OddPrefix,
		LeafVersion:     opts.leafVersion(),
		InclusionProof:  nil,
	}
	controlBlockBytes, err := controlBlock.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("inscription: serialize control block: %w", err)
	}

	revealVBytes := estimateRevealVBytes(script)
	revealFee := opts.RevealFee
	if revealFee == 0 {
		revealFee = int64(float64(revealVBytes) * opts.FeeRate)
	}
	commitAmount := DustLimit + revealFee
	if commitAmount < DustLimit {
		commitAmount = DustLimit
	}

	selected, total, err := selectUtxos(opts.Utxos, commitAmount, opts.FeeRate)
	if err != nil {
		return nil, err
	}
	commitVBytes := estimateCommitVBytes(len(selected))
	commitFee := int64(float64(commitVBytes) * opts.FeeRate)
	if total < commitAmount+commitFee {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, total, commitAmount+commitFee)
	}
	change := total - commitAmount - commitFee

	unsignedPSBT, err := buildCommitPSBT(selected, commitScript, commitAmount, opts.ChangeAddress, change, opts.Network)
	if err != nil {
		return nil, err
	}

	return &CommitTransaction{
		CommitPSBT:    unsignedPSBT,
		CommitAddress: addr.EncodeAddress(),
		CommitAmount:  commitAmount,
		RevealPrivateKey: revealPriv,
		RevealPublicKey:  revealPub,
		InscriptionScript: InscriptionScript{
			Script:       script,
			ControlBlock: controlBlockBytes,
			LeafVersion:  byte(opts.leafVersion()),
		},
		Fees:          Fees{Commit: commitFee},
		SelectedUtxos: selected,
	}, nil
}

const secp256k1OddPrefix = 0x03

func (o CommitOptions) leafVersion() txscript.TapscriptLeafVersion {
	return txscript.BaseLeafVersion
}

// buildInscriptionScript assembles the ord-style envelope:
// OP_FALSE OP_IF "ord" OP_1 <contentType> [OP_2 <metadata>] OP_0 <content chunks> OP_ENDIF.
func buildInscriptionScript(contentType string, metadata, content []byte) ([]byte, error) {
	b := txscript.NewScriptBuilder()
	b.AddOp(txscript.OP_FALSE)
	b.AddOp(txscript.OP_IF)
	b.AddData([]byte("ord"))
	b.AddOp(txscript.OP_1)
	b.AddData([]byte(contentType))
	if len(metadata) > 0 {
		b.AddOp(txscript.OP_2)
		for _, chunk := range chunk(metadata, maxScriptElementSize) {
			b.AddData(chunk)
		}
	}
	b.AddOp(txscript.OP_0)
	for _, c := range chunk(content, maxScriptElementSize) {
		b.AddData(c)
	}
	b.AddOp(txscript.OP_ENDIF)
	return b.Script()
}

func chunk(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	var out [][]byte
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		out = append(out, data[:n])
		data = data[n:]
	}
	return out
}

// estimateCommitVBytes is a rough, deliberately simple model: a p2tr
// keyspend input is ~58 vB, a p2tr output ~43 vB, a change output the
// same, plus a fixed overhead.
func estimateCommitVBytes(numInputs int) int {
	return 11 + numInputs*58 + 2*43
}

// estimateRevealVBytes accounts for the script-path spend's witness: the
// inscription script itself, a control block (~33-65 bytes), and a
// signature.
func estimateRevealVBytes(script []byte) int {
	witnessVBytes := (len(script) + 65 + 64) / 4
	return 50 + witnessVBytes
}

func selectUtxos(utxos []Utxo, target int64, feeRate float64) ([]Utxo, int64, error) {
	sorted := make([]Utxo, len(utxos))
	copy(sorted, utxos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	var selected []Utxo
	var total int64
	for _, u := range sorted {
		selected = append(selected, u)
		total += u.Value
		fee := int64(float64(estimateCommitVBytes(len(selected))) * feeRate)
		if total >= target+fee {
			return selected, total, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientFunds, total, target)
}

func buildCommitPSBT(utxos []Utxo, commitScript []byte, commitAmount int64, changeAddress string, change int64, network *chaincfg.Params) ([]byte, error) {
	outPoints := make([]*wire.OutPoint, len(utxos))
	for i, u := range utxos {
		hash, err := chainHashFromHex(u.Txid)
		if err != nil {
			return nil, fmt.Errorf("inscription: parse utxo txid: %w", err)
		}
		outPoints[i] = wire.NewOutPoint(hash, u.Vout)
	}

	outs := []*wire.TxOut{wire.NewTxOut(commitAmount, commitScript)}
	if change > DustLimit {
		changeAddr, err := btcutil.DecodeAddress(changeAddress, network)
		if err != nil {
			return nil, fmt.Errorf("inscription: parse change address: %w", err)
		}
		changeScript, err := txscript.PayToAddrScript(changeAddr)
		if err != nil {
			return nil, fmt.Errorf("inscription: change pkScript: %w", err)
		}
		outs = append(outs, wire.NewTxOut(change, changeScript))
	}

	sequences := make([]uint32, len(utxos))
	for i := range sequences {
		sequences[i] = wire.MaxTxInSequenceNum
	}

	packet, err := newPSBT(outPoints, outs, 2, 0, sequences)
	if err != nil {
		return nil, fmt.Errorf("inscription: build psbt: %w", err)
	}
	for i, u := range utxos {
		packet.Inputs[i].WitnessUtxo = wire.NewTxOut(u.Value, u.PkScript)
	}
	return serializePSBT(packet)
}

// randomBytes is used only by tests that need filler content.
func randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}
