package inscription

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// RevealOptions parameterizes CreateRevealTransaction.
type RevealOptions struct {
	Commit            *CommitTransaction
	CommitTxid        string // txid of the broadcast commit transaction
	Destination       string
	DestinationAmount int64 // defaults to DustLimit
	Network           *chaincfg.Params
}

// CreateRevealTransaction spends commit's Taproot output via the script
// path, revealing the inscription script in the witness, and sends the
// configured amount (dust by default) to destination. It returns the
// serialized, witness-signed transaction and its inscription ID
// (reveal_txid + "i0").
func CreateRevealTransaction(opts RevealOptions) ([]byte, string, error) {
	amount := opts.DestinationAmount
	if amount == 0 {
		amount = DustLimit
	}

	commitHash, err := chainHashFromHex(opts.CommitTxid)
	if err != nil {
		return nil, "", fmt.Errorf("inscription: parse commit txid: %w", err)
	}

	destAddr, err := btcutil.DecodeAddress(opts.Destination, opts.Network)
	if err != nil {
		return nil, "", fmt.Errorf("inscription: parse destination address: %w", err)
	}
	destScript, err := txscript.PayToAddrScript(destAddr)
	if err != nil {
		return nil, "", fmt.Errorf("inscription: destination pkScript: %w", err)
	}

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(commitHash, 0),
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(amount, destScript))

	commitPkScript, err := commitPkScript(opts.Commit, opts.Network)
	if err != nil {
		return nil, "", err
	}
	prevOutFetcher := txscript.NewCannedPrevOutputFetcher(commitPkScript, opts.Commit.CommitAmount)
	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)

	sigHash, err := txscript.CalcTapscriptSignaturehash(
		sigHashes, txscript.SigHashDefault, tx, 0, prevOutFetcher,
		txscript.NewTapLeaf(txscript.BaseLeafVersion, opts.Commit.InscriptionScript.Script),
	)
	if err != nil {
		return nil, "", fmt.Errorf("inscription: compute tapscript sighash: %w", err)
	}
	sig, err := schnorr.Sign(opts.Commit.RevealPrivateKey, sigHash)
	if err != nil {
		return nil, "", fmt.Errorf("inscription: sign reveal: %w", err)
	}

	tx.TxIn[0].Witness = wire.TxWitness{
		sig.Serialize(),
		opts.Commit.InscriptionScript.Script,
		opts.Commit.InscriptionScript.ControlBlock,
	}

	raw, err := serializeTx(tx)
	if err != nil {
		return nil, "", err
	}

	revealTxid := tx.TxHash()
	inscriptionID := fmt.Sprintf("%si0", revealTxid.String())
	return raw, inscriptionID, nil
}

func commitPkScript(commit *CommitTransaction, network *chaincfg.Params) ([]byte, error) {
	merkleRoot := tapLeafMerkleRoot(commit.InscriptionScript.Script)
	outputKey := txscript.ComputeTaprootOutputKey(commit.RevealPublicKey, merkleRoot[:])
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(outputKey), network)
	if err != nil {
		return nil, fmt.Errorf("inscription: rebuild commit address: %w", err)
	}
	return txscript.PayToAddrScript(addr)
}

func tapLeafMerkleRoot(script []byte) chainhash.Hash {
	leaf := txscript.NewTapLeaf(txscript.BaseLeafVersion, script)
	return leaf.TapHash()
}

func serializeTx(tx *wire.MsgTx) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
