package inscription

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

func chainHashFromHex(txid string) (*chainhash.Hash, error) {
	raw, err := hex.DecodeString(txid)
	if err != nil {
		return nil, fmt.Errorf("invalid txid hex: %w", err)
	}
	hash, err := chainhash.NewHash(reverseBytes(raw))
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// reverseBytes converts a txid's display (big-endian) hex to the
// internal little-endian byte order chainhash.Hash expects.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func newPSBT(outPoints []*wire.OutPoint, outs []*wire.TxOut, version int32, lockTime uint32, sequences []uint32) (*psbt.Packet, error) {
	return psbt.New(outPoints, outs, version, lockTime, sequences)
}

func serializePSBT(p *psbt.Packet) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
