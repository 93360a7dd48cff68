package inscription

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

var testTxid = strings.Repeat("ab", 32)

func testAddress(t *testing.T, net *chaincfg.Params) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(priv.PubKey()), net)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func TestCreateCommitTransactionRejectsInvalidFeeRate(t *testing.T) {
	_, err := CreateCommitTransaction(CommitOptions{FeeRate: 0})
	require.ErrorIs(t, err, ErrInvalidFeeRate)
}

func TestCreateCommitTransactionRejectsInsufficientFunds(t *testing.T) {
	net := &chaincfg.RegressionNetParams
	_, err := CreateCommitTransaction(CommitOptions{
		Content:       []byte("hello"),
		ContentType:   "text/plain",
		Utxos:         []Utxo{{Txid: testTxid, Vout: 0, Value: 100}},
		ChangeAddress: testAddress(t, net),
		FeeRate:       10,
		Network:       net,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestCreateCommitTransactionSelectsUtxosAndBuildsPSBT(t *testing.T) {
	net := &chaincfg.RegressionNetParams
	commit, err := CreateCommitTransaction(CommitOptions{
		Content:       []byte("hello world"),
		ContentType:   "text/plain",
		Utxos:         []Utxo{{Txid: testTxid, Vout: 0, Value: 100_000, PkScript: []byte{0x51, 0x20}}},
		ChangeAddress: testAddress(t, net),
		FeeRate:       5,
		Network:       net,
	})
	require.NoError(t, err)
	require.NotEmpty(t, commit.CommitPSBT)
	require.GreaterOrEqual(t, commit.CommitAmount, DustLimit)
	require.Equal(t, byte(0xc0), commit.InscriptionScript.LeafVersion)
	require.Regexp(t, `^bcrt1p`, commit.CommitAddress)
}

func TestBuildInscriptionScriptChunksLargeContent(t *testing.T) {
	content := randomBytes(maxScriptElementSize*3 + 10)
	script, err := buildInscriptionScript("application/octet-stream", nil, content)
	require.NoError(t, err)
	require.NotEmpty(t, script)
}
