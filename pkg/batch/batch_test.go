package batch

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/inscription"
	"github.com/originals/cel/pkg/layer/btco"
	"github.com/originals/cel/pkg/layer/peer"
	"github.com/originals/cel/pkg/layer/webvh"
	"github.com/originals/cel/pkg/signing"
	"github.com/originals/cel/pkg/storage"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T) signing.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := signing.NewEd25519Signer(priv, "")
	require.NoError(t, err)
	return signer
}

func testResource(t *testing.T, content string) (cel.ExternalReference, []byte) {
	t.Helper()
	bytes := []byte(content)
	d, err := digest.OfBytes(bytes)
	require.NoError(t, err)
	return cel.ExternalReference{DigestMultibase: d, MediaType: "text/plain"}, bytes
}

func TestBatchCreateDispatchesConcurrentlyAndAggregates(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)

	res1, _ := testResource(t, "alpha")
	res2, _ := testResource(t, "beta")

	resourceLists := []ResourceSet{
		{Name: "asset-1", Resources: []cel.ExternalReference{res1}, Creator: signer.VerificationMethod(), CreatedAt: "2026-01-01T00:00:00Z"},
		{Name: "asset-2", Resources: []cel.ExternalReference{res2}, Creator: signer.VerificationMethod(), CreatedAt: "2026-01-01T00:00:00Z"},
	}

	result, err := BatchCreate(ctx, resourceLists, signer, signing.SignOptions{}, Options{ValidateFirst: true, MaxConcurrent: 2})
	require.NoError(t, err)
	require.Equal(t, "create", result.Operation)
	require.Len(t, result.Successful, 2)
	require.Empty(t, result.Failed)
	require.Equal(t, 2, result.TotalProcessed)
	require.NotEmpty(t, result.BatchID)
}

func TestBatchCreateRejectsEmptyResourceSetWhenValidateFirst(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)

	_, err := BatchCreate(ctx, []ResourceSet{{Name: "empty", Creator: "x", CreatedAt: "2026-01-01T00:00:00Z"}}, signer, signing.SignOptions{}, Options{ValidateFirst: true})
	require.ErrorIs(t, err, ErrInvalidResourceSet)
}

func TestBatchCreateContinueOnErrorCollectsFailures(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)

	res, _ := testResource(t, "gamma")
	resourceLists := []ResourceSet{
		{Name: "ok", Resources: []cel.ExternalReference{res}, Creator: signer.VerificationMethod(), CreatedAt: "2026-01-01T00:00:00Z"},
		{Name: "bad", Resources: nil, Creator: signer.VerificationMethod(), CreatedAt: "2026-01-01T00:00:00Z"},
	}

	result, err := BatchCreate(ctx, resourceLists, signer, signing.SignOptions{}, Options{ContinueOnError: true})
	require.NoError(t, err)
	require.Len(t, result.Successful, 1)
	require.Len(t, result.Failed, 1)
	require.Equal(t, 2, result.TotalProcessed)
}

func TestBatchPublishRejectsMalformedDomain(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)

	res, content := testResource(t, "delta")
	peerLog, err := peerCreate(ctx, signer, res)
	require.NoError(t, err)

	_, err = BatchPublish(ctx, []PublishItem{{Log: peerLog, ResourceContent: map[string][]byte{res.DigestMultibase.String(): content}}}, "not a domain", signer, signing.SignOptions{}, storage.NewMemory(), Options{})
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestBatchPublishDispatchesWebVHMigration(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)

	res, content := testResource(t, "epsilon")
	peerLog, err := peerCreate(ctx, signer, res)
	require.NoError(t, err)

	result, err := BatchPublish(ctx, []PublishItem{{Log: peerLog, ResourceContent: map[string][]byte{res.DigestMultibase.String(): content}}}, "example.com", signer, signing.SignOptions{}, storage.NewMemory(), Options{})
	require.NoError(t, err)
	require.Len(t, result.Successful, 1)

	state, err := cel.ReplayState(result.Successful[0].Result)
	require.NoError(t, err)
	require.Equal(t, cel.LayerWebVH, state.Layer)
}

func TestBatchTransferRejectsNonBtcoAsset(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)

	res, _ := testResource(t, "zeta")
	peerLog, err := peerCreate(ctx, signer, res)
	require.NoError(t, err)

	result, err := BatchTransfer(ctx, []TransferPair{{Log: peerLog, Destination: "bc1qexampleexampleexampleexampleexample"}}, signer, signing.SignOptions{}, Options{})
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	require.ErrorIs(t, result.Failed[0].Err, ErrNotBtcoLayer)
}

func TestBatchInscribeSingleTransactionSplitsFeeProportionally(t *testing.T) {
	ctx := context.Background()
	signer := testSigner(t)
	net := &chaincfg.RegressionNetParams

	res1, content1 := testResource(t, "small")
	res2, content2 := testResource(t, "a much larger resource body than the other one")

	log1, err := webvhMigrate(ctx, signer, res1, content1)
	require.NoError(t, err)
	log2, err := webvhMigrate(ctx, signer, res2, content2)
	require.NoError(t, err)

	utxos := []inscription.Utxo{{Txid: "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"[:64], Vout: 0, Value: 1_000_000, PkScript: []byte{0x51, 0x20}}}
	opts := InscribeOptions{
		SingleTransaction: true,
		MigrateOptions: btcoMigrateOpts(t, net, utxos),
	}

	result, err := BatchInscribe(ctx, []*cel.EventLog{log1, log2}, opts, signer, signing.SignOptions{}, fakeBatchProvider{})
	require.NoError(t, err)
	require.Len(t, result.Successful, 2)
	require.NotEmpty(t, result.Txid)
	require.NotNil(t, result.CostSavings)

	state1, err := cel.ReplayState(result.Successful[0].Result)
	require.NoError(t, err)
	require.Equal(t, cel.LayerBtco, state1.Layer)
}

func TestCostSplitSumsExactlyToBatchFee(t *testing.T) {
	split := CostSplit([]int{10, 20, 33}, 1000)
	var sum int64
	for _, c := range split {
		sum += c.FeeSatoshi
	}
	require.EqualValues(t, 1000, sum)
}

func TestCostSplitProportionalToByteLength(t *testing.T) {
	split := CostSplit([]int{100, 100}, 1000)
	require.Equal(t, split[0].FeeSatoshi, split[1].FeeSatoshi)
}

func TestComputeSavingsPercentage(t *testing.T) {
	savings := ComputeSavings([]int64{1000, 1000, 1000, 1000, 1000}, 2000)
	require.EqualValues(t, 3000, savings.Amount)
	require.InDelta(t, 60.0, savings.Percentage, 0.01)
}

// --- helpers grounding batch tests on the layer packages' own test setup ---

func peerCreate(ctx context.Context, signer signing.Signer, res cel.ExternalReference) (*cel.EventLog, error) {
	return peer.New().Create(ctx, "asset", []cel.ExternalReference{res}, signer.VerificationMethod(), "2026-01-01T00:00:00Z", signer, signing.SignOptions{})
}

func webvhMigrate(ctx context.Context, signer signing.Signer, res cel.ExternalReference, content []byte) (*cel.EventLog, error) {
	peerLog, err := peerCreate(ctx, signer, res)
	if err != nil {
		return nil, err
	}
	return webvh.New(storage.NewMemory()).Migrate(ctx, peerLog, "example.com", map[string][]byte{res.DigestMultibase.String(): content}, signer, signing.SignOptions{})
}

type fakeBatchProvider struct{}

func (fakeBatchProvider) InscribeData(_ context.Context, commit *inscription.CommitTransaction, _ []byte) (*inscription.InscribeResult, error) {
	return &inscription.InscribeResult{
		Txid:          "feedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface",
		InscriptionID: "feedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacei0",
		Satoshi:       commit.CommitAmount,
	}, nil
}

func btcoMigrateOpts(t *testing.T, net *chaincfg.Params, utxos []inscription.Utxo) btco.MigrateOptions {
	t.Helper()
	return btco.MigrateOptions{
		Utxos:         utxos,
		ChangeAddress: btcoTestAddress(t, net),
		Destination:   btcoTestAddress(t, net),
		FeeRate:       5,
		Network:       net,
	}
}

func btcoTestAddress(t *testing.T, net *chaincfg.Params) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := btcutil.NewAddressTaproot(schnorr.SerializePubKey(priv.PubKey()), net)
	require.NoError(t, err)
	return addr.EncodeAddress()
}
