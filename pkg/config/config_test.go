package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
logging:
  level: debug
  format: console
storage:
  backend: https
witness:
  url: https://witness.example.com/attest
  timeout: 5s
bitcoin:
  network: ${BITCOIN_NETWORK:-regtest}
  fee_rate: 12.5
webvh:
  domain: ${WEBVH_DOMAIN:-example.com}
batch:
  max_concurrent: 4
  single_transaction: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("BITCOIN_NETWORK", "signet")
	os.Unsetenv("WEBVH_DOMAIN")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "https", cfg.Storage.Backend)
	require.Equal(t, 5*time.Second, cfg.Witness.Timeout.Duration())
	require.Equal(t, "signet", cfg.Bitcoin.Network)
	require.Equal(t, 12.5, cfg.Bitcoin.FeeRate)
	require.Equal(t, "example.com", cfg.WebVH.Domain)
	require.Equal(t, 4, cfg.Batch.MaxConcurrent)
	require.True(t, cfg.Batch.SingleTransaction)

	params, err := cfg.Bitcoin.Params()
	require.NoError(t, err)
	require.Equal(t, &chaincfg.SigNetParams, params)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "memory", cfg.Storage.Backend)
	require.Equal(t, 10*time.Second, cfg.Witness.Timeout.Duration())
	require.Equal(t, "testnet", cfg.Bitcoin.Network)
	require.Equal(t, 8, cfg.Batch.MaxConcurrent)
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "postgres"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsFirestoreWithoutProject(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "firestore"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadWitnessURL(t *testing.T) {
	cfg := Default()
	cfg.Witness.URL = "ftp://example.com"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownNetwork(t *testing.T) {
	cfg := Default()
	cfg.Bitcoin.Network = "moonnet"
	require.Error(t, cfg.Validate())
}

func TestDurationSecondsForm(t *testing.T) {
	cfg, err := Load(writeConfig(t, "witness:\n  timeout: 30\n"))
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.Witness.Timeout.Duration())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "https")
	t.Setenv("BATCH_MAX_CONCURRENT", "2")
	t.Setenv("WITNESS_TIMEOUT_SECONDS", "3")

	cfg := LoadFromEnv()
	require.Equal(t, "https", cfg.Storage.Backend)
	require.Equal(t, 2, cfg.Batch.MaxConcurrent)
	require.Equal(t, 3*time.Second, cfg.Witness.Timeout.Duration())
}
