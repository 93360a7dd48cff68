package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/layer/btco"
	"github.com/originals/cel/pkg/layer/webvh"
	"github.com/originals/cel/pkg/signing"
	"github.com/originals/cel/pkg/storage"
)

var (
	migrateLog       string
	migrateTo        string
	migrateDomain    string
	migrateWallet    string
	migrateKey       string
	migrateOutput    string
	migrateFormat    string
	migrateResources []string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate a log to the webvh or btco layer and emit the extended log",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateLog, "log", "", "path to the current log artifact")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target layer: webvh or btco")
	migrateCmd.Flags().StringVar(&migrateDomain, "domain", "", "publication domain (webvh)")
	migrateCmd.Flags().StringVar(&migrateWallet, "wallet", "", "path to a wallet JSON file (btco)")
	migrateCmd.Flags().StringVar(&migrateKey, "key", "", "path to the controller's Ed25519 key file")
	migrateCmd.Flags().StringVar(&migrateOutput, "output", "", "write the extended log here instead of stdout")
	migrateCmd.Flags().StringVar(&migrateFormat, "format", "json", "output format: json or cbor")
	migrateCmd.Flags().StringArrayVar(&migrateResources, "resource", nil, "resource content file for web publication (repeatable)")
	_ = migrateCmd.MarkFlagRequired("log")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log, err := readLog(migrateLog)
	if err != nil {
		return err
	}

	var signer signing.Signer
	if migrateKey != "" {
		signer, err = loadSigner(migrateKey)
	} else {
		signer, err = generateSigner()
	}
	if err != nil {
		return err
	}

	var migrated *cel.EventLog
	switch migrateTo {
	case "webvh":
		migrated, err = migrateWebVH(cmd, log, signer)
	case "btco":
		migrated, err = migrateBtco(cmd, log, signer)
	default:
		return fmt.Errorf("unknown migration target %q (want webvh or btco)", migrateTo)
	}
	if err != nil {
		return err
	}

	return writeLog(migrated, migrateFormat, migrateOutput)
}

func migrateWebVH(cmd *cobra.Command, log *cel.EventLog, signer signing.Signer) (*cel.EventLog, error) {
	domain := migrateDomain
	if domain == "" {
		domain = cfg.WebVH.Domain
	}
	if domain == "" {
		return nil, fmt.Errorf("webvh migration requires --domain (or webvh.domain in the config)")
	}

	adapter, err := storageFromConfig(cmd)
	if err != nil {
		return nil, err
	}

	// The log carries only digests; --resource supplies the bytes to
	// publish, matched to their references by content digest.
	content := make(map[string][]byte, len(migrateResources))
	for _, path := range migrateResources {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read resource: %w", err)
		}
		dg, err := digest.OfBytes(raw)
		if err != nil {
			return nil, err
		}
		content[string(dg)] = raw
	}

	done := logger.StartTimer("migrate:webvh")
	defer done()
	return webvh.New(adapter).Migrate(cmd.Context(), log, domain, content, signer, signing.SignOptions{})
}

func migrateBtco(cmd *cobra.Command, log *cel.EventLog, signer signing.Signer) (*cel.EventLog, error) {
	if migrateWallet == "" {
		return nil, fmt.Errorf("btco migration requires --wallet")
	}
	wallet, err := loadWallet(migrateWallet)
	if err != nil {
		return nil, err
	}
	utxos, err := wallet.utxos()
	if err != nil {
		return nil, err
	}

	feeRate := wallet.FeeRate
	if feeRate == 0 {
		feeRate = cfg.Bitcoin.FeeRate
	}
	network, err := cfg.Bitcoin.Params()
	if err != nil {
		return nil, err
	}
	destination := wallet.Destination
	if destination == "" {
		destination = cfg.Bitcoin.Destination
	}

	done := logger.StartTimer("migrate:btco")
	defer done()
	return btco.New(mockProvider{}).Migrate(cmd.Context(), log, btco.MigrateOptions{
		Utxos:         utxos,
		ChangeAddress: wallet.ChangeAddress,
		Destination:   destination,
		FeeRate:       feeRate,
		Network:       network,
	}, signer, signing.SignOptions{})
}

func storageFromConfig(cmd *cobra.Command) (storage.Adapter, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "https":
		return storage.NewHTTPS(), nil
	case "firestore":
		return storage.NewFirestore(cmd.Context(), &storage.FirestoreConfig{
			ProjectID:       cfg.Storage.Firestore.ProjectID,
			CredentialsFile: cfg.Storage.Firestore.CredentialsFile,
			Enabled:         true,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
