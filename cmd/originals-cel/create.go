package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/originals/cel/pkg/cel"
	"github.com/originals/cel/pkg/digest"
	"github.com/originals/cel/pkg/layer/peer"
	"github.com/originals/cel/pkg/signing"
)

var (
	createName   string
	createFiles  []string
	createKey    string
	createOutput string
	createFormat string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a peer-layer asset from local files and emit its signed log",
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "asset name")
	createCmd.Flags().StringArrayVar(&createFiles, "file", nil, "resource file (repeatable)")
	createCmd.Flags().StringVar(&createKey, "key", "", "path to an Ed25519 key file; a fresh keypair is generated when omitted")
	createCmd.Flags().StringVar(&createOutput, "output", "", "write the log here instead of stdout")
	createCmd.Flags().StringVar(&createFormat, "format", "json", "output format: json or cbor")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("file")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var signer signing.Signer
	var err error
	if createKey != "" {
		signer, err = loadSigner(createKey)
	} else {
		signer, err = generateSigner()
	}
	if err != nil {
		return err
	}

	resources := make([]cel.ExternalReference, 0, len(createFiles))
	for _, path := range createFiles {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read resource: %w", err)
		}
		dg, err := digest.OfBytes(raw)
		if err != nil {
			return err
		}
		resources = append(resources, cel.ExternalReference{
			DigestMultibase: dg,
			MediaType:       mediaTypeFor(path),
		})
	}

	done := logger.StartTimer("create")
	log, err := peer.New().Create(ctx, createName, resources, controllerDID(signer.VerificationMethod()),
		time.Now().UTC().Format(time.RFC3339), signer, signing.SignOptions{})
	done()
	if err != nil {
		return err
	}

	logger.Info("asset created", map[string]interface{}{
		"name":      createName,
		"resources": len(resources),
	})
	return writeLog(log, createFormat, createOutput)
}

func mediaTypeFor(path string) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
