package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/originals/cel/pkg/multikey"
	"github.com/originals/cel/pkg/signing"
)

// keyFile is the JSON form a key file may take; the alternative is a raw
// multibase private key string beginning "z".
type keyFile struct {
	PrivateKey string `json:"privateKey"`
}

// loadSigner reads an Ed25519 private key from path. The file holds either
// a raw multibase Ed25519 private key or JSON {"privateKey": "z..."}; any
// other content is rejected.
func loadSigner(path string) (signing.Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	content := strings.TrimSpace(string(raw))

	var encoded string
	switch {
	case strings.HasPrefix(content, "z"):
		encoded = content
	case strings.HasPrefix(content, "{"):
		var kf keyFile
		if err := json.Unmarshal([]byte(content), &kf); err != nil {
			return nil, fmt.Errorf("parse key file %s: %w", path, err)
		}
		if !strings.HasPrefix(kf.PrivateKey, "z") {
			return nil, fmt.Errorf("key file %s: privateKey is not a multibase key", path)
		}
		encoded = kf.PrivateKey
	default:
		return nil, fmt.Errorf("key file %s: expected a multibase private key or {\"privateKey\": ...}", path)
	}

	seed, err := multikey.DecodeEd25519PrivateKey(multikey.PrivateKey(encoded))
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	return signing.NewEd25519Signer(ed25519.NewKeyFromSeed(seed), "")
}

// generateSigner creates a fresh Ed25519 keypair and prints both keys to
// stderr — never stdout, which carries the serialized log.
func generateSigner() (signing.Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	pubKey, err := multikey.NewEd25519PublicKey(pub)
	if err != nil {
		return nil, err
	}
	privKey, err := multikey.NewEd25519PrivateKey(priv.Seed())
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "generated keypair (store the private key securely):\n")
	fmt.Fprintf(os.Stderr, "  public:  %s\n", pubKey)
	fmt.Fprintf(os.Stderr, "  private: %s\n", privKey)
	return signing.NewEd25519Signer(priv, "")
}

// controllerDID strips the key fragment off a verification method,
// yielding the controller DID recorded in create events.
func controllerDID(verificationMethod string) string {
	if i := strings.Index(verificationMethod, "#"); i >= 0 {
		return verificationMethod[:i]
	}
	return verificationMethod
}
