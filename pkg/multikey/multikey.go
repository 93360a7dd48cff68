package multikey

// PublicKey and PrivateKey are the multibase-encoded string forms persisted
// in DID documents, signer configuration, and CLI key files. Use EncodeKey/
// DecodeKey to convert to and from raw key material.
type PublicKey string
type PrivateKey string

func (k PublicKey) String() string  { return string(k) }
func (k PrivateKey) String() string { return string(k) }

// NewEd25519PublicKey encodes a 32-byte Ed25519 public key.
func NewEd25519PublicKey(raw []byte) (PublicKey, error) {
	s, err := EncodeKey(Ed25519, raw)
	return PublicKey(s), err
}

// NewEd25519PrivateKey encodes a 32-byte Ed25519 seed/private key.
func NewEd25519PrivateKey(raw []byte) (PrivateKey, error) {
	s, err := EncodeKey(Ed25519Priv, raw)
	return PrivateKey(s), err
}

// NewSecp256k1PublicKey encodes a 33-byte compressed secp256k1 public key.
func NewSecp256k1PublicKey(raw []byte) (PublicKey, error) {
	s, err := EncodeKey(Secp256k1, raw)
	return PublicKey(s), err
}

// DecodeEd25519PublicKey decodes and validates an Ed25519 public multikey.
func DecodeEd25519PublicKey(k PublicKey) ([]byte, error) {
	return DecodeKey(Ed25519, string(k))
}

// DecodeEd25519PrivateKey decodes and validates an Ed25519 private multikey.
func DecodeEd25519PrivateKey(k PrivateKey) ([]byte, error) {
	return DecodeKey(Ed25519Priv, string(k))
}

// DecodeSecp256k1PublicKey decodes and validates a secp256k1 public multikey.
func DecodeSecp256k1PublicKey(k PublicKey) ([]byte, error) {
	return DecodeKey(Secp256k1, string(k))
}
