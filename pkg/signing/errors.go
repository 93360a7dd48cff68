package signing

import "errors"

// Sentinel errors for proof construction and verification.
var (
	// ErrProofMalformed is returned when a proof's fields cannot be parsed:
	// an invalid multibase proofValue, or a signature length that does not
	// match the declared cryptosuite's curve.
	ErrProofMalformed = errors.New("signing: proof malformed")

	// ErrKeyResolutionFailed is returned when a proof's verificationMethod
	// cannot be resolved to a public key, either because no DocumentLoader
	// was supplied or because the loader returned an error.
	ErrKeyResolutionFailed = errors.New("signing: key resolution failed")

	// ErrSignatureInvalid is returned when a proof's signature does not
	// verify against the resolved public key and canonicalized payload.
	ErrSignatureInvalid = errors.New("signing: signature invalid")

	// ErrUnsupportedCryptosuite is returned for any cryptosuite other than
	// eddsa-jcs-2022, which is the only one the core can verify.
	ErrUnsupportedCryptosuite = errors.New("signing: unsupported cryptosuite")
)
