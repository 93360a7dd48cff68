// Package inscription constructs Bitcoin ordinal-style commit/reveal
// inscription transactions (C10): the btco layer's anchoring mechanism.
// The core only builds PSBTs and scripts — it never signs a commit input
// with real key material beyond the ephemeral reveal key, and it never
// broadcasts.
package inscription

import "errors"

var (
	// ErrInsufficientFunds is returned when the supplied UTXOs cannot
	// cover the commit amount plus estimated fees.
	ErrInsufficientFunds = errors.New("inscription: insufficient funds")

	// ErrContentTooLarge is returned when the inscription envelope would
	// exceed the consensus witness size limit.
	ErrContentTooLarge = errors.New("inscription: content too large")

	// ErrInvalidFeeRate is returned for a non-positive feeRate.
	ErrInvalidFeeRate = errors.New("inscription: invalid fee rate")
)
