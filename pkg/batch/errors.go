package batch

import "errors"

// Common errors for the batch package.
var (
	ErrBatchEmpty         = errors.New("batch: input list must contain at least one item")
	ErrInvalidResourceSet = errors.New("batch: resource list missing required fields")
	ErrInvalidDomain      = errors.New("batch: domain is not a well-formed hostname")
	ErrNotBtcoLayer       = errors.New("batch: asset is not at the btco layer")
	ErrInvalidAddress     = errors.New("batch: destination is not a well-formed bech32/bech32m address")
	ErrAborted            = errors.New("batch: aborted after first failure (continueOnError=false)")
)
