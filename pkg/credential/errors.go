// Package credential implements the verifiable-credential subsystem
// (C8): issuing typed credentials bound to CEL events, chaining them by
// hash, and validating selective-disclosure pointer partitions.
package credential

import "errors"

// ErrInvalidPointer is returned when a JSON Pointer supplied for
// selective disclosure does not begin with "/".
var ErrInvalidPointer = errors.New("credential: invalid json pointer")

// ErrChainBroken is returned by VerifyChain when an adjacent pair's
// previousCredential hash does not match the actual predecessor.
var ErrChainBroken = errors.New("credential: chain broken")
