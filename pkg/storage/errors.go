// Package storage implements the pluggable storage adapter (C9): a
// (domain, path)-keyed put/get/exists contract with three concrete
// backends (in-memory, HTTPS URI construction, Firestore).
package storage

import "errors"

// ErrNotFound is returned by Get when no value has been Put under the
// given (domain, path).
var ErrNotFound = errors.New("storage: not found")
