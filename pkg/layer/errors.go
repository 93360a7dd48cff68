// Package layer defines the Manager sum-type contract shared by the three
// concrete layer managers (pkg/layer/peer, pkg/layer/webvh,
// pkg/layer/btco) and the migration-path invariants that hold across all
// of them.
package layer

import "errors"

var (
	// ErrInvalidMigrationPath is returned when a migration would revert a
	// layer or skip one (e.g. peer straight to btco).
	ErrInvalidMigrationPath = errors.New("layer: invalid migration path")

	// ErrNoOpMigration is returned when the log is already at the
	// requested target layer.
	ErrNoOpMigration = errors.New("layer: already at target layer")
)

// Kind identifies one of the three layers an asset can occupy.
type Kind string

const (
	KindPeer  Kind = "peer"
	KindWebVH Kind = "webvh"
	KindBtco  Kind = "btco"
)

// rank orders layers for the monotonicity check; higher is more durable.
var rank = map[Kind]int{KindPeer: 0, KindWebVH: 1, KindBtco: 2}

// CheckMigration enforces the cross-manager invariants: migration only
// ever moves to a strictly more durable layer, one step at a time.
func CheckMigration(from, to Kind) error {
	if from == to {
		return ErrNoOpMigration
	}
	fr, ok := rank[from]
	if !ok {
		return ErrInvalidMigrationPath
	}
	tr, ok := rank[to]
	if !ok {
		return ErrInvalidMigrationPath
	}
	if tr != fr+1 {
		return ErrInvalidMigrationPath
	}
	return nil
}
