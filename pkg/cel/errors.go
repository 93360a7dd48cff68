package cel

import "errors"

// Sentinel errors for CEL state-transition failures. These are surfaced as
// errors, not as VerificationResult entries: construction and migration are
// fail-fast, so encountering one of these means nothing was appended.
var (
	// ErrLogClosed is returned by Update/Deactivate when the log's last
	// entry is already a deactivate.
	ErrLogClosed = errors.New("cel: log is closed (already deactivated)")

	// ErrEmptyLog is returned by any append operation against a log with
	// no events, and by ReplayState/Verify on a log that was never
	// created.
	ErrEmptyLog = errors.New("cel: event log has no events")
)
